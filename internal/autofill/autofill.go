// Package autofill looks up published details for a coffee lot so a new bean
// entry can be completed from the roaster and bean name alone.
package autofill

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// ErrLookupFailed wraps any failure talking to or understanding the lookup backend.
var ErrLookupFailed = errors.New("failed to fetch coffee details")

// MaxFlavorNotes is how many suggested tasting notes are kept when merging.
const MaxFlavorNotes = 3

// DefaultBeanQuery is searched for when neither farm nor variety is known.
const DefaultBeanQuery = "Coffee"

// Suggestion holds the details a lookup found. Empty fields mean unknown.
type Suggestion struct {
	Country     string   `json:"country"`
	Region      string   `json:"region"`
	Farm        string   `json:"farm"`
	Variety     string   `json:"variety"`
	Process     string   `json:"process"`
	Altitude    string   `json:"altitude"`
	FlavorNotes []string `json:"flavorNotes"`
}

// Lookup finds details for beanName as sold by roaster. A nil suggestion with
// a nil error means nothing was found.
type Lookup interface {
	Lookup(ctx context.Context, roaster, beanName string) (*Suggestion, error)
}

// BeanQuery picks the bean name to search for: the farm, else the variety,
// else DefaultBeanQuery.
func BeanQuery(farm, variety string) string {
	if f := strings.TrimSpace(farm); f != "" {
		return f
	}
	if v := strings.TrimSpace(variety); v != "" {
		return v
	}
	return DefaultBeanQuery
}

// Merge returns a copy of draft completed with s. Draft values are kept
// wherever the suggestion is empty; flavor notes are replaced only when the
// suggestion has some, capped at MaxFlavorNotes.
func Merge(draft *models.CreateBeanRequest, s *Suggestion) *models.CreateBeanRequest {
	merged := *draft
	merged.FlavorNotes = append([]string(nil), draft.FlavorNotes...)
	if s == nil {
		return &merged
	}

	merged.Country = prefer(s.Country, draft.Country)
	merged.Region = prefer(s.Region, draft.Region)
	merged.Farm = prefer(s.Farm, draft.Farm)
	merged.Variety = prefer(s.Variety, draft.Variety)
	merged.Process = prefer(s.Process, draft.Process)
	merged.Altitude = prefer(s.Altitude, draft.Altitude)

	if len(s.FlavorNotes) > 0 {
		notes := s.FlavorNotes
		if len(notes) > MaxFlavorNotes {
			notes = notes[:MaxFlavorNotes]
		}
		merged.FlavorNotes = append([]string(nil), notes...)
	}
	return &merged
}

func prefer(suggested, current string) string {
	if strings.TrimSpace(suggested) != "" {
		return suggested
	}
	return current
}

// Prompt builds the search request sent to the model.
func Prompt(roaster, beanName string) string {
	return fmt.Sprintf(`Find technical details for the coffee bean %q from roaster %q.
I need the following specific details:
- Country of origin
- Region
- Farm or Station
- Variety (e.g. Gesha, Caturra)
- Processing method (Natural, Washed, etc)
- Altitude (in masl, just the number)
- Tasting notes (up to 6 distinct flavor keywords like Blueberry, Jasmine, Honey)

Output the result purely as a valid JSON object with these keys:
country, region, farm, variety, process, altitude, flavorNotes (array of strings).
If you can't find specific info, leave the field empty string.`, beanName, roaster)
}

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseSuggestion extracts a suggestion from a model reply. The first {...}
// block is decoded; without one the whole text is tried. Empty text yields nil.
func ParseSuggestion(text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	payload := text
	if match := jsonObject.FindString(text); match != "" {
		payload = match
	}

	var raw rawSuggestion
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: unreadable reply: %v", ErrLookupFailed, err)
	}
	return raw.suggestion(), nil
}

// rawSuggestion tolerates the loose typing models reply with, such as numeric
// altitudes or comma-separated notes.
type rawSuggestion struct {
	Country     looseString `json:"country"`
	Region      looseString `json:"region"`
	Farm        looseString `json:"farm"`
	Variety     looseString `json:"variety"`
	Process     looseString `json:"process"`
	Altitude    looseString `json:"altitude"`
	FlavorNotes looseList   `json:"flavorNotes"`
}

func (r rawSuggestion) suggestion() *Suggestion {
	return &Suggestion{
		Country:     string(r.Country),
		Region:      string(r.Region),
		Farm:        string(r.Farm),
		Variety:     string(r.Variety),
		Process:     string(r.Process),
		Altitude:    string(r.Altitude),
		FlavorNotes: []string(r.FlavorNotes),
	}
}

type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(strings.TrimSpace(v))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = looseString(n.String())
	}
	return nil
}

type looseList []string

func (l *looseList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var items []looseString
	if len(data) > 0 && data[0] == '"' {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return err
		}
		for _, part := range strings.Split(joined, ",") {
			items = append(items, looseString(strings.TrimSpace(part)))
		}
	} else if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, string(item))
		}
	}
	*l = out
	return nil
}
