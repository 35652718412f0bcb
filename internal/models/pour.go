package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidStepTime is returned when a pour step time is not in m:ss form
var ErrInvalidStepTime = errors.New("pour step time must be m:ss")

// PourStep is a timestamp/water-amount pair within a pour sequence.
type PourStep struct {
	Time   string  `json:"time" yaml:"time"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Offset parses the step timestamp into an offset from the start of the brew.
func (p PourStep) Offset() (time.Duration, error) {
	return ParseStepTime(p.Time)
}

// PourSequence is the ordered list of pours that make up a brew.
type PourSequence []PourStep

// DefaultPourSequence returns the three-pour sequence a new brew starts with.
func DefaultPourSequence() PourSequence {
	return PourSequence{
		{Time: "0:00", Amount: 50},
		{Time: "0:45", Amount: 100},
		{Time: "1:30", Amount: 100},
	}
}

// FallbackPourSequence is used when a stored sequence cannot be read.
func FallbackPourSequence() PourSequence {
	return PourSequence{{Time: "0:00", Amount: 0}}
}

// TotalWater returns the total grams of water poured.
func (s PourSequence) TotalWater() float64 {
	total := decimal.Zero
	for _, step := range s {
		if Finite(step.Amount) {
			total = total.Add(decimal.NewFromFloat(step.Amount))
		}
	}
	return total.InexactFloat64()
}

// Ratio formats the dose to water ratio as "1:x.y". A zero or non-finite dose
// yields "1:0".
func (s PourSequence) Ratio(dose float64) string {
	if !Finite(dose) || dose <= 0 {
		return "1:0"
	}
	ratio := decimal.NewFromFloat(s.TotalWater()).Div(decimal.NewFromFloat(dose))
	return "1:" + ratio.StringFixed(1)
}

// Duration returns the offset of the last pour. Steps with unreadable times are skipped.
func (s PourSequence) Duration() time.Duration {
	var last time.Duration
	for _, step := range s {
		if d, err := step.Offset(); err == nil && d > last {
			last = d
		}
	}
	return last
}

// Clone returns a copy that does not share the backing array.
func (s PourSequence) Clone() PourSequence {
	if s == nil {
		return nil
	}
	out := make(PourSequence, len(s))
	copy(out, s)
	return out
}

// MarshalJSON always encodes an array, never null.
func (s PourSequence) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]PourStep(s))
}

// UnmarshalJSON accepts a JSON array of steps or a string. Strings holding a JSON
// array are the legacy sheet format; any other string is a free-text guide and
// decodes to an empty sequence.
func (s *PourSequence) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = ParsePourSequence(text)
		return nil
	}

	var steps []PourStep
	if err := json.Unmarshal(trimmed, &steps); err != nil {
		return err
	}
	*s = steps
	return nil
}

// ParsePourSequence reads the legacy JSON-string form of a sequence.
// Text that is not a JSON array yields nil.
func ParsePourSequence(text string) PourSequence {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return nil
	}
	var steps []PourStep
	if err := json.Unmarshal([]byte(text), &steps); err != nil {
		return nil
	}
	return steps
}

// LegacyString renders the sequence as the JSON string stored in the sheet.
func (s PourSequence) LegacyString() string {
	data, err := s.MarshalJSON()
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseStepTime parses "m:ss" (or a bare number of seconds) into a duration.
func ParseStepTime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidStepTime
	}

	minutes, seconds, found := strings.Cut(value, ":")
	if !found {
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return 0, ErrInvalidStepTime
		}
		return time.Duration(secs) * time.Second, nil
	}

	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, ErrInvalidStepTime
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil || sec < 0 || sec > 59 {
		return 0, ErrInvalidStepTime
	}
	return time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatStepTime formats a duration as "m:ss".
func FormatStepTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
