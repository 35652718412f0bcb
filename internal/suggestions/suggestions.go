// Package suggestions offers auto-complete values drawn from the journal's own
// history, so forms can reuse the roasters, origins and equipment already entered.
package suggestions

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
)

// Suggestion kinds
const (
	KindRoasters = "roasters"
	KindOrigins  = "origins"
	KindGrinders = "grinders"
	KindDrippers = "drippers"
	KindCafes    = "cafes"
)

// Kinds lists every supported kind
var Kinds = []string{KindRoasters, KindOrigins, KindGrinders, KindDrippers, KindCafes}

// ErrUnknownKind is returned by Search for a kind not in Kinds
var ErrUnknownKind = errors.New("unknown suggestion kind")

// DefaultLimit caps results when Search is given a non-positive limit
const DefaultLimit = 10

// Suggestion is one distinct value with the number of records that used it.
type Suggestion struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
	Count  int               `json:"count"`
}

// Record is the flattened field set of one journal record.
type Record map[string]string

// RecordSource provides the records a kind draws its values from.
type RecordSource interface {
	SuggestionRecords(ctx context.Context, kind string) ([]Record, error)
}

// kindConfig defines which fields to extract and search for each kind
type kindConfig struct {
	allFields    []string
	searchFields []string
	nameField    string
	dedupKey     func(fields Record) string
}

var kindConfigs = map[string]kindConfig{
	KindRoasters: {
		allFields:    []string{"roaster"},
		searchFields: []string{"roaster"},
		nameField:    "roaster",
		dedupKey:     func(f Record) string { return fuzzyName(f["roaster"]) },
	},
	KindOrigins: {
		allFields:    []string{"country", "region"},
		searchFields: []string{"country", "region"},
		nameField:    "country",
		dedupKey:     originDedupKey,
	},
	KindGrinders: {
		allFields:    []string{"grinder"},
		searchFields: []string{"grinder"},
		nameField:    "grinder",
		dedupKey:     func(f Record) string { return normalize(f["grinder"]) },
	},
	KindDrippers: {
		allFields:    []string{"dripper", "filterType"},
		searchFields: []string{"dripper"},
		nameField:    "dripper",
		dedupKey:     func(f Record) string { return normalize(f["dripper"]) },
	},
	KindCafes: {
		allFields:    []string{"cafeName"},
		searchFields: []string{"cafeName"},
		nameField:    "cafeName",
		dedupKey:     func(f Record) string { return fuzzyName(f["cafeName"]) },
	},
}

// Known reports whether kind is supported.
func Known(kind string) bool {
	_, ok := kindConfigs[kind]
	return ok
}

// originDedupKey: normalized country + region.
// "Ethiopia" / "Guji" vs "ethiopia" / "guji " → same.
// "Ethiopia" / "Guji" vs "Ethiopia" / "Sidama" → different.
func originDedupKey(fields Record) string {
	parts := []string{normalize(fields["country"])}
	if r := normalize(fields["region"]); r != "" {
		parts = append(parts, r)
	}
	return strings.Join(parts, "|")
}

// --- Normalization helpers ---

// normalize lowercases, trims whitespace, and collapses internal whitespace.
func normalize(s string) string {
	return collapseSpaces(strings.ToLower(strings.TrimSpace(s)))
}

// Common suffixes stripped during fuzzy name normalization for roasters and cafes.
// Order matters: longer suffixes first to avoid partial stripping.
var commonSuffixes = []string{
	"coffee roasters",
	"coffee roasting",
	"coffee company",
	"coffee co",
	"roasting company",
	"roasting co",
	"roasters",
	"roasting",
	"coffee",
	"cafe",
	"co.",
}

// fuzzyName normalizes a name by lowercasing, stripping common coffee-industry
// suffixes, punctuation, and extra whitespace. This lets "Counter Culture Coffee"
// and "Counter Culture" merge, while still keeping genuinely different names apart.
func fuzzyName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	for _, suffix := range commonSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
			break // only strip one suffix
		}
	}

	return collapseSpaces(stripPunctuation(s))
}

var nonAlphanumSpace = regexp.MustCompile(`[^a-z0-9\s]`)

func stripPunctuation(s string) string {
	return nonAlphanumSpace.ReplaceAllString(s, "")
}

var multiSpace = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// Search returns distinct values of kind matching query. Matching is a
// case-insensitive substring test against the kind's searchable fields; an
// empty query matches everything. Results are sorted with prefix matches first,
// then by how often the value was used, then alphabetically.
func Search(ctx context.Context, source RecordSource, kind, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	config, ok := kindConfigs[kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	queryLower := strings.ToLower(strings.TrimSpace(query))

	records, err := source.SuggestionRecords(ctx, kind)
	if err != nil {
		return nil, err
	}

	// dedupKey -> aggregated suggestion
	type candidate struct {
		suggestion Suggestion
		fieldCount int // number of non-empty fields (to pick best representative)
	}
	candidates := make(map[string]*candidate)

	for _, record := range records {
		fields := make(map[string]string)
		for _, f := range config.allFields {
			if v := strings.TrimSpace(record[f]); v != "" {
				fields[f] = v
			}
		}

		name := fields[config.nameField]
		if name == "" {
			continue
		}

		if queryLower != "" {
			matched := false
			for _, sf := range config.searchFields {
				if strings.Contains(strings.ToLower(fields[sf]), queryLower) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}

		key := config.dedupKey(fields)
		if existing, ok := candidates[key]; ok {
			existing.suggestion.Count++
			// Keep the record with more complete fields
			if n := len(fields); n > existing.fieldCount {
				existing.suggestion.Name = name
				existing.suggestion.Fields = fields
				existing.fieldCount = n
			}
			continue
		}
		candidates[key] = &candidate{
			suggestion: Suggestion{Name: name, Fields: fields, Count: 1},
			fieldCount: len(fields),
		}
	}

	// Walk keys in order so equal-ranked values come out the same way every time
	keys := make([]string, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	results := make([]Suggestion, 0, len(candidates))
	for _, key := range keys {
		results = append(results, candidates[key].suggestion)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if queryLower != "" {
			iPrefix := strings.HasPrefix(strings.ToLower(results[i].Name), queryLower)
			jPrefix := strings.HasPrefix(strings.ToLower(results[j].Name), queryLower)
			if iPrefix != jPrefix {
				return iPrefix
			}
		}
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return strings.ToLower(results[i].Name) < strings.ToLower(results[j].Name)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
