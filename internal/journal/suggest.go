package journal

import (
	"context"

	"tangled.org/arabica.social/brewjournal/internal/suggestions"
)

// Suggest returns previously entered values of kind that match query.
func (s *Service) Suggest(ctx context.Context, kind, query string, limit int) ([]suggestions.Suggestion, error) {
	return suggestions.Search(ctx, s, kind, query, limit)
}

// SuggestionRecords flattens the records a suggestion kind draws from.
// Equipment comes from both brews and presets.
func (s *Service) SuggestionRecords(ctx context.Context, kind string) ([]suggestions.Record, error) {
	var records []suggestions.Record
	switch kind {
	case suggestions.KindRoasters, suggestions.KindOrigins:
		beans, err := s.store.ListBeans(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range beans {
			records = append(records, suggestions.Record{
				"roaster": b.Roaster,
				"country": b.Country,
				"region":  b.Region,
			})
		}
	case suggestions.KindGrinders, suggestions.KindDrippers:
		brews, err := s.store.ListBrews(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range brews {
			records = append(records, suggestions.Record{
				"grinder":    b.Grinder,
				"dripper":    b.Dripper,
				"filterType": b.FilterType,
			})
		}
		presets, err := s.store.ListPresets(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range presets {
			records = append(records, suggestions.Record{
				"grinder": p.Grinder,
				"dripper": p.Dripper,
			})
		}
	case suggestions.KindCafes:
		logs, err := s.store.ListCafeLogs(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range logs {
			records = append(records, suggestions.Record{"cafeName": l.CafeName})
		}
	default:
		return nil, suggestions.ErrUnknownKind
	}
	return records, nil
}
