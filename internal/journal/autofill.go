package journal

import (
	"context"
	"strings"

	"tangled.org/arabica.social/brewjournal/internal/autofill"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// AutofillResult pairs what the lookup found with the completed draft.
type AutofillResult struct {
	Query      string                    `json:"query"`
	Suggestion *autofill.Suggestion      `json:"suggestion"`
	Bean       *models.CreateBeanRequest `json:"bean"`
}

// Autofill completes a bean draft from published details. The roaster is
// required; the farm (or variety) names the bean searched for. Nothing is stored.
func (s *Service) Autofill(ctx context.Context, draft *models.CreateBeanRequest) (*AutofillResult, error) {
	if s.lookup == nil {
		return nil, ErrAutofillUnavailable
	}
	if strings.TrimSpace(draft.Roaster) == "" {
		return nil, models.ErrRoasterRequired
	}

	query := autofill.BeanQuery(draft.Farm, draft.Variety)
	suggestion, err := s.lookup.Lookup(ctx, strings.TrimSpace(draft.Roaster), query)
	if err != nil {
		return nil, err
	}

	return &AutofillResult{
		Query:      query,
		Suggestion: suggestion,
		Bean:       autofill.Merge(draft, suggestion),
	}, nil
}
