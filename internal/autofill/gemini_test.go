package autofill

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("sends prompt to configured model", func(t *testing.T) {
		var gotModel, gotPrompt string
		lookup := NewLookupWithGenerator("", func(_ context.Context, model, prompt string) (string, error) {
			gotModel, gotPrompt = model, prompt
			return `{"country":"Panama","variety":"Gesha"}`, nil
		})

		s, err := lookup.Lookup(ctx, "Sey", "Elida")
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, gotModel)
		assert.Equal(t, DefaultModel, lookup.Model())
		assert.Contains(t, gotPrompt, `"Elida" from roaster "Sey"`)
		assert.Equal(t, "Panama", s.Country)
		assert.Equal(t, "Gesha", s.Variety)
	})

	t.Run("upstream failure", func(t *testing.T) {
		lookup := NewLookupWithGenerator("gemini-test", func(context.Context, string, string) (string, error) {
			return "", errors.New("quota exceeded")
		})

		_, err := lookup.Lookup(ctx, "Sey", "Elida")
		assert.ErrorIs(t, err, ErrLookupFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("empty reply", func(t *testing.T) {
		lookup := NewLookupWithGenerator("gemini-test", func(context.Context, string, string) (string, error) {
			return "", nil
		})

		s, err := lookup.Lookup(ctx, "Sey", "Elida")
		require.NoError(t, err)
		assert.Nil(t, s)
	})
}

func TestNewGeminiLookup_RequiresKey(t *testing.T) {
	_, err := NewGeminiLookup(context.Background(), "", "")
	assert.Error(t, err)
}
