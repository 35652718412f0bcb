package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/models"
	"tangled.org/arabica.social/brewjournal/internal/suggestions"
)

func TestSuggest(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	bean := mustCreateBean(t, s)
	second := validBean()
	second.Roaster = "Onyx Coffee"
	second.Region = "Guji"
	_, err := s.CreateBean(ctx, second)
	require.NoError(t, err)

	_, err = s.LogBrew(ctx, &models.CreateBrewRequest{
		BeanID: bean.ID, Date: "2025-03-02", Grinder: "Comandante", Dripper: "V60", FilterType: "Cone",
	})
	require.NoError(t, err)
	_, err = s.CreatePreset(ctx, &models.CreatePresetRequest{
		RecipeName: "Wave", Grinder: "Ode", Dripper: "Kalita Wave", PourSteps: models.DefaultPourSequence(),
	})
	require.NoError(t, err)
	_, err = s.CreateCafeLog(ctx, &models.CreateCafeLogRequest{CafeName: "Prufrock", BeanName: "Kenya", Date: "2025-03-03"})
	require.NoError(t, err)

	t.Run("roasters merge", func(t *testing.T) {
		got, err := s.Suggest(ctx, suggestions.KindRoasters, "on", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Count)
	})

	t.Run("origins by region", func(t *testing.T) {
		got, err := s.Suggest(ctx, suggestions.KindOrigins, "guji", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ethiopia", got[0].Name)
	})

	t.Run("grinders from brews and presets", func(t *testing.T) {
		got, err := s.Suggest(ctx, suggestions.KindGrinders, "", 0)
		require.NoError(t, err)
		names := make([]string, 0, len(got))
		for _, g := range got {
			names = append(names, g.Name)
		}
		assert.Equal(t, []string{"Comandante", "Ode"}, names)
	})

	t.Run("drippers", func(t *testing.T) {
		got, err := s.Suggest(ctx, suggestions.KindDrippers, "v6", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Cone", got[0].Fields["filterType"])
	})

	t.Run("cafes", func(t *testing.T) {
		got, err := s.Suggest(ctx, suggestions.KindCafes, "pru", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Prufrock", got[0].Name)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := s.Suggest(ctx, "varieties", "", 0)
		assert.ErrorIs(t, err, suggestions.ErrUnknownKind)
	})
}

func TestSuggest_StoreError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := NewService(&database.MockStore{
		ListCafeLogsFunc: func(context.Context) ([]*models.CafeLog, error) { return nil, boom },
	})

	_, err := s.Suggest(context.Background(), suggestions.KindCafes, "", 0)
	assert.ErrorIs(t, err, boom)
}
