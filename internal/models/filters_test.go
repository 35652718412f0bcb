package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleBeans() []*Bean {
	return []*Bean{
		{ID: "1", Roaster: "Onyx Coffee Lab", Country: "Ethiopia", Variety: "Heirloom", Farm: "Halo Beriti", Status: "Active"},
		{ID: "2", Roaster: "Sey", Country: "Colombia", Variety: "Gesha", Farm: "La Palma", Status: "Finished"},
		{ID: "3", Roaster: "Tim Wendelboe", Country: "Kenya", Variety: "SL28", Farm: "Karogoto", Status: "active"},
	}
}

func beanIDs(beans []*Bean) []string {
	ids := make([]string, 0, len(beans))
	for _, b := range beans {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestFilterBeans(t *testing.T) {
	tests := []struct {
		name   string
		filter BeanFilter
		want   []string
	}{
		{"no filter", BeanFilter{}, []string{"1", "2", "3"}},
		{"active any case", BeanFilter{Status: "Active"}, []string{"1", "3"}},
		{"finished", BeanFilter{Status: "finished"}, []string{"2"}},
		{"query roaster", BeanFilter{Query: "onyx"}, []string{"1"}},
		{"query variety", BeanFilter{Query: "GESHA"}, []string{"2"}},
		{"query country", BeanFilter{Query: "keny"}, []string{"3"}},
		{"query farm", BeanFilter{Query: "beriti"}, []string{"1"}},
		{"status and query", BeanFilter{Status: "Active", Query: "gesha"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := beanIDs(FilterBeans(sampleBeans(), tt.filter))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterBeans() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterBrews(t *testing.T) {
	beans := sampleBeans()
	brews := []*Brew{
		{ID: "a", BeanID: "1", RecipeName: "V60 Standard"},
		{ID: "b", BeanID: "2", RecipeName: "Kalita Wave"},
		{ID: "c", BeanID: "missing", RecipeName: "Origami"},
	}
	LinkBrewsToBeans(brews, beans)

	assert.Same(t, beans[0], brews[0].Bean)
	assert.Nil(t, brews[2].Bean)

	assert.Len(t, FilterBrews(brews, ""), 3)

	got := FilterBrews(brews, "v60")
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got = FilterBrews(brews, "sey")
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestGroupCafeLogs(t *testing.T) {
	logs := []*CafeLog{
		{ID: "1", CafeName: "Prufrock "},
		{ID: "2", CafeName: "Monmouth"},
		{ID: "3", CafeName: " Prufrock"},
		{ID: "4", CafeName: "Kaffeine"},
	}

	groups := GroupCafeLogs(logs)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.CafeName)
	}
	assert.Equal(t, []string{"Kaffeine", "Monmouth", "Prufrock"}, names)
	assert.Len(t, groups[2].Logs, 2)
	assert.Equal(t, "1", groups[2].Logs[0].ID)
	assert.Equal(t, "3", groups[2].Logs[1].ID)

	assert.Empty(t, GroupCafeLogs(nil))
}

func TestFlagFor(t *testing.T) {
	assert.Equal(t, "🇪🇹", FlagFor("Ethiopia"))
	assert.Equal(t, "🇨🇷", FlagFor("costa rica"))
	assert.Equal(t, UnknownFlag, FlagFor("Atlantis"))
	assert.Equal(t, UnknownFlag, FlagFor(""))
}
