package models

import (
	"sort"
	"strings"
)

// BeanFilter narrows a bean listing
type BeanFilter struct {
	// Status keeps beans with this status (case-insensitive). Empty keeps all.
	Status string
	// Query is a case-insensitive substring matched against roaster, variety, country and farm.
	Query string
}

// FilterBeans returns the beans matching f, preserving order.
func FilterBeans(beans []*Bean, f BeanFilter) []*Bean {
	status := strings.TrimSpace(f.Status)
	query := strings.ToLower(strings.TrimSpace(f.Query))

	filtered := make([]*Bean, 0, len(beans))
	for _, b := range beans {
		if status != "" && !strings.EqualFold(strings.TrimSpace(b.Status), status) {
			continue
		}
		if query != "" && !containsAny(query, b.Roaster, b.Variety, b.Country, b.Farm) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// FilterBrews returns the brews whose recipe name or bean roaster contains query.
// Brews must already be linked to their beans for roaster matching.
func FilterBrews(brews []*Brew, query string) []*Brew {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return brews
	}

	filtered := make([]*Brew, 0, len(brews))
	for _, b := range brews {
		roaster := ""
		if b.Bean != nil {
			roaster = b.Bean.Roaster
		}
		if containsAny(query, b.RecipeName, roaster) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func containsAny(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// LinkBrewsToBeans populates the Bean field on each brew from beans.
func LinkBrewsToBeans(brews []*Brew, beans []*Bean) {
	byID := make(map[string]*Bean, len(beans))
	for _, b := range beans {
		byID[b.ID] = b
	}
	for _, brew := range brews {
		if bean, ok := byID[brew.BeanID]; ok {
			brew.Bean = bean
		}
	}
}

// CafeGroup holds the logs recorded at one cafe
type CafeGroup struct {
	CafeName string     `json:"cafeName"`
	Logs     []*CafeLog `json:"logs"`
}

// GroupCafeLogs groups logs by trimmed cafe name, with groups sorted by name.
// Logs keep their relative order inside a group.
func GroupCafeLogs(logs []*CafeLog) []CafeGroup {
	index := make(map[string]int)
	var groups []CafeGroup
	for _, l := range logs {
		name := strings.TrimSpace(l.CafeName)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CafeGroup{CafeName: name})
		}
		groups[i].Logs = append(groups[i].Logs, l)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CafeName < groups[j].CafeName
	})
	return groups
}
