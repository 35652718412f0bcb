package models

import "strings"

// Form options shared by the API and the CLI

var (
	// CommonFlavors are the flavor tags offered when recording beans and cafe visits
	CommonFlavors = []string{
		"Fruity", "Floral", "Nutty", "Cocoa", "Sweet", "Spicy",
		"Fermented", "Green", "Roasted", "Berry", "Citrus", "Stone Fruit",
	}

	// Processes defines the processing methods offered for beans
	Processes = []string{
		"Natural",
		"Washed",
		"Honey",
		"Anaerobic",
		"Wet Hulled",
		"Experimental",
	}

	// FilterTypes defines the filter options offered for brews
	FilterTypes = []string{
		"Paper",
		"Cloth",
		"Metal",
	}

	// CountryFlags maps origin countries to their flag emoji
	CountryFlags = map[string]string{
		"Ethiopia":    "🇪🇹",
		"Colombia":    "🇨🇴",
		"Brazil":      "🇧🇷",
		"Kenya":       "🇰🇪",
		"Panama":      "🇵🇦",
		"Costa Rica":  "🇨🇷",
		"Guatemala":   "🇬🇹",
		"Honduras":    "🇭🇳",
		"El Salvador": "🇸🇻",
		"Rwanda":      "🇷🇼",
		"Burundi":     "🇧🇮",
		"Indonesia":   "🇮🇩",
		"Vietnam":     "🇻🇳",
		"Yemen":       "🇾🇪",
		"Ecuador":     "🇪🇨",
		"Peru":        "🇵🇪",
		"Mexico":      "🇲🇽",
		"USA":         "🇺🇸",
	}
)

// UnknownFlag is shown for countries missing from CountryFlags
const UnknownFlag = "🏳️"

// FlagFor returns the flag emoji for a country, matching case-insensitively.
func FlagFor(country string) string {
	country = strings.TrimSpace(country)
	if flag, ok := CountryFlags[country]; ok {
		return flag
	}
	for name, flag := range CountryFlags {
		if strings.EqualFold(name, country) {
			return flag
		}
	}
	return UnknownFlag
}

// FormOptions lists the choices offered by the entry forms
type FormOptions struct {
	Statuses     []string          `json:"statuses"`
	Processes    []string          `json:"processes"`
	FilterTypes  []string          `json:"filterTypes"`
	Flavors      []string          `json:"flavors"`
	CountryFlags map[string]string `json:"countryFlags"`
	DefaultPours PourSequence      `json:"defaultPourSteps"`
	Autofill     bool              `json:"autofill"`
}
