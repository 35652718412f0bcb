package models

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// presetFile is the layout of a preset seed file:
//
//	presets:
//	  - recipeName: V60 Standard
//	    grinder: Comandante
//	    clicks: 25
//	    dripper: V60
//	    temp: 93
//	    pourSteps:
//	      - {time: "0:00", amount: 50}
type presetFile struct {
	Presets []CreatePresetRequest `yaml:"presets"`
}

// ParsePresetsYAML reads and validates a preset seed file.
func ParsePresetsYAML(r io.Reader) ([]CreatePresetRequest, error) {
	var file presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}

	for i := range file.Presets {
		if err := file.Presets[i].Validate(); err != nil {
			return nil, fmt.Errorf("preset %d (%q): %w", i+1, file.Presets[i].RecipeName, err)
		}
	}
	return file.Presets, nil
}
