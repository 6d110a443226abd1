package scenario

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/pheno/internal/phenology"
)

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoManifest)
		}
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data, filepath.Base(path))
}

// Parse decodes scenario TOML and applies defaults for omitted fields.
// source names the file in validation errors.
func Parse(data []byte, source string) (*Scenario, error) {
	var s Scenario
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	s.SourceFile = source
	applyDefaults(&s)
	return &s, nil
}

func applyDefaults(s *Scenario) {
	if s.Crop.EmergenceStage == "" {
		s.Crop.EmergenceStage = phenology.DefaultEmergenceStage
	}
	if s.Crop.GerminationStage == "" {
		s.Crop.GerminationStage = phenology.DefaultGerminationStage
	}
	if s.Schedule.SowDay == 0 {
		s.Schedule.SowDay = 1
	}
	for i := range s.Phases {
		if s.Phases[i].Kind == "" {
			s.Phases[i].Kind = PhaseKindThermal
		}
	}
}
