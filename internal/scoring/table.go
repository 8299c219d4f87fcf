// Package scoring derives the four ikigai dimension scores from free-form
// questionnaire answers. It is used as a deterministic fallback when the
// upstream analysis omits a score object.
package scoring

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dimension is one of the four ikigai categories.
type Dimension string

const (
	DimensionPassion    Dimension = "passion"
	DimensionProfession Dimension = "profession"
	DimensionMission    Dimension = "mission"
	DimensionVocation   Dimension = "vocation"
)

func (d Dimension) valid() bool {
	switch d {
	case DimensionPassion, DimensionProfession, DimensionMission, DimensionVocation:
		return true
	}
	return false
}

// TagWeight maps a recognized answer tag to a dimension contribution.
type TagWeight struct {
	Dimension Dimension `yaml:"dimension"`
	Weight    int       `yaml:"weight"`
}

// Table is the loadable tag weighting configuration. Tags are matched against
// normalized (trimmed, lower-cased) answer values.
type Table struct {
	Version        int                  `yaml:"version"`
	NeutralDefault int                  `yaml:"neutral_default"`
	Cap            int                  `yaml:"cap"`
	Tags           map[string]TagWeight `yaml:"tags"`
}

//go:embed tagtable.yaml
var defaultTableYAML []byte

// DefaultTable returns the table embedded at build time.
// The embedded table is validated by tests, so a parse failure here is a
// programming error.
func DefaultTable() *Table {
	table, err := Parse(defaultTableYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded tag table is invalid: %v", err))
	}
	return table
}

// Parse decodes and validates a tag table from YAML.
func Parse(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse tag table: %w", err)
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadFile reads a tag table from disk, for deployments that tune weights
// without rebuilding.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tag table: %w", err)
	}
	return Parse(data)
}

func (t *Table) validate() error {
	if t.Cap <= 0 {
		return fmt.Errorf("tag table cap must be positive, got %d", t.Cap)
	}
	if t.NeutralDefault < 0 || t.NeutralDefault > t.Cap {
		return fmt.Errorf("tag table neutral default %d outside [0, %d]", t.NeutralDefault, t.Cap)
	}
	if len(t.Tags) == 0 {
		return fmt.Errorf("tag table has no tags")
	}
	for tag, tw := range t.Tags {
		if !tw.Dimension.valid() {
			return fmt.Errorf("tag %q has unknown dimension %q", tag, tw.Dimension)
		}
		if tw.Weight <= 0 || tw.Weight > t.Cap {
			return fmt.Errorf("tag %q has weight %d outside (0, %d]", tag, tw.Weight, t.Cap)
		}
	}
	return nil
}
