package report

import (
	"os"

	"gopkg.in/yaml.v3"

	"homeolife/internal/core"
)

// Sample is one population reading taken during a run.
type Sample struct {
	Generation int `yaml:"generation"`
	Population int `yaml:"population"`
}

// Summary captures one headless run for later comparison.
type Summary struct {
	Parameters  map[string]map[string]string `yaml:"parameters"`
	Generations int                          `yaml:"generations"`
	Population  int                          `yaml:"population"`
	History     []Sample                     `yaml:"history,omitempty"`
}

// Flatten converts a parameter snapshot into the summary's group/key/value
// form.
func Flatten(snap core.ParameterSnapshot) map[string]map[string]string {
	out := make(map[string]map[string]string, len(snap.Groups))
	for _, g := range snap.Groups {
		m := make(map[string]string, len(g.Params))
		for _, p := range g.Params {
			m[p.Key] = p.Value
		}
		out[g.Name] = m
	}
	return out
}

// Write marshals the summary to path as YAML.
func (s *Summary) Write(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
