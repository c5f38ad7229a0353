package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk vocabulary format:
//
//	exercises:
//	  - name: Zercher Kniebeugen
//	    aliases: [zercher, zercher squat]
//	    muscle_groups: [quads, glutes, core]
type fixtureFile struct {
	Exercises []Entry `yaml:"exercises"`
}

// LoadFile reads a YAML vocabulary fixture and returns the built-in table
// extended by its entries. An empty path returns Default().
func LoadFile(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary file: %w", err)
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing vocabulary file: %w", err)
	}
	for i, e := range f.Exercises {
		if e.Name == "" {
			return nil, fmt.Errorf("vocabulary entry %d has no name", i)
		}
	}

	entries := make([]Entry, 0, len(Builtin)+len(f.Exercises))
	entries = append(entries, Builtin...)
	entries = append(entries, f.Exercises...)
	return New(entries), nil
}
