package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// project is the obc.yaml manifest: the set of module documents to check,
// any preload libraries to register ahead of them, and the search paths
// units.Registry should use to resolve a bare IMPORT name to a file.
type project struct {
	Files       []string `yaml:"files"`
	Preloads    []string `yaml:"preloads"`
	SearchPaths []string `yaml:"searchPaths"`
}

func loadProject(path string) (*project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project manifest %s: %w", path, err)
	}
	var p project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project manifest %s: %w", path, err)
	}
	return &p, nil
}
