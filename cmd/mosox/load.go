package main

import (
	"fmt"
	"os"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/model"
)

// loadModel parses modelPath (and, if non-empty, dataPath) and matches the
// combined entries into a model.Model. Data statements may also sit in the
// model file itself, since both files share one entry grammar; a `data;`
// section marker is not recognised by the parser.
func loadModel(modelPath, dataPath string) (*model.Model, error) {
	entries, err := parseFile(modelPath)
	if err != nil {
		return nil, err
	}

	if dataPath != "" {
		dataEntries, err := parseFile(dataPath)
		if err != nil {
			return nil, err
		}

		entries = append(entries, dataEntries...)
	}

	m, err := model.FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("matching declarations to data: %w", err)
	}

	return m, nil
}

func parseFile(path string) ([]gmpl.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	entries, err := gmpl.Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return entries, nil
}
