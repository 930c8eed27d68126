package cli

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// activityFile is the YAML document accepted by the report command.
type activityFile struct {
	Activities []activityEntry `yaml:"activities"`
}

type activityEntry struct {
	User      string            `yaml:"user"`
	Type      string            `yaml:"type"`
	Subtype   string            `yaml:"subtype"`
	Timestamp time.Time         `yaml:"timestamp"`
	Details   map[string]string `yaml:"details"`
}

func readActivityFile(r io.Reader) (activityFile, error) {
	var doc activityFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return activityFile{}, nil
		}
		return activityFile{}, fmt.Errorf("parse activity file: %w", err)
	}
	for i, entry := range doc.Activities {
		if entry.Timestamp.IsZero() {
			return activityFile{}, fmt.Errorf("activity %d: timestamp is required", i+1)
		}
	}
	return doc, nil
}
