package main

import (
	"fmt"
	"os"
	"strings"

	"funding-tracker/internal/models"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout read by the load command. Applications point at
// clients and opportunities by their key.
type SeedFile struct {
	Opportunities []SeedOpportunity `yaml:"opportunities"`
	Clients       []SeedClient      `yaml:"clients"`
	Applications  []SeedApplication `yaml:"applications"`
}

type SeedOpportunity struct {
	Key                          string `yaml:"key"`
	models.NewFundingOpportunity `yaml:",inline"`
}

type SeedClient struct {
	Key              string `yaml:"key"`
	models.NewClient `yaml:",inline"`
}

type SeedApplication struct {
	Client                string               `yaml:"client"`
	Opportunity           string               `yaml:"opportunity"`
	models.NewApplication `yaml:",inline"`
	Documents             []models.NewDocument `yaml:"documents"`
}

func readSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

// check verifies keys are unique and every application reference resolves.
func (f *SeedFile) check() error {
	var problems []string

	opps := map[string]bool{}
	for i, o := range f.Opportunities {
		switch {
		case o.Key == "":
			problems = append(problems, fmt.Sprintf("opportunities[%d]: key is required", i))
		case opps[o.Key]:
			problems = append(problems, fmt.Sprintf("opportunities[%d]: duplicate key %q", i, o.Key))
		}
		opps[o.Key] = true
		if o.MinAmount != nil && o.MaxAmount != nil && *o.MinAmount > *o.MaxAmount {
			problems = append(problems, fmt.Sprintf("opportunities[%d]: minAmount exceeds maxAmount", i))
		}
		if len(o.Sectors) == 0 {
			problems = append(problems, fmt.Sprintf("opportunities[%d]: at least one sector is required", i))
		}
	}

	clients := map[string]bool{}
	for i, c := range f.Clients {
		switch {
		case c.Key == "":
			problems = append(problems, fmt.Sprintf("clients[%d]: key is required", i))
		case clients[c.Key]:
			problems = append(problems, fmt.Sprintf("clients[%d]: duplicate key %q", i, c.Key))
		}
		clients[c.Key] = true
	}

	for i, a := range f.Applications {
		if !clients[a.Client] {
			problems = append(problems, fmt.Sprintf("applications[%d]: unknown client %q", i, a.Client))
		}
		if !opps[a.Opportunity] {
			problems = append(problems, fmt.Sprintf("applications[%d]: unknown opportunity %q", i, a.Opportunity))
		}
		if a.CompletionScore < 0 || a.CompletionScore > 100 {
			problems = append(problems, fmt.Sprintf("applications[%d]: completionScore must be within 0..100", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid seed file:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}
