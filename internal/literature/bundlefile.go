// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package literature

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wellness-chat/pkg/types"
)

// BundleFile is the on-disk form of a literature search and its results.
// A saved search can be re-rendered later without querying NCBI again.
type BundleFile struct {
	Search  BundleParams             `yaml:"search"`
	Results types.SearchResultBundle `yaml:"results"`
	Summary BundleSummary            `yaml:"summary"`
}

// BundleParams stores the effective search parameters.
type BundleParams struct {
	Query      string           `yaml:"query"`
	YearMin    int              `yaml:"year_min"`
	YearMax    int              `yaml:"year_max"`
	MaxResults int              `yaml:"max_results"`
	Mode       types.SearchMode `yaml:"mode"`
}

// BundleSummary stores result statistics and a timestamp.
type BundleSummary struct {
	Identifiers int       `yaml:"identifiers"`
	Records     int       `yaml:"records"`
	Skipped     int       `yaml:"skipped"`
	Timestamp   time.Time `yaml:"timestamp"`
}

// WriteBundleFile saves a search and its bundle to a YAML file.
func WriteBundleFile(path string, p SearchParams, bundle types.SearchResultBundle) error {
	bf := BundleFile{
		Search: BundleParams{
			Query:      p.Query,
			YearMin:    p.YearMin,
			YearMax:    p.YearMax,
			MaxResults: p.MaxResults,
			Mode:       bundle.Mode,
		},
		Results: bundle,
		Summary: BundleSummary{
			Identifiers: len(bundle.Identifiers),
			Records:     len(bundle.Records),
			Skipped:     len(bundle.Skipped),
			Timestamp:   time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(&bf)
	if err != nil {
		return fmt.Errorf("marshaling bundle file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadBundleFile loads a previously saved bundle file from disk.
func ReadBundleFile(path string) (*BundleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle file: %w", err)
	}
	var bf BundleFile
	if err := yaml.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parsing bundle file: %w", err)
	}
	if !bf.Results.Mode.Valid() {
		return nil, fmt.Errorf("parsing bundle file: %w", &InvalidModeError{Mode: string(bf.Results.Mode)})
	}
	return &bf, nil
}
