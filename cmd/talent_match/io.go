package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := settings.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}

func readFile(kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return data, nil
}

func loadCandidate(path string) (*types.CandidateProfile, error) {
	data, err := readFile("candidate", path)
	if err != nil {
		return nil, err
	}
	return parsing.DecodeCandidate(data)
}

// loadCriteria decodes a criteria file. An empty path is the neutral filter.
func loadCriteria(path string) (*types.MatchCriteria, error) {
	if path == "" {
		return parsing.DecodeCriteria(nil)
	}
	data, err := readFile("criteria", path)
	if err != nil {
		return nil, err
	}
	return parsing.DecodeCriteria(data)
}

// loadJob decodes a job spec file and normalizes it as job criteria
func loadJob(path string) (types.JobSpec, error) {
	data, err := readFile("job", path)
	if err != nil {
		return types.JobSpec{}, err
	}
	var job types.JobSpec
	if err := json.Unmarshal(data, &job); err != nil {
		return types.JobSpec{}, &parsing.ParseError{Message: "failed to unmarshal job spec", Cause: err}
	}
	criteria := types.JobCriteria(job)
	if err := parsing.NormalizeCriteria(&criteria); err != nil {
		return types.JobSpec{}, err
	}
	return *criteria.Job, nil
}

// writeJSON writes v to path, creating the directory. A non-empty schema name validates the
// written file; a mismatch is reported on stderr only.
func writeJSON(path string, v any, schema string) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	if schema != "" {
		if err := schemas.ValidateFile(schema, path); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
		}
	}
	return nil
}
