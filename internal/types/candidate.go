// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// CandidateProfile is a snapshot of one applicant/talent record.
// Records are created by application intake and are read-only inputs to the scorer.
type CandidateProfile struct {
	ID              string          `json:"id" validate:"required"`
	Name            string          `json:"name,omitempty"`
	Skills          []SkillEntry    `json:"skills"`
	Languages       []LanguageEntry `json:"languages"`
	ExperienceYears int             `json:"experience_years"`
	Track           string          `json:"track,omitempty"`
	Ready           bool            `json:"ready,omitempty"`
	Summary         string          `json:"summary,omitempty"` // AI-generated, opaque to the scorer
	CachedScore     *CachedScore    `json:"cached_score,omitempty"`
}

// SkillEntry is a skill tag with an optional proficiency level (Beginner, Intermediate, Advanced).
type SkillEntry struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// UnmarshalJSON accepts either a bare skill name or a {name, level} object.
func (s *SkillEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = SkillEntry{Name: name}
		return nil
	}

	type plain SkillEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("skill entry: %w", err)
	}
	*s = SkillEntry(p)
	return nil
}

// LanguageEntry is a spoken/written language with a CEFR proficiency code.
type LanguageEntry struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// UnmarshalJSON accepts {"name":"German","level":"B1"} or the shorthand {"German":"B1"}.
func (l *LanguageEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("language entry: %w", err)
	}

	if name, ok := raw["name"]; ok {
		*l = LanguageEntry{Name: name, Level: raw["level"]}
		return nil
	}

	switch len(raw) {
	case 0:
		*l = LanguageEntry{}
		return nil
	case 1:
		for name, level := range raw {
			*l = LanguageEntry{Name: name, Level: level}
		}
		return nil
	default:
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("language entry: ambiguous shorthand with keys %v", keys)
	}
}

// CachedScore is the display copy of a computed score written back to a candidate record.
// It is never authoritative; readers recompute once it is older than the staleness window.
type CachedScore struct {
	CandidateID string      `json:"candidate_id"`
	CriteriaKey string      `json:"criteria_key"`
	Result      MatchResult `json:"result"`
	ComputedAt  time.Time   `json:"computed_at"`
}

// IsFresh reports whether the cached score is younger than ttl at now.
func (c *CachedScore) IsFresh(now time.Time, ttl time.Duration) bool {
	if c == nil || c.ComputedAt.IsZero() {
		return false
	}
	return now.Sub(c.ComputedAt) < ttl
}
