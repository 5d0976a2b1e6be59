// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MatchResult is the outcome of scoring one candidate against one set of criteria.
// It has no lifecycle of its own and is recomputed on demand.
type MatchResult struct {
	Score         int       `json:"score"`
	Breakdown     Breakdown `json:"breakdown"`
	MatchedSkills []string  `json:"matched_skills,omitempty"`
	MissingSkills []string  `json:"missing_skills,omitempty"`
}

// Breakdown holds the per-dimension sub-scores, each in [0,100]
type Breakdown struct {
	SkillsOverlap int `json:"skills_overlap"`
	LanguageMatch int `json:"language_match"`
	Readiness     int `json:"readiness"`
}

// RankedCandidates is an ordered list of scored candidates
type RankedCandidates struct {
	Ranked  []RankedCandidate  `json:"ranked"`
	Skipped []SkippedCandidate `json:"skipped,omitempty"`
}

// SkippedCandidate is a record that could not be scored. It is never shown with a score.
type SkippedCandidate struct {
	Index       int    `json:"index"`
	CandidateID string `json:"candidate_id,omitempty"`
	Reason      string `json:"reason"`
}

// RankedCandidate is a single scored candidate with its 1-based rank
type RankedCandidate struct {
	Rank        int         `json:"rank"`
	CandidateID string      `json:"candidate_id"`
	Name        string      `json:"name,omitempty"`
	Track       string      `json:"track,omitempty"`
	Result      MatchResult `json:"result"`
}

// SkillGap describes how a candidate's skills compare to a job's requirements
type SkillGap struct {
	CandidateID string    `json:"candidate_id"`
	Score       int       `json:"score"`
	Matching    []string  `json:"matching"`
	Missing     []GapItem `json:"missing"`
}

// GapItem is one required skill the candidate lacks or holds below the required level
type GapItem struct {
	Skill    string `json:"skill"`
	Required string `json:"required,omitempty"`
	Have     string `json:"have,omitempty"`
	Priority string `json:"priority"` // critical, high, medium
}

// JobReadiness is the candidate self-view readiness report
type JobReadiness struct {
	CandidateID  string    `json:"candidate_id"`
	Score        int       `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	Completeness int       `json:"completeness"`
	Level        string    `json:"level"` // not_ready, developing, ready
}
