// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MatchMode selects which half of MatchCriteria is evaluated
type MatchMode string

// Match modes
const (
	ModeFilter MatchMode = "filter"
	ModeJob    MatchMode = "job"
)

// AllValue is the sentinel meaning "do not restrict this dimension".
// An empty string is treated the same way.
const AllValue = "all"

// MatchCriteria is either a filter spec (employer filter view) or a job spec (job matching view).
type MatchCriteria struct {
	Mode   MatchMode   `json:"mode"`
	Filter *FilterSpec `json:"filter,omitempty"`
	Job    *JobSpec    `json:"job,omitempty"`
}

// FilterSpec holds employer filter fields. Empty or "all" fields are non-restrictive.
type FilterSpec struct {
	Track            string `json:"track,omitempty"`
	MinLanguageLevel string `json:"min_language_level,omitempty"`
	Language         string `json:"language,omitempty"` // defaults to German
	ExperienceBucket string `json:"experience_bucket,omitempty"`
	Availability     string `json:"availability,omitempty"`
}

// JobSpec describes a job's requirements
type JobSpec struct {
	Title              string                `json:"title,omitempty"`
	RequiredSkills     []SkillRequirement    `json:"required_skills" validate:"dive"`
	RequiredLanguages  []LanguageRequirement `json:"required_languages" validate:"dive"`
	MinExperienceYears int                   `json:"min_experience_years"`
}

// SkillRequirement is a required skill with an optional minimum proficiency
type SkillRequirement struct {
	Name     string `json:"name" validate:"required"`
	MinLevel string `json:"min_level,omitempty"`
}

// LanguageRequirement is a required language with a minimum CEFR level
type LanguageRequirement struct {
	Name     string `json:"name" validate:"required"`
	MinLevel string `json:"min_level"`
}

// FilterCriteria wraps a FilterSpec as MatchCriteria.
func FilterCriteria(f FilterSpec) MatchCriteria {
	return MatchCriteria{Mode: ModeFilter, Filter: &f}
}

// JobCriteria wraps a JobSpec as MatchCriteria.
func JobCriteria(j JobSpec) MatchCriteria {
	return MatchCriteria{Mode: ModeJob, Job: &j}
}
