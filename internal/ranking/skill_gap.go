package ranking

import (
	"strings"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

// Gap priorities
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// AnalyzeSkillGap compares a candidate's skills with a job's required skills.
// Missing skills are critical; skills held two or more levels below the requirement are high
// priority, one level below is medium. Score is the job-mode skills overlap.
func AnalyzeSkillGap(c *types.CandidateProfile, job types.JobSpec) (types.SkillGap, error) {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return types.SkillGap{}, &ValidationError{Field: "id", Message: "candidate identifier is required"}
	}

	have := candidateSkillLevels(c)
	gap := types.SkillGap{
		CandidateID: c.ID,
		Matching:    []string{},
		Missing:     []types.GapItem{},
	}

	seen := make(map[string]bool, len(job.RequiredSkills))
	for _, req := range job.RequiredSkills {
		key := parsing.SkillKey(req.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		name := parsing.NormalizeSkillName(req.Name)
		need := parsing.ParseSkillLevel(req.MinLevel)
		level, ok := have[key]
		switch {
		case !ok:
			gap.Missing = append(gap.Missing, types.GapItem{
				Skill:    name,
				Required: need.String(),
				Priority: PriorityCritical,
			})
		case need == types.SkillUnspecified || level >= need:
			gap.Matching = append(gap.Matching, name)
		default:
			priority := PriorityMedium
			if need-level >= 2 {
				priority = PriorityHigh
			}
			gap.Missing = append(gap.Missing, types.GapItem{
				Skill:    name,
				Required: need.String(),
				Have:     level.String(),
				Priority: priority,
			})
		}
	}

	skills, _, _ := computeRequiredSkillsScore(c, job.RequiredSkills)
	gap.Score = toPercent(skills)
	return gap, nil
}
