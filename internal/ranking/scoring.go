// Package ranking scores candidates against employer filters and job specs, and ranks the results.
package ranking

import (
	"math"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

// Readiness is a blend of the experience comparison and candidate preparedness
const (
	readinessExperienceWeight   = 0.7
	readinessPreparednessWeight = 0.3
)

// candidateSkillLevels maps skill keys to the highest level the candidate lists.
// Skills without a level count as Intermediate.
func candidateSkillLevels(c *types.CandidateProfile) map[string]types.SkillLevel {
	levels := make(map[string]types.SkillLevel, len(c.Skills))
	for _, s := range c.Skills {
		key := parsing.SkillKey(s.Name)
		if key == "" {
			continue
		}
		level := parsing.ParseSkillLevel(s.Level)
		if level == types.SkillUnspecified {
			level = types.SkillIntermediate
		}
		if level > levels[key] {
			levels[key] = level
		}
	}
	return levels
}

// computeTrackSkillsScore scores skills in filter mode.
// Returns the score (0-100) and the candidate skills that belong to the requested track.
func computeTrackSkillsScore(c *types.CandidateProfile, track string) (float64, []string) {
	if parsing.IsAll(track) {
		return 100, nil
	}

	seen := make(map[string]bool, len(c.Skills))
	matched := make([]string, 0)
	total := 0
	for _, s := range c.Skills {
		key := parsing.SkillKey(s.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		total++
		if parsing.IsTrackSkill(track, s.Name) {
			matched = append(matched, parsing.NormalizeSkillName(s.Name))
		}
	}

	if c.Track != "" && parsing.NormalizeTrack(c.Track) == parsing.NormalizeTrack(track) {
		return 100, matched
	}
	if total == 0 {
		return 0, matched
	}
	return 100 * float64(len(matched)) / float64(total), matched
}

// computeRequiredSkillsScore scores skills in job mode. Each required skill earns full
// credit when held at or above its minimum level, proportional credit when held below it,
// and none when absent. No requirements scores 100.
func computeRequiredSkillsScore(c *types.CandidateProfile, reqs []types.SkillRequirement) (float64, []string, []string) {
	have := candidateSkillLevels(c)

	seen := make(map[string]bool, len(reqs))
	matched := make([]string, 0)
	missing := make([]string, 0)
	credit := 0.0
	counted := 0

	for _, req := range reqs {
		key := parsing.SkillKey(req.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		counted++

		name := parsing.NormalizeSkillName(req.Name)
		level, ok := have[key]
		if !ok {
			missing = append(missing, name)
			continue
		}
		matched = append(matched, name)
		credit += levelCredit(level, parsing.ParseSkillLevel(req.MinLevel))
	}

	if counted == 0 {
		return 100, matched, missing
	}
	return 100 * credit / float64(counted), matched, missing
}

// levelCredit returns 1 when have meets need, otherwise have/need
func levelCredit(have, need types.SkillLevel) float64 {
	if need == types.SkillUnspecified || have >= need {
		return 1
	}
	return float64(have) / float64(need)
}

// candidateLanguageLevel returns the highest CEFR level the candidate lists for a language
func candidateLanguageLevel(c *types.CandidateProfile, language string) types.CEFRLevel {
	name := parsing.NormalizeLanguageName(language)
	best := types.CEFRNone
	for _, l := range c.Languages {
		if parsing.NormalizeLanguageName(l.Name) != name {
			continue
		}
		if level, ok := parsing.ParseCEFRLevel(l.Level); ok && level > best {
			best = level
		}
	}
	return best
}

// languageScore compares levels on the ordered CEFR scale. Meeting the minimum scores 100,
// falling short scores proportionally (have/need), a missing language scores 0.
func languageScore(have, need types.CEFRLevel) float64 {
	switch {
	case need == types.CEFRNone:
		return 100
	case have == types.CEFRNone:
		return 0
	case have >= need:
		return 100
	default:
		return 100 * float64(have) / float64(need)
	}
}

// computeLanguageScore scores one minimum-level criterion. The sentinel and unknown codes do not restrict.
func computeLanguageScore(c *types.CandidateProfile, language, minLevel string) float64 {
	if parsing.IsAll(minLevel) {
		return 100
	}
	need, ok := parsing.ParseCEFRLevel(minLevel)
	if !ok {
		return 100
	}
	if language == "" {
		language = parsing.DefaultLanguage
	}
	return languageScore(candidateLanguageLevel(c, language), need)
}

// computeRequiredLanguagesScore averages the language score over all job requirements
func computeRequiredLanguagesScore(c *types.CandidateProfile, reqs []types.LanguageRequirement) float64 {
	if len(reqs) == 0 {
		return 100
	}
	total := 0.0
	for _, req := range reqs {
		total += computeLanguageScore(c, req.Name, req.MinLevel)
	}
	return total / float64(len(reqs))
}

// profileCompleteness is the share of optional profile fields that are present (0-100)
func profileCompleteness(c *types.CandidateProfile) float64 {
	present := 0
	if len(c.Skills) > 0 {
		present++
	}
	if len(c.Languages) > 0 {
		present++
	}
	if c.ExperienceYears > 0 {
		present++
	}
	if c.Track != "" {
		present++
	}
	return 100 * float64(present) / 4
}

// computeReadinessScore combines the experience bucket comparison with preparedness.
// When availability is required, preparedness is the explicit readiness flag alone;
// otherwise the flag or profile completeness, whichever is higher.
func computeReadinessScore(c *types.CandidateProfile, need types.ExperienceBucket, requireAvailable bool) float64 {
	if need == types.BucketAny && !requireAvailable {
		return 100
	}

	experience := experienceScore(BucketForYears(c.ExperienceYears), need)

	preparedness := 0.0
	switch {
	case c.Ready:
		preparedness = 100
	case !requireAvailable:
		preparedness = profileCompleteness(c)
	}

	return readinessExperienceWeight*experience + readinessPreparednessWeight*preparedness
}

// toPercent rounds a 0-100 float and clamps it
func toPercent(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
