package parsing

import (
	"strings"

	"github.com/jonathan/talent-match/internal/types"
)

// ParseCEFRLevel parses a CEFR code. Sub-levels ("B1.2") round down to their level and
// "native" maps to C2. Returns CEFRNone and false for anything else.
func ParseCEFRLevel(code string) (types.CEFRLevel, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch c {
	case "NATIVE", "MUTTERSPRACHE", "MOTHER TONGUE":
		return types.CEFRC2, true
	}
	if len(c) > 2 && (c[2] == '.' || c[2] == '+' || c[2] == '/') {
		c = c[:2]
	}
	switch c {
	case "A1":
		return types.CEFRA1, true
	case "A2":
		return types.CEFRA2, true
	case "B1":
		return types.CEFRB1, true
	case "B2":
		return types.CEFRB2, true
	case "C1":
		return types.CEFRC1, true
	case "C2":
		return types.CEFRC2, true
	default:
		return types.CEFRNone, false
	}
}

// ParseSkillLevel parses a skill proficiency label. Unknown or empty labels are SkillUnspecified.
func ParseSkillLevel(label string) types.SkillLevel {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "beginner", "basic", "novice", "junior":
		return types.SkillBeginner
	case "intermediate", "medium", "proficient":
		return types.SkillIntermediate
	case "advanced", "expert", "senior":
		return types.SkillAdvanced
	default:
		return types.SkillUnspecified
	}
}

// ParseBucket parses an experience bucket. Accepts bucket names and the range labels
// used by the employer filter ("0-2", "2-5", "5+"). The sentinel maps to BucketAny.
func ParseBucket(label string) (types.ExperienceBucket, bool) {
	if IsAll(label) {
		return types.BucketAny, true
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "junior", "entry", "0-2", "<2":
		return types.BucketJunior, true
	case "mid", "middle", "intermediate", "2-5":
		return types.BucketMid, true
	case "senior", "5+", ">5", "5-10", "10+":
		return types.BucketSenior, true
	default:
		return types.BucketAny, false
	}
}
