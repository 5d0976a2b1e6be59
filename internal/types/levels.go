// Package types provides type definitions for structured data used throughout the talent-match system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CEFRLevel is an ordered language proficiency level. The zero value means "no level".
type CEFRLevel int

// CEFR levels, lowest to highest
const (
	CEFRNone CEFRLevel = iota
	CEFRA1
	CEFRA2
	CEFRB1
	CEFRB2
	CEFRC1
	CEFRC2
)

var cefrNames = [...]string{"", "A1", "A2", "B1", "B2", "C1", "C2"}

func (l CEFRLevel) String() string {
	if l < CEFRNone || l > CEFRC2 {
		return ""
	}
	return cefrNames[l]
}

// SkillLevel is an ordered skill proficiency. The zero value means "unspecified".
type SkillLevel int

// Skill proficiency levels, lowest to highest
const (
	SkillUnspecified SkillLevel = iota
	SkillBeginner
	SkillIntermediate
	SkillAdvanced
)

func (l SkillLevel) String() string {
	switch l {
	case SkillBeginner:
		return "Beginner"
	case SkillIntermediate:
		return "Intermediate"
	case SkillAdvanced:
		return "Advanced"
	default:
		return ""
	}
}

// ExperienceBucket groups years of experience. Ordered junior < mid < senior.
type ExperienceBucket int

// Experience buckets
const (
	BucketAny ExperienceBucket = iota
	BucketJunior
	BucketMid
	BucketSenior
)

func (b ExperienceBucket) String() string {
	switch b {
	case BucketJunior:
		return "junior"
	case BucketMid:
		return "mid"
	case BucketSenior:
		return "senior"
	default:
		return "all"
	}
}
