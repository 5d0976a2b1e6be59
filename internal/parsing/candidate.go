package parsing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talent-match/internal/schemas"
	"github.com/jonathan/talent-match/internal/types"
)

// DefaultLanguage is the language compared when a filter does not name one
const DefaultLanguage = "German"

var validate = validator.New()

// DecodeCandidate validates a raw candidate record and returns it with defaults applied.
//
// Defaults: missing skill/language lists become empty, negative experience becomes 0,
// unknown CEFR or skill levels are cleared, names and tracks are normalized.
// An optional field of the wrong type falls back to its zero value, and malformed
// skill or language entries are dropped. The only hard failure on a well-formed
// document is a missing identifier.
func DecodeCandidate(data []byte) (*types.CandidateProfile, error) {
	if err := schemas.ValidateBytes(schemas.CandidateProfile, data); err != nil {
		return nil, schemaError(err)
	}

	var rec candidateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &ParseError{Message: "failed to unmarshal candidate", Cause: err}
	}

	c := rec.profile()
	if err := NormalizeCandidate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// candidateRecord keeps every field undecoded so each one can fail on its own
type candidateRecord struct {
	ID              json.RawMessage `json:"id"`
	Name            json.RawMessage `json:"name"`
	Skills          json.RawMessage `json:"skills"`
	Languages       json.RawMessage `json:"languages"`
	ExperienceYears json.RawMessage `json:"experience_years"`
	Track           json.RawMessage `json:"track"`
	Ready           json.RawMessage `json:"ready"`
	Summary         json.RawMessage `json:"summary"`
	CachedScore     json.RawMessage `json:"cached_score"`
}

func (r candidateRecord) profile() types.CandidateProfile {
	return types.CandidateProfile{
		ID:              lenient[string](r.ID),
		Name:            lenient[string](r.Name),
		Skills:          lenientList[types.SkillEntry](r.Skills),
		Languages:       lenientList[types.LanguageEntry](r.Languages),
		ExperienceYears: lenient[int](r.ExperienceYears),
		Track:           lenient[string](r.Track),
		Ready:           lenient[bool](r.Ready),
		Summary:         lenient[string](r.Summary),
		CachedScore:     lenient[*types.CachedScore](r.CachedScore),
	}
}

// lenient decodes raw into T, returning the zero value when raw is absent or has the wrong type
func lenient[T any](raw json.RawMessage) T {
	var v T
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// lenientList decodes a JSON array element by element, dropping elements that do not decode.
// Anything other than an array yields an empty list.
func lenientList[T any](raw json.RawMessage) []T {
	items := lenient[[]json.RawMessage](raw)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DecodeCandidates decodes a JSON array of candidate records. Decoding stops at the first invalid record.
func DecodeCandidates(data []byte) ([]types.CandidateProfile, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Message: "expected a JSON array of candidates", Cause: err}
	}

	out := make([]types.CandidateProfile, 0, len(raw))
	for i, item := range raw {
		c, err := DecodeCandidate(item)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out = append(out, *c)
	}
	return out, nil
}

// DecodeCandidatePool decodes a JSON array of candidate records, keeping every valid record.
// Invalid records are reported by their position in the array and never returned.
func DecodeCandidatePool(data []byte) ([]types.CandidateProfile, []types.SkippedCandidate, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, &ParseError{Message: "expected a JSON array of candidates", Cause: err}
	}

	out := make([]types.CandidateProfile, 0, len(raw))
	var skipped []types.SkippedCandidate
	for i, item := range raw {
		c, err := DecodeCandidate(item)
		if err != nil {
			skipped = append(skipped, types.SkippedCandidate{
				Index:       i,
				CandidateID: peekID(item),
				Reason:      err.Error(),
			})
			continue
		}
		out = append(out, *c)
	}
	return out, skipped, nil
}

// MergeSkipped combines records skipped by DecodeCandidatePool with records skipped later
// while scoring the decoded pool. Indices in scored refer to the decoded pool and are mapped
// back to positions in the raw array. The result is ordered by raw position.
func MergeSkipped(decoded, scored []types.SkippedCandidate) []types.SkippedCandidate {
	if len(decoded) == 0 && len(scored) == 0 {
		return nil
	}

	holes := make([]int, len(decoded))
	for i, s := range decoded {
		holes[i] = s.Index
	}
	sort.Ints(holes)

	out := make([]types.SkippedCandidate, 0, len(decoded)+len(scored))
	out = append(out, decoded...)
	for _, s := range scored {
		raw := s.Index
		for _, h := range holes {
			if h <= raw {
				raw++
			}
		}
		s.Index = raw
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// peekID returns the id field of a raw record when it is a string
func peekID(item json.RawMessage) string {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(item, &probe); err != nil {
		return ""
	}
	id, _ := probe.ID.(string)
	return strings.TrimSpace(id)
}

// NormalizeCandidate applies boundary defaults to a candidate decoded from a trusted source
// (e.g. a database row) and checks the required identifier.
func NormalizeCandidate(c *types.CandidateProfile) error {
	c.ID = strings.TrimSpace(c.ID)
	if err := validate.Struct(c); err != nil {
		return structError(err)
	}

	skills := make([]types.SkillEntry, 0, len(c.Skills))
	for _, s := range c.Skills {
		name := NormalizeSkillName(s.Name)
		if name == "" {
			continue
		}
		skills = append(skills, types.SkillEntry{Name: name, Level: ParseSkillLevel(s.Level).String()})
	}
	c.Skills = skills

	languages := make([]types.LanguageEntry, 0, len(c.Languages))
	for _, l := range c.Languages {
		name := NormalizeLanguageName(l.Name)
		if name == "" {
			continue
		}
		level, _ := ParseCEFRLevel(l.Level)
		languages = append(languages, types.LanguageEntry{Name: name, Level: level.String()})
	}
	c.Languages = languages

	if c.ExperienceYears < 0 {
		c.ExperienceYears = 0
	}
	c.Track = NormalizeTrack(c.Track)
	return nil
}

// DecodeCriteria validates and normalizes a criteria payload. A payload with neither
// filter nor job is an all-sentinel filter.
func DecodeCriteria(data []byte) (*types.MatchCriteria, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		c := types.FilterCriteria(types.FilterSpec{})
		return &c, nil
	}

	if err := schemas.ValidateBytes(schemas.MatchCriteria, data); err != nil {
		return nil, schemaError(err)
	}

	var c types.MatchCriteria
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &ParseError{Message: "failed to unmarshal criteria", Cause: err}
	}

	if err := NormalizeCriteria(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// NormalizeCriteria infers the mode, fills the default language and rejects unknown level codes.
func NormalizeCriteria(c *types.MatchCriteria) error {
	if c.Mode == "" {
		if c.Job != nil {
			c.Mode = types.ModeJob
		} else {
			c.Mode = types.ModeFilter
		}
	}

	switch c.Mode {
	case types.ModeFilter:
		if c.Filter == nil {
			c.Filter = &types.FilterSpec{}
		}
		return normalizeFilter(c.Filter)
	case types.ModeJob:
		if c.Job == nil {
			return &ValidationError{Field: "job", Message: "job mode requires a job spec"}
		}
		return normalizeJob(c.Job)
	default:
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", c.Mode)}
	}
}

func normalizeFilter(f *types.FilterSpec) error {
	if IsAll(f.Track) {
		f.Track = types.AllValue
	} else {
		f.Track = NormalizeTrack(f.Track)
	}

	if IsAll(f.MinLanguageLevel) {
		f.MinLanguageLevel = types.AllValue
	} else {
		level, ok := ParseCEFRLevel(f.MinLanguageLevel)
		if !ok {
			return &ValidationError{Field: "min_language_level", Message: fmt.Sprintf("unknown CEFR level %q", f.MinLanguageLevel)}
		}
		f.MinLanguageLevel = level.String()
	}

	if strings.TrimSpace(f.Language) == "" {
		f.Language = DefaultLanguage
	} else {
		f.Language = NormalizeLanguageName(f.Language)
	}

	bucket, ok := ParseBucket(f.ExperienceBucket)
	if !ok {
		return &ValidationError{Field: "experience_bucket", Message: fmt.Sprintf("unknown experience bucket %q", f.ExperienceBucket)}
	}
	f.ExperienceBucket = bucket.String()

	if IsAll(f.Availability) {
		f.Availability = types.AllValue
	}
	return nil
}

func normalizeJob(j *types.JobSpec) error {
	if err := validate.Struct(j); err != nil {
		return structError(err)
	}

	if j.MinExperienceYears < 0 {
		return &ValidationError{Field: "min_experience_years", Message: "must be non-negative"}
	}

	for i := range j.RequiredSkills {
		req := &j.RequiredSkills[i]
		req.Name = NormalizeSkillName(req.Name)
		req.MinLevel = ParseSkillLevel(req.MinLevel).String()
	}

	for i := range j.RequiredLanguages {
		req := &j.RequiredLanguages[i]
		req.Name = NormalizeLanguageName(req.Name)
		if IsAll(req.MinLevel) {
			req.MinLevel = types.AllValue
			continue
		}
		level, ok := ParseCEFRLevel(req.MinLevel)
		if !ok {
			return &ValidationError{
				Field:   fmt.Sprintf("required_languages[%d].min_level", i),
				Message: fmt.Sprintf("unknown CEFR level %q", req.MinLevel),
			}
		}
		req.MinLevel = level.String()
	}
	return nil
}

// schemaError converts a schema failure into a parsing error
func schemaError(err error) error {
	var ve *schemas.ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		first := ve.Errors[0]
		return &ValidationError{Field: first.Field, Message: first.Message}
	}
	return &ParseError{Message: "document is not valid JSON", Cause: err}
}

// structError converts validator output into a ValidationError naming the first failing field
func structError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   fieldName(fe.Namespace()),
			Message: fmt.Sprintf("failed %q check", fe.Tag()),
		}
	}
	return &ValidationError{Message: err.Error()}
}

// fieldName maps a validator namespace ("CandidateProfile.ID") to the JSON field path ("id")
func fieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnake(p)
	}
	return strings.Join(parts, ".")
}

func toSnake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] >= 'a' && s[i-1] <= 'z' {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
