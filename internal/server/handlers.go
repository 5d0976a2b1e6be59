package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

// maxBodyBytes bounds request bodies; a rank request carries a whole candidate list
const maxBodyBytes = 10 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ScoreRequest is the body of POST /match/score
type ScoreRequest struct {
	Candidate json.RawMessage `json:"candidate" validate:"required"`
	Criteria  json.RawMessage `json:"criteria,omitempty"`
}

// RankRequest is the body of POST /match/rank
type RankRequest struct {
	Candidates json.RawMessage `json:"candidates" validate:"required"`
	Criteria   json.RawMessage `json:"criteria,omitempty"`
	MinScore   *int            `json:"min_score,omitempty" validate:"omitempty,min=0,max=100"`
}

// SkillGapRequest is the body of POST /match/skill-gap
type SkillGapRequest struct {
	Candidate json.RawMessage `json:"candidate" validate:"required"`
	Job       *types.JobSpec  `json:"job" validate:"required"`
}

// JobReadyRequest is the body of POST /match/job-ready
type JobReadyRequest struct {
	Candidate json.RawMessage `json:"candidate" validate:"required"`
}

// CandidateMatchResponse is the response of GET /candidates/{id}/match
type CandidateMatchResponse struct {
	CandidateID string            `json:"candidate_id"`
	Result      types.MatchResult `json:"result"`
	FromCache   bool              `json:"from_cache"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// TalentPoolResponse is the response of GET /talent-pool
type TalentPoolResponse struct {
	Ranked  []types.RankedCandidate  `json:"ranked"`
	Skipped []types.SkippedCandidate `json:"skipped,omitempty"`
	Count   int                      `json:"count"`
	Limit   int                      `json:"limit"`
	Offset  int                      `json:"offset"`
}

// ExportResponse is the response of POST /talent-pool/export
type ExportResponse struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// decodeBody decodes and validates a JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ErrValidation{Field: fieldPath(fe.Namespace()), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

// fieldPath drops the struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// handleScore scores one candidate against filter or job criteria
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	candidate, err := parsing.DecodeCandidate(req.Candidate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	criteria, err := parsing.DecodeCriteria(req.Criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := ranking.Score(candidate, *criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleRank ranks a caller-supplied candidate list. Invalid records are reported, not ranked.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	candidates, skipped, err := parsing.DecodeCandidatePool(req.Candidates)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	criteria, err := parsing.DecodeCriteria(req.Criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ranked, err := ranking.RankCandidates(r.Context(), candidates, *criteria, s.workers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MinScore != nil {
		ranked = ranking.FilterByMinScore(ranked, *req.MinScore)
	}
	ranked.Skipped = parsing.MergeSkipped(skipped, ranked.Skipped)

	s.jsonResponse(w, http.StatusOK, ranked)
}

// handleSkillGap compares a candidate's skills to a job's requirements
func (s *Server) handleSkillGap(w http.ResponseWriter, r *http.Request) {
	var req SkillGapRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	candidate, err := parsing.DecodeCandidate(req.Candidate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	criteria := types.JobCriteria(*req.Job)
	if err := parsing.NormalizeCriteria(&criteria); err != nil {
		s.writeError(w, r, err)
		return
	}

	gap, err := ranking.AnalyzeSkillGap(candidate, *criteria.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gap)
}

// handleJobReady returns the candidate self-view readiness report
func (s *Server) handleJobReady(w http.ResponseWriter, r *http.Request) {
	var req JobReadyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	candidate, err := parsing.DecodeCandidate(req.Candidate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	readiness, err := ranking.CalculateJobReadyScore(candidate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, readiness)
}

// handleCandidateMatch scores a stored candidate through the read-through cache
func (s *Server) handleCandidateMatch(w http.ResponseWriter, r *http.Request) {
	if s.candidates == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "candidate database"})
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "candidate id is required"})
		return
	}

	criteria, err := filterFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	candidate, err := s.candidates.GetCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if candidate == nil {
		s.writeError(w, r, &ErrCandidateNotFound{CandidateID: id})
		return
	}

	lookup, err := s.cache.Get(r.Context(), candidate, criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, CandidateMatchResponse{
		CandidateID: candidate.ID,
		Result:      lookup.Result,
		FromCache:   lookup.FromCache,
		ComputedAt:  lookup.ComputedAt,
	})
}

// handleTalentPool ranks one page of the stored talent pool against query filters
func (s *Server) handleTalentPool(w http.ResponseWriter, r *http.Request) {
	page, err := s.rankPool(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, TalentPoolResponse{
		Ranked:  page.ranked.Ranked,
		Skipped: page.ranked.Skipped,
		Count:   len(page.ranked.Ranked),
		Limit:   page.limit,
		Offset:  page.offset,
	})
}

// handleTalentPoolExport ranks like GET /talent-pool and uploads the shortlist
func (s *Server) handleTalentPoolExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "shortlist export"})
		return
	}

	page, err := s.rankPool(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err := s.exporter.Export(r.Context(), page.criteria, page.ranked)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, ExportResponse{Key: key, Count: len(page.ranked.Ranked)})
}

// poolPage is one ranked page of the talent pool
type poolPage struct {
	criteria types.MatchCriteria
	ranked   *types.RankedCandidates
	limit    int
	offset   int
}

// rankPool loads a page of candidates and ranks it with the query's filter and min_score
func (s *Server) rankPool(r *http.Request) (*poolPage, error) {
	if s.candidates == nil {
		return nil, &ErrUnavailable{Feature: "candidate database"}
	}

	criteria, err := filterFromQuery(r)
	if err != nil {
		return nil, err
	}
	minScore, err := parseScore(r, "min_score")
	if err != nil {
		return nil, err
	}

	page := &poolPage{
		criteria: criteria,
		limit:    parseQueryInt(r, "limit", db.DefaultListLimit, db.MaxListLimit),
		offset:   parseQueryInt(r, "offset", 0, 0),
	}
	// the store treats a zero limit as its default page size
	if page.limit == 0 {
		page.limit = db.DefaultListLimit
	}
	ready, _ := strconv.ParseBool(r.URL.Query().Get("ready"))

	candidates, err := s.candidates.ListCandidates(r.Context(), db.CandidateFilter{
		ReadyOnly: ready,
		Limit:     page.limit,
		Offset:    page.offset,
	})
	if err != nil {
		return nil, err
	}

	ranked, err := ranking.RankCandidates(r.Context(), candidates, criteria, s.workers)
	if err != nil {
		return nil, err
	}
	page.ranked = ranking.FilterByMinScore(ranked, minScore)
	return page, nil
}

// filterFromQuery builds filter criteria from query parameters. Absent parameters are non-restrictive.
func filterFromQuery(r *http.Request) (types.MatchCriteria, error) {
	q := r.URL.Query()
	criteria := types.FilterCriteria(types.FilterSpec{
		Track:            q.Get("track"),
		MinLanguageLevel: q.Get("min_language"),
		Language:         q.Get("language"),
		ExperienceBucket: q.Get("experience"),
		Availability:     q.Get("availability"),
	})
	if err := parsing.NormalizeCriteria(&criteria); err != nil {
		return types.MatchCriteria{}, err
	}
	return criteria, nil
}

// parseScore parses an optional 0-100 score query parameter
func parseScore(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 100 {
		return 0, &ErrValidation{Field: key, Message: "must be an integer between 0 and 100"}
	}
	return v, nil
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}
