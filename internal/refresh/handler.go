package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/logger"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/scorecache"
	"github.com/jonathan/talent-match/internal/types"
)

// RefreshedRoutingKey is the routing key of Refreshed notifications
const RefreshedRoutingKey = "score.refreshed"

// CandidateSource loads candidate records. GetCandidate returns nil, nil for an unknown ID.
type CandidateSource interface {
	GetCandidate(ctx context.Context, id string) (*types.CandidateProfile, error)
}

// Publisher sends a notification body under a routing key
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Handler recomputes cached scores for one candidate. It does not depend on the transport.
type Handler struct {
	source    CandidateSource
	cache     *scorecache.Cache
	criteria  []types.MatchCriteria
	publisher Publisher
	logger    *zap.Logger
}

// NewHandler creates a handler. An empty criteria set refreshes the neutral filter only.
// publisher may be nil.
func NewHandler(source CandidateSource, cache *scorecache.Cache, criteria []types.MatchCriteria, publisher Publisher, log *zap.Logger) *Handler {
	if len(criteria) == 0 {
		criteria = []types.MatchCriteria{types.FilterCriteria(types.FilterSpec{})}
	}
	return &Handler{
		source:    source,
		cache:     cache,
		criteria:  criteria,
		publisher: publisher,
		logger:    logger.OrNop(log),
	}
}

// Handle invalidates and recomputes the candidate's cached scores.
// Cache and publish failures are logged only. A candidate that no longer exists or cannot be
// scored is reported as a MalformedError; a failing candidate source is returned as-is so the
// message can be retried.
func (h *Handler) Handle(ctx context.Context, ev Event) error {
	log := h.logger.With(zap.String("candidate_id", ev.CandidateID), zap.String("reason", ev.Reason))

	if err := h.cache.Invalidate(ctx, ev.CandidateID); err != nil {
		log.Warn("failed to invalidate cached scores", zap.Error(err))
	}

	candidate, err := h.source.GetCandidate(ctx, ev.CandidateID)
	if err != nil {
		return fmt.Errorf("failed to load candidate %s: %w", ev.CandidateID, err)
	}
	if candidate == nil {
		return &MalformedError{Message: fmt.Sprintf("candidate %s not found", ev.CandidateID)}
	}
	// The stored display copy is stale by definition
	candidate.CachedScore = nil

	for _, criteria := range h.criteria {
		lookup, err := h.cache.Get(ctx, candidate, criteria)
		if err != nil {
			var ve *ranking.ValidationError
			if errors.As(err, &ve) {
				return &MalformedError{Message: "candidate cannot be scored", Cause: err}
			}
			return err
		}

		key, _ := scorecache.CriteriaKey(criteria)
		log.Debug("score refreshed", zap.String("criteria_key", key), zap.Int("score", lookup.Result.Score))
		h.publish(ctx, log, Refreshed{
			CandidateID: candidate.ID,
			CriteriaKey: key,
			Score:       lookup.Result.Score,
			ComputedAt:  lookup.ComputedAt,
		})
	}

	log.Info("candidate scores refreshed", zap.Int("criteria", len(h.criteria)))
	return nil
}

func (h *Handler) publish(ctx context.Context, log *zap.Logger, r Refreshed) {
	if h.publisher == nil {
		return
	}
	body, err := json.Marshal(r)
	if err != nil {
		log.Warn("failed to encode refresh notification", zap.Error(err))
		return
	}
	if err := h.publisher.Publish(ctx, RefreshedRoutingKey, body); err != nil {
		log.Warn("failed to publish refresh notification", zap.Error(err))
	}
}
