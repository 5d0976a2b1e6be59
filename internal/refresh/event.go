// Package refresh keeps cached match scores current when candidate records change.
// It consumes candidate.updated events from RabbitMQ, invalidates the candidate's cached
// scores and recomputes them for the configured criteria set.
package refresh

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/types"
)

// Event is a candidate change notification.
type Event struct {
	CandidateID string    `mapstructure:"candidate_id"`
	Reason      string    `mapstructure:"reason"`
	OccurredAt  time.Time `mapstructure:"occurred_at"`
}

// Refreshed is published after a candidate's score has been recomputed.
type Refreshed struct {
	CandidateID string    `json:"candidate_id"`
	CriteriaKey string    `json:"criteria_key"`
	Score       int       `json:"score"`
	ComputedAt  time.Time `json:"computed_at"`
}

// MalformedError marks a message that can never be processed
type MalformedError struct {
	Message string
	Cause   error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed event: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed event: %s", e.Message)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// DecodeEvent decodes a message body, falling back to message headers for fields the body lacks.
// Bodies and headers are plain maps so loosely typed producers (numeric IDs, RFC3339 strings) decode.
func DecodeEvent(body []byte, headers map[string]interface{}) (Event, error) {
	fields := map[string]interface{}{}
	for k, v := range headers {
		fields[k] = v
	}

	if len(bytes.TrimSpace(body)) > 0 {
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			return Event{}, &MalformedError{Message: "body is not a JSON object", Cause: err}
		}
		for k, v := range payload {
			fields[k] = v
		}
	}

	var ev Event
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           &ev,
	})
	if err != nil {
		return Event{}, err
	}
	if err := decoder.Decode(fields); err != nil {
		return Event{}, &MalformedError{Message: "unexpected field types", Cause: err}
	}

	ev.CandidateID = strings.TrimSpace(ev.CandidateID)
	if ev.CandidateID == "" {
		return Event{}, &MalformedError{Message: "candidate_id is required"}
	}
	return ev, nil
}

// ParseCriteriaSet decodes the criteria recomputed on refresh: a single criteria object or an array.
// Empty input is the neutral filter.
func ParseCriteriaSet(data []byte) ([]types.MatchCriteria, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c, err := parsing.DecodeCriteria(trimmed)
		if err != nil {
			return nil, err
		}
		return []types.MatchCriteria{*c}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &parsing.ParseError{Message: "expected a JSON array of criteria", Cause: err}
	}
	set := make([]types.MatchCriteria, 0, len(raw))
	for i, item := range raw {
		c, err := parsing.DecodeCriteria(item)
		if err != nil {
			return nil, fmt.Errorf("criteria %d: %w", i, err)
		}
		set = append(set, *c)
	}
	if len(set) == 0 {
		set = append(set, types.FilterCriteria(types.FilterSpec{}))
	}
	return set, nil
}
