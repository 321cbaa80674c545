package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is a single recorded activity entry
type Event struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Stats aggregates the activity feed. Computing it walks the whole feed,
// which is why pages expose it as a lazy prop.
type Stats struct {
	TotalEvents   int            `json:"total_events"`
	UniqueUsers   int            `json:"unique_users"`
	CountByAction map[string]int `json:"count_by_action"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// ActivityService keeps an in-memory activity feed for the demo pages
type ActivityService struct {
	mu     sync.RWMutex
	events []Event
	logger *zap.Logger

	// statsComputed counts Stats invocations; tests use it to verify
	// that unrequested lazy props never evaluate
	statsComputed atomic.Int64
}

// NewActivityService creates an activity service
func NewActivityService(logger *zap.Logger) *ActivityService {
	return &ActivityService{
		logger: logger,
	}
}

// Record appends an event to the feed
func (s *ActivityService) Record(ctx context.Context, userID, action string) Event {
	event := Event{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	s.logger.Debug("Recorded activity",
		zap.String("event_id", event.ID),
		zap.String("user_id", userID),
		zap.String("action", action),
	)

	return event
}

// Recent returns the newest events, most recent first
func (s *ActivityService) Recent(ctx context.Context, limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}

	recent := make([]Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, s.events[i])
	}
	return recent
}

// Stats computes aggregate statistics over the whole feed
func (s *ActivityService) Stats(ctx context.Context) (Stats, error) {
	s.statsComputed.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]struct{})
	byAction := make(map[string]int)
	for _, event := range s.events {
		users[event.UserID] = struct{}{}
		byAction[event.Action]++
	}

	return Stats{
		TotalEvents:   len(s.events),
		UniqueUsers:   len(users),
		CountByAction: byAction,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}

// StatsComputations reports how many times Stats has run
func (s *ActivityService) StatsComputations() int64 {
	return s.statsComputed.Load()
}
