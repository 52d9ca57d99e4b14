package services

import (
	"context"
	"time"

	"github.com/dawan/studentprojects/internal/app/models/dto"
	"github.com/dawan/studentprojects/internal/db"
)

// HealthSource is the part of *db.SessionProvider the health check needs.
type HealthSource interface {
	GetSession(ctx context.Context) (db.Session, error)
	Current() (s db.Session, busy bool)
}

// HealthService reports whether the store can be reached
type HealthService struct {
	sessions HealthSource
	timeout  time.Duration
}

// NewHealthService creates a HealthService. timeout bounds the connect attempt
// made when no session is held yet.
func NewHealthService(sessions HealthSource, timeout time.Duration) *HealthService {
	return &HealthService{sessions: sessions, timeout: timeout}
}

// Check returns the health report and whether everything is up. It never
// queues behind a connect already in progress.
func (s *HealthService) Check(ctx context.Context) (dto.HealthResponse, bool) {
	held, busy := s.sessions.Current()
	switch {
	case held != nil:
		return healthUp()
	case busy:
		return healthDown()
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if _, err := s.sessions.GetSession(ctx); err != nil {
		return healthDown()
	}
	return healthUp()
}

func healthUp() (dto.HealthResponse, bool) {
	return dto.HealthResponse{Status: "ok", Database: "up"}, true
}

func healthDown() (dto.HealthResponse, bool) {
	return dto.HealthResponse{Status: "degraded", Database: "down"}, false
}
