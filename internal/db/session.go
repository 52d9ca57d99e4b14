package db

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/dawan/studentprojects/internal/pkg/apperrors"
	"github.com/dawan/studentprojects/internal/pkg/logger"
)

const (
	// DefaultMaxAttempts is the number of connection attempts before giving up
	DefaultMaxAttempts = 5
	// DefaultRetryDelay is the fixed wait between two connection attempts
	DefaultRetryDelay = 10 * time.Second
)

// ErrSessionLost signals that the underlying connection is gone and the
// session should be discarded.
var ErrSessionLost = errors.New("database session lost")

// Row is one result row keyed by column name.
type Row = map[string]any

// Session executes statements against the store.
type Session interface {
	Exec(ctx context.Context, stmt string, args ...any) error
	Query(ctx context.Context, stmt string, args ...any) ([]Row, error)
	Close()
}

// Connector opens a new ready-to-use Session, schema included.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context) (Session, error)

// Connect calls f(ctx).
func (f ConnectorFunc) Connect(ctx context.Context) (Session, error) {
	return f(ctx)
}

// ProviderOption configures a SessionProvider
type ProviderOption func(*SessionProvider)

// WithMaxAttempts overrides DefaultMaxAttempts. Values below 1 are ignored.
func WithMaxAttempts(n int) ProviderOption {
	return func(p *SessionProvider) {
		if n >= 1 {
			p.maxAttempts = n
		}
	}
}

// WithRetryDelay overrides DefaultRetryDelay. Negative values are ignored.
func WithRetryDelay(d time.Duration) ProviderOption {
	return func(p *SessionProvider) {
		if d >= 0 {
			p.retryDelay = d
		}
	}
}

// SessionProvider owns the process-wide session and re-establishes it on demand.
type SessionProvider struct {
	connector   Connector
	maxAttempts int
	retryDelay  time.Duration

	// sem serialises connects and guards session; waiters honour their context
	sem     chan struct{}
	session Session

	// lock-free copies for Current
	held       atomic.Pointer[Session]
	connecting atomic.Bool
}

// NewSessionProvider creates a provider. No connection is made until GetSession.
func NewSessionProvider(connector Connector, opts ...ProviderOption) *SessionProvider {
	p := &SessionProvider{
		connector:   connector,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		sem:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetSession returns the held session without any health check, or connects.
// Connecting makes up to maxAttempts attempts with a fixed delay between them
// and no delay after the last one. When every attempt fails the error is a
// *apperrors.DatabaseUnavailableError.
func (p *SessionProvider) GetSession(ctx context.Context) (Session, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer p.release()

	if p.session != nil {
		return p.session, nil
	}

	log := logger.WithComponent("db")
	log.Warn().Msg("No database session, connecting")
	p.connecting.Store(true)
	defer p.connecting.Store(false)

	attempt := 0
	var lastErr error
	session, err := backoff.Retry(ctx, func() (Session, error) {
		attempt++
		log.Info().Int("attempt", attempt).Int("maxAttempts", p.maxAttempts).Msg("Connection attempt")

		s, err := p.connector.Connect(ctx)
		if err != nil {
			lastErr = err
			return nil, err
		}
		if s == nil {
			lastErr = errors.New("connector returned no session")
			return nil, lastErr
		}
		return s, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(p.retryDelay)),
		backoff.WithMaxTries(uint(p.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retryIn", next).Msg("Connection attempt failed")
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && attempt < p.maxAttempts {
			return nil, ctxErr
		}
		if lastErr == nil {
			lastErr = err
		}
		log.Error().Err(lastErr).Int("attempts", attempt).Msg("All connection attempts failed")
		return nil, &apperrors.DatabaseUnavailableError{Attempts: attempt, Err: lastErr}
	}

	log.Info().Int("attempt", attempt).Msg("Database session established")
	p.session = session
	p.held.Store(&session)
	return session, nil
}

func (p *SessionProvider) release() { <-p.sem }

// Current returns the held session without connecting or waiting. busy is
// true when none is held and another caller is connecting right now.
func (p *SessionProvider) Current() (s Session, busy bool) {
	if held := p.held.Load(); held != nil {
		return *held, false
	}
	return nil, p.connecting.Load()
}

// Invalidate closes and drops failed if it is still the held session, so the
// next GetSession reconnects. A session replaced in the meantime by another
// caller is left alone.
func (p *SessionProvider) Invalidate(failed Session) {
	if failed == nil {
		return
	}
	p.sem <- struct{}{}
	defer p.release()

	if p.session != failed {
		return
	}
	logger.Warn().Msg("Discarding lost database session")
	p.held.Store(nil)
	p.session.Close()
	p.session = nil
}

// Close shuts the held session down. The provider may reconnect afterwards.
func (p *SessionProvider) Close() {
	p.sem <- struct{}{}
	defer p.release()

	if p.session != nil {
		p.held.Store(nil)
		p.session.Close()
		p.session = nil
		logger.Info().Msg("Database session closed")
	}
}
