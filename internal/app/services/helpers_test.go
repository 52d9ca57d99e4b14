package services

import (
	"testing"
	"time"

	"github.com/dawan/studentprojects/internal/app/repositories"
	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/db/memdb"
	"github.com/dawan/studentprojects/internal/pkg/auth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store    *memdb.Store
	sessions *db.SessionProvider
	repos    *repositories.Repositories
	jwt      *auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	store := memdb.New()
	sessions := db.NewSessionProvider(store, db.WithMaxAttempts(1))
	t.Cleanup(sessions.Close)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		Algorithm:      "HS256",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	require.NoError(t, err)

	return &testEnv{
		store:    store,
		sessions: sessions,
		repos:    repositories.NewRepositories(sessions),
		jwt:      jwtService,
	}
}

func (e *testEnv) authService() *AuthService {
	return NewAuthService(e.repos.UserRepository, e.jwt, zerolog.Nop())
}

func strPtr(s string) *string { return &s }
