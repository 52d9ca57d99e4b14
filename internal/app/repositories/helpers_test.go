package repositories

import (
	"testing"

	"github.com/dawan/studentprojects/internal/db"
	"github.com/dawan/studentprojects/internal/db/memdb"
)

func newTestSessions(t *testing.T) (*memdb.Store, *db.SessionProvider) {
	t.Helper()
	store := memdb.New()
	provider := db.NewSessionProvider(store, db.WithMaxAttempts(1))
	t.Cleanup(provider.Close)
	return store, provider
}

func strPtr(s string) *string { return &s }
