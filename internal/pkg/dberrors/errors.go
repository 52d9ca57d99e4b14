package dberrors

import (
	"errors"

	"github.com/gocql/gocql"
)

// IsConnectionLost reports whether err means the gocql session can no longer
// serve queries and a new one has to be opened.
func IsConnectionLost(err error) bool {
	return errors.Is(err, gocql.ErrSessionClosed) ||
		errors.Is(err, gocql.ErrNoConnections) ||
		errors.Is(err, gocql.ErrNoConnectionsStarted) ||
		errors.Is(err, gocql.ErrConnectionClosed)
}

// IsAlreadyExists checks if the error is a Cassandra "already exists" error,
// returned for schema objects created concurrently by another client.
func IsAlreadyExists(err error) bool {
	var existsErr *gocql.RequestErrAlreadyExists
	return errors.As(err, &existsErr)
}
