package connection

import (
	"errors"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

var (
	ErrNotConnected = errors.New("mongodb is not connected")
	ErrClosed       = errors.New("mongodb manager is closed")
	ErrConnecting   = errors.New("mongodb connect already in progress")

	ErrNoWritableServer = errors.New("mongodb has no writable server")
)

// IsUnavailable reports whether err means the database cannot be reached,
// as opposed to a failed query. Only driver network errors, server
// selection failures, a disconnected client and an open breaker qualify.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrNotConnected),
		errors.Is(err, ErrClosed),
		errors.Is(err, ErrNoWritableServer),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, topology.ErrServerSelectionTimeout):
		return true
	}

	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return true
	}

	return mongo.IsNetworkError(err)
}
