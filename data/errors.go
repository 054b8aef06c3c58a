package data

import (
	"errors"

	"github.com/ncobase/classroom/data/connection"
	"github.com/ncobase/classroom/ecode"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// IsUnavailable reports a store connection failure
func IsUnavailable(err error) bool {
	return connection.IsUnavailable(err)
}

// UnavailableClassifier turns connection failures into the 503 error.
// Any other error yields nil.
func UnavailableClassifier(err error) *ecode.Error {
	if !connection.IsUnavailable(err) {
		return nil
	}
	return ecode.Unavailable(err)
}

// Normalize maps driver errors onto ErrNotFound and ErrDuplicate,
// leaving everything else untouched.
func Normalize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
