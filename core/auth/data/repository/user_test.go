package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type dbStore struct{ db *mongo.Database }

func (s dbStore) Collection(name string) (*mongo.Collection, error) { return s.db.Collection(name), nil }
func (s dbStore) Execute(fn func() error) error                     { return fn() }

func newRepo(mt *mtest.T) UserRepositoryInterface {
	return NewUserRepository(dbStore{db: mt.DB}, logger.Discard())
}

func userDoc(id primitive.ObjectID, email, username string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: email},
		{Key: "username", Value: username},
		{Key: "password_hash", Value: "$2a$12$hash"},
		{Key: "first_name", Value: "Ada"},
		{Key: "last_name", Value: "Lovelace"},
		{Key: "role", Value: "student"},
		{Key: "is_active", Value: true},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := newRepo(mt).Create(ctx, &structs.User{ID: primitive.NewObjectID(), Email: "a@x.com"})
		assert.NoError(mt, err)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error",
		}))
		err := newRepo(mt).Create(ctx, &structs.User{ID: primitive.NewObjectID(), Email: "a@x.com"})
		assert.ErrorIs(mt, err, data.ErrDuplicate)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch, userDoc(id, "a@x.com", "ada1")))

		u, err := newRepo(mt).GetByEmail(ctx, "A@X.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, u.ID)
		assert.Equal(mt, structs.RoleStudent, u.Role)
		assert.Equal(mt, "Ada Lovelace", u.FullName())
	})

	mt.Run("get by email missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch))
		_, err := newRepo(mt).GetByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(mt, err, data.ErrNotFound)
	})

	mt.Run("get by malformed id", func(mt *mtest.T) {
		_, err := newRepo(mt).GetByID(ctx, "not-an-id")
		assert.ErrorIs(mt, err, data.ErrNotFound)
	})

	mt.Run("taken", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "email", Value: "a@x.com"}, {Key: "username", Value: "other"}},
		))
		emailTaken, usernameTaken, err := newRepo(mt).Taken(ctx, "A@x.com", "ada")
		require.NoError(mt, err)
		assert.True(mt, emailTaken)
		assert.False(mt, usernameTaken)
	})

	mt.Run("update names", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		doc := userDoc(id, "a@x.com", "ada1")
		doc[4] = bson.E{Key: "first_name", Value: "Augusta"}
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}})

		first := "Augusta"
		u, err := newRepo(mt).UpdateNames(ctx, id.Hex(), &first, nil, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, "Augusta", u.FirstName)
	})

	mt.Run("update last login", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})
		assert.NoError(mt, newRepo(mt).UpdateLastLogin(ctx, primitive.NewObjectID(), time.Now()))
	})
}
