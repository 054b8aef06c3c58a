package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// UserRepositoryInterface is the principal store
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *structs.User) error
	GetByID(ctx context.Context, id string) (*structs.User, error)
	GetByEmail(ctx context.Context, email string) (*structs.User, error)
	Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	UpdateNames(ctx context.Context, id string, firstName, lastName *string, at time.Time) (*structs.User, error)
	EnsureIndexes(ctx context.Context) error
}

type userRepository struct {
	store data.Store
	log   *logger.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(store data.Store, log *logger.Logger) UserRepositoryInterface {
	return &userRepository{store: store, log: log}
}

// EnsureIndexes creates the unique email and username indexes.
func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	return data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		})
		return err
	})
}

// Create inserts user. The ID must already be set.
func (r *userRepository) Create(ctx context.Context, user *structs.User) error {
	err := data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, user)
		return err
	})
	if err != nil {
		return fmt.Errorf("create user: %w", data.Normalize(err))
	}
	return nil
}

// GetByID finds a user by hex id. A malformed id is reported as not found.
func (r *userRepository) GetByID(ctx context.Context, id string) (*structs.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail finds a user by email, ignoring case
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*structs.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*structs.User, error) {
	var user structs.User
	err := data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		return coll.FindOne(ctx, filter).Decode(&user)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, data.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Taken reports which of email and username are already registered
func (r *userRepository) Taken(ctx context.Context, email, username string) (bool, bool, error) {
	email, username = strings.ToLower(email), strings.ToLower(username)

	var found []structs.User
	err := data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		cur, err := coll.Find(ctx,
			bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}},
			options.Find().SetProjection(bson.M{"email": 1, "username": 1}).SetLimit(2),
		)
		if err != nil {
			return err
		}
		return cur.All(ctx, &found)
	})
	if err != nil {
		return false, false, fmt.Errorf("check user uniqueness: %w", err)
	}

	var emailTaken, usernameTaken bool
	for _, u := range found {
		emailTaken = emailTaken || u.Email == email
		usernameTaken = usernameTaken || u.Username == username
	}
	return emailTaken, usernameTaken, nil
}

// UpdateLastLogin stamps the last authentication time
func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	err := data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		_, err := coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login": at, "updated_at": at}})
		return err
	})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateNames sets the provided names and returns the updated user
func (r *userRepository) UpdateNames(ctx context.Context, id string, firstName, lastName *string, at time.Time) (*structs.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}

	set := bson.M{"updated_at": at}
	if firstName != nil {
		set["first_name"] = *firstName
	}
	if lastName != nil {
		set["last_name"] = *lastName
	}

	var user structs.User
	err = data.Run(r.store, usersCollection, func(coll *mongo.Collection) error {
		return coll.FindOneAndUpdate(ctx,
			bson.M{"_id": oid},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, data.ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	r.log.Debug(ctx, "user profile updated", "user_id", id)
	return &user, nil
}
