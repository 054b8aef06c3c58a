package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/classroom/biz/task/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tasksCollection = "tasks"

// TaskRepositoryInterface is the task store
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *structs.Task) error
	GetByID(ctx context.Context, id string) (*structs.Task, error)
	Update(ctx context.Context, task *structs.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *structs.ListTaskParams) ([]*structs.Task, int64, error)
	EnsureIndexes(ctx context.Context) error
}

type taskRepository struct {
	store data.Store
	log   *logger.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store data.Store, log *logger.Logger) TaskRepositoryInterface {
	return &taskRepository{store: store, log: log}
}

func (r *taskRepository) EnsureIndexes(ctx context.Context) error {
	return data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		})
		return err
	})
}

func (r *taskRepository) Create(ctx context.Context, task *structs.Task) error {
	err := data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, task)
		return err
	})
	if err != nil {
		return fmt.Errorf("create task: %w", data.Normalize(err))
	}
	return nil
}

// GetByID finds a task by hex id. A malformed id is reported as not found.
func (r *taskRepository) GetByID(ctx context.Context, id string) (*structs.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}

	var task structs.Task
	err = data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		return coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&task)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, data.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// Update replaces the stored document with task
func (r *taskRepository) Update(ctx context.Context, task *structs.Task) error {
	var matched int64
	err := data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		res, err := coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if matched == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	var deleted int64
	err := data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if deleted == 0 {
		return data.ErrNotFound
	}
	return nil
}

// List returns one page of tasks, newest first, and the total match count
func (r *taskRepository) List(ctx context.Context, params *structs.ListTaskParams) ([]*structs.Task, int64, error) {
	filter := bson.M{}
	if params.UserID != "" {
		filter["user_id"] = params.UserID
	}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.Priority != "" {
		filter["priority"] = params.Priority
	}

	var (
		tasks []*structs.Task
		total int64
	)
	err := data.Run(r.store, tasksCollection, func(coll *mongo.Collection) error {
		cur, err := coll.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(params.Offset()).
			SetLimit(int64(params.Limit)))
		if err != nil {
			return err
		}
		if err := cur.All(ctx, &tasks); err != nil {
			return err
		}
		total, err = coll.CountDocuments(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}
