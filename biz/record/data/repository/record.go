package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/ncobase/classroom/biz/record/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recordsCollection = "student_records"

// RecordRepositoryInterface is the student record store
type RecordRepositoryInterface interface {
	Create(ctx context.Context, record *structs.Record) error
	GetByID(ctx context.Context, id string) (*structs.Record, error)
	Update(ctx context.Context, record *structs.Record) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *structs.ListRecordParams) ([]*structs.Record, int64, error)
	EnsureIndexes(ctx context.Context) error
}

type recordRepository struct {
	store data.Store
	log   *logger.Logger
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(store data.Store, log *logger.Logger) RecordRepositoryInterface {
	return &recordRepository{store: store, log: log}
}

func (r *recordRepository) EnsureIndexes(ctx context.Context) error {
	return data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "teacher_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		})
		return err
	})
}

func (r *recordRepository) Create(ctx context.Context, record *structs.Record) error {
	err := data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, record)
		return err
	})
	if err != nil {
		return fmt.Errorf("create record: %w", data.Normalize(err))
	}
	return nil
}

// GetByID finds a record by hex id. A malformed id is reported as not found.
func (r *recordRepository) GetByID(ctx context.Context, id string) (*structs.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}

	var record structs.Record
	err = data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		return coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, data.ErrNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) Update(ctx context.Context, record *structs.Record) error {
	var matched int64
	err := data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		res, err := coll.ReplaceOne(ctx, bson.M{"_id": record.ID}, record)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if matched == 0 {
		return data.ErrNotFound
	}
	return nil
}

func (r *recordRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	var deleted int64
	err := data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if deleted == 0 {
		return data.ErrNotFound
	}
	return nil
}

// List returns one page of records, newest first. StudentName matches the
// whole name, ignoring case.
func (r *recordRepository) List(ctx context.Context, params *structs.ListRecordParams) ([]*structs.Record, int64, error) {
	filter := bson.M{}
	if params.StudentName != "" {
		filter["student_name"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(params.StudentName) + "$",
			Options: "i",
		}
	}

	var (
		records []*structs.Record
		total   int64
	)
	err := data.Run(r.store, recordsCollection, func(coll *mongo.Collection) error {
		cur, err := coll.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(params.Offset()).
			SetLimit(int64(params.Limit)))
		if err != nil {
			return err
		}
		if err := cur.All(ctx, &records); err != nil {
			return err
		}
		total, err = coll.CountDocuments(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	return records, total, nil
}
