package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ncobase/classroom/biz/record/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/paging"
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

func newRepo(mt *mtest.T) RecordRepositoryInterface {
	return NewRecordRepository(dbStore{db: mt.DB}, logger.Discard())
}

func recordDoc(id primitive.ObjectID, name string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "teacher_id", Value: "t1"},
		{Key: "student_name", Value: name},
		{Key: "student_id_number", Value: "S-100"},
		{Key: "grade", Value: "B"},
	}
}

func TestRecordRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := structs.NewRecord("t1", &structs.CreateRecordBody{StudentName: "Ada Lovelace", StudentID: "S-1"}, time.Now())
		assert.NoError(mt, newRepo(mt).Create(ctx, rec))
	})

	mt.Run("get by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.student_records", mtest.FirstBatch, recordDoc(id, "Ada Lovelace")))

		rec, err := newRepo(mt).GetByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, structs.GradeB, rec.Grade)
		assert.Equal(mt, "S-100", rec.StudentID)
	})

	mt.Run("get malformed id", func(mt *mtest.T) {
		_, err := newRepo(mt).GetByID(ctx, "zzz")
		assert.ErrorIs(mt, err, data.ErrNotFound)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		rec := structs.NewRecord("t1", &structs.CreateRecordBody{StudentName: "Ada", StudentID: "S-1"}, time.Now())
		assert.ErrorIs(mt, newRepo(mt).Update(ctx, rec), data.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, newRepo(mt).Delete(ctx, primitive.NewObjectID()))
	})

	mt.Run("list by student name", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.student_records", mtest.FirstBatch, recordDoc(primitive.NewObjectID(), "Ada Lovelace")),
			mtest.CreateCursorResponse(0, "db.student_records", mtest.FirstBatch, bson.D{{Key: "n", Value: int64(1)}}),
		)

		params := &structs.ListRecordParams{StudentName: "ada lovelace", Params: paging.Params{Page: 1, Limit: 10}}
		records, total, err := newRepo(mt).List(ctx, params)
		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, int64(1), total)

		started := mt.GetStartedEvent()
		for started != nil && started.CommandName != "find" {
			started = mt.GetStartedEvent()
		}
		require.NotNil(mt, started)
		filter := started.Command.Lookup("filter").Document()
		pattern, options := filter.Lookup("student_name").Regex()
		assert.Equal(mt, `^ada lovelace$`, pattern)
		assert.Equal(mt, "i", options)
	})
}
