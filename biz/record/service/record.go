package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ncobase/classroom/biz/record/data/repository"
	"github.com/ncobase/classroom/biz/record/structs"
	authStructs "github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/paging"
	"github.com/ncobase/classroom/validator"
)

// Directory resolves a principal to its stored profile
type Directory interface {
	Me(ctx context.Context, userID string) (*authStructs.ReadUser, error)
}

// RecordServiceInterface is the student record service
type RecordServiceInterface interface {
	Create(ctx context.Context, p *authStructs.Principal, body *structs.CreateRecordBody) (*structs.Record, error)
	List(ctx context.Context, p *authStructs.Principal, params paging.Params) (*paging.Result[*structs.Record], error)
	Update(ctx context.Context, p *authStructs.Principal, id string, body *structs.UpdateRecordBody) (*structs.Record, error)
	Delete(ctx context.Context, p *authStructs.Principal, id string) error
}

type recordService struct {
	records   repository.RecordRepositoryInterface
	directory Directory
	log       *logger.Logger
	now       func() time.Time
}

// NewRecordService creates a new record service
func NewRecordService(records repository.RecordRepositoryInterface, directory Directory, log *logger.Logger) RecordServiceInterface {
	if log == nil {
		log = logger.Discard()
	}
	return &recordService{
		records:   records,
		directory: directory,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *recordService) Create(ctx context.Context, p *authStructs.Principal, body *structs.CreateRecordBody) (*structs.Record, error) {
	if p.Role != authStructs.RoleTeacher {
		return nil, ecode.Authorization("Only teachers can add student records")
	}

	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	record := structs.NewRecord(p.UserID, body, s.now())
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "student record created", "record_id", record.ID.Hex(), "teacher_id", p.UserID)
	return record, nil
}

// List returns every record to a teacher. A student sees only records
// filed under their own full name, and none when they have no name.
func (s *recordService) List(ctx context.Context, p *authStructs.Principal, params paging.Params) (*paging.Result[*structs.Record], error) {
	params = paging.NormalizeParams(params)
	query := &structs.ListRecordParams{Params: params}

	switch p.Role {
	case authStructs.RoleTeacher:
	case authStructs.RoleStudent:
		name, err := s.fullName(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return paging.NewResult[*structs.Record](nil, 0, params), nil
		}
		query.StudentName = name
	case authStructs.RoleUser, authStructs.RoleAdmin:
		return nil, ecode.Authorization("Insufficient permissions")
	default:
		return nil, ecode.Authorization("Insufficient permissions")
	}

	records, total, err := s.records.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(records, total, params), nil
}

func (s *recordService) fullName(ctx context.Context, userID string) (string, error) {
	user, err := s.directory.Me(ctx, userID)
	if err != nil {
		if ecode.IsKind(err, ecode.KindNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName)), nil
}

func (s *recordService) Update(ctx context.Context, p *authStructs.Principal, id string, body *structs.UpdateRecordBody) (*structs.Record, error) {
	if p.Role != authStructs.RoleTeacher {
		return nil, ecode.Authorization("Only teachers can update student records")
	}

	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.TeacherID != p.UserID {
		return nil, ecode.Authorization("Cannot modify records created by another teacher")
	}

	if !body.Apply(record, s.now()) {
		return record, nil
	}
	if err := s.records.Update(ctx, record); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("Student Record")
		}
		return nil, err
	}

	s.log.Info(ctx, "student record updated", "record_id", id)
	return record, nil
}

func (s *recordService) Delete(ctx context.Context, p *authStructs.Principal, id string) error {
	if p.Role != authStructs.RoleTeacher {
		return ecode.Authorization("Only teachers can delete student records")
	}

	record, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if record.TeacherID != p.UserID {
		return ecode.Authorization("Cannot delete records created by another teacher")
	}

	if err := s.records.Delete(ctx, record.ID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ecode.NotFound("Student Record")
		}
		return err
	}

	s.log.Info(ctx, "student record deleted", "record_id", id)
	return nil
}

func (s *recordService) find(ctx context.Context, id string) (*structs.Record, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("Student Record")
		}
		return nil, err
	}
	return record, nil
}
