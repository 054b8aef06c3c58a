package service

import (
	"context"
	"errors"
	"time"

	"github.com/ncobase/classroom/biz/task/data/repository"
	"github.com/ncobase/classroom/biz/task/structs"
	authStructs "github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/paging"
	"github.com/ncobase/classroom/validator"
)

// TaskServiceInterface is the task service
type TaskServiceInterface interface {
	Create(ctx context.Context, p *authStructs.Principal, body *structs.CreateTaskBody) (*structs.Task, error)
	Get(ctx context.Context, p *authStructs.Principal, id string) (*structs.Task, error)
	List(ctx context.Context, p *authStructs.Principal, params *structs.ListTaskParams) (*paging.Result[*structs.Task], error)
	Update(ctx context.Context, p *authStructs.Principal, id string, body *structs.UpdateTaskBody) (*structs.Task, error)
	Delete(ctx context.Context, p *authStructs.Principal, id string) error
}

type taskService struct {
	tasks repository.TaskRepositoryInterface
	log   *logger.Logger
	now   func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(tasks repository.TaskRepositoryInterface, log *logger.Logger) TaskServiceInterface {
	if log == nil {
		log = logger.Discard()
	}
	return &taskService{tasks: tasks, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *taskService) Create(ctx context.Context, p *authStructs.Principal, body *structs.CreateTaskBody) (*structs.Task, error) {
	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	task := structs.NewTask(p.UserID, body, s.now())
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "task created", "task_id", task.ID.Hex(), "user_id", p.UserID)
	return task, nil
}

// Get returns a task. Another user's task reads as missing unless the
// caller is an admin.
func (s *taskService) Get(ctx context.Context, p *authStructs.Principal, id string) (*structs.Task, error) {
	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, task) {
		return nil, ecode.NotFound("Task")
	}
	return task, nil
}

// List returns the caller's tasks, newest first
func (s *taskService) List(ctx context.Context, p *authStructs.Principal, params *structs.ListTaskParams) (*paging.Result[*structs.Task], error) {
	params.UserID = p.UserID
	params.Params = paging.NormalizeParams(params.Params)

	tasks, total, err := s.tasks.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(tasks, total, params.Params), nil
}

func (s *taskService) Update(ctx context.Context, p *authStructs.Principal, id string, body *structs.UpdateTaskBody) (*structs.Task, error) {
	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	task, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(p, task) {
		return nil, ecode.Authorization("Cannot update other users' tasks")
	}

	if !body.Apply(task, s.now()) {
		return task, nil
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("Task")
		}
		return nil, err
	}

	s.log.Info(ctx, "task updated", "task_id", id)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, p *authStructs.Principal, id string) error {
	task, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canAccess(p, task) {
		return ecode.Authorization("Cannot delete other users' tasks")
	}

	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return ecode.NotFound("Task")
		}
		return err
	}

	s.log.Info(ctx, "task deleted", "task_id", id)
	return nil
}

func (s *taskService) find(ctx context.Context, id string) (*structs.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("Task")
		}
		return nil, err
	}
	return task, nil
}

func canAccess(p *authStructs.Principal, task *structs.Task) bool {
	return p.Role == authStructs.RoleAdmin || task.OwnedBy(p.UserID)
}
