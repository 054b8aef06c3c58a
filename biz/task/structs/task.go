package structs

import (
	"strings"
	"time"

	"github.com/ncobase/classroom/paging"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	default:
		return false
	}
}

// Priority orders tasks
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task is the stored task document
type Task struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	UserID      string             `bson:"user_id" json:"userId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      Status             `bson:"status" json:"status"`
	Priority    Priority           `bson:"priority" json:"priority"`
	DueDate     *time.Time         `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OwnedBy reports whether userID created the task
func (t *Task) OwnedBy(userID string) bool {
	return t.UserID == userID
}

// setStatus changes the status, stamping or clearing CompletedAt
func (t *Task) setStatus(s Status, now time.Time) {
	if s == t.Status {
		return
	}
	t.Status = s
	if s == StatusCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// CreateTaskBody is the create request
type CreateTaskBody struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=5000"`
	Status      Status     `json:"status" validate:"omitempty,oneof=pending in_progress completed archived"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// Normalize trims the text fields
func (b *CreateTaskBody) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
}

// NewTask builds a task owned by userID with defaults applied
func NewTask(userID string, body *CreateTaskBody, now time.Time) *Task {
	t := &Task{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       body.Title,
		Description: body.Description,
		Status:      StatusPending,
		Priority:    PriorityMedium,
		DueDate:     body.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Priority != "" {
		t.Priority = body.Priority
	}
	if body.Status != "" {
		t.setStatus(body.Status, now)
	}
	return t
}

// UpdateTaskBody is a partial update; nil fields are left untouched
type UpdateTaskBody struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *Status    `json:"status" validate:"omitempty,oneof=pending in_progress completed archived"`
	Priority    *Priority  `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate"`
}

// Normalize trims the text fields
func (b *UpdateTaskBody) Normalize() {
	if b.Title != nil {
		v := strings.TrimSpace(*b.Title)
		b.Title = &v
	}
	if b.Description != nil {
		v := strings.TrimSpace(*b.Description)
		b.Description = &v
	}
}

// Apply copies the set fields onto t and reports whether anything changed.
func (b *UpdateTaskBody) Apply(t *Task, now time.Time) bool {
	changed := false
	if b.Title != nil && *b.Title != t.Title {
		t.Title = *b.Title
		changed = true
	}
	if b.Description != nil && *b.Description != t.Description {
		t.Description = *b.Description
		changed = true
	}
	if b.Status != nil && *b.Status != t.Status {
		t.setStatus(*b.Status, now)
		changed = true
	}
	if b.Priority != nil && *b.Priority != t.Priority {
		t.Priority = *b.Priority
		changed = true
	}
	if b.DueDate != nil && (t.DueDate == nil || !b.DueDate.Equal(*t.DueDate)) {
		due := *b.DueDate
		t.DueDate = &due
		changed = true
	}
	if changed {
		t.UpdatedAt = now
	}
	return changed
}

// ListTaskParams filters a task listing. Unknown status or priority
// values are ignored.
type ListTaskParams struct {
	UserID   string
	Status   Status
	Priority Priority
	paging.Params
}

// NewListTaskParams reads the query values of a list request
func NewListTaskParams(userID, status, priority, page, limit string) *ListTaskParams {
	p := &ListTaskParams{UserID: userID, Params: paging.ParseParams(page, limit)}
	if s := Status(status); s.Valid() {
		p.Status = s
	}
	if pr := Priority(priority); pr.Valid() {
		p.Priority = pr
	}
	return p
}
