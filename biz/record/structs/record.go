package structs

import (
	"strings"
	"time"

	"github.com/ncobase/classroom/paging"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grade is a letter grade or Pending
type Grade string

const (
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeF       Grade = "F"
	GradePending Grade = "Pending"
)

// Record is a student record kept by a teacher
type Record struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	TeacherID   string             `bson:"teacher_id" json:"teacherId"`
	StudentName string             `bson:"student_name" json:"studentName"`
	StudentID   string             `bson:"student_id_number" json:"studentIdNumber"`
	Grade       Grade              `bson:"grade" json:"grade"`
	Subject     string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CreateRecordBody is the create request
type CreateRecordBody struct {
	StudentName string `json:"studentName" validate:"required,max=200"`
	StudentID   string `json:"studentIdNumber" validate:"required,max=100"`
	Grade       Grade  `json:"grade" validate:"omitempty,oneof=A B C D F Pending"`
	Subject     string `json:"subject" validate:"max=200"`
	Notes       string `json:"notes" validate:"max=5000"`
}

// Normalize trims the text fields
func (b *CreateRecordBody) Normalize() {
	b.StudentName = strings.TrimSpace(b.StudentName)
	b.StudentID = strings.TrimSpace(b.StudentID)
	b.Subject = strings.TrimSpace(b.Subject)
	b.Notes = strings.TrimSpace(b.Notes)
}

// NewRecord builds a record owned by teacherID
func NewRecord(teacherID string, body *CreateRecordBody, now time.Time) *Record {
	grade := body.Grade
	if grade == "" {
		grade = GradePending
	}
	return &Record{
		ID:          primitive.NewObjectID(),
		TeacherID:   teacherID,
		StudentName: body.StudentName,
		StudentID:   body.StudentID,
		Grade:       grade,
		Subject:     body.Subject,
		Notes:       body.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateRecordBody is a partial update; nil fields are left untouched
type UpdateRecordBody struct {
	StudentName *string `json:"studentName" validate:"omitempty,min=1,max=200"`
	StudentID   *string `json:"studentIdNumber" validate:"omitempty,min=1,max=100"`
	Grade       *Grade  `json:"grade" validate:"omitempty,oneof=A B C D F Pending"`
	Subject     *string `json:"subject" validate:"omitempty,max=200"`
	Notes       *string `json:"notes" validate:"omitempty,max=5000"`
}

// Normalize trims the text fields
func (b *UpdateRecordBody) Normalize() {
	for _, f := range []**string{&b.StudentName, &b.StudentID, &b.Subject, &b.Notes} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

// Apply copies the set fields onto r and reports whether anything changed.
func (b *UpdateRecordBody) Apply(r *Record, now time.Time) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = true
		}
	}
	set(&r.StudentName, b.StudentName)
	set(&r.StudentID, b.StudentID)
	set(&r.Subject, b.Subject)
	set(&r.Notes, b.Notes)
	if b.Grade != nil && *b.Grade != r.Grade {
		r.Grade = *b.Grade
		changed = true
	}
	if changed {
		r.UpdatedAt = now
	}
	return changed
}

// ListRecordParams filters a record listing. An empty StudentName lists
// every record.
type ListRecordParams struct {
	StudentName string
	paging.Params
}
