package models

import (
	"time"

	"github.com/google/uuid"
)

// File is the metadata record for an uploaded blob. StoredName is the
// generated on-disk name; losing this record orphans the blob.
type File struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TaskID       uuid.UUID  `json:"task_id" db:"task_id"`
	OriginalName string     `json:"original_name" db:"original_name"`
	StoredName   string     `json:"stored_name" db:"stored_name"`
	Path         string     `json:"path" db:"path"`
	MimeType     string     `json:"mime_type" db:"mime_type"`
	Size         int64      `json:"size" db:"size"`
	UploadedBy   uuid.UUID  `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (f *File) Deleted() bool {
	return f.DeletedAt != nil
}
