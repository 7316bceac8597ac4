package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the allowed priority values.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Attachment is a named link stored inline on a task.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Subtask is a lightweight checklist entry stored inline on a task.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	Priority    TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Category    string         `gorm:"type:varchar(100);not null;default:'general'" json:"category"`
	DueDate     *time.Time     `json:"due_date"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	Attachments []Attachment   `gorm:"serializer:json" json:"attachments"`
	Subtasks    []Subtask      `gorm:"serializer:json" json:"subtasks"`
	OwnerID     uint64         `gorm:"not null;index" json:"owner_id"`
	SharedFrom  *uint64        `json:"shared_from"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}
