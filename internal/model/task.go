package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task statuses. Any status is reachable from any other; Completed is not
// terminal.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Task represents a unit of work assigned to a user.
type Task struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Title       string   `json:"title" gorm:"size:200;not null"`
	Description string   `json:"description" gorm:"type:text"`
	DueDate     DateOnly `json:"due_date" gorm:"type:date"`
	Priority    string   `json:"priority" gorm:"size:10"`
	Status      string   `json:"status" gorm:"size:20;default:'Pending'"`

	CreatedByID  uint `json:"created_by_id" gorm:"not null;index"`
	AssignedToID uint `json:"assigned_to_id" gorm:"not null;index"`

	Creator  *User `json:"-" gorm:"foreignKey:CreatedByID"`
	Assignee *User `json:"-" gorm:"foreignKey:AssignedToID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskJSON is Task with the creator and assignee summaries embedded, matching
// the wire shape clients consume.
type TaskJSON struct {
	Task
	CreatedBy  *UserSummary `json:"created_by"`
	AssignedTo *UserSummary `json:"assigned_to"`
}

// ToJSON builds the wire representation of the task.
func (t *Task) ToJSON() TaskJSON {
	return TaskJSON{
		Task:       *t,
		CreatedBy:  t.Creator.Summary(),
		AssignedTo: t.Assignee.Summary(),
	}
}

// ValidPriority reports whether p is one of the three known priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

const dateLayout = "2006-01-02"

// DateOnly is a calendar date serialized as YYYY-MM-DD in JSON and stored as a
// DATE column.
type DateOnly time.Time

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (DateOnly, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOnly(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d DateOnly) String() string {
	return time.Time(d).Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d DateOnly) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements sql.Scanner.
func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = DateOnly(v)
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", value)
	}
}
