package model

import "time"

// Project statuses. StatusInProgress is the default for new projects.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Statuses lists the allowed project statuses in display order.
// The index page uses this to build the status <select> options.
var Statuses = []string{StatusToDo, StatusInProgress, StatusCompleted}

// Project represents a tracked piece of coursework with a due date.
//
// Course holds the course name as a plain string rather than a foreign key —
// a project survives its course being deleted, and the original tracker
// worked the same way.
type Project struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	DueDate   time.Time `json:"dueDate"   db:"due_date"`
	Course    string    `json:"course"    db:"course"`
	Status    string    `json:"status"    db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
