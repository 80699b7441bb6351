package model

import "time"

// Course represents a course that projects can be filed under.
// Code is the short course code shown in listings (e.g. "CS2021"); Term is a
// free-form label like "Fall 2026".
type Course struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"`
	Code      string    `json:"code"      db:"code"`
	Term      string    `json:"term"      db:"term"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
