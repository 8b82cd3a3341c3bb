package domain

import "time"

const MaxSubjectLength = 255

// Announcement is a tutoring offer. AuthorID is fixed at creation; Author is
// the resolved account, filled in by the service before responses are shaped.
type Announcement struct {
	ID         int64
	Subject    string
	Content    string
	HourlyRate Rate
	AuthorID   int64
	Author     *User
	DateAdded  time.Time
}
