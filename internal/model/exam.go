package model

import "time"

// Exam is a scheduled assessment event that students enroll in.
// Subjects are linked to an exam; seating is generated per exam and
// optionally per subject.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – exam name (e.g. "Winter Finals 2026").
//  ExamDate    – date the exam takes place.
//  IsPublished – whether results/seating are visible to staff reads.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Exam struct {
	ID          uint64    // exams.id
	Name        string    // exams.name
	ExamDate    time.Time // exams.exam_date
	IsPublished bool      // exams.is_published
	CreatedAt   time.Time // exams.created_at
	UpdatedAt   time.Time // exams.updated_at
}

// Subject is one paper within an exam (e.g. "Mathematics II").  An
// exam may have zero subjects, in which case seating is generated
// with no subject scope at all.
type Subject struct {
	ID        uint64    // subjects.id
	ExamID    uint64    // subjects.exam_id
	Name      string    // subjects.name
	Code      string    // subjects.code
	CreatedAt time.Time // subjects.created_at
	UpdatedAt time.Time // subjects.updated_at
}
