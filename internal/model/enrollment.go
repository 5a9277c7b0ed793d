package model

import "time"

// Enrollment registers one student for one exam.  It is the unit the
// seating allocator iterates over: one row per student per exam.
// Per-subject expansion happens inside the allocator only and is
// never persisted as an enrollment.
type Enrollment struct {
	ID        uint64    // enrollments.id
	ExamID    uint64    // enrollments.exam_id
	StudentID uint64    // enrollments.student_id
	CreatedAt time.Time // enrollments.created_at
}
