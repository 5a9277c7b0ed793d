// Package repository implements data access over MySQL.  Sentinel
// errors shared by several repositories live here so handlers and the
// seating service can map failure scenarios to HTTP responses without
// inspecting SQL details.
package repository

import "errors"

// ErrExamNotFound is returned when an exam lookup yields no rows.
var ErrExamNotFound = errors.New("exam not found")

// ErrSubjectNotFound is returned when a subject lookup yields no rows
// or the subject belongs to a different exam than requested.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrBuildingNotFound is returned when a building lookup yields no rows.
var ErrBuildingNotFound = errors.New("building not found")

// ErrRoomNotFound is returned when a room lookup yields no rows, or
// an explicit room-id list references a room that does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrNoEnrollments is returned when seating generation is requested
// for an exam with zero enrolled students.
var ErrNoEnrollments = errors.New("exam has no enrollments")

// ErrAlreadyEnrolled is returned when an (exam, student) pair is
// enrolled twice.
var ErrAlreadyEnrolled = errors.New("student already enrolled")

// ErrConflict signals that a delete cannot proceed because dependent
// records exist, such as removing a building that still has rooms.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
