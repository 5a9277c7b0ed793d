package model

import "time"

// SeatAssignment binds a student (and optionally a subject) to a
// physical room, seat label and invigilator for one exam.  At most one
// assignment exists per (exam, student, subject) tuple; regeneration
// for an exam replaces all of its rows in one transaction rather than
// updating them in place.
//
// Fields:
//  ID            – primary key identifier.
//  ExamID        – exam this assignment belongs to.
//  StudentID     – the seated student.
//  SubjectID     – subject scope (nil when the exam has no subjects).
//  RoomID        – physical room the student sits in.
//  RoomLabel     – synthetic room label from generation (e.g. "R3");
//                  several labels may map to the same physical room.
//  SeatLabel     – seat label within the synthetic room (e.g. "S14").
//  InvigilatorID – staff member covering the room (nil when the
//                  invigilator pool was empty).
//  CreatedAt     – creation timestamp.
type SeatAssignment struct {
	ID            uint64    // seat_assignments.id
	ExamID        uint64    // seat_assignments.exam_id
	StudentID     uint64    // seat_assignments.student_id
	SubjectID     *uint64   // seat_assignments.subject_id (nullable)
	RoomID        uint64    // seat_assignments.room_id
	RoomLabel     string    // seat_assignments.room_label
	SeatLabel     string    // seat_assignments.seat_label
	InvigilatorID *uint64   // seat_assignments.invigilator_id (nullable)
	CreatedAt     time.Time // seat_assignments.created_at
}
