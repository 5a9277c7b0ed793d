// Package queue defines the seating event payloads exchanged over
// the message broker, the publisher and the background consumer.
package queue

// SeatingGeneratedEvent is published after a seating arrangement has
// been generated and persisted for an exam.  It carries enough for
// downstream consumers (audit logs, notification fan-out) to act
// without querying the primary database.
type SeatingGeneratedEvent struct {
	ExamID          uint64   `json:"exam_id"`
	ExamName        string   `json:"exam_name"`
	SubjectIDs      []uint64 `json:"subject_ids,omitempty"`
	RoomsUsed       int      `json:"rooms_used"`
	AssignmentCount int      `json:"assignment_count"`
	GeneratedBy     uint64   `json:"generated_by"`
	GeneratedAt     string   `json:"generated_at"`
}
