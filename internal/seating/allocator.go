// Package seating implements the automatic seating-arrangement
// generator.  Allocate is a pure, deterministic function: it consumes
// resolved enrollments, candidate rooms and an invigilator pool and
// produces the full assignment set for one exam.  It never touches
// persistence; resolving inputs and replacing stored assignments
// belong to the service layer.
package seating

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

// NoSubject is the subject sentinel used when an exam has no subject
// concept.  Assignments generated under this scope carry a nil
// subject id once persisted.
const NoSubject uint64 = 0

// ErrInvalidParameter indicates a generation parameter that can never
// produce a valid arrangement (e.g. students per room < 1).
var ErrInvalidParameter = errors.New("invalid generation parameter")

// ErrNoRooms indicates that room resolution produced an empty set.
// Generation cannot proceed without at least one physical room.
var ErrNoRooms = errors.New("no rooms available")

// Room is the slice of room data the allocator needs.  Capacity is
// informational only: it is echoed into the room summary so callers
// can spot over-packed rooms, but it is not enforced.
type Room struct {
	ID       uint64
	Number   string
	Capacity uint32
}

// Input carries everything one allocation run consumes.  Order
// matters: students, rooms and subjects are iterated exactly in the
// order given, which makes the seat/room layout deterministic for
// identical inputs.
type Input struct {
	ExamID   uint64
	Students []uint64 // ordered enrollment, one entry per student
	Rooms    []Room   // ordered, must be non-empty
	Subjects []uint64 // subject scope; NoSubject for scope-less exams

	RoomPrefix      string // synthetic room label prefix, default "R"
	SeatPrefix      string // seat label prefix, default "S"
	StudentsPerRoom int    // seats per synthetic room, must be >= 1

	// Manual room->invigilator overrides.  A room present here never
	// draws from the pool.
	ManualInvigilators map[uint64]uint64
	// InvigilatorPool is drawn from without replacement for rooms
	// without an override; when exhausted the draw restarts over the
	// full pool.  May be empty, leaving rooms unassigned.
	InvigilatorPool []uint64
}

// Assignment is one generated seat.  InvigilatorID is 0 when no
// invigilator could be assigned (empty pool); SubjectID is NoSubject
// when the exam has no subjects.
type Assignment struct {
	ExamID        uint64
	StudentID     uint64
	SubjectID     uint64
	RoomID        uint64
	RoomLabel     string
	SeatLabel     string
	InvigilatorID uint64
}

// RoomSummary reports how one physical room was used in the run.
// Seated counts students (not per-subject assignments), so it is
// comparable against Capacity.
type RoomSummary struct {
	RoomID        uint64 `json:"room_id"`
	RoomNumber    string `json:"room_number"`
	Capacity      uint32 `json:"capacity"`
	Seated        int    `json:"seated"`
	InvigilatorID uint64 `json:"invigilator_id,omitempty"`
}

// Result is the outcome of one allocation run.
type Result struct {
	Assignments []Assignment
	Rooms       []RoomSummary
}

// Allocate computes the seat/room/invigilator arrangement for one
// exam.  The packing is a single pass over students: seats fill a
// synthetic room ("R1", "R2", ...) up to StudentsPerRoom, then the
// run moves to the next synthetic room.  Synthetic room r binds to
// physical room rooms[(r-1) mod len(rooms)], so physical rooms are
// reused cyclically when more synthetic rooms are needed than rooms
// were supplied. The packing is best-effort, not a capacity guarantee.
//
// When the subject scope holds several subjects, every subject of a
// student shares that student's room and seat position; the counters
// advance once per student.  An empty subject scope is a no-op and
// yields zero assignments.
func Allocate(in Input) (Result, error) {
	if in.StudentsPerRoom < 1 {
		return Result{}, fmt.Errorf("%w: students per room must be at least 1, got %d", ErrInvalidParameter, in.StudentsPerRoom)
	}
	if len(in.Rooms) == 0 {
		return Result{}, ErrNoRooms
	}
	roomPrefix := in.RoomPrefix
	if roomPrefix == "" {
		roomPrefix = "R"
	}
	seatPrefix := in.SeatPrefix
	if seatPrefix == "" {
		seatPrefix = "S"
	}
	if len(in.Subjects) == 0 {
		// "All subjects" on an exam with no linked subjects: produce
		// nothing rather than fail, so the caller still clears stale
		// assignments.
		return Result{}, nil
	}

	var (
		assignments []Assignment
		roomByLabel = map[string]Room{}
		usedRooms   []uint64 // physical room ids in first-use order, with repeats
		r           = 1      // synthetic room counter, 1-indexed
		s           = 1      // seat counter within the synthetic room, 1-indexed
	)
	for _, studentID := range in.Students {
		label := roomPrefix + strconv.Itoa(r)
		room, bound := roomByLabel[label]
		if !bound {
			room = in.Rooms[(r-1)%len(in.Rooms)]
			roomByLabel[label] = room
			usedRooms = append(usedRooms, room.ID)
		}
		seat := seatPrefix + strconv.Itoa(s)
		for _, subjectID := range in.Subjects {
			assignments = append(assignments, Assignment{
				ExamID:    in.ExamID,
				StudentID: studentID,
				SubjectID: subjectID,
				RoomID:    room.ID,
				RoomLabel: label,
				SeatLabel: seat,
			})
		}
		s++
		if s > in.StudentsPerRoom {
			s = 1
			r++
		}
	}

	invByRoom := assignInvigilators(lo.Uniq(usedRooms), in.ManualInvigilators, in.InvigilatorPool)
	for i := range assignments {
		assignments[i].InvigilatorID = invByRoom[assignments[i].RoomID]
	}

	return Result{
		Assignments: assignments,
		Rooms:       summarize(in, lo.Uniq(usedRooms), assignments, invByRoom),
	}, nil
}

// assignInvigilators binds every used physical room to at most one
// invigilator for the whole run.  Overrides win; remaining rooms draw
// from a working copy of the pool without replacement so distinct
// rooms prefer distinct invigilators.  When the working copy runs dry
// the draw restarts over the full pool; an empty pool leaves rooms at 0.
func assignInvigilators(rooms []uint64, overrides map[uint64]uint64, pool []uint64) map[uint64]uint64 {
	out := make(map[uint64]uint64, len(rooms))
	working := make([]uint64, len(pool))
	copy(working, pool)
	for _, roomID := range rooms {
		if staffID, ok := overrides[roomID]; ok {
			out[roomID] = staffID
			continue
		}
		if len(pool) == 0 {
			continue
		}
		if len(working) == 0 {
			working = make([]uint64, len(pool))
			copy(working, pool)
		}
		out[roomID] = working[0]
		working = working[1:]
	}
	return out
}

// summarize builds the per-physical-room usage report, preserving
// first-use order.
func summarize(in Input, rooms []uint64, assignments []Assignment, invByRoom map[uint64]uint64) []RoomSummary {
	byID := make(map[uint64]Room, len(in.Rooms))
	for _, rm := range in.Rooms {
		byID[rm.ID] = rm
	}
	// Count distinct students per room; with several subjects every
	// student emits len(subjects) assignments into the same room.
	seated := map[uint64]map[uint64]struct{}{}
	for _, a := range assignments {
		if seated[a.RoomID] == nil {
			seated[a.RoomID] = map[uint64]struct{}{}
		}
		seated[a.RoomID][a.StudentID] = struct{}{}
	}
	summaries := make([]RoomSummary, 0, len(rooms))
	for _, roomID := range rooms {
		rm := byID[roomID]
		summaries = append(summaries, RoomSummary{
			RoomID:        roomID,
			RoomNumber:    rm.Number,
			Capacity:      rm.Capacity,
			Seated:        len(seated[roomID]),
			InvigilatorID: invByRoom[roomID],
		})
	}
	return summaries
}
