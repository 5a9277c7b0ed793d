// Package service orchestrates seating generation: it resolves the
// allocator's inputs from the catalog, runs the pure allocation, and
// replaces the stored arrangement atomically.  Cross-cutting pieces
// (per-exam lock, cache invalidation, event publishing) live here so
// both the allocator and the repositories stay single-purpose.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/iliyamo/exam-seating/internal/config"
	"github.com/iliyamo/exam-seating/internal/middleware"
	"github.com/iliyamo/exam-seating/internal/model"
	"github.com/iliyamo/exam-seating/internal/queue"
	"github.com/iliyamo/exam-seating/internal/repository"
	"github.com/iliyamo/exam-seating/internal/seating"
)

// ErrGenerationInProgress is returned when another generation run
// currently holds the per-exam lock.
var ErrGenerationInProgress = errors.New("seating generation already in progress for this exam")

// Collaborator contracts.  The concrete repositories satisfy these;
// tests substitute in-memory fakes.

// ExamSource looks up exams.
type ExamSource interface {
	GetByID(ctx context.Context, id uint64) (model.Exam, error)
}

// SubjectSource resolves the subject scope of an exam.
type SubjectSource interface {
	GetByID(ctx context.Context, id uint64) (model.Subject, error)
	ListByExam(ctx context.Context, examID uint64) ([]model.Subject, error)
}

// RoomCatalog resolves candidate rooms for the two selection modes.
type RoomCatalog interface {
	ListByIDs(ctx context.Context, ids []uint64) ([]model.Room, error)
	ListActive(ctx context.Context, buildingID *uint64) ([]model.Room, error)
}

// EnrollmentSource lists the students enrolled in an exam, ordered.
type EnrollmentSource interface {
	ListStudentIDs(ctx context.Context, examID uint64) ([]uint64, error)
}

// StaffDirectory supplies the invigilator pool.
type StaffDirectory interface {
	ListActiveByRole(ctx context.Context, role string) ([]model.User, error)
}

// AssignmentStore persists generated arrangements.
type AssignmentStore interface {
	ReplaceForExam(ctx context.Context, examID uint64, rows []model.SeatAssignment) error
	DeleteByExam(ctx context.Context, examID uint64) (int64, error)
}

// SeatingService wires the collaborators around the allocator.  Redis
// may be nil (no locking, no cache invalidation); AMQPURL may be
// empty (no events).
type SeatingService struct {
	Exams       ExamSource
	Subjects    SubjectSource
	Rooms       RoomCatalog
	Enrollments EnrollmentSource
	Staff       StaffDirectory
	Store       AssignmentStore

	Redis   *redis.Client
	Cache   config.CacheConfig
	AMQPURL string
	LockTTL time.Duration
}

// Selection modes for candidate rooms.
const (
	RoomModeExplicit = "explicit"
	RoomModeFiltered = "filtered"
)

// GenerateParams mirrors the generation request: which exam, the
// subject scope, how to pick rooms and how to label seats.
type GenerateParams struct {
	ExamID          uint64
	AllSubjects     bool
	SubjectID       *uint64
	RoomMode        string
	RoomIDs         []uint64
	BuildingID      *uint64
	RoomPrefix      string
	SeatPrefix      string
	StudentsPerRoom int
	// ManualInvigilators maps room id -> staff id; these rooms never
	// draw from the pool.
	ManualInvigilators map[uint64]uint64
	// RequestedBy is the admin triggering the run, recorded on the event.
	RequestedBy uint64
}

// GenerateResult reports one finished run.
type GenerateResult struct {
	ExamID      uint64                `json:"exam_id"`
	Count       int                   `json:"count"`
	Rooms       []seating.RoomSummary `json:"rooms"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Generate runs the full pipeline for one exam.  All input validation
// happens before anything is written; once the allocator has run, the
// only remaining failure point is the atomic replace, which leaves
// prior state intact on error.
func (s *SeatingService) Generate(ctx context.Context, p GenerateParams) (GenerateResult, error) {
	if p.StudentsPerRoom < 1 {
		return GenerateResult{}, fmt.Errorf("%w: students_per_room must be at least 1", seating.ErrInvalidParameter)
	}

	exam, err := s.Exams.GetByID(ctx, p.ExamID)
	if err != nil {
		return GenerateResult{}, err
	}
	students, err := s.Enrollments.ListStudentIDs(ctx, p.ExamID)
	if err != nil {
		return GenerateResult{}, err
	}
	if len(students) == 0 {
		return GenerateResult{}, repository.ErrNoEnrollments
	}
	rooms, err := s.resolveRooms(ctx, p)
	if err != nil {
		return GenerateResult{}, err
	}
	subjects, err := s.resolveSubjectScope(ctx, p)
	if err != nil {
		return GenerateResult{}, err
	}
	staff, err := s.Staff.ListActiveByRole(ctx, model.RoleStaff)
	if err != nil {
		return GenerateResult{}, err
	}

	unlock, err := s.lockExam(ctx, p.ExamID)
	if err != nil {
		return GenerateResult{}, err
	}
	defer unlock()

	res, err := seating.Allocate(seating.Input{
		ExamID:   p.ExamID,
		Students: students,
		Rooms: lo.Map(rooms, func(rm model.Room, _ int) seating.Room {
			return seating.Room{ID: rm.ID, Number: rm.RoomNumber, Capacity: rm.Capacity}
		}),
		Subjects:           subjects,
		RoomPrefix:         p.RoomPrefix,
		SeatPrefix:         p.SeatPrefix,
		StudentsPerRoom:    p.StudentsPerRoom,
		ManualInvigilators: p.ManualInvigilators,
		InvigilatorPool:    lo.Map(staff, func(u model.User, _ int) uint64 { return u.ID }),
	})
	if err != nil {
		return GenerateResult{}, err
	}

	if err := s.Store.ReplaceForExam(ctx, p.ExamID, toRows(res.Assignments)); err != nil {
		return GenerateResult{}, err
	}
	s.afterReplace(ctx, exam, subjects, res, p.RequestedBy)

	return GenerateResult{
		ExamID:      p.ExamID,
		Count:       len(res.Assignments),
		Rooms:       res.Rooms,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Clear removes an exam's seating without generating a new one.
func (s *SeatingService) Clear(ctx context.Context, examID uint64) (int64, error) {
	if _, err := s.Exams.GetByID(ctx, examID); err != nil {
		return 0, err
	}
	n, err := s.Store.DeleteByExam(ctx, examID)
	if err != nil {
		return 0, err
	}
	if err := middleware.InvalidateCache(ctx, s.Redis, s.Cache.Prefix); err != nil {
		log.Printf("seating: cache invalidation failed: %v", err)
	}
	return n, nil
}

func (s *SeatingService) resolveRooms(ctx context.Context, p GenerateParams) ([]model.Room, error) {
	switch p.RoomMode {
	case RoomModeExplicit:
		if len(p.RoomIDs) == 0 {
			return nil, fmt.Errorf("%w: explicit room selection requires room_ids", seating.ErrInvalidParameter)
		}
		return s.Rooms.ListByIDs(ctx, p.RoomIDs)
	case RoomModeFiltered, "":
		rooms, err := s.Rooms.ListActive(ctx, p.BuildingID)
		if err != nil {
			return nil, err
		}
		if len(rooms) == 0 {
			return nil, seating.ErrNoRooms
		}
		return rooms, nil
	default:
		return nil, fmt.Errorf("%w: unknown room selection mode %q", seating.ErrInvalidParameter, p.RoomMode)
	}
}

// resolveSubjectScope orders the subjects one run covers.  An exam
// without subjects gets the NoSubject sentinel scope; "all subjects"
// on an exam with none yields an empty scope, which the allocator
// treats as a no-op.
func (s *SeatingService) resolveSubjectScope(ctx context.Context, p GenerateParams) ([]uint64, error) {
	if p.AllSubjects {
		subjects, err := s.Subjects.ListByExam(ctx, p.ExamID)
		if err != nil {
			return nil, err
		}
		return lo.Map(subjects, func(sub model.Subject, _ int) uint64 { return sub.ID }), nil
	}
	if p.SubjectID != nil {
		sub, err := s.Subjects.GetByID(ctx, *p.SubjectID)
		if err != nil {
			return nil, err
		}
		if sub.ExamID != p.ExamID {
			return nil, repository.ErrSubjectNotFound
		}
		return []uint64{sub.ID}, nil
	}
	return []uint64{seating.NoSubject}, nil
}

// lockExam takes the per-exam advisory lock.  Without Redis the lock
// degrades to a no-op and concurrent runs race on the atomic replace
// (last writer wins).
func (s *SeatingService) lockExam(ctx context.Context, examID uint64) (func(), error) {
	if s.Redis == nil {
		return func() {}, nil
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	key := fmt.Sprintf("seating:lock:%d", examID)
	ok, err := s.Redis.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		// Fail open: a broken Redis should not block generation.
		log.Printf("seating: lock acquire failed: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrGenerationInProgress
	}
	return func() { _ = s.Redis.Del(context.Background(), key).Err() }, nil
}

// afterReplace handles the best-effort follow-ups of a successful
// replace.  Neither a failed cache flush nor a failed publish undoes
// the stored arrangement.
func (s *SeatingService) afterReplace(ctx context.Context, exam model.Exam, subjects []uint64, res seating.Result, requestedBy uint64) {
	if err := middleware.InvalidateCache(ctx, s.Redis, s.Cache.Prefix); err != nil {
		log.Printf("seating: cache invalidation failed: %v", err)
	}
	if s.AMQPURL == "" {
		return
	}
	ev := queue.SeatingGeneratedEvent{
		ExamID:          exam.ID,
		ExamName:        exam.Name,
		SubjectIDs:      lo.Without(subjects, seating.NoSubject),
		RoomsUsed:       len(res.Rooms),
		AssignmentCount: len(res.Assignments),
		GeneratedBy:     requestedBy,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishSeatingGenerated(ctx, s.AMQPURL, ev); err != nil {
		log.Printf("seating: publish event failed: %v", err)
	}
}

// toRows converts allocator output to persistence rows, mapping the
// 0 sentinels back to NULLs.
func toRows(assignments []seating.Assignment) []model.SeatAssignment {
	rows := make([]model.SeatAssignment, 0, len(assignments))
	for _, a := range assignments {
		row := model.SeatAssignment{
			ExamID:    a.ExamID,
			StudentID: a.StudentID,
			RoomID:    a.RoomID,
			RoomLabel: a.RoomLabel,
			SeatLabel: a.SeatLabel,
		}
		if a.SubjectID != seating.NoSubject {
			v := a.SubjectID
			row.SubjectID = &v
		}
		if a.InvigilatorID != 0 {
			v := a.InvigilatorID
			row.InvigilatorID = &v
		}
		rows = append(rows, row)
	}
	return rows
}
