package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/exam-seating/internal/model"
	"github.com/iliyamo/exam-seating/internal/repository"
	"github.com/iliyamo/exam-seating/internal/seating"
)

// In-memory fakes for the collaborator contracts.

type fakeExams struct{ exams map[uint64]model.Exam }

func (f *fakeExams) GetByID(_ context.Context, id uint64) (model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return model.Exam{}, repository.ErrExamNotFound
	}
	return e, nil
}

type fakeSubjects struct{ subjects []model.Subject }

func (f *fakeSubjects) GetByID(_ context.Context, id uint64) (model.Subject, error) {
	for _, s := range f.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Subject{}, repository.ErrSubjectNotFound
}

func (f *fakeSubjects) ListByExam(_ context.Context, examID uint64) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range f.subjects {
		if s.ExamID == examID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeRooms struct{ rooms []model.Room }

func (f *fakeRooms) ListByIDs(_ context.Context, ids []uint64) ([]model.Room, error) {
	var out []model.Room
	for _, id := range ids {
		found := false
		for _, rm := range f.rooms {
			if rm.ID == id {
				out = append(out, rm)
				found = true
				break
			}
		}
		if !found {
			return nil, repository.ErrRoomNotFound
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (f *fakeRooms) ListActive(_ context.Context, buildingID *uint64) ([]model.Room, error) {
	var out []model.Room
	for _, rm := range f.rooms {
		if !rm.IsActive {
			continue
		}
		if buildingID != nil && rm.BuildingID != *buildingID {
			continue
		}
		out = append(out, rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

type fakeEnrollments struct{ byExam map[uint64][]uint64 }

func (f *fakeEnrollments) ListStudentIDs(_ context.Context, examID uint64) ([]uint64, error) {
	return f.byExam[examID], nil
}

type fakeStaff struct{ users []model.User }

func (f *fakeStaff) ListActiveByRole(_ context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.Role == role && u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeStore struct {
	byExam       map[uint64][]model.SeatAssignment
	replaceCalls int
	failReplace  bool
}

func (f *fakeStore) ReplaceForExam(_ context.Context, examID uint64, rows []model.SeatAssignment) error {
	if f.failReplace {
		return errors.New("storage unavailable")
	}
	f.replaceCalls++
	if f.byExam == nil {
		f.byExam = map[uint64][]model.SeatAssignment{}
	}
	f.byExam[examID] = rows
	return nil
}

func (f *fakeStore) DeleteByExam(_ context.Context, examID uint64) (int64, error) {
	n := int64(len(f.byExam[examID]))
	delete(f.byExam, examID)
	return n, nil
}

func newTestService(store *fakeStore) *SeatingService {
	return &SeatingService{
		Exams: &fakeExams{exams: map[uint64]model.Exam{
			1: {ID: 1, Name: "Winter Finals", ExamDate: time.Now()},
			2: {ID: 2, Name: "No Subjects Exam"},
		}},
		Subjects: &fakeSubjects{subjects: []model.Subject{
			{ID: 10, ExamID: 1, Name: "Mathematics"},
			{ID: 11, ExamID: 1, Name: "Physics"},
			{ID: 30, ExamID: 9, Name: "Other Exam Subject"},
		}},
		Rooms: &fakeRooms{rooms: []model.Room{
			{ID: 100, BuildingID: 5, RoomNumber: "101", Capacity: 30, IsActive: true},
			{ID: 101, BuildingID: 5, RoomNumber: "102", Capacity: 30, IsActive: true},
			{ID: 102, BuildingID: 6, RoomNumber: "201", Capacity: 20, IsActive: false},
		}},
		Enrollments: &fakeEnrollments{byExam: map[uint64][]uint64{
			1: {1001, 1002, 1003},
			2: {1001},
		}},
		Staff: &fakeStaff{users: []model.User{
			{ID: 51, Role: model.RoleStaff, IsActive: true},
			{ID: 52, Role: model.RoleStaff, IsActive: true},
			{ID: 53, Role: model.RoleAdmin, IsActive: true},
		}},
		Store: store,
	}
}

func TestGenerate(t *testing.T) {
	t.Run("happy path persists one row per student and subject", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(store)

		res, err := svc.Generate(context.Background(), GenerateParams{
			ExamID:          1,
			AllSubjects:     true,
			RoomMode:        RoomModeFiltered,
			StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 6, res.Count) // 3 students x 2 subjects

		rows := store.byExam[1]
		require.Len(t, rows, 6)
		for _, row := range rows {
			assert.Equal(t, uint64(1), row.ExamID)
			require.NotNil(t, row.SubjectID)
			require.NotNil(t, row.InvigilatorID)
		}
	})

	t.Run("no subject scope maps to null subject ids", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(store)

		res, err := svc.Generate(context.Background(), GenerateParams{
			ExamID:          2,
			RoomMode:        RoomModeFiltered,
			StudentsPerRoom: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		require.Len(t, store.byExam[2], 1)
		assert.Nil(t, store.byExam[2][0].SubjectID)
	})

	t.Run("regeneration replaces the previous arrangement", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(store)

		first, err := svc.Generate(context.Background(), GenerateParams{
			ExamID: 1, AllSubjects: true, RoomMode: RoomModeFiltered, StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		subjectID := uint64(10)
		second, err := svc.Generate(context.Background(), GenerateParams{
			ExamID: 1, SubjectID: &subjectID, RoomMode: RoomModeFiltered, StudentsPerRoom: 2,
		})
		require.NoError(t, err)

		assert.Equal(t, 6, first.Count)
		assert.Equal(t, 3, second.Count)
		assert.Equal(t, 2, store.replaceCalls)
		// Only the second run's rows remain.
		require.Len(t, store.byExam[1], 3)
		for _, row := range store.byExam[1] {
			assert.Equal(t, &subjectID, row.SubjectID)
		}
	})

	t.Run("all subjects on an exam without subjects clears seating", func(t *testing.T) {
		store := &fakeStore{byExam: map[uint64][]model.SeatAssignment{
			2: {{ExamID: 2, StudentID: 1001}},
		}}
		svc := newTestService(store)

		res, err := svc.Generate(context.Background(), GenerateParams{
			ExamID: 2, AllSubjects: true, RoomMode: RoomModeFiltered, StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		assert.Zero(t, res.Count)
		assert.Empty(t, store.byExam[2])
	})

	t.Run("explicit room selection", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(store)

		res, err := svc.Generate(context.Background(), GenerateParams{
			ExamID:          1,
			AllSubjects:     true,
			RoomMode:        RoomModeExplicit,
			RoomIDs:         []uint64{101},
			StudentsPerRoom: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 6, res.Count)
		for _, row := range store.byExam[1] {
			assert.Equal(t, uint64(101), row.RoomID)
		}
	})
}

func TestGenerateValidation(t *testing.T) {
	cases := []struct {
		name    string
		params  GenerateParams
		wantErr error
	}{
		{
			name:    "unknown exam",
			params:  GenerateParams{ExamID: 99, RoomMode: RoomModeFiltered, StudentsPerRoom: 2},
			wantErr: repository.ErrExamNotFound,
		},
		{
			name: "zero enrollments",
			params: func() GenerateParams {
				return GenerateParams{ExamID: 1, RoomMode: RoomModeFiltered, StudentsPerRoom: 2}
			}(),
			wantErr: repository.ErrNoEnrollments,
		},
		{
			name:    "invalid students per room",
			params:  GenerateParams{ExamID: 1, RoomMode: RoomModeFiltered, StudentsPerRoom: 0},
			wantErr: seating.ErrInvalidParameter,
		},
		{
			name:    "explicit mode without room ids",
			params:  GenerateParams{ExamID: 1, RoomMode: RoomModeExplicit, StudentsPerRoom: 2},
			wantErr: seating.ErrInvalidParameter,
		},
		{
			name:    "unknown room id",
			params:  GenerateParams{ExamID: 1, RoomMode: RoomModeExplicit, RoomIDs: []uint64{999}, StudentsPerRoom: 2},
			wantErr: repository.ErrRoomNotFound,
		},
		{
			name:    "unknown selection mode",
			params:  GenerateParams{ExamID: 1, RoomMode: "weird", StudentsPerRoom: 2},
			wantErr: seating.ErrInvalidParameter,
		},
		{
			name: "subject of a different exam",
			params: func() GenerateParams {
				subjectID := uint64(30)
				return GenerateParams{ExamID: 1, SubjectID: &subjectID, RoomMode: RoomModeFiltered, StudentsPerRoom: 2}
			}(),
			wantErr: repository.ErrSubjectNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(store)
			if tc.name == "zero enrollments" {
				svc.Enrollments = &fakeEnrollments{byExam: map[uint64][]uint64{}}
			}
			_, err := svc.Generate(context.Background(), tc.params)
			require.ErrorIs(t, err, tc.wantErr)
			// Resolution failures must never write.
			assert.Zero(t, store.replaceCalls)
		})
	}

	t.Run("filtered selection matching no rooms", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(store)
		buildingID := uint64(6) // only holds an inactive room
		_, err := svc.Generate(context.Background(), GenerateParams{
			ExamID: 1, RoomMode: RoomModeFiltered, BuildingID: &buildingID, StudentsPerRoom: 2,
		})
		require.ErrorIs(t, err, seating.ErrNoRooms)
		assert.Zero(t, store.replaceCalls)
	})

	t.Run("replace failure leaves an error, not a partial state", func(t *testing.T) {
		store := &fakeStore{failReplace: true}
		svc := newTestService(store)
		_, err := svc.Generate(context.Background(), GenerateParams{
			ExamID: 1, AllSubjects: true, RoomMode: RoomModeFiltered, StudentsPerRoom: 2,
		})
		require.Error(t, err)
		assert.Empty(t, store.byExam)
	})
}

func TestClear(t *testing.T) {
	store := &fakeStore{byExam: map[uint64][]model.SeatAssignment{
		1: {{ExamID: 1, StudentID: 1001}, {ExamID: 1, StudentID: 1002}},
	}}
	svc := newTestService(store)

	n, err := svc.Clear(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Empty(t, store.byExam[1])

	_, err = svc.Clear(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrExamNotFound)
}
