package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rooms(ids ...uint64) []Room {
	out := make([]Room, 0, len(ids))
	for i, id := range ids {
		out = append(out, Room{ID: id, Number: string(rune('A' + i)), Capacity: 10})
	}
	return out
}

func TestAllocateValidation(t *testing.T) {
	t.Run("rejects non-positive students per room", func(t *testing.T) {
		_, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1},
			Rooms:           rooms(1),
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 0,
		})
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("rejects empty room set", func(t *testing.T) {
		_, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1},
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 2,
		})
		require.ErrorIs(t, err, ErrNoRooms)
	})

	t.Run("empty subject scope is a no-op", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2},
			Rooms:           rooms(1),
			StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		assert.Empty(t, res.Assignments)
	})
}

func TestAllocateCompleteness(t *testing.T) {
	// N students x K subjects must yield exactly N*K assignments,
	// each (student, subject) pair exactly once.
	res, err := Allocate(Input{
		ExamID:          7,
		Students:        []uint64{10, 11, 12, 13, 14},
		Rooms:           rooms(1, 2),
		Subjects:        []uint64{100, 200, 300},
		StudentsPerRoom: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.Assignments, 15)

	seen := map[[2]uint64]int{}
	for _, a := range res.Assignments {
		assert.Equal(t, uint64(7), a.ExamID)
		seen[[2]uint64{a.StudentID, a.SubjectID}]++
	}
	require.Len(t, seen, 15)
	for pair, n := range seen {
		assert.Equalf(t, 1, n, "duplicate assignment for %v", pair)
	}
}

func TestAllocateRoomCycling(t *testing.T) {
	t.Run("seat and room labels advance per student", func(t *testing.T) {
		// 3 students, 1 subject, 2 per room: R1/S1, R1/S2, R2/S1.
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2, 3},
			Rooms:           rooms(5, 6),
			Subjects:        []uint64{NoSubject},
			RoomPrefix:      "R",
			SeatPrefix:      "S",
			StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		require.Len(t, res.Assignments, 3)
		assert.Equal(t, "R1", res.Assignments[0].RoomLabel)
		assert.Equal(t, "S1", res.Assignments[0].SeatLabel)
		assert.Equal(t, "R1", res.Assignments[1].RoomLabel)
		assert.Equal(t, "S2", res.Assignments[1].SeatLabel)
		assert.Equal(t, "R2", res.Assignments[2].RoomLabel)
		assert.Equal(t, "S1", res.Assignments[2].SeatLabel)
		// R1 -> first physical room, R2 -> second.
		assert.Equal(t, uint64(5), res.Assignments[0].RoomID)
		assert.Equal(t, uint64(6), res.Assignments[2].RoomID)
	})

	t.Run("subjects share the student's seat position", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2},
			Rooms:           rooms(5),
			Subjects:        []uint64{100, 200},
			StudentsPerRoom: 1,
		})
		require.NoError(t, err)
		require.Len(t, res.Assignments, 4)
		// Both subjects of student 1 sit at R1/S1, both of student 2
		// at R2/S1; the counters never advance mid-student.
		for _, a := range res.Assignments[:2] {
			assert.Equal(t, uint64(1), a.StudentID)
			assert.Equal(t, "R1", a.RoomLabel)
			assert.Equal(t, "S1", a.SeatLabel)
		}
		for _, a := range res.Assignments[2:] {
			assert.Equal(t, uint64(2), a.StudentID)
			assert.Equal(t, "R2", a.RoomLabel)
			assert.Equal(t, "S1", a.SeatLabel)
		}
	})

	t.Run("physical rooms are reused cyclically", func(t *testing.T) {
		// One physical room, three synthetic rooms: every synthetic
		// room maps to the single physical room.
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2, 3, 4, 5},
			Rooms:           rooms(9),
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		labels := map[string]bool{}
		for _, a := range res.Assignments {
			labels[a.RoomLabel] = true
			assert.Equal(t, uint64(9), a.RoomID)
		}
		assert.Len(t, labels, 3)
		require.Len(t, res.Rooms, 1)
		assert.Equal(t, 5, res.Rooms[0].Seated)
	})
}

func TestAllocateInvigilators(t *testing.T) {
	t.Run("distinct rooms get distinct invigilators when pool suffices", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2, 3, 4, 5, 6},
			Rooms:           rooms(1, 2, 3),
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 2,
			InvigilatorPool: []uint64{51, 52, 53, 54},
		})
		require.NoError(t, err)
		byRoom := map[uint64]uint64{}
		for _, a := range res.Assignments {
			require.NotZero(t, a.InvigilatorID)
			if prev, ok := byRoom[a.RoomID]; ok {
				assert.Equal(t, prev, a.InvigilatorID, "one invigilator per room")
			}
			byRoom[a.RoomID] = a.InvigilatorID
		}
		distinct := map[uint64]bool{}
		for _, id := range byRoom {
			distinct[id] = true
		}
		assert.Len(t, distinct, len(byRoom))
	})

	t.Run("pool is reused once exhausted", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2, 3},
			Rooms:           rooms(1, 2, 3),
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 1,
			InvigilatorPool: []uint64{51, 52},
		})
		require.NoError(t, err)
		require.Len(t, res.Rooms, 3)
		assert.Equal(t, uint64(51), res.Rooms[0].InvigilatorID)
		assert.Equal(t, uint64(52), res.Rooms[1].InvigilatorID)
		// Third room restarts over the full pool instead of staying
		// uncovered.
		assert.Equal(t, uint64(51), res.Rooms[2].InvigilatorID)
	})

	t.Run("manual overrides beat the pool", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:             1,
			Students:           []uint64{1, 2},
			Rooms:              rooms(1, 2),
			Subjects:           []uint64{NoSubject},
			StudentsPerRoom:    1,
			ManualInvigilators: map[uint64]uint64{1: 99},
			InvigilatorPool:    []uint64{51, 52},
		})
		require.NoError(t, err)
		require.Len(t, res.Rooms, 2)
		assert.Equal(t, uint64(99), res.Rooms[0].InvigilatorID)
		// The override does not consume a pool draw.
		assert.Equal(t, uint64(51), res.Rooms[1].InvigilatorID)
	})

	t.Run("empty pool leaves rooms unassigned", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          1,
			Students:        []uint64{1, 2},
			Rooms:           rooms(1),
			Subjects:        []uint64{NoSubject},
			StudentsPerRoom: 2,
		})
		require.NoError(t, err)
		for _, a := range res.Assignments {
			assert.Zero(t, a.InvigilatorID)
		}
	})
}

func TestAllocateEndToEndScenario(t *testing.T) {
	// Five students, one subject, one physical room, two per synthetic
	// room: S1->R1/S1, S2->R1/S2, S3->R2/S1, S4->R2/S2, S5->R3/S1,
	// all sharing the single room's invigilator.
	res, err := Allocate(Input{
		ExamID:          42,
		Students:        []uint64{1, 2, 3, 4, 5},
		Rooms:           []Room{{ID: 77, Number: "101", Capacity: 10}},
		Subjects:        []uint64{300},
		RoomPrefix:      "R",
		SeatPrefix:      "S",
		StudentsPerRoom: 2,
		InvigilatorPool: []uint64{61, 62},
	})
	require.NoError(t, err)
	require.Len(t, res.Assignments, 5)

	want := []struct {
		student uint64
		room    string
		seat    string
	}{
		{1, "R1", "S1"},
		{2, "R1", "S2"},
		{3, "R2", "S1"},
		{4, "R2", "S2"},
		{5, "R3", "S1"},
	}
	for i, w := range want {
		a := res.Assignments[i]
		assert.Equal(t, w.student, a.StudentID)
		assert.Equal(t, w.room, a.RoomLabel)
		assert.Equal(t, w.seat, a.SeatLabel)
		assert.Equal(t, uint64(77), a.RoomID)
		assert.Equal(t, uint64(61), a.InvigilatorID)
	}

	require.Len(t, res.Rooms, 1)
	assert.Equal(t, uint64(77), res.Rooms[0].RoomID)
	assert.Equal(t, 5, res.Rooms[0].Seated)

	t.Run("single enrollment, single subject", func(t *testing.T) {
		res, err := Allocate(Input{
			ExamID:          42,
			Students:        []uint64{8},
			Rooms:           rooms(1),
			Subjects:        []uint64{300},
			StudentsPerRoom: 30,
		})
		require.NoError(t, err)
		require.Len(t, res.Assignments, 1)
		assert.Equal(t, "R1", res.Assignments[0].RoomLabel)
		assert.Equal(t, "S1", res.Assignments[0].SeatLabel)
	})
}

func TestAllocateDeterminism(t *testing.T) {
	in := Input{
		ExamID:          3,
		Students:        []uint64{4, 2, 9, 1},
		Rooms:           rooms(1, 2),
		Subjects:        []uint64{10, 20},
		StudentsPerRoom: 3,
		InvigilatorPool: []uint64{70, 71},
	}
	first, err := Allocate(in)
	require.NoError(t, err)
	second, err := Allocate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
