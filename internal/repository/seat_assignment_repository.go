package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/exam-seating/internal/model"
)

// SeatAssignmentRepo persists generated seat assignments.  Its
// central contract is ReplaceForExam: one transaction that deletes
// every prior row for the exam and bulk-inserts the new set, so
// readers either see the old arrangement or the new one, never a mix.
type SeatAssignmentRepo struct {
	db *sql.DB
}

// NewSeatAssignmentRepo constructs a SeatAssignmentRepo with the given DB handle.
func NewSeatAssignmentRepo(db *sql.DB) *SeatAssignmentRepo { return &SeatAssignmentRepo{db: db} }

// ReplaceForExam atomically supersedes all assignments of an exam.
// Passing an empty slice clears the exam's seating.  The caller must
// ensure rows all belong to examID.
func (r *SeatAssignmentRepo) ReplaceForExam(ctx context.Context, examID uint64, rows []model.SeatAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE exam_id = ?`, examID); err != nil {
		return err
	}
	if len(rows) > 0 {
		query := `INSERT INTO seat_assignments
			(exam_id, student_id, subject_id, room_id, room_label, seat_label, invigilator_id) VALUES `
		args := make([]any, 0, len(rows)*7)
		for i, a := range rows {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, ?)"
			args = append(args, a.ExamID, a.StudentID, a.SubjectID, a.RoomID, a.RoomLabel, a.SeatLabel, a.InvigilatorID)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteByExam removes all assignments of an exam and reports how
// many rows were cleared.
func (r *SeatAssignmentRepo) DeleteByExam(ctx context.Context, examID uint64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM seat_assignments WHERE exam_id = ?`, examID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AssignmentFilter narrows ListByExam.  Zero values mean "no filter";
// Search matches the seat label, room label or the student id as text.
type AssignmentFilter struct {
	ExamID     uint64
	SubjectID  *uint64
	BuildingID *uint64
	Search     string
	Limit      int
	Offset     int
}

// AssignmentDetail is the read model for seating lists and room
// rosters: one assignment joined with its room, building and
// invigilator for display.
type AssignmentDetail struct {
	ID              uint64  `json:"id"`
	StudentID       uint64  `json:"student_id"`
	SubjectID       *uint64 `json:"subject_id,omitempty"`
	SubjectName     *string `json:"subject_name,omitempty"`
	RoomID          uint64  `json:"room_id"`
	RoomNumber      string  `json:"room_number"`
	BuildingID      uint64  `json:"building_id"`
	BuildingCode    string  `json:"building_code"`
	RoomLabel       string  `json:"room_label"`
	SeatLabel       string  `json:"seat_label"`
	InvigilatorID   *uint64 `json:"invigilator_id,omitempty"`
	InvigilatorName *string `json:"invigilator_name,omitempty"`
}

const assignmentDetailSelect = `
	SELECT sa.id, sa.student_id, sa.subject_id, sub.name, sa.room_id, rm.room_number,
	       rm.building_id, b.code, sa.room_label, sa.seat_label, sa.invigilator_id, u.full_name
	FROM seat_assignments sa
	JOIN rooms rm ON rm.id = sa.room_id
	JOIN buildings b ON b.id = rm.building_id
	LEFT JOIN subjects sub ON sub.id = sa.subject_id
	LEFT JOIN users u ON u.id = sa.invigilator_id`

// ListByExam returns one page of an exam's assignments plus the total
// row count for the filter.
func (r *SeatAssignmentRepo) ListByExam(ctx context.Context, f AssignmentFilter) ([]AssignmentDetail, int, error) {
	where := ` WHERE sa.exam_id = ?`
	args := []any{f.ExamID}
	if f.SubjectID != nil {
		where += ` AND sa.subject_id = ?`
		args = append(args, *f.SubjectID)
	}
	if f.BuildingID != nil {
		where += ` AND rm.building_id = ?`
		args = append(args, *f.BuildingID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where += ` AND (sa.seat_label LIKE ? OR sa.room_label LIKE ? OR CAST(sa.student_id AS CHAR) LIKE ?)`
		pat := "%" + s + "%"
		args = append(args, pat, pat, pat)
	}

	var total int
	countQ := `SELECT COUNT(*) FROM seat_assignments sa JOIN rooms rm ON rm.id = sa.room_id` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := assignmentDetailSelect + where + ` ORDER BY sa.id ASC`
	if f.Limit > 0 {
		q += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := collectAssignmentDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByRoom returns the roster of one physical room for an exam,
// optionally scoped to a subject.  This is the attendance read path.
func (r *SeatAssignmentRepo) ListByRoom(ctx context.Context, examID, roomID uint64, subjectID *uint64) ([]AssignmentDetail, error) {
	q := assignmentDetailSelect + ` WHERE sa.exam_id = ? AND sa.room_id = ?`
	args := []any{examID, roomID}
	if subjectID != nil {
		q += ` AND sa.subject_id = ?`
		args = append(args, *subjectID)
	}
	q += ` ORDER BY sa.room_label ASC, sa.seat_label ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignmentDetails(rows)
}

// ListRoomsByInvigilator returns the rooms a staff member covers for
// an exam, with the number of students seated in each.
func (r *SeatAssignmentRepo) ListRoomsByInvigilator(ctx context.Context, examID, staffID uint64) ([]InvigilatorRoom, error) {
	const q = `
		SELECT sa.room_id, rm.room_number, b.code, COUNT(DISTINCT sa.student_id)
		FROM seat_assignments sa
		JOIN rooms rm ON rm.id = sa.room_id
		JOIN buildings b ON b.id = rm.building_id
		WHERE sa.exam_id = ? AND sa.invigilator_id = ?
		GROUP BY sa.room_id, rm.room_number, b.code
		ORDER BY rm.room_number ASC`
	rows, err := r.db.QueryContext(ctx, q, examID, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InvigilatorRoom
	for rows.Next() {
		var ir InvigilatorRoom
		if err := rows.Scan(&ir.RoomID, &ir.RoomNumber, &ir.BuildingCode, &ir.Seated); err != nil {
			return nil, err
		}
		out = append(out, ir)
	}
	return out, rows.Err()
}

// InvigilatorRoom summarizes one room from an invigilator's point of view.
type InvigilatorRoom struct {
	RoomID       uint64 `json:"room_id"`
	RoomNumber   string `json:"room_number"`
	BuildingCode string `json:"building_code"`
	Seated       int    `json:"seated"`
}

func collectAssignmentDetails(rows *sql.Rows) ([]AssignmentDetail, error) {
	var out []AssignmentDetail
	for rows.Next() {
		var (
			d        AssignmentDetail
			subjID   sql.NullInt64
			subjName sql.NullString
			invID    sql.NullInt64
			invName  sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.StudentID, &subjID, &subjName, &d.RoomID, &d.RoomNumber,
			&d.BuildingID, &d.BuildingCode, &d.RoomLabel, &d.SeatLabel, &invID, &invName); err != nil {
			return nil, err
		}
		if subjID.Valid {
			v := uint64(subjID.Int64)
			d.SubjectID = &v
		}
		if subjName.Valid {
			v := subjName.String
			d.SubjectName = &v
		}
		if invID.Valid {
			v := uint64(invID.Int64)
			d.InvigilatorID = &v
		}
		if invName.Valid {
			v := invName.String
			d.InvigilatorName = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
