package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/exam-seating/internal/model"
)

// EnrollmentRepo provides data access for exam enrollments.  The
// allocator consumes ListStudentIDs, which returns students in a
// stable order so repeated generation runs over the same data yield
// the same seat layout.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo constructs an EnrollmentRepo with the given DB handle.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll registers a student for an exam.  Enrolling the same
// (exam, student) pair twice yields ErrAlreadyEnrolled.
func (r *EnrollmentRepo) Enroll(ctx context.Context, e *model.Enrollment) error {
	const q = `INSERT INTO enrollments (exam_id, student_id) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.ExamID, e.StudentID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyEnrolled
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListStudentIDs returns the ids of all students enrolled in an exam,
// ordered by student id ascending.
func (r *EnrollmentRepo) ListStudentIDs(ctx context.Context, examID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT student_id FROM enrollments WHERE exam_id = ? ORDER BY student_id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListByExam returns the full enrollment rows for display.
func (r *EnrollmentRepo) ListByExam(ctx context.Context, examID uint64) ([]model.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, exam_id, student_id, created_at FROM enrollments WHERE exam_id = ? ORDER BY student_id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.ExamID, &e.StudentID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByExam reports how many students are enrolled in an exam.
func (r *EnrollmentRepo) CountByExam(ctx context.Context, examID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE exam_id = ?`, examID).Scan(&n)
	return n, err
}

// Withdraw removes a student's enrollment and any of their seat
// assignments for the exam.
func (r *EnrollmentRepo) Withdraw(ctx context.Context, examID, studentID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seat_assignments WHERE exam_id = ? AND student_id = ?`, examID, studentID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM enrollments WHERE exam_id = ? AND student_id = ?`, examID, studentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
