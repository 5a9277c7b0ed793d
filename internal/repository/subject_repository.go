package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/exam-seating/internal/model"
)

// SubjectRepo provides data access for subjects linked to exams.
type SubjectRepo struct {
	db *sql.DB
}

// NewSubjectRepo constructs a SubjectRepo with the given DB handle.
func NewSubjectRepo(db *sql.DB) *SubjectRepo { return &SubjectRepo{db: db} }

const subjectColumns = `id, exam_id, name, code, created_at, updated_at`

// Create inserts a subject under an exam. On success the ID is populated.
func (r *SubjectRepo) Create(ctx context.Context, s *model.Subject) error {
	const q = `INSERT INTO subjects (exam_id, name, code) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ExamID, s.Name, s.Code)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches one subject or ErrSubjectNotFound.
func (r *SubjectRepo) GetByID(ctx context.Context, id uint64) (model.Subject, error) {
	var s model.Subject
	err := r.db.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id).
		Scan(&s.ID, &s.ExamID, &s.Name, &s.Code, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrSubjectNotFound
	}
	return s, err
}

// ListByExam returns an exam's subjects ordered by id, the order the
// allocator iterates its subject scope in.
func (r *SubjectRepo) ListByExam(ctx context.Context, examID uint64) ([]model.Subject, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE exam_id = ? ORDER BY id ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.ExamID, &s.Name, &s.Code, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a subject and any seat assignments scoped to it.
func (r *SubjectRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_assignments WHERE subject_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubjectNotFound
	}
	return tx.Commit()
}
