package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/exam-seating/internal/model"
)

// ExamRepo provides CRUD access to the exams table.
type ExamRepo struct {
	db *sql.DB
}

// NewExamRepo constructs an ExamRepo with the given DB handle.
func NewExamRepo(db *sql.DB) *ExamRepo { return &ExamRepo{db: db} }

const examColumns = `id, name, exam_date, is_published, created_at, updated_at`

// Create inserts an exam. On success the ID is populated.
func (r *ExamRepo) Create(ctx context.Context, e *model.Exam) error {
	const q = `INSERT INTO exams (name, exam_date, is_published) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.ExamDate, e.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches one exam or ErrExamNotFound.
func (r *ExamRepo) GetByID(ctx context.Context, id uint64) (model.Exam, error) {
	var e model.Exam
	err := r.db.QueryRowContext(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.ExamDate, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return e, ErrExamNotFound
	}
	return e, err
}

// List returns all exams, most recent exam date first.
func (r *ExamRepo) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY exam_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Name, &e.ExamDate, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update changes an exam's name, date or published flag.
func (r *ExamRepo) Update(ctx context.Context, e model.Exam) error {
	const q = `UPDATE exams SET name = ?, exam_date = ?, is_published = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.ExamDate, e.IsPublished, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExamNotFound
	}
	return nil
}

// Delete removes an exam along with its subjects, enrollments and
// seat assignments in one transaction.
func (r *ExamRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM seat_assignments WHERE exam_id = ?`,
		`DELETE FROM enrollments WHERE exam_id = ?`,
		`DELETE FROM subjects WHERE exam_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExamNotFound
	}
	return tx.Commit()
}
