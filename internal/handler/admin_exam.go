package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/model"
	"github.com/iliyamo/exam-seating/internal/repository"
)

// Exam, subject and enrollment management.

// CreateExam handles POST /v1/admin/exams.
func (h *AdminHandler) CreateExam(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		ExamDate string `json:"exam_date"` // YYYY-MM-DD
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	date, err := time.Parse("2006-01-02", body.ExamDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_date must be YYYY-MM-DD"})
	}
	e := model.Exam{Name: body.Name, ExamDate: date}
	if err := h.Exams.Create(c.Request().Context(), &e); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, examJSON(e))
}

// ListExams handles GET /v1/exams.
func (h *AdminHandler) ListExams(c echo.Context) error {
	exams, err := h.Exams.List(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(exams))
	for _, e := range exams {
		out = append(out, examJSON(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"exams": out})
}

// GetExam handles GET /v1/exams/:id and includes the exam's subjects
// and enrollment count.
func (h *AdminHandler) GetExam(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx := c.Request().Context()
	e, err := h.Exams.GetByID(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	subjects, err := h.Subjects.ListByExam(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	enrolled, err := h.Enrollments.CountByExam(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	subjectList := make([]echo.Map, 0, len(subjects))
	for _, s := range subjects {
		subjectList = append(subjectList, echo.Map{"id": s.ID, "name": s.Name, "code": s.Code})
	}
	resp := examJSON(e)
	resp["subjects"] = subjectList
	resp["enrolled"] = enrolled
	return c.JSON(http.StatusOK, resp)
}

// UpdateExam handles PUT /v1/admin/exams/:id.
func (h *AdminHandler) UpdateExam(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx := c.Request().Context()
	e, err := h.Exams.GetByID(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	var body struct {
		Name        *string `json:"name"`
		ExamDate    *string `json:"exam_date"`
		IsPublished *bool   `json:"is_published"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		if v := strings.TrimSpace(*body.Name); v != "" {
			e.Name = v
		}
	}
	if body.ExamDate != nil {
		date, err := time.Parse("2006-01-02", *body.ExamDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exam_date must be YYYY-MM-DD"})
		}
		e.ExamDate = date
	}
	if body.IsPublished != nil {
		e.IsPublished = *body.IsPublished
	}
	if err := h.Exams.Update(ctx, e); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, examJSON(e))
}

// DeleteExam handles DELETE /v1/admin/exams/:id and removes the exam
// with its subjects, enrollments and seating.
func (h *AdminHandler) DeleteExam(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	if err := h.Exams.Delete(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSubject handles POST /v1/admin/exams/:id/subjects.
func (h *AdminHandler) CreateSubject(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	var body struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}
	s := model.Subject{ExamID: examID, Name: body.Name, Code: body.Code}
	if err := h.Subjects.Create(ctx, &s); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": s.ID, "exam_id": s.ExamID, "name": s.Name, "code": s.Code})
}

// DeleteSubject handles DELETE /v1/admin/subjects/:id.
func (h *AdminHandler) DeleteSubject(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid subject id"})
	}
	if err := h.Subjects.Delete(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// EnrollStudent handles POST /v1/admin/exams/:id/enrollments.
func (h *AdminHandler) EnrollStudent(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	var body struct {
		StudentID uint64 `json:"student_id"`
	}
	if err := c.Bind(&body); err != nil || body.StudentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_id is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}
	e := model.Enrollment{ExamID: examID, StudentID: body.StudentID}
	if err := h.Enrollments.Enroll(ctx, &e); err != nil {
		if err == repository.ErrAlreadyEnrolled {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already enrolled"})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": e.ID, "exam_id": e.ExamID, "student_id": e.StudentID})
}

// ListEnrollments handles GET /v1/admin/exams/:id/enrollments.
func (h *AdminHandler) ListEnrollments(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}
	enrollments, err := h.Enrollments.ListByExam(ctx, examID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, echo.Map{"id": e.ID, "student_id": e.StudentID})
	}
	return c.JSON(http.StatusOK, echo.Map{"exam_id": examID, "enrollments": out})
}

// WithdrawStudent handles DELETE /v1/admin/exams/:id/enrollments/:studentID.
func (h *AdminHandler) WithdrawStudent(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	if err := h.Enrollments.Withdraw(c.Request().Context(), examID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "enrollment not found"})
		}
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func examJSON(e model.Exam) echo.Map {
	return echo.Map{
		"id":           e.ID,
		"name":         e.Name,
		"exam_date":    e.ExamDate.Format("2006-01-02"),
		"is_published": e.IsPublished,
	}
}
