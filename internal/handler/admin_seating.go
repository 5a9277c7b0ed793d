package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/service"
)

// GenerateSeating handles POST /v1/admin/exams/:id/seating.  It runs
// the full generation pipeline: resolve enrollments, rooms, subject
// scope and invigilator pool, allocate seats, then atomically replace
// the exam's stored arrangement.  Any previous seating for the exam
// is superseded entirely.
func (h *AdminHandler) GenerateSeating(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body struct {
		AllSubjects     bool    `json:"all_subjects"`
		SubjectID       *uint64 `json:"subject_id"`
		RoomSelection   struct {
			Mode       string   `json:"mode"` // "explicit" | "filtered"
			RoomIDs    []uint64 `json:"room_ids"`
			BuildingID *uint64  `json:"building_id"`
		} `json:"room_selection"`
		RoomPrefix      string            `json:"room_prefix"`
		SeatPrefix      string            `json:"seat_prefix"`
		StudentsPerRoom int               `json:"students_per_room"`
		Invigilators    map[uint64]uint64 `json:"invigilators"` // room id -> staff id
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.AllSubjects && body.SubjectID != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all_subjects and subject_id are mutually exclusive"})
	}

	res, err := h.Seating.Generate(c.Request().Context(), service.GenerateParams{
		ExamID:             examID,
		AllSubjects:        body.AllSubjects,
		SubjectID:          body.SubjectID,
		RoomMode:           strings.ToLower(strings.TrimSpace(body.RoomSelection.Mode)),
		RoomIDs:            body.RoomSelection.RoomIDs,
		BuildingID:         body.RoomSelection.BuildingID,
		RoomPrefix:         strings.TrimSpace(body.RoomPrefix),
		SeatPrefix:         strings.TrimSpace(body.SeatPrefix),
		StudentsPerRoom:    body.StudentsPerRoom,
		ManualInvigilators: body.Invigilators,
		RequestedBy:        userID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// ClearSeating handles DELETE /v1/admin/exams/:id/seating and removes
// the exam's seating without generating a new one.
func (h *AdminHandler) ClearSeating(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	n, err := h.Seating.Clear(c.Request().Context(), examID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exam_id": examID, "deleted": n})
}
