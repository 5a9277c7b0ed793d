package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/repository"
)

// Read endpoints for generated seating, available to ADMIN and STAFF.

// ListSeating handles GET /v1/exams/:id/seating.  Supports filtering
// by subject, building and free-text search plus limit/offset
// pagination.
func (h *AdminHandler) ListSeating(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	details, total, err := h.Assignments.ListByExam(ctx, repository.AssignmentFilter{
		ExamID:     examID,
		SubjectID:  queryUint(c, "subject_id"),
		BuildingID: queryUint(c, "building_id"),
		Search:     strings.TrimSpace(c.QueryParam("q")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"exam_id":     examID,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
		"assignments": details,
	})
}

// RoomRoster handles GET /v1/exams/:id/rooms/:roomID/roster, the
// attendance read model: every student seated in one physical room,
// optionally scoped to a subject via ?subject_id.
func (h *AdminHandler) RoomRoster(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	roomID, ok := pathID(c, "roomID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		return writeDomainError(c, err)
	}
	roster, err := h.Assignments.ListByRoom(ctx, examID, roomID, queryUint(c, "subject_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"exam_id": examID,
		"room_id": roomID,
		"roster":  roster,
	})
}

// MyRooms handles GET /v1/exams/:id/my-rooms and returns the rooms
// the calling invigilator covers for the exam.
func (h *AdminHandler) MyRooms(c echo.Context) error {
	examID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exam id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	if _, err := h.Exams.GetByID(ctx, examID); err != nil {
		return writeDomainError(c, err)
	}
	rooms, err := h.Assignments.ListRoomsByInvigilator(ctx, examID, userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"exam_id": examID, "rooms": rooms})
}
