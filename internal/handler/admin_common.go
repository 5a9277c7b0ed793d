package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/repository"
	"github.com/iliyamo/exam-seating/internal/seating"
	"github.com/iliyamo/exam-seating/internal/service"
)

// AdminHandler bundles the repositories and the seating service for
// the admin surface.
type AdminHandler struct {
	Buildings   *repository.BuildingRepo
	Rooms       *repository.RoomRepo
	Exams       *repository.ExamRepo
	Subjects    *repository.SubjectRepo
	Enrollments *repository.EnrollmentRepo
	Assignments *repository.SeatAssignmentRepo
	Seating     *service.SeatingService
}

// NewAdminHandler constructs an AdminHandler and panics on a nil
// dependency; wiring bugs should fail at startup, not per request.
func NewAdminHandler(
	buildings *repository.BuildingRepo,
	rooms *repository.RoomRepo,
	exams *repository.ExamRepo,
	subjects *repository.SubjectRepo,
	enrollments *repository.EnrollmentRepo,
	assignments *repository.SeatAssignmentRepo,
	seatingSvc *service.SeatingService,
) *AdminHandler {
	if buildings == nil || rooms == nil || exams == nil || subjects == nil ||
		enrollments == nil || assignments == nil || seatingSvc == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Buildings:   buildings,
		Rooms:       rooms,
		Exams:       exams,
		Subjects:    subjects,
		Enrollments: enrollments,
		Assignments: assignments,
		Seating:     seatingSvc,
	}
}

// getUserID extracts the user_id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// queryUint parses an optional numeric query parameter, nil when absent.
func queryUint(c echo.Context, name string) *uint64 {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// writeDomainError maps the shared error taxonomy onto HTTP statuses:
// not-found sentinels to 404, invalid parameters to 422, empty room
// sets to 400, conflicts to 409, anything else to 500.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrExamNotFound),
		errors.Is(err, repository.ErrSubjectNotFound),
		errors.Is(err, repository.ErrBuildingNotFound),
		errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNoEnrollments):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrNoRooms):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, seating.ErrInvalidParameter):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting records exist"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
