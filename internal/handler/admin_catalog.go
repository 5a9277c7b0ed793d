package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-seating/internal/model"
)

// Building and room catalog management.  These endpoints maintain the
// read-only inputs of seating generation; the allocator never writes
// to them.

// CreateBuilding handles POST /v1/admin/buildings.
func (h *AdminHandler) CreateBuilding(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Code = strings.ToUpper(strings.TrimSpace(body.Code))
	if body.Name == "" || body.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and code are required"})
	}
	b := model.Building{Name: body.Name, Code: body.Code}
	if err := h.Buildings.Create(c.Request().Context(), &b); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": b.ID, "name": b.Name, "code": b.Code})
}

// ListBuildings handles GET /v1/buildings.
func (h *AdminHandler) ListBuildings(c echo.Context) error {
	buildings, err := h.Buildings.List(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(buildings))
	for _, b := range buildings {
		out = append(out, echo.Map{"id": b.ID, "name": b.Name, "code": b.Code})
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": out})
}

// UpdateBuilding handles PUT /v1/admin/buildings/:id.
func (h *AdminHandler) UpdateBuilding(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
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
	if body.Name == "" || body.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and code are required"})
	}
	if err := h.Buildings.Update(c.Request().Context(), model.Building{ID: id, Name: body.Name, Code: body.Code}); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteBuilding handles DELETE /v1/admin/buildings/:id.  Buildings
// that still contain rooms yield 409.
func (h *AdminHandler) DeleteBuilding(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid building id"})
	}
	if err := h.Buildings.Delete(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var body struct {
		BuildingID uint64 `json:"building_id"`
		RoomNumber string `json:"room_number"`
		Capacity   uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.RoomNumber = strings.TrimSpace(body.RoomNumber)
	if body.BuildingID == 0 || body.RoomNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "building_id and room_number are required"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
	}
	ctx := c.Request().Context()
	if _, err := h.Buildings.GetByID(ctx, body.BuildingID); err != nil {
		return writeDomainError(c, err)
	}
	rm := model.Room{BuildingID: body.BuildingID, RoomNumber: body.RoomNumber, Capacity: body.Capacity, IsActive: true}
	if err := h.Rooms.Create(ctx, &rm); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, roomJSON(rm))
}

// ListRooms handles GET /v1/rooms with an optional ?building_id filter.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.ListActive(c.Request().Context(), queryUint(c, "building_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]echo.Map, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, roomJSON(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// UpdateRoom handles PUT /v1/admin/rooms/:id.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx := c.Request().Context()
	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	var body struct {
		RoomNumber *string `json:"room_number"`
		Capacity   *uint32 `json:"capacity"`
		IsActive   *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomNumber != nil {
		if v := strings.TrimSpace(*body.RoomNumber); v != "" {
			rm.RoomNumber = v
		}
	}
	if body.Capacity != nil {
		if *body.Capacity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be greater than zero"})
		}
		rm.Capacity = *body.Capacity
	}
	if body.IsActive != nil {
		rm.IsActive = *body.IsActive
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, roomJSON(rm))
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.  Rooms referenced by
// seat assignments yield 409.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func roomJSON(rm model.Room) echo.Map {
	return echo.Map{
		"id":          rm.ID,
		"building_id": rm.BuildingID,
		"room_number": rm.RoomNumber,
		"capacity":    rm.Capacity,
		"is_active":   rm.IsActive,
	}
}
