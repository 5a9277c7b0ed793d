package model

import "time"

// Room is a physical exam room inside a building.  Capacity is the
// declared number of seats and is advisory during seating generation:
// the allocator packs `studentsPerRoom` students per synthetic room
// and cycles over physical rooms, so a room can end up holding more
// students than Capacity when too few rooms are selected.
//
// Fields:
//  ID         – primary key identifier.
//  BuildingID – building this room belongs to.
//  RoomNumber – room number unique within the building (e.g. "101A").
//  Capacity   – declared seat count, must be positive.
//  IsActive   – soft availability flag; inactive rooms are excluded
//               from filtered room selection.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	BuildingID uint64    // rooms.building_id
	RoomNumber string    // rooms.room_number
	Capacity   uint32    // rooms.capacity
	IsActive   bool      // rooms.is_active
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
