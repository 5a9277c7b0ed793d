package model

import "time"

// Building represents a campus building that contains exam rooms.
// Rooms reference their building via BuildingID; deleting a building
// with rooms attached is rejected at the repository layer.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable building name (e.g. "Science Block").
//  Code      – short unique code used on hall tickets (e.g. "SB").
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Building struct {
	ID        uint64    // buildings.id
	Name      string    // buildings.name
	Code      string    // buildings.code
	CreatedAt time.Time // buildings.created_at
	UpdatedAt time.Time // buildings.updated_at
}
