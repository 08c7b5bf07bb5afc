package contract

import "encoding/json"

type Gym struct {
	GymID       int64       `json:"gymId" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description,omitempty"`
	GymAdminID  int64       `json:"gymAdminId"`
	GymStatus   GymStatus   `json:"gymStatus,omitempty" validate:"omitempty,enum"`
	Branches    []GymBranch `json:"branches,omitempty" validate:"dive"`
	GymAdmin    *User       `json:"gymAdmin,omitempty"`
	Audit
}

// GymBranch is one physical location of a gym. BusinessHours and Amenities
// are free-form JSON (an object, an array or a JSON-encoded string).
type GymBranch struct {
	BranchID      int64           `json:"branchId" validate:"required"`
	GymID         int64           `json:"gymId"`
	BranchName    string          `json:"branchName" validate:"required"`
	Address       string          `json:"address" validate:"required"`
	DetailAddress string          `json:"detailAddress,omitempty"`
	ContactPhone  string          `json:"contactPhone,omitempty"`
	Latitude      float64         `json:"latitude" validate:"latitude"`
	Longitude     float64         `json:"longitude" validate:"longitude"`
	BusinessHours json.RawMessage `json:"businessHours,omitempty"`
	Amenities     json.RawMessage `json:"amenities,omitempty"`
	BranchStatus  GymStatus       `json:"branchStatus,omitempty" validate:"omitempty,enum"`
	Walls         []Wall          `json:"walls,omitempty" validate:"dive"`
	Gym           *Gym            `json:"gym,omitempty"`
	Audit
}

func (b GymBranch) Location() Location {
	return Location{Latitude: b.Latitude, Longitude: b.Longitude}
}

type Wall struct {
	WallID     int64      `json:"wallId" validate:"required"`
	BranchID   int64      `json:"branchId"`
	WallName   string     `json:"wallName" validate:"required"`
	SetDate    *Date      `json:"setDate,omitempty"`
	WallStatus WallStatus `json:"wallStatus" validate:"required,enum"`
	Routes     []Route    `json:"routes,omitempty" validate:"dive"`
	Branch     *GymBranch `json:"branch,omitempty"`
	Audit
}
