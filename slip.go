package marina

import "context"

// Slip is a numbered mooring spot. CurrentBoat references the boat
// docked at the slip, or nil when the slip is empty. A boat occupies at
// most one slip at any time; that invariant is enforced by scanning all
// slips before assignment, there is no secondary index.
type Slip struct {
	ID          ID  `json:"id,omitempty"`
	Number      int `json:"number"`
	CurrentBoat *ID `json:"current_boat"`
}

// SlipUpdate is the set of changeable fields for a partial update.
type SlipUpdate struct {
	Number *int
}

// SlipService represents a service for managing slips and their occupancy.
type SlipService interface {
	// FindSlipByID returns a single slip by ID.
	FindSlipByID(ctx context.Context, id ID) (*Slip, error)

	// FindSlips returns every slip.
	FindSlips(ctx context.Context) ([]*Slip, error)

	// CreateSlip creates a new empty slip and sets s.ID.
	CreateSlip(ctx context.Context, s *Slip) error

	// UpdateSlip updates a single slip with changeset. Returns the new
	// slip state after update.
	UpdateSlip(ctx context.Context, id ID, upd SlipUpdate) (*Slip, error)

	// DeleteSlip removes a slip. No cascade beyond dropping its own
	// occupancy field.
	DeleteSlip(ctx context.Context, id ID) error

	// AssignBoat docks a boat at an empty slip. Fails with EConflict if
	// the slip is occupied or the boat is docked elsewhere.
	AssignBoat(ctx context.Context, slipID, boatID ID) error

	// ReleaseBoat undocks the given boat from the given slip. Fails with
	// ENotFound unless that exact boat occupies that exact slip.
	ReleaseBoat(ctx context.Context, slipID, boatID ID) error
}
