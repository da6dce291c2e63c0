package marina

import "context"

// Boat is a vessel registered by an owner. Its Loads slice is the
// boat-side half of the Load↔Boat link; the load-side half is
// Load.Carrier. Both halves are kept in sync by the boat service.
type Boat struct {
	ID     ID     `json:"id,omitempty"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Length int    `json:"length"`
	Owner  string `json:"owner"`
	Public bool   `json:"public"`
	Loads  []ID   `json:"loads"`
}

// HasLoad reports whether the boat's load list references id.
func (b *Boat) HasLoad(id ID) bool {
	for _, l := range b.Loads {
		if l == id {
			return true
		}
	}
	return false
}

// BoatUpdate is the set of changeable fields for a partial update.
// Nil fields are left untouched.
type BoatUpdate struct {
	Name   *string
	Type   *string
	Length *int
	Public *bool
}

// BoatFilter represents a set of filter that restrict the returned results.
type BoatFilter struct {
	Owner  *string
	Public *bool
}

// BoatService represents a service for managing boats and their
// relationships to loads.
//
// Owner-gated operations take the authenticated subject explicitly and
// fail with EForbidden when it does not match the boat's owner.
type BoatService interface {
	// FindBoatByID returns a single boat by ID. Only the owner may read it.
	FindBoatByID(ctx context.Context, id ID, subject string) (*Boat, error)

	// FindBoats returns a list of boats that match filter and the total
	// count of matching boats. Additional options provide pagination.
	FindBoats(ctx context.Context, filter BoatFilter, opt ...FindOptions) ([]*Boat, int, error)

	// CreateBoat creates a new boat and sets b.ID with the new identifier.
	// The boat name must be unique among all boats.
	CreateBoat(ctx context.Context, b *Boat) error

	// UpdateBoat updates a single boat with changeset. Returns the new
	// boat state after update.
	UpdateBoat(ctx context.Context, id ID, upd BoatUpdate, subject string) (*Boat, error)

	// ReplaceBoat replaces every mutable attribute of the boat with b.
	// The owner, load list and ID are preserved.
	ReplaceBoat(ctx context.Context, id ID, b *Boat, subject string) (*Boat, error)

	// DeleteBoat removes a boat, detaching every carried load and
	// releasing any slip occupied by the boat.
	DeleteBoat(ctx context.Context, id ID, subject string) error

	// AttachLoad places an unassigned load aboard the boat. Both sides of
	// the link commit together or not at all.
	AttachLoad(ctx context.Context, boatID, loadID ID, subject string) error

	// DetachLoad removes a load from the boat it is aboard. Detaching an
	// already-detached pair fails with ENotFound and mutates nothing.
	DetachLoad(ctx context.Context, boatID, loadID ID, subject string) error
}
