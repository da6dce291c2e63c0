package marina

import "context"

// Carrier is the load-side half of the Load↔Boat link. Name is
// denormalized from the boat record and kept current on boat rename.
type Carrier struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

// Load is a unit of cargo. Carrier references the boat the load is
// aboard, or nil when the load is unassigned. A load is aboard at most
// one boat at any time.
type Load struct {
	ID           ID       `json:"id,omitempty"`
	Item         string   `json:"item"`
	Volume       int      `json:"volume"`
	CreationDate string   `json:"creation_date"`
	Carrier      *Carrier `json:"carrier"`
}

// LoadUpdate is the set of changeable fields for a partial update.
type LoadUpdate struct {
	Item         *string
	Volume       *int
	CreationDate *string
}

// LoadService represents a service for managing loads. Loads carry no
// owner, so none of these operations are gated on a subject.
type LoadService interface {
	// FindLoadByID returns a single load by ID.
	FindLoadByID(ctx context.Context, id ID) (*Load, error)

	// FindLoads returns a page of loads and the total count of loads.
	FindLoads(ctx context.Context, opt ...FindOptions) ([]*Load, int, error)

	// CreateLoad creates a new load and sets l.ID with the new identifier.
	CreateLoad(ctx context.Context, l *Load) error

	// UpdateLoad updates a single load with changeset. Returns the new
	// load state after update.
	UpdateLoad(ctx context.Context, id ID, upd LoadUpdate) (*Load, error)

	// ReplaceLoad replaces every mutable attribute of the load with l.
	// The carrier reference and ID are preserved.
	ReplaceLoad(ctx context.Context, id ID, l *Load) (*Load, error)

	// DeleteLoad removes a load, detaching it from its carrier first.
	DeleteLoad(ctx context.Context, id ID) error
}
