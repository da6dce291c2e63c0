package harbor

import (
	"context"

	"github.com/marinadb/marina"
	"github.com/marinadb/marina/kv"
)

// Relationship transitions follow a fixed check order: existence of
// both entities first, then relationship state, then ownership. A
// request that fails more than one check reports the earliest failure.

// AttachLoad places an unassigned load aboard the boat. Both halves of
// the link are written in one transaction.
func (s *Service) AttachLoad(ctx context.Context, boatID, loadID marina.ID, subject string) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, boatID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrLoadNotFound
		} else if err != nil {
			return err
		}

		load, err := s.store.GetLoad(ctx, tx, loadID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrLoadNotFound
		} else if err != nil {
			return err
		}

		if load.Carrier != nil {
			return ErrLoadAlreadyCarried
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		boat.Loads = append(boat.Loads, load.ID)
		load.Carrier = &marina.Carrier{ID: boat.ID, Name: boat.Name}

		if err := s.store.PutBoat(ctx, tx, boat); err != nil {
			return err
		}
		return s.store.PutLoad(ctx, tx, load)
	})
}

// DetachLoad removes a load from the boat it is aboard. Detaching a
// pair that is not linked fails without mutating either record.
func (s *Service) DetachLoad(ctx context.Context, boatID, loadID marina.ID, subject string) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		boat, err := s.store.GetBoat(ctx, tx, boatID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrLoadNotFound
		} else if err != nil {
			return err
		}

		load, err := s.store.GetLoad(ctx, tx, loadID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrLoadNotFound
		} else if err != nil {
			return err
		}

		if load.Carrier == nil || load.Carrier.ID != boat.ID {
			return ErrLoadNotAboard
		}

		if boat.Owner != subject {
			return ErrNotBoatOwner
		}

		removeLoadRef(boat, load.ID)
		load.Carrier = nil

		if err := s.store.PutBoat(ctx, tx, boat); err != nil {
			return err
		}
		return s.store.PutLoad(ctx, tx, load)
	})
}

// AssignBoat docks a boat at an empty slip. The boat must not be
// docked anywhere else; that is verified by scanning all slips.
func (s *Service) AssignBoat(ctx context.Context, slipID, boatID marina.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		slip, err := s.store.GetSlip(ctx, tx, slipID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrSlipNotFound
		} else if err != nil {
			return err
		}

		boat, err := s.store.GetBoat(ctx, tx, boatID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrSlipNotFound
		} else if err != nil {
			return err
		}

		if slip.CurrentBoat != nil {
			return ErrSlipOccupied
		}

		occupied, err := s.store.FindSlipByBoat(ctx, tx, boat.ID)
		if err != nil {
			return err
		}
		if occupied != nil {
			return ErrBoatAlreadyMoored(occupied.ID)
		}

		slip.CurrentBoat = &boat.ID
		return s.store.PutSlip(ctx, tx, slip)
	})
}

// ReleaseBoat undocks the given boat from the given slip. The boat
// must occupy that exact slip.
func (s *Service) ReleaseBoat(ctx context.Context, slipID, boatID marina.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		slip, err := s.store.GetSlip(ctx, tx, slipID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrSlipNotFound
		} else if err != nil {
			return err
		}

		boat, err := s.store.GetBoat(ctx, tx, boatID)
		if marina.ErrorCode(err) == marina.ENotFound {
			return ErrBoatOrSlipNotFound
		} else if err != nil {
			return err
		}

		if slip.CurrentBoat == nil || *slip.CurrentBoat != boat.ID {
			return ErrBoatNotAtSlip
		}

		slip.CurrentBoat = nil
		return s.store.PutSlip(ctx, tx, slip)
	})
}

// cascadeBoatDelete detaches every load aboard the boat and vacates the
// slip it occupies, inside the caller's transaction.
func (s *Service) cascadeBoatDelete(ctx context.Context, tx kv.Tx, boat *marina.Boat) error {
	carried, err := s.store.ListLoadsByCarrier(ctx, tx, boat.ID)
	if err != nil {
		return err
	}

	for _, l := range carried {
		l.Carrier = nil
		if err := s.store.PutLoad(ctx, tx, l); err != nil {
			return err
		}
	}

	slip, err := s.store.FindSlipByBoat(ctx, tx, boat.ID)
	if err != nil {
		return err
	}
	if slip != nil {
		slip.CurrentBoat = nil
		if err := s.store.PutSlip(ctx, tx, slip); err != nil {
			return err
		}
	}

	return nil
}

// cascadeLoadDelete drops the load from its carrier's load list, inside
// the caller's transaction. A carrier record that has since vanished is
// skipped rather than treated as an error.
func (s *Service) cascadeLoadDelete(ctx context.Context, tx kv.Tx, load *marina.Load) error {
	if load.Carrier == nil {
		return nil
	}

	boat, err := s.store.GetBoat(ctx, tx, load.Carrier.ID)
	if marina.ErrorCode(err) == marina.ENotFound {
		return nil
	} else if err != nil {
		return err
	}

	removeLoadRef(boat, load.ID)
	return s.store.PutBoat(ctx, tx, boat)
}

func removeLoadRef(b *marina.Boat, loadID marina.ID) {
	loads := b.Loads[:0]
	for _, id := range b.Loads {
		if id != loadID {
			loads = append(loads, id)
		}
	}
	b.Loads = loads
}
