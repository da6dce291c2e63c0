package harbor

import (
	"errors"
	"fmt"

	"github.com/marinadb/marina"
)

// errDanglingCarrier signals a one-sided Load↔Boat link found in
// storage. Both halves are always written in one transaction, so this
// indicates a corrupt record.
var errDanglingCarrier = errors.New("load carrier does not match the boat load list")

var (
	// ErrBoatNotFound is returned when a boat cannot be located by ID.
	ErrBoatNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no boat with this boat_id exists",
	}

	// ErrLoadNotFound is returned when a load cannot be located by ID.
	ErrLoadNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no load with this load_id exists",
	}

	// ErrSlipNotFound is returned when a slip cannot be located by ID.
	ErrSlipNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no slip with this slip_id exists",
	}

	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no user with this identifier exists",
	}

	// ErrBoatOrLoadNotFound is returned by attach/detach when either end
	// of the link is absent. Existence is checked before relationship
	// state and ownership.
	ErrBoatOrLoadNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "the specified boat and/or load does not exist",
	}

	// ErrBoatOrSlipNotFound is returned by slip assignment when either
	// the slip or the boat is absent.
	ErrBoatOrSlipNotFound = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "the specified boat and/or slip does not exist",
	}

	// ErrBoatNameNotUnique is returned when creating or renaming a boat
	// to a name another boat already holds.
	ErrBoatNameNotUnique = &marina.Error{
		Code: marina.EConflict,
		Msg:  "there is already a boat with that name",
	}

	// ErrLoadAlreadyCarried is returned when attaching a load that is
	// already aboard a boat.
	ErrLoadAlreadyCarried = &marina.Error{
		Code: marina.EConflict,
		Msg:  "the load is already aboard a boat",
	}

	// ErrSlipOccupied is returned when assigning a boat to a slip that
	// already holds one.
	ErrSlipOccupied = &marina.Error{
		Code: marina.EConflict,
		Msg:  "the slip is not empty",
	}

	// ErrLoadNotAboard is returned when detaching a load from a boat it
	// is not aboard. Detach is not idempotent: repeating it reports the
	// pair as not found.
	ErrLoadNotAboard = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no load with this load_id is aboard the boat with this boat_id",
	}

	// ErrBoatNotAtSlip is returned when releasing a boat from a slip it
	// does not occupy.
	ErrBoatNotAtSlip = &marina.Error{
		Code: marina.ENotFound,
		Msg:  "no boat with this boat_id is at the slip with this slip_id",
	}

	// ErrNotBoatOwner is returned when the authenticated subject does not
	// own the boat being read or mutated.
	ErrNotBoatOwner = &marina.Error{
		Code: marina.EForbidden,
		Msg:  "the boat is owned by someone else",
	}

	// ErrUserSubExists is returned when registering a subject identifier
	// that already has an account.
	ErrUserSubExists = &marina.Error{
		Code: marina.EConflict,
		Msg:  "a user with this subject identifier already exists",
	}

	// ErrUnauthorized is returned when a request carries no verifiable
	// bearer credential.
	ErrUnauthorized = &marina.Error{
		Code: marina.EUnauthorized,
		Msg:  "missing or invalid bearer credential",
	}

	// ErrFailureGeneratingID occurs only when the ID generator cannot
	// produce an unused ID in MaxIDGenerationN attempts.
	ErrFailureGeneratingID = &marina.Error{
		Code: marina.EInternal,
		Msg:  "unable to generate valid id",
	}
)

// ErrBoatAlreadyMoored is returned when assigning a boat that is
// already docked at another slip.
func ErrBoatAlreadyMoored(slipID marina.ID) *marina.Error {
	return &marina.Error{
		Code: marina.EConflict,
		Msg:  fmt.Sprintf("the boat is already in slip %s", slipID),
	}
}

// ErrCorruptID the ID stored in the Store is corrupt.
func ErrCorruptID(err error) *marina.Error {
	return &marina.Error{
		Code: marina.EInvalid,
		Msg:  "corrupt ID provided",
		Err:  err,
	}
}

// ErrCorruptEntity is used when a stored record cannot be decoded.
func ErrCorruptEntity(kind string, err error) *marina.Error {
	return &marina.Error{
		Code: marina.EInternal,
		Msg:  fmt.Sprintf("%s could not be unmarshalled", kind),
		Err:  err,
		Op:   "harbor.unmarshal" + kind,
	}
}

// ErrUnprocessableEntity is used when a record cannot be serialized for
// storage.
func ErrUnprocessableEntity(kind string, err error) *marina.Error {
	return &marina.Error{
		Code: marina.EInternal,
		Msg:  fmt.Sprintf("%s could not be marshalled", kind),
		Err:  err,
		Op:   "harbor.marshal" + kind,
	}
}

// ErrInternalServiceError is used when the error comes from an internal system.
func ErrInternalServiceError(err error) *marina.Error {
	return &marina.Error{
		Code: marina.EInternal,
		Err:  err,
	}
}
