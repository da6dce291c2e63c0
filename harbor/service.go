package harbor

import (
	"go.uber.org/zap"

	"github.com/marinadb/marina"
)

// Service implements the resource services on top of a Store. All
// business rules live here: ownership checks, relationship state
// transitions and cascades. Each mutating operation runs inside a
// single Update transaction so cascades commit atomically.
type Service struct {
	store *Store
	log   *zap.Logger
}

// NewService constructs a service around store.
func NewService(log *zap.Logger, store *Store) *Service {
	return &Service{
		store: store,
		log:   log,
	}
}

var (
	_ marina.BoatService = (*Service)(nil)
	_ marina.LoadService = (*Service)(nil)
	_ marina.SlipService = (*Service)(nil)
	_ marina.UserService = (*Service)(nil)
)
