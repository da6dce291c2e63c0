package snowflake

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/marinadb/marina"
)

func init() {
	SetGlobalMachineID(rand.Intn(1023))
}

// epoch is 2020-01-01T00:00:00Z in milliseconds.
const epoch = 1577836800000

var globalmachineID struct {
	id  int
	set bool
	sync.RWMutex
}

// ErrGlobalIDBadVal means that the global machine id value wasn't properly set.
var ErrGlobalIDBadVal = errors.New("globalID must be a number between (inclusive) 0 and 1023")

// SetGlobalMachineID sets the global machine id. This number is limited to a number between 0 and 1023 inclusive.
func SetGlobalMachineID(id int) error {
	if id > 1023 || id < 0 {
		return ErrGlobalIDBadVal
	}
	globalmachineID.Lock()
	globalmachineID.id = id
	globalmachineID.set = true
	globalmachineID.Unlock()
	return nil
}

// GlobalMachineID returns the global machine id.
func GlobalMachineID() int {
	globalmachineID.RLock()
	id := globalmachineID.id
	globalmachineID.RUnlock()
	return id
}

// NewDefaultIDGenerator returns an *IDGenerator that uses the currently set global machine ID.
// If you change the global machine id, it will not change the id in any generators that have already been created.
func NewDefaultIDGenerator() *IDGenerator {
	globalmachineID.RLock()
	defer globalmachineID.RUnlock()
	if globalmachineID.set {
		return NewIDGenerator(WithMachineID(globalmachineID.id))
	}
	return NewIDGenerator()
}

// IDGenerator holds the ID generator.
type IDGenerator struct {
	mu        sync.Mutex
	machineID uint64
	lastMilli int64
	sequence  uint64
}

// IDGeneratorOp is an option for an IDGenerator.
type IDGeneratorOp func(*IDGenerator)

// WithMachineID uses the low 10 bits of machineID to set the machine ID for generated IDs.
func WithMachineID(machineID int) IDGeneratorOp {
	return func(g *IDGenerator) {
		g.machineID = uint64(machineID & 1023)
	}
}

// NewIDGenerator returns a new IDGenerator. Optionally you can use an IDGeneratorOp
// to use a specific machine ID.
func NewIDGenerator(opts ...IDGeneratorOp) *IDGenerator {
	gen := &IDGenerator{
		machineID: uint64(rand.Intn(1023)),
	}
	for _, f := range opts {
		f(gen)
	}
	return gen
}

// next produces a 63-bit value: 41 bits of milliseconds since the epoch,
// 10 bits of machine id and 12 bits of sequence. Values are strictly
// increasing for a single generator.
func (g *IDGenerator) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli() - epoch
	if now <= g.lastMilli {
		g.sequence++
		if g.sequence > 0xfff {
			// sequence exhausted, spin to the next millisecond
			g.sequence = 0
			g.lastMilli++
		}
	} else {
		g.sequence = 0
		g.lastMilli = now
	}

	return uint64(g.lastMilli)<<22 | g.machineID<<12 | g.sequence
}

// ID returns the next marina.ID from an IDGenerator.
func (g *IDGenerator) ID() marina.ID {
	var id marina.ID
	for !id.Valid() {
		id = marina.ID(g.next())
	}
	return id
}
