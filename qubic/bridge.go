// package qubic is the single entry point for money movement: it validates
// the transfer intent, fetches the network tick, builds and signs the
// transaction, and broadcasts it. Every call resolves to a structured
// result; failures never escape as errors past this boundary.
package qubic

import (
	"context"

	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/logger"
	"github.com/aigarth-label/qubic-bridge/qcrypto"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"

	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
)

// PendingIdentity is the sentinel UIs show while the treasury identity is
// still being derived. It is never a valid destination.
const PendingIdentity = "LOADING..."

var ErrZeroTickOffset = errors.New("tick offset must be positive")

// Node is the RPC surface the bridge composes. The daemon passes the
// resilient multi-endpoint client; the CLI passes a client for the daemon's
// own proxy routes.
type Node interface {
	GetBalance(ctx context.Context, id string) (*nodeclient.BalanceResult, error)
	GetTickInfo(ctx context.Context) (*nodeclient.TickResult, error)
	Broadcast(ctx context.Context, encodedTransaction string) (*nodeclient.BroadcastResult, error)
}

type derivedIdentity struct {
	key qcrypto.Privkey
	id  identity.Identity
}

type Bridge struct {
	node         Node
	treasurySeed identity.Seed
	tickOffset   uint32

	// identity derivation is treated as expensive: one derivation per
	// distinct seed per process
	mut   deadlock.Mutex
	cache map[identity.Seed]derivedIdentity

	log *logger.Log
}

func New(node Node, treasurySeed identity.Seed, tickOffset uint32, log *logger.Log) (*Bridge, error) {
	if !treasurySeed.Valid() {
		return nil, identity.ErrSeedFormat
	}
	if tickOffset == 0 {
		return nil, ErrZeroTickOffset
	}
	if log == nil {
		log = logger.DiscardLog
	}

	return &Bridge{
		node:         node,
		treasurySeed: treasurySeed,
		tickOffset:   tickOffset,
		cache:        make(map[identity.Seed]derivedIdentity),
		log:          log,
	}, nil
}

func (b *Bridge) deriveCached(seed identity.Seed) derivedIdentity {
	b.mut.Lock()
	defer b.mut.Unlock()

	if d, ok := b.cache[seed]; ok {
		return d
	}

	key := seed.Key()
	d := derivedIdentity{
		key: key,
		id:  identity.FromPubKey(key.Public()),
	}
	b.cache[seed] = d
	return d
}

// TreasuryID returns the public identity derived from the treasury seed.
func (b *Bridge) TreasuryID() identity.Identity {
	return b.deriveCached(b.treasurySeed).id
}
