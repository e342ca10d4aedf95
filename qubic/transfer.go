package qubic

import (
	"context"
	"time"

	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
	"github.com/aigarth-label/qubic-bridge/tx"
	"github.com/aigarth-label/qubic-bridge/util"
	"github.com/aigarth-label/qubic-bridge/util/enc"
)

// Debug is the audit payload attached to every transfer result.
type Debug struct {
	Timestamp     string `json:"timestamp"`
	SourceID      string `json:"sourceId,omitempty"`
	DestinationID string `json:"destinationId,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	TargetTick    uint32 `json:"targetTick,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	RpcSource     string `json:"rpcSource,omitempty"`
	Status        string `json:"status,omitempty"`
}

type TransferResult struct {
	Success bool   `json:"success"`
	TxID    string `json:"txId,omitempty"`
	Error   string `json:"error,omitempty"`
	Debug   Debug  `json:"debug"`

	// wire form of the broadcast transaction, kept for the journal
	Raw enc.B64 `json:"-"`
}

func failure(msg string, dbg Debug) TransferResult {
	dbg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return TransferResult{Success: false, Error: msg, Debug: dbg}
}

// SendTransaction transfers amount QU from the identity derived from seed to
// destination. Input validation happens before any network call. Not
// idempotent: every call derives a fresh target tick and a distinct
// transaction; single-flight guarding is the caller's concern.
func (b *Bridge) SendTransaction(ctx context.Context, destination string, amount int64, seed identity.Seed) TransferResult {
	b.log.Debugf("initiating transfer: %d QU -> %s", amount, util.Short(destination))

	if destination == "" || destination == PendingIdentity {
		return failure("destination identity not ready", Debug{})
	}
	if _, err := identity.FromString(destination); err != nil {
		return failure("invalid destination identity: "+destination, Debug{})
	}
	if amount <= 0 {
		return failure("invalid amount", Debug{DestinationID: destination})
	}
	if !seed.Valid() {
		return failure("invalid seed", Debug{DestinationID: destination})
	}

	src := b.deriveCached(seed)

	tick, err := b.node.GetTickInfo(ctx)
	if err != nil {
		return failure("tick fetch failed: "+err.Error(), Debug{
			SourceID:      src.id.String(),
			DestinationID: destination,
			Amount:        amount,
		})
	}
	targetTick := tick.Tick + b.tickOffset

	dbg := Debug{
		SourceID:      src.id.String(),
		DestinationID: destination,
		Amount:        amount,
		TargetTick:    targetTick,
	}

	txn, err := tx.Build(src.key.Public(), destination, amount, targetTick)
	if err != nil {
		return failure(err.Error(), dbg)
	}
	if err := txn.Sign(src.key); err != nil {
		return failure("signing failed: "+err.Error(), dbg)
	}

	b.log.Debugf("transaction built, scheduling for tick %d (current %d)", targetTick, tick.Tick)

	res, err := b.node.Broadcast(ctx, txn.EncodeBase64())
	if err != nil {
		f := failure("broadcast failed: "+err.Error(), dbg)
		f.Raw = txn.Serialize()
		return f
	}

	txid := res.TransactionID
	if txid == "" {
		// node accepted but did not echo an id; use the local digest id
		txid = txn.ID()
	}

	dbg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	dbg.TransactionID = txid
	dbg.RpcSource = res.RpcSource
	dbg.Status = "BROADCAST_" + res.RpcStatus

	b.log.Infof("transfer broadcast via %s: %s", res.RpcSource, util.Short(txid))

	return TransferResult{
		Success: true,
		TxID:    txid,
		Debug:   dbg,
		Raw:     txn.Serialize(),
	}
}

// PayWorker pays a worker from the treasury. The worker identity must be a
// genuine derived identity, never the pending sentinel.
func (b *Bridge) PayWorker(ctx context.Context, workerID string, amount int64) TransferResult {
	b.log.Debugf("paying worker: %d QU -> %s", amount, util.Short(workerID))

	if !identity.Valid(workerID) {
		return failure("invalid worker identity", Debug{})
	}

	return b.SendTransaction(ctx, workerID, amount, b.treasurySeed)
}

// GetBalance queries the live balance of id. The result reflects on-chain
// state (or its demo stand-in); it is never reconciled with the treasury
// ledger.
func (b *Bridge) GetBalance(ctx context.Context, id string) (*nodeclient.BalanceResult, error) {
	if id == PendingIdentity {
		return &nodeclient.BalanceResult{
			ID:        id,
			Amount:    "0",
			RpcSource: nodeclient.SourceNone,
			RpcStatus: nodeclient.StatusError,
		}, nil
	}
	if !identity.Valid(id) {
		return nil, identity.ErrFormat
	}

	return b.node.GetBalance(ctx, id)
}

// GetCurrentTick returns the network tick used for transaction scheduling.
func (b *Bridge) GetCurrentTick(ctx context.Context) (uint32, error) {
	res, err := b.node.GetTickInfo(ctx)
	if err != nil {
		return 0, err
	}
	return res.Tick, nil
}

type NetworkStatus struct {
	Epoch     uint32 `json:"epoch"`
	Tick      uint32 `json:"tick"`
	Online    bool   `json:"online"`
	RpcSource string `json:"rpcSource"`
}

// GetNetworkStatus reports the current epoch and tick. Online means a real
// endpoint answered, not a simulated fallback.
func (b *Bridge) GetNetworkStatus(ctx context.Context) NetworkStatus {
	res, err := b.node.GetTickInfo(ctx)
	if err != nil {
		return NetworkStatus{RpcSource: nodeclient.SourceNone}
	}

	return NetworkStatus{
		Epoch:     res.Epoch,
		Tick:      res.Tick,
		Online:    res.RpcStatus == nodeclient.StatusLive,
		RpcSource: res.RpcSource,
	}
}
