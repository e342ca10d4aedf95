package qubic

import (
	"context"
	"strings"
	"testing"

	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
	"github.com/aigarth-label/qubic-bridge/tx"

	"github.com/pkg/errors"
)

var treasurySeed = identity.Seed(strings.Repeat("w", 20) + strings.Repeat("f", 35))
var workerSeed = identity.Seed(strings.Repeat("z", 35) + strings.Repeat("m", 20))

// fakeNode counts calls and replays canned results.
type fakeNode struct {
	tickCalls      int
	balanceCalls   int
	broadcastCalls int

	tick         uint32
	broadcastErr error
	lastEncoded  string
}

func (f *fakeNode) GetBalance(ctx context.Context, id string) (*nodeclient.BalanceResult, error) {
	f.balanceCalls++
	return &nodeclient.BalanceResult{
		ID: id, Amount: "42",
		RpcSource: "FAKE", RpcStatus: nodeclient.StatusLive,
	}, nil
}

func (f *fakeNode) GetTickInfo(ctx context.Context) (*nodeclient.TickResult, error) {
	f.tickCalls++
	return &nodeclient.TickResult{
		Tick: f.tick, Epoch: 116,
		RpcSource: "FAKE", RpcStatus: nodeclient.StatusLive,
	}, nil
}

func (f *fakeNode) Broadcast(ctx context.Context, encodedTransaction string) (*nodeclient.BroadcastResult, error) {
	f.broadcastCalls++
	f.lastEncoded = encodedTransaction
	if f.broadcastErr != nil {
		return nil, f.broadcastErr
	}
	return &nodeclient.BroadcastResult{
		TransactionID: "txidfromnode", PeersBroadcasted: 600,
		RpcSource: "FAKE", RpcStatus: nodeclient.StatusLive,
	}, nil
}

func newTestBridge(t *testing.T, node Node) *Bridge {
	t.Helper()
	b, err := New(node, treasurySeed, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSendRejectsBeforeNetwork(t *testing.T) {
	node := &fakeNode{tick: 1000}
	b := newTestBridge(t, node)

	bad := []string{
		"",
		PendingIdentity,
		"short",
		strings.ToLower(workerSeed.Identity().String()),
		strings.Repeat("A", 60), // right shape, wrong checksum
	}

	for _, dest := range bad {
		res := b.SendTransaction(context.Background(), dest, 100, treasurySeed)
		if res.Success {
			t.Fatalf("destination %q accepted", dest)
		}
		if res.Error == "" {
			t.Fatalf("destination %q: missing error message", dest)
		}
	}

	// invalid amounts, valid destination
	dest := workerSeed.Identity().String()
	for _, amount := range []int64{0, -1} {
		if res := b.SendTransaction(context.Background(), dest, amount, treasurySeed); res.Success {
			t.Fatalf("amount %d accepted", amount)
		}
	}

	if node.tickCalls != 0 || node.broadcastCalls != 0 {
		t.Fatalf("network was touched by invalid input: tick=%d broadcast=%d",
			node.tickCalls, node.broadcastCalls)
	}
}

func TestSendTransaction(t *testing.T) {
	node := &fakeNode{tick: 38650000}
	b := newTestBridge(t, node)

	dest := workerSeed.Identity().String()
	res := b.SendTransaction(context.Background(), dest, 500, treasurySeed)

	if !res.Success {
		t.Fatalf("transfer failed: %s", res.Error)
	}
	if res.TxID != "txidfromnode" {
		t.Fatalf("txid %q", res.TxID)
	}
	if node.tickCalls != 1 || node.broadcastCalls != 1 {
		t.Fatalf("tick=%d broadcast=%d, expected 1 each", node.tickCalls, node.broadcastCalls)
	}

	if res.Debug.TargetTick != 38650010 {
		t.Fatalf("target tick %d, expected current+10", res.Debug.TargetTick)
	}
	if res.Debug.SourceID != treasurySeed.Identity().String() {
		t.Fatalf("debug source %q", res.Debug.SourceID)
	}
	if res.Debug.RpcSource != "FAKE" {
		t.Fatalf("debug rpcSource %q", res.Debug.RpcSource)
	}

	// the broadcast payload is a valid signed transaction for the intent
	txn, err := tx.DecodeBase64(node.lastEncoded)
	if err != nil {
		t.Fatal(err)
	}
	if !txn.Verify() {
		t.Fatal("broadcast transaction does not verify")
	}
	if txn.Amount != 500 || txn.Tick != 38650010 {
		t.Fatalf("wrong transaction: %+v", txn)
	}
}

func TestSendBroadcastFailure(t *testing.T) {
	node := &fakeNode{tick: 1000, broadcastErr: errors.New("all rpc endpoints failed")}
	b := newTestBridge(t, node)

	res := b.SendTransaction(context.Background(), workerSeed.Identity().String(), 10, treasurySeed)
	if res.Success {
		t.Fatal("broadcast failure reported as success")
	}
	if res.Error == "" || res.Debug.TargetTick == 0 {
		t.Fatalf("failure must carry context: %+v", res)
	}
}

func TestPayWorker(t *testing.T) {
	node := &fakeNode{tick: 2000}
	b := newTestBridge(t, node)

	if res := b.PayWorker(context.Background(), PendingIdentity, 50); res.Success {
		t.Fatal("sentinel worker id accepted")
	}
	if node.broadcastCalls != 0 {
		t.Fatal("network touched for sentinel worker id")
	}

	res := b.PayWorker(context.Background(), workerSeed.Identity().String(), 50)
	if !res.Success {
		t.Fatalf("payout failed: %s", res.Error)
	}

	// paid from the treasury identity
	if res.Debug.SourceID != b.TreasuryID().String() {
		t.Fatalf("source %q, expected treasury", res.Debug.SourceID)
	}
}

func TestTreasuryIDCached(t *testing.T) {
	b := newTestBridge(t, &fakeNode{tick: 1})

	a := b.TreasuryID()
	if a != b.TreasuryID() {
		t.Fatal("treasury id not stable")
	}
	if a != treasurySeed.Identity() {
		t.Fatal("treasury id does not match seed derivation")
	}
}

func TestGetBalanceValidation(t *testing.T) {
	node := &fakeNode{tick: 1}
	b := newTestBridge(t, node)

	if _, err := b.GetBalance(context.Background(), "bogus"); err == nil {
		t.Fatal("malformed id accepted")
	}
	if node.balanceCalls != 0 {
		t.Fatal("network touched for malformed id")
	}

	// the pending sentinel short-circuits to a zero result
	res, err := b.GetBalance(context.Background(), PendingIdentity)
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "0" || node.balanceCalls != 0 {
		t.Fatal("sentinel must resolve to zero without a network call")
	}

	res, err = b.GetBalance(context.Background(), workerSeed.Identity().String())
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount != "42" {
		t.Fatalf("amount %q", res.Amount)
	}
}

func TestNetworkStatus(t *testing.T) {
	b := newTestBridge(t, &fakeNode{tick: 777})

	st := b.GetNetworkStatus(context.Background())
	if !st.Online || st.Tick != 777 || st.Epoch != 116 {
		t.Fatalf("wrong status: %+v", st)
	}
}
