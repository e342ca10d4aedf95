package nodeclient

import (
	"encoding/json"
	"time"

	"github.com/aigarth-label/qubic-bridge/config"
)

// Provenance tags carried by every result. Callers treat RpcSource as an
// audit tag for display, never as business logic.
const (
	StatusLive      = "LIVE"
	StatusOffline   = "OFFLINE"
	StatusSimulated = "SIMULATED"
	StatusError     = "ERROR"

	SourceDemoMode     = "DEMO_MODE"
	SourceDemoFallback = "DEMO_FALLBACK"
	SourceNone         = "NONE"
)

type Endpoint = config.Endpoint

// Registry consolidates the per-operation endpoint orders and timeouts.
// Order encodes fallback priority and may differ per operation.
type Registry struct {
	Balance   []Endpoint
	Tick      []Endpoint
	Broadcast []Endpoint

	BalanceTimeout   time.Duration
	TickTimeout      time.Duration
	BroadcastTimeout time.Duration
}

func DefaultRegistry() Registry {
	return Registry{
		Balance:   config.BALANCE_ENDPOINTS,
		Tick:      config.TICK_ENDPOINTS,
		Broadcast: config.BROADCAST_ENDPOINTS,

		BalanceTimeout:   config.BALANCE_TIMEOUT,
		TickTimeout:      config.TICK_TIMEOUT,
		BroadcastTimeout: config.BROADCAST_TIMEOUT,
	}
}

type BalanceResult struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	RpcSource string `json:"rpcSource"`
	RpcStatus string `json:"rpcStatus"`
}

type TickResult struct {
	Tick      uint32 `json:"tick"`
	Epoch     uint32 `json:"epoch"`
	RpcSource string `json:"rpcSource"`
	RpcStatus string `json:"rpcStatus"`
}

type BroadcastResult struct {
	TransactionID    string `json:"transactionId"`
	PeersBroadcasted int    `json:"peersBroadcasted"`
	RpcSource        string `json:"rpcSource"`
	RpcStatus        string `json:"rpcStatus"`
}

// flexString tolerates schema variation across nodes: some return amounts
// as JSON strings, others as numbers.
type flexString string

func (f *flexString) UnmarshalJSON(c []byte) error {
	if len(c) >= 2 && c[0] == '"' && c[len(c)-1] == '"' {
		var s string
		if err := json.Unmarshal(c, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(c, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Node response shapes, normalized at this boundary. Field naming varies:
// qubicdev nests the amount under "balance", others call it "amount".
type balancePayload struct {
	Balance struct {
		ID      string     `json:"id"`
		Amount  flexString `json:"amount"`
		Balance flexString `json:"balance"`
	} `json:"balance"`
}

func (p balancePayload) amount() string {
	if p.Balance.Amount != "" {
		return string(p.Balance.Amount)
	}
	if p.Balance.Balance != "" {
		return string(p.Balance.Balance)
	}
	return "0"
}

type tickPayload struct {
	TickInfo struct {
		Tick  uint32 `json:"tick"`
		Epoch uint32 `json:"epoch"`
	} `json:"tickInfo"`
	Tick  uint32 `json:"tick"`
	Epoch uint32 `json:"epoch"`
}

func (p tickPayload) tick() uint32 {
	if p.TickInfo.Tick != 0 {
		return p.TickInfo.Tick
	}
	return p.Tick
}

func (p tickPayload) epoch() uint32 {
	if p.TickInfo.Epoch != 0 {
		return p.TickInfo.Epoch
	}
	return p.Epoch
}

type broadcastPayload struct {
	TransactionID    string `json:"transactionId"`
	PeersBroadcasted int    `json:"peersBroadcasted"`
	Result           *struct {
		TransactionID    string `json:"transactionId"`
		PeersBroadcasted int    `json:"peersBroadcasted"`
	} `json:"result"`
}

func (p broadcastPayload) txid() string {
	if p.TransactionID != "" {
		return p.TransactionID
	}
	if p.Result != nil {
		return p.Result.TransactionID
	}
	return ""
}

func (p broadcastPayload) peers() int {
	if p.PeersBroadcasted != 0 {
		return p.PeersBroadcasted
	}
	if p.Result != nil {
		return p.Result.PeersBroadcasted
	}
	return 0
}
