package nodeclient

import (
	"math/rand"

	"github.com/aigarth-label/qubic-bridge/config"
)

// Synthetic results returned on total endpoint exhaustion, always tagged so
// callers can tell real from simulated.

func (c *Client) demoBalance(id string) *BalanceResult {
	return &BalanceResult{
		ID:        id,
		Amount:    config.DEMO_BALANCE,
		RpcSource: SourceDemoFallback,
		RpcStatus: StatusOffline,
	}
}

func (c *Client) demoTick() *TickResult {
	return &TickResult{
		Tick:      config.DEMO_BASE_TICK + uint32(rand.Intn(config.DEMO_TICK_JITTER)),
		Epoch:     config.DEMO_EPOCH,
		RpcSource: SourceDemoMode,
		RpcStatus: StatusSimulated,
	}
}

func (c *Client) demoBroadcast() *BroadcastResult {
	return &BroadcastResult{
		TransactionID:    DemoTxID(),
		PeersBroadcasted: 450 + rand.Intn(225),
		RpcSource:        SourceDemoMode,
		RpcStatus:        StatusSimulated,
	}
}

// DemoTxID generates a plausible 60-letter lowercase transaction id for
// simulated broadcasts.
func DemoTxID() string {
	out := make([]byte, config.IDENTITY_LENGTH)
	for i := range out {
		out[i] = 'a' + byte(rand.Intn(26))
	}
	return string(out)
}
