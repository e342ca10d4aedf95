package bridgeclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aigarth-label/qubic-bridge/journal"
	"github.com/aigarth-label/qubic-bridge/qubic"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
)

func (c *Client) GetBalance(ctx context.Context, id string) (*nodeclient.BalanceResult, error) {
	var o struct {
		Balance struct {
			ID     string `json:"id"`
			Amount string `json:"amount"`
		} `json:"balance"`
		RpcSource string `json:"rpcSource"`
		RpcStatus string `json:"rpcStatus"`
	}

	q := url.Values{"id": {id}}
	if err := c.request(ctx, http.MethodGet, "/rpc/balance", q, nil, &o); err != nil {
		return nil, err
	}

	return &nodeclient.BalanceResult{
		ID:        o.Balance.ID,
		Amount:    o.Balance.Amount,
		RpcSource: o.RpcSource,
		RpcStatus: o.RpcStatus,
	}, nil
}

func (c *Client) GetTickInfo(ctx context.Context) (*nodeclient.TickResult, error) {
	var o struct {
		TickInfo struct {
			Tick  uint32 `json:"tick"`
			Epoch uint32 `json:"epoch"`
		} `json:"tickInfo"`
		RpcSource string `json:"rpcSource"`
		RpcStatus string `json:"rpcStatus"`
	}

	if err := c.request(ctx, http.MethodGet, "/rpc/tick-info", nil, nil, &o); err != nil {
		return nil, err
	}

	return &nodeclient.TickResult{
		Tick:      o.TickInfo.Tick,
		Epoch:     o.TickInfo.Epoch,
		RpcSource: o.RpcSource,
		RpcStatus: o.RpcStatus,
	}, nil
}

func (c *Client) Broadcast(ctx context.Context, encodedTransaction string) (*nodeclient.BroadcastResult, error) {
	var o struct {
		TransactionID    string `json:"transactionId"`
		PeersBroadcasted int    `json:"peersBroadcasted"`
		RpcSource        string `json:"rpcSource"`
		RpcStatus        string `json:"rpcStatus"`
	}

	p := map[string]string{"encodedTransaction": encodedTransaction}
	if err := c.request(ctx, http.MethodPost, "/rpc/broadcast", nil, p, &o); err != nil {
		return nil, err
	}

	return &nodeclient.BroadcastResult{
		TransactionID:    o.TransactionID,
		PeersBroadcasted: o.PeersBroadcasted,
		RpcSource:        o.RpcSource,
		RpcStatus:        o.RpcStatus,
	}, nil
}

// Fund credits amount to the category pool and returns the new balance.
func (c *Client) Fund(ctx context.Context, category string, amount int64) (int64, error) {
	var o struct {
		NewBalance int64 `json:"newBalance"`
	}

	p := map[string]any{"category": category, "amount": amount}
	if err := c.request(ctx, http.MethodPost, "/fund", nil, p, &o); err != nil {
		return 0, err
	}
	return o.NewBalance, nil
}

func (c *Client) FundBalance(ctx context.Context, category string) (int64, error) {
	var o struct {
		Balance int64 `json:"balance"`
	}

	q := url.Values{"category": {category}}
	if err := c.request(ctx, http.MethodGet, "/fund", q, nil, &o); err != nil {
		return 0, err
	}
	return o.Balance, nil
}

type PayoutResult struct {
	Success   bool   `json:"success"`
	TxID      string `json:"txId"`
	Amount    int64  `json:"amount"`
	RpcSource string `json:"rpcSource"`
}

// Payout asks the daemon to pay a worker from the category pool. Ledger
// gating and the treasury key stay on the daemon side.
func (c *Client) Payout(ctx context.Context, category, workerID string, amount int64) (*PayoutResult, error) {
	o := &PayoutResult{}

	p := map[string]any{
		"category":    category,
		"userQubicId": workerID,
		"amount":      amount,
	}
	return o, c.request(ctx, http.MethodPost, "/payout", nil, p, o)
}

type StatusResult struct {
	Network    qubic.NetworkStatus `json:"network"`
	TreasuryID string              `json:"treasuryId"`
	Categories map[string]int64    `json:"categories"`
}

func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	o := &StatusResult{}
	return o, c.request(ctx, http.MethodGet, "/status", nil, nil, o)
}

func (c *Client) History(ctx context.Context, limit int) ([]journal.Entry, error) {
	var o struct {
		Transfers []journal.Entry `json:"transfers"`
	}

	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	if err := c.request(ctx, http.MethodGet, "/history", q, nil, &o); err != nil {
		return nil, err
	}
	return o.Transfers, nil
}
