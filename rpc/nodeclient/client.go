// package nodeclient executes balance, tick-info and broadcast operations
// against a priority-ordered list of network endpoints. Endpoints are tried
// strictly in order, one attempt each, first success wins; when every
// endpoint fails the caller still receives a well-formed, provenance-tagged
// synthetic result instead of an error (broadcast excepted, see Broadcast).
package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/aigarth-label/qubic-bridge/logger"

	"github.com/pkg/errors"
)

// ErrAllEndpointsFailed is returned by Broadcast in strict mode when the
// whole priority list has been exhausted. Reads never return it.
var ErrAllEndpointsFailed = errors.New("all rpc endpoints failed")

type Client struct {
	reg Registry

	// when true, broadcast exhaustion degrades to a simulated transaction
	// id instead of ErrAllEndpointsFailed
	demoMode bool

	hc  *http.Client
	log *logger.Log
}

func New(reg Registry, demoMode bool, log *logger.Log) *Client {
	if log == nil {
		log = logger.DiscardLog
	}
	return &Client{
		reg:      reg,
		demoMode: demoMode,
		// per-attempt deadlines come from the registry; the transport-level
		// client carries no timeout of its own
		hc:  &http.Client{},
		log: log,
	}
}

// attempt issues one request against one endpoint. A transport error or a
// timeout returns err != nil; otherwise the status code and body are the
// caller's to interpret. A late response past the deadline is abandoned by
// the context, never merged into the decision.
func (c *Client) attempt(ctx context.Context, e Endpoint, method, path string, body []byte, timeout time.Duration) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.URL+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, err
	}

	return res.StatusCode, data, nil
}

// GetBalance queries the balance of id, normalizing field naming across
// nodes. An HTTP 404 means the account is empty but valid: a LIVE zero
// balance, not a failure.
func (c *Client) GetBalance(ctx context.Context, id string) (*BalanceResult, error) {
	for _, e := range c.reg.Balance {
		c.log.Netf("trying %s for balance", e.Name)

		status, body, err := c.attempt(ctx, e, http.MethodGet, "/v1/balances/"+id, nil, c.reg.BalanceTimeout)
		if err != nil {
			c.log.Netf("%s failed: %v", e.Name, err)
			continue
		}

		if status == http.StatusNotFound {
			return &BalanceResult{
				ID:        id,
				Amount:    "0",
				RpcSource: e.Name,
				RpcStatus: StatusLive,
			}, nil
		}
		if status != http.StatusOK {
			c.log.Netf("%s returned %d", e.Name, status)
			continue
		}

		var p balancePayload
		if err := json.Unmarshal(body, &p); err != nil {
			c.log.Netf("%s returned malformed body: %v", e.Name, err)
			continue
		}

		return &BalanceResult{
			ID:        id,
			Amount:    p.amount(),
			RpcSource: e.Name,
			RpcStatus: StatusLive,
		}, nil
	}

	c.log.Debugf("all balance endpoints failed, using demo fallback")
	return c.demoBalance(id), nil
}

// GetTickInfo queries the current network tick and epoch.
func (c *Client) GetTickInfo(ctx context.Context) (*TickResult, error) {
	for _, e := range c.reg.Tick {
		c.log.Netf("trying %s for tick-info", e.Name)

		status, body, err := c.attempt(ctx, e, http.MethodGet, "/v1/tick-info", nil, c.reg.TickTimeout)
		if err != nil {
			c.log.Netf("%s failed: %v", e.Name, err)
			continue
		}
		if status != http.StatusOK {
			c.log.Netf("%s returned %d", e.Name, status)
			continue
		}

		var p tickPayload
		if err := json.Unmarshal(body, &p); err != nil {
			c.log.Netf("%s returned malformed body: %v", e.Name, err)
			continue
		}
		if p.tick() == 0 {
			c.log.Netf("%s returned no tick", e.Name)
			continue
		}

		return &TickResult{
			Tick:      p.tick(),
			Epoch:     p.epoch(),
			RpcSource: e.Name,
			RpcStatus: StatusLive,
		}, nil
	}

	c.log.Debugf("all tick endpoints failed, using demo fallback")
	return c.demoTick(), nil
}

// Broadcast submits the transport-encoded transaction. In demo mode total
// exhaustion degrades to a simulated result; in strict mode it surfaces
// ErrAllEndpointsFailed so the boundary can answer 503 instead of faking a
// transaction id.
func (c *Client) Broadcast(ctx context.Context, encodedTransaction string) (*BroadcastResult, error) {
	reqBody, err := json.Marshal(map[string]string{
		"encodedTransaction": encodedTransaction,
	})
	if err != nil {
		return nil, err
	}

	for _, e := range c.reg.Broadcast {
		c.log.Netf("trying %s for broadcast", e.Name)

		status, body, err := c.attempt(ctx, e, http.MethodPost, "/v1/broadcast-transaction", reqBody, c.reg.BroadcastTimeout)
		if err != nil {
			c.log.Netf("%s failed: %v", e.Name, err)
			continue
		}
		if status != http.StatusOK {
			c.log.Netf("%s broadcast returned %d: %s", e.Name, status, body)
			continue
		}

		var p broadcastPayload
		if err := json.Unmarshal(body, &p); err != nil {
			c.log.Netf("%s returned malformed body: %v", e.Name, err)
			continue
		}

		c.log.Debugf("broadcast accepted by %s", e.Name)
		return &BroadcastResult{
			TransactionID:    p.txid(),
			PeersBroadcasted: p.peers(),
			RpcSource:        e.Name,
			RpcStatus:        StatusLive,
		}, nil
	}

	if !c.demoMode {
		return nil, ErrAllEndpointsFailed
	}

	c.log.Debugf("all broadcast endpoints failed, simulating result")
	return c.demoBroadcast(), nil
}
