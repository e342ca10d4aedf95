// package bridgeclient is the REST client for the bridge daemon. It
// implements the same node operations the daemon proxies, so interactive
// tools can run against a daemon instead of talking to the network
// themselves.
package bridgeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type Client struct {
	BridgeAddress string

	hc *http.Client
}

func New(addr string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		BridgeAddress: strings.TrimSuffix(addr, "/"),
		hc:            &http.Client{},
	}
}

// errorBody is the daemon's uniform failure envelope.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) request(ctx context.Context, method, path string, query url.Values, payload, output any) error {
	u := c.BridgeAddress + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	dat, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		var e errorBody
		if json.Unmarshal(dat, &e) == nil && e.Error != "" {
			return errors.Errorf("bridge returned %d: %s", res.StatusCode, e.Error)
		}
		return errors.Errorf("bridge returned %d", res.StatusCode)
	}

	if output == nil {
		return nil
	}
	return json.Unmarshal(dat, output)
}
