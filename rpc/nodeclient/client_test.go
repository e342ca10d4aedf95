package nodeclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testRegistry(endpoints []Endpoint) Registry {
	return Registry{
		Balance:   endpoints,
		Tick:      endpoints,
		Broadcast: endpoints,

		BalanceTimeout:   200 * time.Millisecond,
		TickTimeout:      200 * time.Millisecond,
		BroadcastTimeout: 200 * time.Millisecond,
	}
}

// A times out, B returns 500, C succeeds: the client must return C's payload
// tagged with C's name, attempting A and B exactly once each.
func TestFallbackOrder(t *testing.T) {
	var hitsA, hitsB, hitsC atomic.Int32

	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsA.Add(1)
		time.Sleep(2 * time.Second)
	}))
	defer a.Close()

	b := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsB.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer b.Close()

	c := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsC.Add(1)
		w.Write([]byte(`{"tickInfo":{"tick":38650000,"epoch":116}}`))
	}))
	defer c.Close()

	client := New(testRegistry([]Endpoint{
		{Name: "A", URL: a.URL},
		{Name: "B", URL: b.URL},
		{Name: "C", URL: c.URL},
	}), false, nil)

	res, err := client.GetTickInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.RpcSource != "C" {
		t.Fatalf("rpcSource %q, expected C", res.RpcSource)
	}
	if res.RpcStatus != StatusLive {
		t.Fatalf("rpcStatus %q, expected LIVE", res.RpcStatus)
	}
	if res.Tick != 38650000 || res.Epoch != 116 {
		t.Fatalf("wrong payload: %+v", res)
	}

	if hitsA.Load() != 1 || hitsB.Load() != 1 || hitsC.Load() != 1 {
		t.Fatalf("attempt counts A=%d B=%d C=%d, expected 1 each",
			hitsA.Load(), hitsB.Load(), hitsC.Load())
	}
}

// First success short-circuits: endpoints after the winner are not tried.
func TestFirstSuccessWins(t *testing.T) {
	var hitsLate atomic.Int32

	first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tick":100}`))
	}))
	defer first.Close()

	late := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hitsLate.Add(1)
		w.Write([]byte(`{"tick":999}`))
	}))
	defer late.Close()

	client := New(testRegistry([]Endpoint{
		{Name: "FIRST", URL: first.URL},
		{Name: "LATE", URL: late.URL},
	}), false, nil)

	res, err := client.GetTickInfo(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.RpcSource != "FIRST" || res.Tick != 100 {
		t.Fatalf("wrong winner: %+v", res)
	}
	if hitsLate.Load() != 0 {
		t.Fatal("endpoint after the winner was attempted")
	}
}

func TestBalance404IsLiveZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(testRegistry([]Endpoint{{Name: "NODE", URL: srv.URL}}), false, nil)

	id := strings.Repeat("A", 60)
	res, err := client.GetBalance(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}

	if res.Amount != "0" {
		t.Fatalf("amount %q, expected 0", res.Amount)
	}
	if res.RpcStatus != StatusLive {
		t.Fatalf("rpcStatus %q, expected LIVE", res.RpcStatus)
	}
	if res.RpcSource != "NODE" {
		t.Fatalf("rpcSource %q, expected NODE", res.RpcSource)
	}
	if res.ID != id {
		t.Fatal("wrong id echoed")
	}
}

func TestBalanceFieldNormalization(t *testing.T) {
	cases := []struct {
		body   string
		amount string
	}{
		{`{"balance":{"id":"X","amount":"123"}}`, "123"},
		{`{"balance":{"id":"X","balance":"456"}}`, "456"},
		{`{"balance":{"id":"X","amount":789}}`, "789"},
		{`{"balance":{}}`, "0"},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tc.body))
		}))

		client := New(testRegistry([]Endpoint{{Name: "NODE", URL: srv.URL}}), false, nil)
		res, err := client.GetBalance(context.Background(), strings.Repeat("B", 60))
		srv.Close()

		if err != nil {
			t.Fatal(err)
		}
		if res.Amount != tc.amount {
			t.Fatalf("body %s: amount %q, expected %q", tc.body, res.Amount, tc.amount)
		}
	}
}

func TestBalanceExhaustionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(testRegistry([]Endpoint{{Name: "DEAD", URL: srv.URL}}), false, nil)

	res, err := client.GetBalance(context.Background(), strings.Repeat("C", 60))
	if err != nil {
		t.Fatal("exhaustion must not surface an error for reads")
	}
	if res.RpcSource != SourceDemoFallback || res.RpcStatus != StatusOffline {
		t.Fatalf("wrong provenance: %+v", res)
	}
	if res.Amount == "" {
		t.Fatal("fallback must carry a well-formed amount")
	}
}

func TestTickExhaustionFallback(t *testing.T) {
	client := New(testRegistry([]Endpoint{{Name: "DEAD", URL: "http://127.0.0.1:1"}}), false, nil)

	res, err := client.GetTickInfo(context.Background())
	if err != nil {
		t.Fatal("exhaustion must not surface an error for reads")
	}
	if res.RpcSource != SourceDemoMode || res.RpcStatus != StatusSimulated {
		t.Fatalf("wrong provenance: %+v", res)
	}
	if res.Tick == 0 || res.Epoch == 0 {
		t.Fatalf("fallback tick must be plausible: %+v", res)
	}
}

func TestBroadcastStrictExhaustion(t *testing.T) {
	client := New(testRegistry([]Endpoint{{Name: "DEAD", URL: "http://127.0.0.1:1"}}), false, nil)

	_, err := client.Broadcast(context.Background(), "AAAA")
	if err != ErrAllEndpointsFailed {
		t.Fatalf("expected ErrAllEndpointsFailed, got %v", err)
	}
}

func TestBroadcastDemoExhaustion(t *testing.T) {
	client := New(testRegistry([]Endpoint{{Name: "DEAD", URL: "http://127.0.0.1:1"}}), true, nil)

	res, err := client.Broadcast(context.Background(), "AAAA")
	if err != nil {
		t.Fatal(err)
	}
	if res.RpcSource != SourceDemoMode || res.RpcStatus != StatusSimulated {
		t.Fatalf("wrong provenance: %+v", res)
	}
	if len(res.TransactionID) != 60 {
		t.Fatalf("simulated txid %q is not 60 chars", res.TransactionID)
	}
	if res.PeersBroadcasted <= 0 {
		t.Fatal("simulated peer count must be plausible")
	}
}

func TestBroadcastSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/broadcast-transaction" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"transactionId":"abc","peersBroadcasted":676}`))
	}))
	defer srv.Close()

	client := New(testRegistry([]Endpoint{{Name: "NODE", URL: srv.URL}}), false, nil)

	res, err := client.Broadcast(context.Background(), "AAAA")
	if err != nil {
		t.Fatal(err)
	}
	if res.TransactionID != "abc" || res.PeersBroadcasted != 676 {
		t.Fatalf("wrong payload: %+v", res)
	}
	if res.RpcSource != "NODE" || res.RpcStatus != StatusLive {
		t.Fatalf("wrong provenance: %+v", res)
	}
}

func TestDemoTxIDFormat(t *testing.T) {
	id := DemoTxID()
	if len(id) != 60 {
		t.Fatalf("length %d", len(id))
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 'a' || id[i] > 'z' {
			t.Fatalf("char %q at %d is not a lowercase letter", id[i], i)
		}
	}
}
