package config

// Endpoint is one candidate node offering the RPC surface.
type Endpoint struct {
	Name string
	URL  string
}

// Priority-ordered endpoint lists. Order differs per operation: balance
// lookups prefer the node holding the funded testnet seeds, and the local
// dev node ranks higher for balance than for broadcast.
var BALANCE_ENDPOINTS = []Endpoint{
	{Name: "QUBICDEV_TESTNET", URL: "https://testnet-rpc.qubicdev.com"},
	{Name: "LOCAL_RPC", URL: "http://localhost:8000"},
	{Name: "NOSTROMO_TESTNET", URL: "https://testnet-nostromo.qubicdev.com"},
	{Name: "QUBIC_TESTNET", URL: "https://testnet-rpc.qubic.org"},
}

var TICK_ENDPOINTS = []Endpoint{
	{Name: "QUBICDEV_TESTNET", URL: "https://testnet-rpc.qubicdev.com"},
	{Name: "NOSTROMO_TESTNET", URL: "https://testnet-nostromo.qubicdev.com"},
	{Name: "LOCAL_RPC", URL: "http://localhost:8000"},
	{Name: "QUBIC_TESTNET", URL: "https://testnet-rpc.qubic.org"},
}

var BROADCAST_ENDPOINTS = []Endpoint{
	{Name: "QUBICDEV_TESTNET", URL: "https://testnet-rpc.qubicdev.com"},
	{Name: "NOSTROMO_TESTNET", URL: "https://testnet-nostromo.qubicdev.com"},
	{Name: "LOCAL_RPC", URL: "http://localhost:8000"},
	{Name: "QUBIC_TESTNET", URL: "https://testnet-rpc.qubic.org"},
}
