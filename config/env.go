package config

import (
	"fmt"
	"os"
	"strconv"
)

// Runtime holds the settings that may change per deployment, read from the
// environment. The consts above are the defaults; mains call godotenv.Load
// before FromEnv so a .env file works too.
type Runtime struct {
	// When true, broadcast exhaustion degrades to a simulated transaction id
	// instead of surfacing an error. Reads (balance, tick) always degrade.
	DemoMode bool

	TreasurySeed string // plaintext seed, demo deployments only
	KeyfilePath  string // encrypted seed file, preferred over TreasurySeed
	JournalPath  string
	Bind         string
	TickOffset   uint32
	RateLimit    int
}

func FromEnv() Runtime {
	r := Runtime{
		DemoMode:     os.Getenv("QB_DEMO_MODE") == "true",
		TreasurySeed: os.Getenv("QB_TREASURY_SEED"),
		KeyfilePath:  os.Getenv("QB_KEYFILE"),
		JournalPath:  os.Getenv("QB_JOURNAL"),
		Bind:         os.Getenv("QB_RPC_BIND"),
		TickOffset:   TICK_OFFSET,
		RateLimit:    RPC_RATE_LIMIT,
	}

	if r.JournalPath == "" {
		r.JournalPath = JOURNAL_FILE
	}
	if r.Bind == "" {
		r.Bind = fmt.Sprintf("127.0.0.1:%d", RPC_BIND_PORT)
	}
	if v := os.Getenv("QB_TICK_OFFSET"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			r.TickOffset = uint32(n)
		}
	}
	if v := os.Getenv("QB_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			r.RateLimit = n
		}
	}

	return r
}
