package config

import "time"

const NAME = "qubic-bridge"

const VERSION_MAJOR = 0
const VERSION_MINOR = 3
const VERSION_PATCH = 0

// Public identity: 60 uppercase letters (56-letter base-26 body + 4-letter checksum)
const IDENTITY_LENGTH = 60

// Seed: 55 lowercase letters
const SEED_LENGTH = 55

// Ticks added to the current tick when scheduling a transaction. The margin
// must cover broadcast latency plus network propagation, or the transaction
// expires before it lands. Overridable with QB_TICK_OFFSET.
const TICK_OFFSET = 10

// Per-attempt timeouts; each endpoint gets exactly one attempt per call
const TICK_TIMEOUT = 3 * time.Second
const BALANCE_TIMEOUT = 5 * time.Second
const BROADCAST_TIMEOUT = 10 * time.Second

const RPC_BIND_PORT = 8787
const RPC_RATE_LIMIT = 500 // requests per minute per IP

// Synthetic values returned when every endpoint is unreachable
const DEMO_BASE_TICK = 120_000
const DEMO_TICK_JITTER = 5_000
const DEMO_EPOCH = 116
const DEMO_BALANCE = "1000000000"

// Treasury ledger categories and their demo opening balance (QU)
var CATEGORIES = []string{"Medical AI", "Autonomous Driving", "Content Moderation"}

const CATEGORY_OPENING_BALANCE = 5_000

const JOURNAL_FILE = "transfers.db"
