// package journal is the persistent record of orchestrated transfers. It
// stores the audit payload of every payout and send so operators can inspect
// what was broadcast, to whom, and through which endpoint. It is separate
// from the treasury ledger, which is deliberately never persisted.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/aigarth-label/qubic-bridge/util/enc"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var transfersBucket = []byte("transfers")

type Entry struct {
	Time        int64   `json:"time"` // unix milliseconds
	TxID        string  `json:"txId"`
	Source      string  `json:"sourceId"`
	Destination string  `json:"destinationId"`
	Amount      int64   `json:"amount"`
	TargetTick  uint32  `json:"targetTick"`
	Category    string  `json:"category,omitempty"`
	RpcSource   string  `json:"rpcSource"`
	Success     bool    `json:"success"`
	Error       string  `json:"error,omitempty"`
	Encoded     enc.B64 `json:"encodedTransaction,omitempty"`
}

type Journal struct {
	db *bolt.DB
}

func Open(path string) (*Journal, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening journal")
	}

	err = db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(transfersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating journal bucket")
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Append(e Entry) error {
	return j.db.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket(transfersBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return errors.Wrap(err, "journal sequence")
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		val, err := json.Marshal(e)
		if err != nil {
			return err
		}

		return b.Put(key, val)
	})
}

// List returns up to limit entries, newest first.
func (j *Journal) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 25
	}

	var out []Entry
	err := j.db.View(func(txn *bolt.Tx) error {
		c := txn.Bucket(transfersBucket).Cursor()

		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrap(err, "corrupt journal entry")
			}
			out = append(out, e)
		}
		return nil
	})

	return out, err
}

func (j *Journal) Close() error {
	return j.db.Close()
}
