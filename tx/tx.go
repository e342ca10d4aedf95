// package tx builds, signs and encodes value-transfer transactions.
package tx

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aigarth-label/qubic-bridge/binary"
	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/qcrypto"

	"github.com/zeebo/blake3"
)

// Fixed little-endian wire layout:
// source pubkey (32) | destination pubkey (32) | amount (8) | tick (4) |
// input type (2) | input size (2) | signature (64)
const PAYLOAD_SIZE = qcrypto.PUBKEY_SIZE*2 + 8 + 4 + 2 + 2
const SIZE = PAYLOAD_SIZE + qcrypto.SIGNATURE_SIZE

type Transaction struct {
	Source      qcrypto.Pubkey
	Destination qcrypto.Pubkey
	Amount      uint64
	Tick        uint32 // the transaction is valid only while the network tick is below this
	InputType   uint16
	InputSize   uint16

	Signature qcrypto.Signature
}

var ErrInvalidDestination = errors.New("invalid destination identity")
var ErrInvalidAmount = errors.New("invalid amount")
var ErrSourceMismatch = errors.New("signing key does not match transaction source")

// Build validates the transfer intent and returns the unsigned transaction.
// A zero-payload transfer: input type and size are both zero.
func Build(source qcrypto.Pubkey, destination string, amount int64, targetTick uint32) (*Transaction, error) {
	dest, err := identity.FromString(destination)
	if err != nil {
		return nil, ErrInvalidDestination
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Transaction{
		Source:      source,
		Destination: dest.PubKey(),
		Amount:      uint64(amount),
		Tick:        targetTick,
	}, nil
}

func (t Transaction) Serialize() []byte {
	s := binary.NewSer(make([]byte, SIZE))

	s.AddFixedByteArray(t.Source[:])
	s.AddFixedByteArray(t.Destination[:])
	s.AddUint64(t.Amount)
	s.AddUint32(t.Tick)
	s.AddUint16(t.InputType)
	s.AddUint16(t.InputSize)
	s.AddFixedByteArray(t.Signature[:])

	return s.Output()
}

func (t *Transaction) Deserialize(data []byte) error {
	if len(data) != SIZE {
		return fmt.Errorf("transaction is %d bytes, expected %d", len(data), SIZE)
	}

	d := binary.NewDes(data)

	t.Source = qcrypto.Pubkey(d.ReadFixedByteArray(qcrypto.PUBKEY_SIZE))
	t.Destination = qcrypto.Pubkey(d.ReadFixedByteArray(qcrypto.PUBKEY_SIZE))
	t.Amount = d.ReadUint64()
	t.Tick = d.ReadUint32()
	t.InputType = d.ReadUint16()
	t.InputSize = d.ReadUint16()
	t.Signature = qcrypto.Signature(d.ReadFixedByteArray(qcrypto.SIGNATURE_SIZE))

	return d.Error()
}

// SignatureData is the canonical byte encoding the signature covers: the
// serialized transaction without the signature.
func (t Transaction) SignatureData() []byte {
	return t.Serialize()[:PAYLOAD_SIZE]
}

func (t *Transaction) Sign(key qcrypto.Privkey) error {
	if key.Public() != t.Source {
		return ErrSourceMismatch
	}

	sig, err := qcrypto.Sign(t.SignatureData(), key)

	t.Signature = sig

	return err
}

func (t Transaction) Verify() bool {
	return qcrypto.VerifySignature(t.Source, t.SignatureData(), t.Signature)
}

// ID is the 60-letter lowercase transaction identifier, a digest of the
// signed wire encoding.
func (t Transaction) ID() string {
	return identity.DigestID(blake3.Sum256(t.Serialize()))
}

// EncodeBase64 renders the transport form embedded in broadcast requests.
func (t Transaction) EncodeBase64() string {
	return base64.StdEncoding.EncodeToString(t.Serialize())
}

func DecodeBase64(s string) (*Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	t := &Transaction{}
	return t, t.Deserialize(raw)
}

func (t Transaction) String() string {
	return fmt.Sprintf("Transaction %s\n Source: %s\n Destination: %s\n Amount: %d\n Tick: %d",
		t.ID(),
		identity.FromPubKey(t.Source),
		identity.FromPubKey(t.Destination),
		t.Amount, t.Tick)
}
