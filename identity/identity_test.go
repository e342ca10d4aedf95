package identity_test

import (
	"strings"
	"testing"

	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/qcrypto"

	"github.com/zeebo/blake3"
)

func TestFromPubKey(t *testing.T) {
	pk := qcrypto.Pubkey(blake3.Sum256([]byte("test")))

	id := identity.FromPubKey(pk)
	str := id.String()
	t.Log(str)

	if len(str) != identity.SIZE {
		t.Fatalf("identity length %d, expected %d", len(str), identity.SIZE)
	}
	if str != strings.ToUpper(str) {
		t.Fatal("identity is not uppercase")
	}

	// deterministic
	if identity.FromPubKey(pk) != id {
		t.Fatal("derivation is not deterministic")
	}

	// body round-trips to the same public key
	if id.PubKey() != pk {
		t.Fatal("pubkey does not round-trip")
	}
}

func TestFromString(t *testing.T) {
	pk := qcrypto.Pubkey(blake3.Sum256([]byte("roundtrip")))
	id := identity.FromPubKey(pk)

	parsed, err := identity.FromString(id.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed != id {
		t.Fatal("parsed identity does not match")
	}

	// corrupt one body letter: checksum must catch it
	broken := []byte(id.String())
	if broken[0] == 'A' {
		broken[0] = 'B'
	} else {
		broken[0] = 'A'
	}
	if _, err := identity.FromString(string(broken)); err == nil {
		t.Fatal("corrupted identity accepted")
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		id string
		ok bool
	}{
		{strings.Repeat("A", 60), true},
		{strings.Repeat("A", 59), false},
		{strings.Repeat("A", 61), false},
		{strings.Repeat("a", 60), false},
		{strings.Repeat("A", 59) + "1", false},
		{"", false},
	}

	for _, c := range cases {
		if identity.Valid(c.id) != c.ok {
			t.Fatalf("Valid(%q) != %v", c.id, c.ok)
		}
	}
}

func TestDigestID(t *testing.T) {
	d := blake3.Sum256([]byte("some transaction"))

	txid := identity.DigestID(d)
	if len(txid) != identity.SIZE {
		t.Fatalf("txid length %d", len(txid))
	}
	if txid != strings.ToLower(txid) {
		t.Fatal("txid is not lowercase")
	}
	if identity.DigestID(d) != txid {
		t.Fatal("txid is not deterministic")
	}
}
