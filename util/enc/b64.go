package enc

import (
	"encoding/base64"
	"errors"
)

// B64 is a byte slice that marshals to/from standard base64 in JSON, used
// for the transport encoding of serialized transactions.
type B64 []byte

func (b B64) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

func (b B64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + base64.StdEncoding.EncodeToString(b) + `"`), nil
}

func (b *B64) UnmarshalJSON(c []byte) error {
	if len(c) < 2 {
		return errors.New("base64 value is too short to be a valid string")
	}
	if c[0] != '"' || c[len(c)-1] != '"' {
		return errors.New("base64 value is not a valid string literal")
	}

	dst := make([]byte, base64.StdEncoding.DecodedLen(len(c)-2))

	n, err := base64.StdEncoding.Decode(dst, c[1:len(c)-1])

	*b = append((*b)[0:0], dst[:n]...)

	return err
}
