package qcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// Cipher seals and opens the treasury seed keyfile. AES-256-GCM, nonce
// prepended to the sealed blob.
type Cipher struct {
	gcm cipher.AEAD
}

func NewCipher(key [32]byte) (Cipher, error) {
	blk, err := aes.NewCipher(key[:])
	if err != nil {
		return Cipher{}, err
	}

	aead, err := cipher.NewGCM(blk)
	if err != nil {
		return Cipher{}, err
	}

	return Cipher{gcm: aead}, nil
}

func (c *Cipher) Encrypt(data []byte) ([]byte, error) {
	if data == nil {
		return nil, errors.New("Encrypt: data cannot be nil")
	}

	nonce := make([]byte, c.gcm.NonceSize())
	RandRead(nonce)

	return c.gcm.Seal(nonce, nonce, data, nil), nil
}

func (c *Cipher) Decrypt(data []byte) ([]byte, error) {
	ns := c.gcm.NonceSize()
	if len(data) < ns {
		return nil, errors.New("encrypted data is too short")
	}

	return c.gcm.Open(nil, data[:ns], data[ns:], nil)
}
