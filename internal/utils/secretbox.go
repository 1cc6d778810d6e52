package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrSealedValueInvalid = errors.New("sealed value invalid")

const nonceSize = 24

// SecretBox seals short-lived secrets that must be stored but never in clear text.
type SecretBox struct {
	key [32]byte
}

func NewSecretBox(secret string) *SecretBox {
	return &SecretBox{key: sha256.Sum256([]byte(secret))}
}

func (b *SecretBox) Seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

func (b *SecretBox) Open(encoded string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize {
		return "", ErrSealedValueInvalid
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrSealedValueInvalid
	}
	return string(plain), nil
}
