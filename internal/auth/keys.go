package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidKey = errors.New("invalid key")

// KeyPair holds the Ed25519 keys used for access tokens. Private may be nil
// for verify-only deployments.
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// LoadKeyPair decodes base64url DER keys: PKCS#8 for the private key and
// PKIX for the public key. An empty private key yields a verify-only pair.
func LoadKeyPair(privateB64, publicB64 string) (KeyPair, error) {
	var pair KeyPair

	pub, err := decodePublicKey(publicB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to load public key: %w", err)
	}
	pair.Public = pub

	if strings.TrimSpace(privateB64) == "" {
		return pair, nil
	}
	priv, err := decodePrivateKey(privateB64)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to load private key: %w", err)
	}
	if !pub.Equal(priv.Public()) {
		return KeyPair{}, fmt.Errorf("%w: public key does not match private key", ErrInvalidKey)
	}
	pair.Private = priv
	return pair, nil
}

// GenerateKeyPair creates a fresh key pair and returns it with its encoded form.
func GenerateKeyPair() (KeyPair, string, string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, "", "", fmt.Errorf("failed to generate key: %w", err)
	}
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return KeyPair{}, "", "", err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return KeyPair{}, "", "", err
	}
	enc := base64.RawURLEncoding
	return KeyPair{Private: priv, Public: pub}, enc.EncodeToString(privDER), enc.EncodeToString(pubDER), nil
}

func decodePrivateKey(b64 string) (ed25519.PrivateKey, error) {
	der, err := decodeBase64URL(b64)
	if err != nil {
		return nil, err
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 private key", ErrInvalidKey)
	}
	return key, nil
}

func decodePublicKey(b64 string) (ed25519.PublicKey, error) {
	der, err := decodeBase64URL(b64)
	if err != nil {
		return nil, err
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 public key", ErrInvalidKey)
	}
	return key, nil
}

// decodeBase64URL accepts padded or unpadded input.
func decodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	return base64.RawURLEncoding.DecodeString(s)
}
