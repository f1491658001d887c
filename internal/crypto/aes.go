package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

// aesCipher implements Cipher using AES-256-GCM. Tokens are
// base64(nonce || ciphertext || tag) with a fresh random nonce per call.
type aesCipher struct {
	aead cipher.AEAD
}

// NewAESCipher creates a Cipher bound to a 32-byte key
func NewAESCipher(key []byte) (Cipher, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("invalid key length %d, want %d", len(key), KeyLen)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}

	return &aesCipher{aead: gcm}, nil
}

// Encrypt seals plaintext under a random nonce
func (c *aesCipher) Encrypt(plaintext string) (string, error) {
	nonce, err := RandomBytes(c.aead.NonceSize())
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a token produced by Encrypt
func (c *aesCipher) Decrypt(token string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid token encoding", ErrDecryption)
	}

	// Nonce plus at least the GCM tag
	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return "", fmt.Errorf("%w: token too short", ErrDecryption)
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrDecryption)
	}

	return string(plaintext), nil
}
