package crypto

import "errors"

// ErrDecryption is returned when a ciphertext token is malformed or was not
// produced under the current key.
var ErrDecryption = errors.New("decryption failed")

// Cipher protects and reveals a single text value
type Cipher interface {
	// Encrypt turns plaintext into a text-safe ciphertext token
	Encrypt(plaintext string) (string, error)

	// Decrypt reverses Encrypt
	Decrypt(token string) (string, error)
}
