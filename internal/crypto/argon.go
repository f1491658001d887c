package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id defaults
const (
	argonTime    = 3         // Number of iterations
	argonMemory  = 64 * 1024 // Memory in KiB (64 MB)
	argonThreads = 4         // Number of threads

	// KeyLen is the derived key length (AES-256)
	KeyLen = 32

	// SaltLen is the length of a generated KDF salt
	SaltLen = 16
)

const paramsFormat = "argon2id$t=%d$m=%d$p=%d"

// Params are the Argon2id cost parameters. They are persisted next to the
// salt so a vault keeps opening after the defaults change.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams returns the parameters used for new vaults
func DefaultParams() Params {
	return Params{
		Time:    argonTime,
		Memory:  argonMemory,
		Threads: argonThreads,
	}
}

// String encodes the parameters for storage
func (p Params) String() string {
	return fmt.Sprintf(paramsFormat, p.Time, p.Memory, p.Threads)
}

// Validate rejects zero cost parameters
func (p Params) Validate() error {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		return errors.New("argon2id parameters must be positive")
	}
	return nil
}

// ParseParams decodes parameters produced by Params.String
func ParseParams(s string) (Params, error) {
	var p Params
	if _, err := fmt.Sscanf(s, paramsFormat, &p.Time, &p.Memory, &p.Threads); err != nil {
		return Params{}, fmt.Errorf("invalid kdf params %q: %w", s, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// DeriveKey expands a passphrase into a KeyLen-byte key using Argon2id
func DeriveKey(passphrase string, salt []byte, p Params) []byte {
	return argon2.IDKey([]byte(passphrase), salt, p.Time, p.Memory, p.Threads, KeyLen)
}

// GenerateSalt generates a cryptographically secure random salt
func GenerateSalt() ([]byte, error) {
	return RandomBytes(SaltLen)
}

// RandomBytes reads n bytes from the system CSPRNG
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
