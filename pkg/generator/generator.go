package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Character classes
const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()-_=+[]{}|;:,./<>?~"
	similar   = "il1Lo0O"
)

// maxAttempts bounds the redraws needed to hit every selected class
const maxAttempts = 100

// Options configures password generation
type Options struct {
	Length         int
	Lowercase      bool
	Uppercase      bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool
}

// DefaultOptions returns the options used by `add --generate`
func DefaultOptions() Options {
	return Options{
		Length:         20,
		Lowercase:      true,
		Uppercase:      true,
		Digits:         true,
		Symbols:        true,
		ExcludeSimilar: true,
	}
}

// classes returns the selected character classes, filtered by options
func (o Options) classes() []string {
	var out []string
	add := func(enabled bool, set string) {
		if !enabled {
			return
		}
		if o.ExcludeSimilar {
			set = strings.Map(func(r rune) rune {
				if strings.ContainsRune(similar, r) {
					return -1
				}
				return r
			}, set)
		}
		out = append(out, set)
	}

	add(o.Lowercase, lowercase)
	add(o.Uppercase, uppercase)
	add(o.Digits, digits)
	add(o.Symbols, symbols)
	return out
}

// Generate creates a random password containing at least one character
// from every selected class
func Generate(o Options) (string, error) {
	classes := o.classes()
	if len(classes) == 0 {
		return "", errors.New("no character set selected")
	}
	if o.Length < len(classes) {
		return "", errors.New("password length too short for the selected character sets")
	}

	alphabet := []rune(strings.Join(classes, ""))
	for range maxAttempts {
		password := make([]rune, o.Length)
		for i := range password {
			idx, err := randomInt(len(alphabet))
			if err != nil {
				return "", err
			}
			password[i] = alphabet[idx]
		}

		if coversAll(string(password), classes) {
			return string(password), nil
		}
	}

	return "", errors.New("failed to generate a password covering all character sets")
}

// coversAll reports whether s has a character from every class
func coversAll(s string, classes []string) bool {
	for _, class := range classes {
		if !strings.ContainsAny(s, class) {
			return false
		}
	}
	return true
}

// randomInt returns a uniform random integer in [0, n)
func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
