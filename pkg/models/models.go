package models

import "time"

// Credential is a stored website/username pair together with its
// password ciphertext token. The token is never the plaintext.
type Credential struct {
	ID          int64
	Website     string
	Username    string
	PasswordEnc string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Summary is the listing projection of a Credential, without the ciphertext
type Summary struct {
	ID        int64
	Website   string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary drops the ciphertext from a credential
func (c Credential) Summary() Summary {
	return Summary{
		ID:        c.ID,
		Website:   c.Website,
		Username:  c.Username,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
