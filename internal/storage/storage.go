package storage

import (
	"errors"

	"github.com/loganmanery/credvault/pkg/models"
)

// ErrNotFound is returned when an id or metadata key has no row
var ErrNotFound = errors.New("not found")

// Metadata keys kept in the vault_meta table
const (
	MetaKDFSalt   = "kdf_salt"
	MetaKDFParams = "kdf_params"
	MetaKeyCheck  = "key_check"
)

// StorageService defines the interface for database operations.
// Implementations never see plaintext passwords, only ciphertext tokens.
type StorageService interface {
	// Bootstrap creates the database file and applies the schema. Idempotent.
	Bootstrap() error

	// GetMeta retrieves a metadata value
	GetMeta(key string) ([]byte, error)

	// InitMeta stores value under key unless the key already exists and
	// returns whichever value ends up stored
	InitMeta(key string, value []byte) ([]byte, error)

	// AddCredential inserts a new credential and returns its id
	AddCredential(entry *models.Credential) (int64, error)

	// GetCredential retrieves a credential, ciphertext included
	GetCredential(id int64) (*models.Credential, error)

	// ListCredentials retrieves all credentials ascending by id
	ListCredentials() ([]models.Summary, error)

	// SearchCredentials matches term case-insensitively against website or username
	SearchCredentials(term string) ([]models.Summary, error)

	// UpdateCredential rewrites website and username. The ciphertext is
	// replaced only when entry.PasswordEnc is non-empty.
	UpdateCredential(entry *models.Credential) error

	// DeleteCredential permanently removes a credential
	DeleteCredential(id int64) error
}

// NewStorageService creates a new instance of the default storage service
func NewStorageService(dbPath string) StorageService {
	return newSQLiteStorage(dbPath)
}
