// Package vault is the credential store: it validates input, protects the
// password field with the cipher service and persists records through the
// storage layer.
//
// A Vault holds only configuration and key material. Every operation opens
// and releases its own database handle.
package vault

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loganmanery/credvault/internal/crypto"
	"github.com/loganmanery/credvault/internal/storage"
	"github.com/loganmanery/credvault/pkg/generator"
	"github.com/loganmanery/credvault/pkg/models"
)

// keyCheckValue is encrypted once per vault to detect a wrong passphrase
const keyCheckValue = "credvault key check v1"

// KDFParams are the Argon2id cost parameters applied to new vaults
type KDFParams = crypto.Params

// DefaultKDFParams returns the parameters used when Options.KDF is nil
func DefaultKDFParams() KDFParams {
	return crypto.DefaultParams()
}

// Options configures Open
type Options struct {
	// DBPath is the database file. Its directory is created if missing.
	DBPath string

	// KDF overrides the key-derivation cost for a vault created by this
	// call. Existing vaults keep the parameters they were created with.
	KDF *KDFParams

	// Logger receives debug events. Passwords and tokens are never logged.
	Logger *slog.Logger
}

// Vault handles all credential operations
type Vault struct {
	storage storage.StorageService
	cipher  crypto.Cipher
	logger  *slog.Logger
}

// Open bootstraps the database, derives the key from passphrase and checks
// it against the vault. A wrong passphrase fails with ErrDecryption.
func Open(opts Options, passphrase string) (*Vault, error) {
	if strings.TrimSpace(opts.DBPath) == "" {
		return nil, &ValidationError{Field: "database path", Reason: "must not be empty"}
	}
	if passphrase == "" {
		return nil, &ValidationError{Field: "passphrase", Reason: "must not be empty"}
	}

	params := crypto.DefaultParams()
	if opts.KDF != nil {
		params = *opts.KDF
	}
	if err := params.Validate(); err != nil {
		return nil, &ValidationError{Field: "kdf params", Reason: err.Error()}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	v := &Vault{
		storage: storage.NewStorageService(opts.DBPath),
		logger:  logger.With("component", "vault"),
	}

	if err := v.Bootstrap(); err != nil {
		return nil, err
	}

	if err := v.unlock(passphrase, params); err != nil {
		return nil, err
	}

	v.logger.Debug("vault opened", "path", opts.DBPath)
	return v, nil
}

// Bootstrap ensures the database file and schema exist. Idempotent.
func (v *Vault) Bootstrap() error {
	if err := v.storage.Bootstrap(); err != nil {
		return storageErr("bootstrap", err)
	}
	return nil
}

// unlock loads or creates the salt and parameters, derives the key and
// verifies it with the key check token
func (v *Vault) unlock(passphrase string, params crypto.Params) error {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	salt, err = v.storage.InitMeta(storage.MetaKDFSalt, salt)
	if err != nil {
		return storageErr("load salt", err)
	}

	rawParams, err := v.storage.InitMeta(storage.MetaKDFParams, []byte(params.String()))
	if err != nil {
		return storageErr("load kdf params", err)
	}

	params, err = crypto.ParseParams(string(rawParams))
	if err != nil {
		return fmt.Errorf("failed to read vault parameters: %w", err)
	}

	c, err := crypto.NewAESCipher(crypto.DeriveKey(passphrase, salt, params))
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	check, err := v.storage.GetMeta(storage.MetaKeyCheck)
	if errors.Is(err, storage.ErrNotFound) {
		token, encErr := c.Encrypt(keyCheckValue)
		if encErr != nil {
			return fmt.Errorf("failed to encrypt key check: %w", encErr)
		}
		check, err = v.storage.InitMeta(storage.MetaKeyCheck, []byte(token))
	}
	if err != nil {
		return storageErr("load key check", err)
	}

	got, err := c.Decrypt(string(check))
	if err != nil || got != keyCheckValue {
		return fmt.Errorf("invalid passphrase: %w", ErrDecryption)
	}

	v.cipher = c
	return nil
}

// Create validates and stores a new credential and returns its id
func (v *Vault) Create(website, username, password string) (int64, error) {
	website, err := requireField("website", website)
	if err != nil {
		return 0, err
	}
	username, err = requireField("username", username)
	if err != nil {
		return 0, err
	}
	if _, err := requireField("password", password); err != nil {
		return 0, err
	}

	token, err := v.cipher.Encrypt(password)
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt password: %w", err)
	}

	id, err := v.storage.AddCredential(&models.Credential{
		Website:     website,
		Username:    username,
		PasswordEnc: token,
	})
	if err != nil {
		return 0, storageErr("create", err)
	}

	v.logger.Debug("credential created", "id", id)
	return id, nil
}

// List returns every credential ascending by id, without ciphertext
func (v *Vault) List() ([]models.Summary, error) {
	entries, err := v.storage.ListCredentials()
	if err != nil {
		return nil, storageErr("list", err)
	}
	return entries, nil
}

// Search returns credentials whose website or username contains term,
// ignoring case. A blank term matches everything.
func (v *Vault) Search(term string) ([]models.Summary, error) {
	entries, err := v.storage.SearchCredentials(strings.TrimSpace(term))
	if err != nil {
		return nil, storageErr("search", err)
	}
	return entries, nil
}

// Get returns one credential without its ciphertext
func (v *Vault) Get(id int64) (models.Summary, error) {
	entry, err := v.storage.GetCredential(id)
	if err != nil {
		return models.Summary{}, storageErr("get", err)
	}
	return entry.Summary(), nil
}

// Reveal decrypts and returns the password of a credential
func (v *Vault) Reveal(id int64) (string, error) {
	entry, err := v.storage.GetCredential(id)
	if err != nil {
		return "", storageErr("reveal", err)
	}

	password, err := v.cipher.Decrypt(entry.PasswordEnc)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential %d: %w", id, err)
	}

	v.logger.Debug("credential revealed", "id", id)
	return password, nil
}

// Update rewrites website and username. A blank password keeps the stored
// one; anything else is re-encrypted and replaces it. An absent id is
// reported as ErrNotFound before any field is validated.
func (v *Vault) Update(id int64, website, username, password string) error {
	if _, err := v.storage.GetCredential(id); err != nil {
		return storageErr("update", err)
	}

	website, err := requireField("website", website)
	if err != nil {
		return err
	}
	username, err = requireField("username", username)
	if err != nil {
		return err
	}

	entry := &models.Credential{
		ID:       id,
		Website:  website,
		Username: username,
	}

	if strings.TrimSpace(password) != "" {
		entry.PasswordEnc, err = v.cipher.Encrypt(password)
		if err != nil {
			return fmt.Errorf("failed to encrypt password: %w", err)
		}
	}

	if err := v.storage.UpdateCredential(entry); err != nil {
		return storageErr("update", err)
	}

	v.logger.Debug("credential updated", "id", id, "password_changed", entry.PasswordEnc != "")
	return nil
}

// Delete permanently removes a credential. Confirmation is up to the caller.
func (v *Vault) Delete(id int64) error {
	if err := v.storage.DeleteCredential(id); err != nil {
		return storageErr("delete", err)
	}

	v.logger.Debug("credential deleted", "id", id)
	return nil
}

// GeneratePassword creates a secure random password
func (v *Vault) GeneratePassword(options generator.Options) (string, error) {
	return generator.Generate(options)
}

// requireField trims value and rejects it when nothing is left
func requireField(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return trimmed, nil
}
