package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loganmanery/credvault/pkg/models"
)

// setupTestStorage bootstraps a fresh database file under t.TempDir().
// A file is required because every call opens its own connection.
func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s := newSQLiteStorage(filepath.Join(t.TempDir(), "nested", "passwords.db"))
	require.NoError(t, s.Bootstrap())
	return s
}

func addCredential(t *testing.T, s *SQLiteStorage, website, username string) int64 {
	t.Helper()

	id, err := s.AddCredential(&models.Credential{
		Website:     website,
		Username:    username,
		PasswordEnc: "token-" + website,
	})
	require.NoError(t, err)
	return id
}

func summaryIDs(entries []models.Summary) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestBootstrap_Idempotent(t *testing.T) {
	s := setupTestStorage(t)
	id := addCredential(t, s, "example.com", "alice")

	require.NoError(t, s.Bootstrap())
	require.NoError(t, s.Bootstrap())

	entries, err := s.ListCredentials()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
}

func TestAddAndGetCredential(t *testing.T) {
	s := setupTestStorage(t)
	id := addCredential(t, s, "example.com", "alice")

	got, err := s.GetCredential(id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "example.com", got.Website)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "token-example.com", got.PasswordEnc)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGetCredential_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.GetCredential(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCredentials_EmptyAndOrdered(t *testing.T) {
	s := setupTestStorage(t)

	entries, err := s.ListCredentials()
	require.NoError(t, err)
	assert.Empty(t, entries)

	a := addCredential(t, s, "zeta.org", "zed")
	b := addCredential(t, s, "alpha.org", "al")
	c := addCredential(t, s, "mid.org", "mo")

	entries, err = s.ListCredentials()
	require.NoError(t, err)
	assert.Equal(t, []int64{a, b, c}, summaryIDs(entries))
}

func TestSearchCredentials(t *testing.T) {
	s := setupTestStorage(t)
	bob := addCredential(t, s, "github.com", "bob")
	carol := addCredential(t, s, "gitlab.com", "carol")
	other := addCredential(t, s, "Ünïcode.de", "ÅSA")

	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"prefix on website", "git", []int64{bob, carol}},
		{"username only", "bob", []int64{bob}},
		{"case insensitive", "GITHUB", []int64{bob}},
		{"unicode fold website", "üNÏ", []int64{other}},
		{"unicode fold username", "åsa", []int64{other}},
		{"empty matches all", "", []int64{bob, carol, other}},
		{"no match", "nothing", []int64{}},
		{"like wildcards are literal", "%", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := s.SearchCredentials(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaryIDs(entries))
		})
	}
}

func TestUpdateCredential(t *testing.T) {
	s := setupTestStorage(t)
	id := addCredential(t, s, "example.com", "alice")

	// Empty ciphertext keeps the stored one
	err := s.UpdateCredential(&models.Credential{ID: id, Website: "example.org", Username: "alice2"})
	require.NoError(t, err)

	got, err := s.GetCredential(id)
	require.NoError(t, err)
	assert.Equal(t, "example.org", got.Website)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "token-example.com", got.PasswordEnc)

	err = s.UpdateCredential(&models.Credential{ID: id, Website: "example.org", Username: "alice2", PasswordEnc: "new-token"})
	require.NoError(t, err)

	got, err = s.GetCredential(id)
	require.NoError(t, err)
	assert.Equal(t, "new-token", got.PasswordEnc)
}

func TestUpdateCredential_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	err := s.UpdateCredential(&models.Credential{ID: 7, Website: "w", Username: "u"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCredential(t *testing.T) {
	s := setupTestStorage(t)
	id := addCredential(t, s, "example.com", "alice")

	require.NoError(t, s.DeleteCredential(id))

	_, err := s.GetCredential(id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteCredential(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIDs_NeverReused(t *testing.T) {
	s := setupTestStorage(t)

	first := addCredential(t, s, "a.com", "a")
	second := addCredential(t, s, "b.com", "b")
	require.NoError(t, s.DeleteCredential(second))

	third := addCredential(t, s, "c.com", "c")
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
}

func TestMeta(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.GetMeta(MetaKDFSalt)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := s.InitMeta(MetaKDFSalt, []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), stored)

	// A second init keeps the original value
	stored, err = s.InitMeta(MetaKDFSalt, []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), stored)

	got, err := s.GetMeta(MetaKDFSalt)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestContainsFold(t *testing.T) {
	assert.Equal(t, int64(1), containsFold("GitHub.com", "hub"))
	assert.Equal(t, int64(1), containsFold("anything", ""))
	assert.Equal(t, int64(0), containsFold("gitlab.com", "hub"))
}

func TestBootstrap_PathWithURISpecialChars(t *testing.T) {
	path := filepath.Join(t.TempDir(), "we?ird#dir", "100%", "passwords.db")
	s := newSQLiteStorage(path)
	require.NoError(t, s.Bootstrap())

	id := addCredential(t, s, "example.com", "alice")
	assert.FileExists(t, path)

	// A second handle on the same path sees the same data
	got, err := newSQLiteStorage(path).GetCredential(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), "passwords.db"), "unexpected file %q", e.Name())
	}
}

func TestBootstrap_RelativePath(t *testing.T) {
	t.Chdir(t.TempDir())

	s := newSQLiteStorage("passwords.db")
	require.NoError(t, s.Bootstrap())
	addCredential(t, s, "example.com", "alice")

	assert.FileExists(t, "passwords.db")
}

func TestDSN_EscapesPath(t *testing.T) {
	dsn := newSQLiteStorage(filepath.Join(t.TempDir(), "a?b#c", "passwords.db")).dsn()

	assert.True(t, strings.HasPrefix(dsn, "file:///"), dsn)
	assert.Contains(t, dsn, "a%3Fb%23c")
	assert.Equal(t, 1, strings.Count(dsn, "?"), dsn)
	assert.NotContains(t, dsn, "#")
	assert.True(t, strings.HasSuffix(dsn, "?_busy_timeout=5000&_txlock=immediate"), dsn)
}
