package vault

import (
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/loganmanery/credvault/pkg/models"
)

// MockCipher is a testify mock of crypto.Cipher
type MockCipher struct {
	mock.Mock
}

func (m *MockCipher) Encrypt(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockCipher) Decrypt(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// MockStorage is a testify mock of storage.StorageService
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Bootstrap() error {
	return m.Called().Error(0)
}

func (m *MockStorage) GetMeta(key string) ([]byte, error) {
	args := m.Called(key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockStorage) InitMeta(key string, value []byte) ([]byte, error) {
	args := m.Called(key, value)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockStorage) AddCredential(entry *models.Credential) (int64, error) {
	args := m.Called(entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetCredential(id int64) (*models.Credential, error) {
	args := m.Called(id)
	c, _ := args.Get(0).(*models.Credential)
	return c, args.Error(1)
}

func (m *MockStorage) ListCredentials() ([]models.Summary, error) {
	args := m.Called()
	s, _ := args.Get(0).([]models.Summary)
	return s, args.Error(1)
}

func (m *MockStorage) SearchCredentials(term string) ([]models.Summary, error) {
	args := m.Called(term)
	s, _ := args.Get(0).([]models.Summary)
	return s, args.Error(1)
}

func (m *MockStorage) UpdateCredential(entry *models.Credential) error {
	return m.Called(entry).Error(0)
}

func (m *MockStorage) DeleteCredential(id int64) error {
	return m.Called(id).Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
