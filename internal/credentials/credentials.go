// Package credentials keeps the provider login in the configuration store: the
// password is encrypted whenever the options are saved and decrypted only when the
// session logs in.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Belphemur/Addic7edSubtitles/internal/apperrors"
	"github.com/Belphemur/Addic7edSubtitles/internal/configstore"
	"github.com/Belphemur/Addic7edSubtitles/internal/models"
	"github.com/Belphemur/Addic7edSubtitles/internal/secrets"
)

// ErrNoCipher is returned when a stored password is encrypted but no passphrase is configured
var ErrNoCipher = errors.New("stored password is encrypted but no credentials passphrase is configured")

// Manager binds the provider options of the configuration store to a cipher
type Manager struct {
	store      *configstore.Store
	cipher     *secrets.Cipher
	unregister func()
}

// Register subscribes to saves of the provider options so a plaintext password is
// encrypted before it is persisted. Close unsubscribes. A nil cipher stores passwords
// as given.
func Register(store *configstore.Store, cipher *secrets.Cipher) *Manager {
	m := &Manager{store: store, cipher: cipher}
	m.unregister = store.OnUpdating(models.ProviderOptionsKey, m.encryptPassword)
	return m
}

func (m *Manager) encryptPassword(_ context.Context, raw json.RawMessage) (json.RawMessage, error) {
	if m.cipher == nil {
		return raw, nil
	}

	var opts models.ProviderOptions
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, fmt.Errorf("decode provider options: %w", err)
	}

	sealed, err := m.cipher.EncryptIfNeeded(opts.PasswordHash)
	if err != nil {
		return nil, err
	}
	if sealed == opts.PasswordHash {
		return raw, nil
	}

	opts.PasswordHash = sealed
	return json.Marshal(opts)
}

// Save stores the provider options. The password may be given in plaintext.
func (m *Manager) Save(ctx context.Context, opts models.ProviderOptions) error {
	return m.store.Save(ctx, models.ProviderOptionsKey, opts)
}

// Options returns the stored provider options, with the password still encrypted.
// Missing options yield the zero value.
func (m *Manager) Options(ctx context.Context) (models.ProviderOptions, error) {
	var opts models.ProviderOptions
	err := m.store.Load(ctx, models.ProviderOptionsKey, &opts)
	if errors.Is(err, &apperrors.ErrNotFound{}) {
		return models.ProviderOptions{}, nil
	}
	return opts, err
}

// Credentials returns the login with the password decrypted. A password saved
// without the encryption prefix is not encrypted yet and is returned as stored.
func (m *Manager) Credentials(ctx context.Context) (string, string, error) {
	opts, err := m.Options(ctx)
	if err != nil {
		return "", "", err
	}
	if opts.PasswordHash == "" || !secrets.IsEncrypted(opts.PasswordHash) {
		return opts.Username, opts.PasswordHash, nil
	}
	if m.cipher == nil {
		return "", "", ErrNoCipher
	}

	password, err := m.cipher.Decrypt(opts.PasswordHash)
	if err != nil {
		return "", "", fmt.Errorf("decrypt stored password: %w", err)
	}
	return opts.Username, password, nil
}

// Close stops encrypting saved options
func (m *Manager) Close() {
	m.unregister()
}
