package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Belphemur/Addic7edSubtitles/internal/config"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "addic7ed-subtitles"
	keyringUser    = "credentials-passphrase"
)

// ErrNoPassphrase is returned when neither a passphrase nor the keyring is configured
var ErrNoPassphrase = errors.New("no credentials passphrase configured: set credentials.passphrase or credentials.use_keyring")

// Passphrase returns the configured passphrase, falling back to the OS keyring when
// credentials.use_keyring is set. A missing keyring entry is generated and stored.
func Passphrase(cfg config.CredentialsConfig) (string, error) {
	if cfg.Passphrase != "" {
		return cfg.Passphrase, nil
	}
	if !cfg.UseKeyring {
		return "", ErrNoPassphrase
	}

	passphrase, err := keyring.Get(keyringService, keyringUser)
	if err == nil {
		return passphrase, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("read passphrase from keyring: %w", err)
	}

	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return "", fmt.Errorf("generate passphrase: %w", err)
	}
	passphrase = base64.RawURLEncoding.EncodeToString(random)
	if err := keyring.Set(keyringService, keyringUser, passphrase); err != nil {
		return "", fmt.Errorf("store passphrase in keyring: %w", err)
	}

	logger := config.GetLogger()
	logger.Info().Str("service", keyringService).Msg("Generated credentials passphrase in the OS keyring")
	return passphrase, nil
}

// CipherFromConfig creates the cipher for the configured passphrase
func CipherFromConfig(cfg config.CredentialsConfig) (*Cipher, error) {
	passphrase, err := Passphrase(cfg)
	if err != nil {
		return nil, err
	}
	return NewCipher(passphrase)
}
