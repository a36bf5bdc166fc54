package application

import (
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/credclient/internal/adapter/driven/securestring"
	"github.com/ericfisherdev/credclient/internal/domain/model"
	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

// CredentialService runs the lookup-and-decrypt sequence against a credential
// store. It depends only on port interfaces and holds no state between calls.
type CredentialService struct {
	source    driven.CredentialSource
	keys      driven.MasterKeyLoader
	decryptor driven.SecretDecryptor
	logger    *slog.Logger
}

// NewCredentialService creates a new CredentialService with the required dependencies.
func NewCredentialService(
	source driven.CredentialSource,
	keys driven.MasterKeyLoader,
	decryptor driven.SecretDecryptor,
	logger *slog.Logger,
) *CredentialService {
	return &CredentialService{
		source:    source,
		keys:      keys,
		decryptor: decryptor,
		logger:    logger,
	}
}

// Reveal loads the master key, finds the record stored under name and
// decrypts its secret. The key is wiped before Reveal returns, on success and
// on failure. Errors keep their driven sentinel so callers can use errors.Is.
func (s *CredentialService) Reveal(name string) (*model.Secret, error) {
	key, err := s.keys.Load()
	if err != nil {
		return nil, err
	}
	defer securestring.Wipe(key)

	rec, err := s.source.Find(name)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("credential found",
		"name", name,
		"user", rec.UserName,
		"encryption_type", rec.EncryptionType,
	)

	password, err := s.decryptor.Decrypt(rec.EncryptedValue, key)
	if err != nil {
		return nil, fmt.Errorf("decrypt credential %q: %w", name, err)
	}

	return &model.Secret{
		Name:           name,
		UserName:       rec.UserName,
		Password:       password,
		EncryptionType: rec.EncryptionType,
	}, nil
}

// Names returns the record names held by the store.
func (s *CredentialService) Names() []string {
	return s.source.Names()
}
