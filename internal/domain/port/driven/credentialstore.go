package driven

import (
	"github.com/ericfisherdev/credclient/internal/domain/model"
)

// CredentialSource defines the driven port for a read-only credential store.
type CredentialSource interface {
	// Find returns the first usable record stored under name.
	// Returns ErrCredentialNotFound if no such record exists.
	Find(name string) (model.CredentialRecord, error)

	// Names returns the record names in store order.
	Names() []string
}

// MasterKeyLoader supplies the raw symmetric key used to open secure-string
// envelopes. Callers own the returned slice and should wipe it after use.
type MasterKeyLoader interface {
	Load() ([]byte, error)
}

// SecretDecryptor opens a secure-string envelope with the given key and
// returns the plaintext.
type SecretDecryptor interface {
	Decrypt(encrypted string, key []byte) (string, error)
}
