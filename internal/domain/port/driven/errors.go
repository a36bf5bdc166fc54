package driven

import "errors"

// Store and key file errors.
var (
	// ErrStoreNotFound is returned when the credential store path does not
	// resolve to a readable file.
	ErrStoreNotFound = errors.New("credential store file not found")

	// ErrKeyFileNotFound is returned when the master key path does not
	// resolve to a readable file.
	ErrKeyFileNotFound = errors.New("master key file not found")

	// ErrXMLParse is returned when the credential store is not a well-formed
	// serialized object document. It is distinct from ErrCredentialNotFound.
	ErrXMLParse = errors.New("credential store is not well-formed XML")

	// ErrCredentialNotFound is returned when a store scan completes without a
	// usable entry for the requested name.
	ErrCredentialNotFound = errors.New("credential not found")
)

// Decryption errors.
var (
	ErrEmptyInput     = errors.New("encrypted string is empty")
	ErrEnvelopeFormat = errors.New("invalid encrypted string format: expected 3 parts separated by '|'")
	ErrBase64Decode   = errors.New("base64 decode failed")
	ErrCrypto         = errors.New("decryption failed")
)
