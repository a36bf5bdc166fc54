// Package keyfile loads the master key used to open secure-string envelopes.
// A key file holds a single line of base64 text.
package keyfile

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/ericfisherdev/credclient/internal/adapter/driven/securestring"
	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.MasterKeyLoader = Loader{}

// Loader reads the master key from Path each time Load is called.
type Loader struct {
	Path string
}

// Load implements driven.MasterKeyLoader.
func (l Loader) Load() ([]byte, error) {
	return Load(l.Path)
}

// Load reads and base64-decodes the key file at path. The key length is not
// checked here; an unusable key is reported by the decryptor.
func Load(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", driven.ErrKeyFileNotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", driven.ErrKeyFileNotFound, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", driven.ErrKeyFileNotFound, path, err)
	}
	defer securestring.Wipe(raw)

	encoded := bytes.TrimSpace(raw)
	key := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(key, encoded)
	if err != nil {
		securestring.Wipe(key)
		return nil, fmt.Errorf("%w: master key %s: %w", driven.ErrBase64Decode, path, err)
	}
	return key[:n], nil
}
