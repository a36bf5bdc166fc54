package keyfile

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

func writeKeyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	want := make([]byte, 32)
	for i := range want {
		want[i] = byte(i)
	}
	path := writeKeyFile(t, base64.StdEncoding.EncodeToString(want))

	key, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, want, key)
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	want := []byte("0123456789abcdef")
	path := writeKeyFile(t, "  "+base64.StdEncoding.EncodeToString(want)+"\r\n")

	key, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, want, key)
}

// TestLoad_DoesNotValidateLength verifies that an odd-sized key is returned
// as-is; the decryptor is responsible for rejecting it.
func TestLoad_DoesNotValidateLength(t *testing.T) {
	path := writeKeyFile(t, base64.StdEncoding.EncodeToString(make([]byte, 10)))

	key, err := Load(path)

	require.NoError(t, err)
	assert.Len(t, key, 10)
}

func TestLoad_Missing(t *testing.T) {
	key, err := Load(filepath.Join(t.TempDir(), "nope.key"))

	assert.Nil(t, key)
	assert.ErrorIs(t, err, driven.ErrKeyFileNotFound)
}

func TestLoad_Directory(t *testing.T) {
	key, err := Load(t.TempDir())

	assert.Nil(t, key)
	assert.ErrorIs(t, err, driven.ErrKeyFileNotFound)
}

func TestLoad_NotBase64(t *testing.T) {
	path := writeKeyFile(t, "definitely not base64 !!")

	key, err := Load(path)

	assert.Nil(t, key)
	assert.ErrorIs(t, err, driven.ErrBase64Decode)
}

func TestLoader_ImplementsPort(t *testing.T) {
	want := []byte("0123456789abcdef")
	path := writeKeyFile(t, base64.StdEncoding.EncodeToString(want))

	var l driven.MasterKeyLoader = Loader{Path: path}
	key, err := l.Load()

	require.NoError(t, err)
	assert.Equal(t, want, key)
}
