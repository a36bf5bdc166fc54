package securestring

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credclient/internal/adapter/driven/securestring/securestringtest"
	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

func testKey(size int) []byte {
	key := make([]byte, size)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

var testIV = []byte("0123456789abcdef")

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func TestDecrypt_RoundTrip(t *testing.T) {
	plaintexts := []string{
		"hunter2",
		"",
		"exactly16chars!!",
		"pässwörd with ünïcode ✓",
		"a much longer secret that spans several AES blocks once it is encoded as UTF-16",
	}

	for _, size := range []int{16, 24, 32} {
		key := testKey(size)
		for _, want := range plaintexts {
			envelope := securestringtest.MustSeal(want, key, testIV)

			got, err := Decrypt(envelope, key)

			require.NoError(t, err, "key size %d, plaintext %q", size, want)
			assert.Equal(t, want, got, "key size %d", size)
		}
	}
}

func TestDecrypt_Deterministic(t *testing.T) {
	key := testKey(32)
	envelope := securestringtest.MustSeal("hunter2", key, testIV)

	first, err := Decrypt(envelope, key)
	require.NoError(t, err)
	second, err := Decrypt(envelope, key)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecrypt_DoesNotModifyKey(t *testing.T) {
	key := testKey(32)
	envelope := securestringtest.MustSeal("hunter2", key, testIV)

	_, err := Decrypt(envelope, key)

	require.NoError(t, err)
	assert.Equal(t, testKey(32), key)
}

func TestDecrypt_EmptyInput(t *testing.T) {
	for _, key := range [][]byte{nil, testKey(10), testKey(16), testKey(32)} {
		got, err := Decrypt("", key)

		assert.Empty(t, got)
		assert.ErrorIs(t, err, driven.ErrEmptyInput)
	}
}

func TestDecrypt_SegmentCount(t *testing.T) {
	key := testKey(32)
	cipherText := b64(make([]byte, aes.BlockSize))
	iv := b64(testIV)

	tests := []struct {
		name     string
		segments []string
	}{
		{name: "one segment", segments: []string{"no separators at all"}},
		{name: "two segments", segments: []string{securestringtest.Header, cipherText}},
		{name: "four segments", segments: []string{securestringtest.Header, cipherText, iv, "extra"}},
		{name: "five empty segments", segments: []string{"", "", "", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(securestringtest.MustWrap(tt.segments...), key)
			assert.ErrorIs(t, err, driven.ErrEnvelopeFormat)
		})
	}
}

func TestDecrypt_Base64Errors(t *testing.T) {
	key := testKey(32)

	tests := []struct {
		name     string
		envelope string
	}{
		{name: "outer layer", envelope: "this is not base64!"},
		{name: "cipher text segment", envelope: securestringtest.MustWrap(securestringtest.Header, "%%%", b64(testIV))},
		{name: "iv segment", envelope: securestringtest.MustWrap(securestringtest.Header, b64(make([]byte, 16)), "not*base64")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decrypt(tt.envelope, key)
			assert.ErrorIs(t, err, driven.ErrBase64Decode)
		})
	}
}

func TestDecrypt_InvalidKeySize(t *testing.T) {
	envelope := securestringtest.MustSeal("hunter2", testKey(32), testIV)

	_, err := Decrypt(envelope, testKey(10))

	assert.ErrorIs(t, err, driven.ErrCrypto)
}

func TestDecrypt_InvalidIVSize(t *testing.T) {
	envelope := securestringtest.MustWrap(securestringtest.Header, b64(make([]byte, 16)), b64([]byte("short iv")))

	_, err := Decrypt(envelope, testKey(32))

	assert.ErrorIs(t, err, driven.ErrCrypto)
}

func TestDecrypt_CipherTextNotBlockAligned(t *testing.T) {
	for _, n := range []int{0, 5, 17} {
		envelope := securestringtest.MustWrap(securestringtest.Header, b64(make([]byte, n)), b64(testIV))

		_, err := Decrypt(envelope, testKey(32))

		assert.ErrorIs(t, err, driven.ErrCrypto, "cipher text length %d", n)
	}
}

func TestDecrypt_TamperedPadding(t *testing.T) {
	key := testKey(32)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	// Last byte 0x00 is never valid PKCS7 padding.
	plain := bytes.Repeat([]byte{'A'}, aes.BlockSize)
	plain[aes.BlockSize-1] = 0x00
	cipherText := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, testIV).CryptBlocks(cipherText, plain)

	envelope := securestringtest.MustWrap(securestringtest.Header, b64(cipherText), b64(testIV))

	_, err = Decrypt(envelope, key)

	assert.ErrorIs(t, err, driven.ErrCrypto)
}

func TestDecryptor_ImplementsPort(t *testing.T) {
	key := testKey(16)
	envelope := securestringtest.MustSeal("s3cret", key, testIV)

	var d driven.SecretDecryptor = Decryptor{}
	got, err := d.Decrypt(envelope, key)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
}

func TestWipe(t *testing.T) {
	b := []byte{1, 2, 3, 4}

	Wipe(b)

	assert.Equal(t, []byte{0, 0, 0, 0}, b)
	assert.NotPanics(t, func() { Wipe(nil) })
}
