// Package securestringtest builds secure-string envelopes for tests.
package securestringtest

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Header is the marker PowerShell writes as the first envelope segment.
const Header = "76492d1116743f0423413b16050a5345"

// Seal encrypts plaintext with key and iv and wraps it the way
// ConvertFrom-SecureString -Key does.
func Seal(plaintext string, key, iv []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	encoded, err := encodeUTF16LE(plaintext)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad(encoded, aes.BlockSize)
	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherText, padded)

	return Wrap(Header,
		base64.StdEncoding.EncodeToString(cipherText),
		base64.StdEncoding.EncodeToString(iv),
	)
}

// MustSeal is Seal that panics on error.
func MustSeal(plaintext string, key, iv []byte) string {
	s, err := Seal(plaintext, key, iv)
	if err != nil {
		panic(err)
	}
	return s
}

// Wrap joins segments with '|', encodes the text as UTF-16LE and base64
// encodes the result. Any number of segments may be given so tests can build
// malformed envelopes.
func Wrap(segments ...string) (string, error) {
	encoded, err := encodeUTF16LE(strings.Join(segments, "|"))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(encoded), nil
}

// MustWrap is Wrap that panics on error.
func MustWrap(segments ...string) string {
	s, err := Wrap(segments...)
	if err != nil {
		panic(err)
	}
	return s
}

func encodeUTF16LE(s string) ([]byte, error) {
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("utf-16le encode: %w", err)
	}
	return b, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}
