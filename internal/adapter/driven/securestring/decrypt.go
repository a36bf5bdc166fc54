// Package securestring opens secure-string envelopes produced by
// ConvertFrom-SecureString with an explicit AES key.
//
// An envelope is base64 text. Decoded, it is UTF-16LE text of the form
// "<header>|<base64 cipher text>|<base64 IV>". The cipher text is AES-CBC with
// PKCS7 padding over the UTF-16LE encoding of the secret.
package securestring

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/ericfisherdev/credclient/internal/domain/port/driven"
)

// Separator splits the three envelope segments.
const Separator = "|"

const segmentCount = 3

// Compile-time interface satisfaction check.
var _ driven.SecretDecryptor = Decryptor{}

// Decryptor is the driven.SecretDecryptor backed by Decrypt.
type Decryptor struct{}

// Decrypt implements driven.SecretDecryptor.
func (Decryptor) Decrypt(encrypted string, key []byte) (string, error) {
	return Decrypt(encrypted, key)
}

// Decrypt opens the envelope encryptedBase64 with key and returns the secret.
// Every failure wraps one of the driven decryption errors so callers can use
// errors.Is: ErrEmptyInput, ErrBase64Decode, ErrEnvelopeFormat or ErrCrypto.
func Decrypt(encryptedBase64 string, key []byte) (string, error) {
	if encryptedBase64 == "" {
		return "", driven.ErrEmptyInput
	}

	raw, err := base64.StdEncoding.DecodeString(encryptedBase64)
	if err != nil {
		return "", fmt.Errorf("%w: envelope: %w", driven.ErrBase64Decode, err)
	}
	defer Wipe(raw)

	envelope, err := decodeUTF16LE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", driven.ErrEnvelopeFormat, err)
	}

	parts := strings.Split(envelope, Separator)
	if len(parts) != segmentCount {
		return "", fmt.Errorf("%w: got %d parts", driven.ErrEnvelopeFormat, len(parts))
	}

	// parts[0] is the header marker and is never interpreted.
	cipherText, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: cipher text: %w", driven.ErrBase64Decode, err)
	}
	iv, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: iv: %w", driven.ErrBase64Decode, err)
	}

	padded, err := decryptCBC(key, iv, cipherText)
	if err != nil {
		return "", err
	}
	defer Wipe(padded)

	plain, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %w", driven.ErrCrypto, err)
	}

	secret, err := decodeUTF16LE(plain)
	if err != nil {
		return "", fmt.Errorf("%w: plaintext: %w", driven.ErrCrypto, err)
	}
	return secret, nil
}

func decryptCBC(key, iv, cipherText []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: aes.NewCipher: %w", driven.ErrCrypto, err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid IV length %d, want %d", driven.ErrCrypto, len(iv), aes.BlockSize)
	}
	if len(cipherText) == 0 || len(cipherText)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: cipher text length %d is not a multiple of the block size", driven.ErrCrypto, len(cipherText))
	}

	out := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, cipherText)
	return out, nil
}

// decodeUTF16LE converts little-endian UTF-16 bytes to a Go string. The
// intermediate UTF-8 buffer is wiped before returning.
func decodeUTF16LE(b []byte) (string, error) {
	utf8, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("utf-16le decode: %w", err)
	}
	defer Wipe(utf8)
	return string(utf8), nil
}

// Wipe zeroes b in place. Use it on key material and decrypted buffers once
// they are no longer needed.
func Wipe(b []byte) {
	clear(b)
}
