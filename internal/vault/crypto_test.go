package vault

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("thisis32byteslongsecretkey123456")

func TestEncryptDecrypt(t *testing.T) {
	plaintext := `[{"id":"1","email":"jdahmer@gmail.com"}]`

	ciphertext, err := Encrypt(plaintext, testKey)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := Decrypt(ciphertext, testKey)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptWithWrongKey(t *testing.T) {
	other := []byte("another32byteslongsecretkey65432")

	ciphertext, err := Encrypt("Secret message", testKey)
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, other)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestInvalidKeySize(t *testing.T) {
	_, err := Encrypt("test", []byte("shortkey"))
	assert.Error(t, err)

	_, err = Decrypt(strings.Repeat("00", 32), []byte("shortkey"))
	assert.Error(t, err)
}

func TestDecryptMalformedInput(t *testing.T) {
	_, err := Decrypt("not-hex", testKey)
	assert.Error(t, err)

	_, err = Decrypt("abcdef", testKey)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestParseMasterKey(t *testing.T) {
	key, err := ParseMasterKey(hex.EncodeToString(testKey))
	require.NoError(t, err)
	assert.Equal(t, testKey, key)

	key, err = ParseMasterKey(string(testKey))
	require.NoError(t, err)
	assert.Equal(t, testKey, key)

	_, err = ParseMasterKey("too-short")
	assert.Error(t, err)
}

func TestGenerateSelfSignedCert(t *testing.T) {
	cert, err := GenerateSelfSignedCert()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
	assert.NotNil(t, cert.PrivateKey)
}
