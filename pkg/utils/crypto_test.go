package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkplace/placeflow/pkg/utils"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	ciphertext, err := utils.Encrypt([]byte("editor:app-password"), []byte(testKey))
	require.NoError(t, err)
	assert.NotEqual(t, "editor:app-password", ciphertext)

	plaintext, err := utils.Decrypt(ciphertext, []byte(testKey))
	require.NoError(t, err)
	assert.Equal(t, "editor:app-password", plaintext)
}

func TestDecrypt_WrongKey(t *testing.T) {
	ciphertext, err := utils.Encrypt([]byte("secret"), []byte(testKey))
	require.NoError(t, err)

	_, err = utils.Decrypt(ciphertext, []byte("ffffffffffffffffffffffffffffffff"))
	assert.Error(t, err)
}

func TestDecrypt_Garbage(t *testing.T) {
	_, err := utils.Decrypt("bm90IGEgcmVhbCBjaXBoZXJ0ZXh0", []byte(testKey))
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken("jwt-secret", "42", time.Hour)
	require.NoError(t, err)

	claims, err := utils.ValidateToken("jwt-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := utils.GenerateToken("jwt-secret", "42", time.Hour)
	require.NoError(t, err)

	_, err = utils.ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	token, err := utils.GenerateToken("jwt-secret", "42", -time.Minute)
	require.NoError(t, err)

	_, err = utils.ValidateToken("jwt-secret", token)
	assert.Error(t, err)
}
