package utils

import (
	"os"
	"testing"

	"etix/src/types"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "secret")
	os.Exit(m.Run())
}

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("someone@example.com", 42, types.ROLE_POSTER)
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims, err := VerifyJWT(token)
	assert.Nil(t, err)
	assert.Equal(t, "someone@example.com", claims.Email)
	assert.Equal(t, types.ROLE_POSTER, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	_, err := VerifyJWT("not-a-token")
	assert.NotNil(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.Nil(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestUnitAmount(t *testing.T) {
	assert.Equal(t, int64(100000), UnitAmount(1000.00))
	assert.Equal(t, int64(200000), UnitAmount(1000.00)*2)
	assert.Equal(t, int64(1999), UnitAmount(19.99))
	assert.Equal(t, int64(0), UnitAmount(0))
}

func TestTicketNumber(t *testing.T) {
	assert.Equal(t, "5-12345678", TicketNumber(5, "cs_test_12345678"))
	assert.Equal(t, "9-abc", TicketNumber(9, "abc"))
}
