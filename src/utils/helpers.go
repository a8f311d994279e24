package utils

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"etix/src/config"
	"etix/src/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT mints an access token with the user id as subject.
func GenerateJWT(email string, userId uint, role string) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userId)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TOKEN_TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey())
	if err != nil {
		return "", err
	}
	return signed, nil
}

// VerifyJWT parses and validates a token string and returns its claims.
func VerifyJWT(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// UnitAmount converts a ticket price into the processor's smallest currency
// unit. The processor multiplies it out by the line-item quantity.
func UnitAmount(price float32) int64 {
	return int64(math.Round(float64(price) * 100))
}

// TicketNumber derives the booking's ticket number from the ticket id and the
// tail of the checkout session id, so a retried confirmation of the same
// session lands on the same number.
func TicketNumber(ticketId uint, sessionId string) string {
	suffix := sessionId
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return fmt.Sprintf("%d-%s", ticketId, suffix)
}
