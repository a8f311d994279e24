package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// HOLD_WINDOW is how long a checkout hold keeps inventory aside before the
// payment must be confirmed. Matches the checkout session expiry floor.
const HOLD_WINDOW = 30 * time.Minute

const CURRENCY = "usd"

// TOKEN_TTL is the lifetime of an issued access token.
const TOKEN_TTL = 24 * time.Hour

// EVENTS_CACHE_TTL bounds staleness of the public events listing.
const EVENTS_CACHE_TTL = 60 * time.Second

func AppHost() string {
	host := os.Getenv("APP_HOST")
	if host == "" {
		host = "http://localhost:3000"
	}
	return host
}
