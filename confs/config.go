package confs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadConfig loads environment variables from a .env file if present
// and validates essential settings when needed.
func LoadConfig() error {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		// Only log when the file truly doesn't exist; not an error for runtime
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}
	return nil
}

// ServerAddress returns the host:port the HTTP server binds to.
func ServerAddress() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	return "0.0.0.0:" + port
}

// JWTSecret returns the token signing secret; tokens cannot be issued or
// verified without it, so an empty value is a startup error.
func JWTSecret() (string, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return "", errors.New("JWT_SECRET is required")
	}
	return secret, nil
}

// JWTIssuer returns the issuer claim stamped on tokens.
func JWTIssuer() string {
	issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	if issuer == "" {
		return "geo-server"
	}
	return issuer
}

// JWTTTL returns the token lifetime, defaulting to one hour.
func JWTTTL() time.Duration {
	minutes, err := strconv.Atoi(strings.TrimSpace(os.Getenv("JWT_TTL_MINUTES")))
	if err != nil || minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}
