package middleware

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// CredentialsHeader carries base64("username:password") credentials,
	// with or without the conventional "Basic " prefix.
	CredentialsHeader = "Authorization"
	// OwnerIDLocalKey is the key used to store the resolved owner identity
	// in Fiber's context locals.
	OwnerIDLocalKey = "owner_id"
)

// Credentials resolves the caller's owner identity from the credentials
// header and stores it in context locals for downstream handlers. Requests
// with a missing or malformed header are rejected with 401 before any
// handler runs.
//
// This is a pure boundary check: credential verification against an identity
// provider happens upstream (API gateway / authorizer); by the time a request
// reaches this service the pair is trusted and only the username matters.
func Credentials() fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner, ok := ownerFromHeader(c.Get(CredentialsHeader))
		if !ok {
			return reject(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "missing or malformed credentials")
		}

		c.Locals(OwnerIDLocalKey, owner)
		return c.Next()
	}
}

// OwnerID returns the owner identity resolved by Credentials, or "" when the
// middleware did not run.
func OwnerID(c *fiber.Ctx) string {
	if v, ok := c.Locals(OwnerIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// ownerFromHeader extracts the username from a base64 "username:password"
// header value. The password part is ignored here; see Credentials.
func ownerFromHeader(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "Basic ")
	if raw == "" {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false
	}

	username, _, found := strings.Cut(string(decoded), ":")
	if !found || username == "" {
		return "", false
	}
	return username, true
}
