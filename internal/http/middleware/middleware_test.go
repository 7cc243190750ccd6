package middleware

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		rid := c.Locals(RequestIDLocalKey)
		return c.SendString(rid.(string))
	})

	t.Run("should generate new request id if not present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ridHeader := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, ridHeader)

		// Check if it's readable in handler (from response body)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, ridHeader, buf.String())
	})

	t.Run("should preserve existing request id", func(t *testing.T) {
		existingID := "test-id-123"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, existingID)

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, existingID, resp.Header.Get(RequestIDHeader))

		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, existingID, buf.String())
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()

	// Logger depends on RequestID for the request_id field
	app.Use(RequestID())
	app.Use(LoggerWithWriter(&buf, time.UTC))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	// Verify log output
	var logData map[string]any
	err := json.Unmarshal(buf.Bytes(), &logData)
	assert.NoError(t, err)

	assert.NotEmpty(t, logData["request_id"])
	assert.Equal(t, "GET", logData["method"])
	assert.Equal(t, "/test", logData["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), logData["status"])
	assert.NotNil(t, logData["latency"])
	assert.NotEmpty(t, logData["ts"])
}

func basicHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestCredentials(t *testing.T) {
	app := fiber.New()
	app.Use(Credentials())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(OwnerID(c))
	})

	t.Run("resolves owner from basic credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(CredentialsHeader, basicHeader("alice", "secret"))

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "alice", buf.String())
	})

	t.Run("accepts raw base64 without scheme prefix", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(CredentialsHeader, base64.StdEncoding.EncodeToString([]byte("bob:pw")))

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "bob", buf.String())
	})

	t.Run("password may contain colons", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(CredentialsHeader, basicHeader("carol", "p:a:s:s"))

		resp, _ := app.Test(req)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		assert.Equal(t, "carol", buf.String())
	})

	rejected := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not base64", header: "Basic %%%"},
		{name: "no colon separator", header: base64.StdEncoding.EncodeToString([]byte("just-a-user"))},
		{name: "empty username", header: basicHeader("", "pw")},
	}

	for _, tt := range rejected {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set(CredentialsHeader, tt.header)
			}

			resp, _ := app.Test(req)

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body map[string]any
			json.NewDecoder(resp.Body).Decode(&body)
			errObj := body["error"].(map[string]any)
			assert.Equal(t, "UNAUTHENTICATED", errObj["code"])
		})
	}
}

func TestSourceIPAllowlist(t *testing.T) {
	newApp := func(allowed []string) *fiber.App {
		app := fiber.New()
		app.Use(SourceIPAllowlist(allowed))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		return app
	}

	// httptest requests arrive from 0.0.0.0 under Fiber's default config
	const testClientIP = "0.0.0.0"

	t.Run("allows listed ip", func(t *testing.T) {
		app := newApp([]string{testClientIP})
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("allows ip within cidr", func(t *testing.T) {
		app := newApp([]string{"0.0.0.0/8"})
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("rejects unlisted ip", func(t *testing.T) {
		app := newApp([]string{"203.0.113.7"})
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "FORBIDDEN", errObj["code"])
	})

	t.Run("empty allowlist denies all", func(t *testing.T) {
		app := newApp(nil)
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("unparsable entries are skipped", func(t *testing.T) {
		app := newApp([]string{"not-an-ip", testClientIP})
		resp, _ := app.Test(httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
