package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"toko/internal/middleware"
	"toko/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator map[string]services.Identity

func (s stubAuthenticator) Authenticate(token string) (services.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return services.Identity{}, errors.New("unknown token")
}

func TestAuthRequired(t *testing.T) {
	alice := services.Identity{UserID: "u1", Username: "alice", Email: "alice@example.com"}

	app := fiber.New()
	app.Get("/whoami", middleware.AuthRequired(stubAuthenticator{"good": alice}), func(c *fiber.Ctx) error {
		id, ok := middleware.CurrentIdentity(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(id.Username)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
