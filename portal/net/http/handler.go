package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
	constant "github.com/sayjeyhi/loc-mp-v2-sub000/portal/constants"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal/log"
)

// Ping returns HTTP Status 200 with response "pong".
func Ping(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// Health reports liveness together with the state of each circuit breaker
// returned by status.
func Health(status func() map[string]string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "available"}
		if status != nil {
			body["dependencies"] = status()
		}

		return OK(c, body)
	}
}

// Version returns HTTP Status 200 with the given version.
func Version(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{
			"version":     version,
			"requestDate": time.Now().UTC(),
		})
	}
}

// ExtractTokenFromHeader extracts the token from the Authorization header.
// It handles both "Bearer TOKEN" and raw token formats.
func ExtractTokenFromHeader(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return ""
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if found && strings.EqualFold(scheme, constant.Bearer) {
		return strings.TrimSpace(token)
	}

	if found {
		return ""
	}

	return authHeader
}

// FiberErrorHandler is the fiber ErrorHandler of portal apps.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return RenderError(c, err)
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	portal.NewLoggerFromContext(ctx).Log(ctx, log.LevelError, "handler error",
		log.String("method", c.Method()),
		log.String("path", c.Path()),
		log.Err(err),
	)

	return RenderError(c, err)
}
