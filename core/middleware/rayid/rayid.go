// Package rayid generates a unique request ID (RayID) for every incoming
// request, injecting it into the context locals and the response headers so
// that log lines for a single request can be correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated ray id.
const HeaderName = "X-Ray-Id"

// New returns a middleware that assigns a ray id to each request.
// An id supplied by the caller in the request header is reused so that
// traces can span services.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)

		return c.Next()
	}
}
