// Package rayid tags every request with a unique ray id for tracing.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the header carrying the ray id.
const HeaderName = "X-Ray-Id"

// LocalsKey is the fiber locals key handlers read the ray id from.
const LocalsKey = "ray_id"

// New returns a middleware that assigns a ray id to each request. An id
// supplied by the client is kept, so a chain of services shares one id.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
