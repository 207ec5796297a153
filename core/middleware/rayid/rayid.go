package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/xid"
)

// HeaderName is the response header carrying the request's ray id.
const HeaderName = "X-Ray-Id"

// New returns a middleware that assigns a unique ray id to every request.
// The id is stored in c.Locals("ray_id") for loggers and echoed in the
// response headers so callers can quote it when reporting problems.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = xid.New().String()
		}
		c.Locals("ray_id", rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
