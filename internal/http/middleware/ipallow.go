package middleware

import (
	"net/netip"

	"github.com/gofiber/fiber/v2"
)

// SourceIPAllowlist rejects requests whose source IP is not on the given
// allow-list of IPs or CIDR ranges, independent of credential validity.
// An empty or fully unparsable allow-list denies every request: when the
// boundary cannot be established the service fails closed.
//
// Entries that fail to parse are skipped at construction; a single bad entry
// does not widen or disable the list.
func SourceIPAllowlist(allowed []string) fiber.Handler {
	var prefixes []netip.Prefix
	for _, entry := range allowed {
		if p, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, p)
			continue
		}
		if a, err := netip.ParseAddr(entry); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}

	return func(c *fiber.Ctx) error {
		source, err := netip.ParseAddr(c.IP())
		if err != nil {
			return reject(c, fiber.StatusForbidden, "FORBIDDEN", "could not determine client address")
		}

		source = source.Unmap()
		for _, p := range prefixes {
			if p.Contains(source) {
				return c.Next()
			}
		}
		return reject(c, fiber.StatusForbidden, "FORBIDDEN", "access from this address is not permitted")
	}
}

// reject writes the standard error envelope from within middleware, keeping
// the same shape the handler package uses.
func reject(c *fiber.Ctx, status int, code, message string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(status).JSON(fiber.Map{
		"request_id": rid,
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}
