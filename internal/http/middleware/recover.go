package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Recover turns a handler panic into an error for the app's ErrorHandler and logs
// the panic value with its stack. Register it after Logger so the 500 is logged too.
func Recover(log logrus.FieldLogger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			rid, _ := c.Locals(RequestIDLocalKey).(string)
			log.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     c.Method(),
				"path":       c.Path(),
				"panic":      fmt.Sprint(e),
				"stack":      string(debug.Stack()),
			}).Error("panic_recovered")
		},
	})
}
