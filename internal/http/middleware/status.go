package middleware

import "github.com/gofiber/fiber/v2"

// resolve hands a chain error to the app's error handler right away so the
// response status is final by the time it is logged or counted.
func resolve(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}
