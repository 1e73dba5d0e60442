package serverutils

import "github.com/gofiber/fiber/v2"

// Locals keys set by the middlewares in this package.
const (
	LocalUserID  = "user_id"
	LocalSession = "sid"
	LocalSnap    = "session"
)

func SuccessResponse(message string, data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"code":    fiber.StatusOK,
		"message": message,
		"data":    data,
	}
}

func ErrorResponse(code int, message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
		"data":    nil,
	}
}

// RedirectResponse tells the client to navigate instead of rendering.
func RedirectResponse(code int, message, redirect string) fiber.Map {
	res := ErrorResponse(code, message)
	res["data"] = fiber.Map{"redirect": redirect}
	return res
}
