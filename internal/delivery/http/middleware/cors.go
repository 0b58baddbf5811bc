package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// Разрешены все методы и заголовки, credentials включены для списка origins.
func CORS(origins []string) fiber.Handler {
	allowOrigins := strings.Join(origins, ",")
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet,
			fiber.MethodPost,
			fiber.MethodHead,
			fiber.MethodPut,
			fiber.MethodDelete,
			fiber.MethodPatch,
			fiber.MethodOptions,
		}, ","),
		// пустой список - fiber отражает Access-Control-Request-Headers
		AllowHeaders: "",
		// fiber запрещает credentials вместе с "*"
		AllowCredentials: allowOrigins != "*",
	})
}
