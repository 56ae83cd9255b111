package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/jwt"
)

// Locals keys del actor en Fiber.
const (
	LocalActorID   = "actor_id"
	LocalActorName = "actor_name"
)

// QueryAccessToken parámetro alternativo al header para clientes EventSource, que no envían headers.
const QueryAccessToken = "access_token"

// AuthMiddleware valida el Bearer Token JWT y deja el actor en c.Locals.
// Sin header Authorization acepta ?access_token=<jwt>.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			if tok := strings.TrimSpace(c.Query(QueryAccessToken)); tok != "" {
				return authenticate(c, jwtSecret, tok)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Требуется заголовок Authorization"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Формат: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Пустой токен"})
		}
		return authenticate(c, jwtSecret, tokenString)
	}
}

func authenticate(c *fiber.Ctx, jwtSecret, token string) error {
	actorID, actorName, err := jwt.Parse(jwtSecret, token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Токен недействителен или истёк"})
	}
	c.Locals(LocalActorID, actorID)
	c.Locals(LocalActorName, actorName)
	return c.Next()
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) entity.Actor {
	id, _ := c.Locals(LocalActorID).(string)
	name, _ := c.Locals(LocalActorName).(string)
	return entity.Actor{ID: id, Name: name}
}
