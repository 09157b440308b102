package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

var errMissingToken = errors.New("missing bearer token")

// AuthRequired accepts HS256 tokens issued by the identity provider. The subject claim is
// the opaque user id that scopes every store call.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	userID, err := handler.authenticateRequest(c)
	if err != nil {
		handler.logger.Debug("authentication failed", zap.String("path", c.Path()), zap.Error(err))
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}

	c.Locals(contextUserIDKey, userID)
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errMissingToken
	}
	rawToken := strings.TrimSpace(header[len(bearerPrefix):])

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(contextUserIDKey).(string)
	return userID
}
