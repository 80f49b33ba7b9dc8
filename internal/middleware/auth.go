package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/config"
	"github.com/raynet-care/care-api/internal/model"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/httputil"
)

const contextActorKey = "actor"

// AuthMiddleware verifies session tokens minted by the external
// identity provider and places the resulting actor in the request
// context. This service never issues tokens itself.
type AuthMiddleware struct {
	cfg config.JWTConfig
}

func NewAuthMiddleware(cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

type sessionClaims struct {
	Email     string `json:"email"`
	Superuser bool   `json:"superuser"`
	jwt.RegisteredClaims
}

// Authenticate verifies the bearer token and sets the actor in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("missing authorization header")))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized(fmt.Errorf("invalid authorization format")))
			c.Abort()
			return
		}

		actor, err := m.parseToken(parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(contextActorKey, actor)
		c.Next()
	}
}

func (m *AuthMiddleware) parseToken(tokenString string) (model.Actor, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))
	if err != nil || !token.Valid {
		return model.Actor{}, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Actor{}, fmt.Errorf("invalid subject claim")
	}

	return model.Actor{
		ID:        userID,
		Email:     claims.Email,
		Superuser: claims.Superuser,
	}, nil
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(contextActorKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}

// SetActor places an actor in the context directly, bypassing token
// verification. Test use only.
func SetActor(c *gin.Context, actor model.Actor) {
	c.Set(contextActorKey, actor)
}
