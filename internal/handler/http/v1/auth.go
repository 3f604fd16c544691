package v1

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_issue_tracker/internal/auth"
	"github.com/shenikar/civic_issue_tracker/internal/config"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	identityKey     = "identity"
	authCookieName  = "auth_token"
	rateLimitPrefix = "issue_rate_limit"
	rateLimitWindow = 24 * time.Hour
)

// TokenParser разбирает токен доступа
type TokenParser interface {
	Parse(token string) (*auth.Identity, error)
	TTL() time.Duration
}

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		isValid := false
		for _, key := range cfg.APIKeys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
				isValid = true
				break
			}
		}

		if !isValid {
			log.WithField("path", c.FullPath()).Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// AuthMiddleware проверяет токен из заголовка Authorization или cookie auth_token
func AuthMiddleware(tokens TokenParser, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(authCookieName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			log.WithError(err).Debug("Rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireRole пропускает только пользователей с указанной ролью; ставится после AuthMiddleware
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s role required", role)})
			return
		}
		c.Next()
	}
}

// IssueRateLimiter ограничивает число заявок пользователя за сутки.
// Окно начинается с первой заявки.
func IssueRateLimiter(client *redis.Client, limit int, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok || limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", rateLimitPrefix, identity.UserID)

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			// Redis недоступен - не блокируем подачу заявок
			log.WithError(err).Error("Rate limiter failed to increment counter")
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.WithError(err).Warn("Rate limiter failed to set window")
			}
		}

		if count > int64(limit) {
			ttl, _ := client.TTL(ctx, key).Result()
			log.WithField("user_id", identity.UserID).Warn("Issue rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int64(ttl.Seconds()),
			})
			return
		}
		c.Next()
	}
}

// currentIdentity возвращает пользователя, установленного AuthMiddleware
func currentIdentity(c *gin.Context) (*auth.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	return identity, ok && identity != nil
}
