package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fsdevblog/atom-point/internal/service/tokens"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey      = "currentUserID"
	CurrentUserIsAdminKey = "currentUserIsAdmin"
)

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его.
// Если токен не передан, вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*jwt.Token, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) < len(bearer) || tokenHeader[:len(bearer)] != bearer {
		return nil, ErrTokenNotExist
	}

	tokenStr := tokenHeader[len(bearer):]
	token, err := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return token, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id юзера
// (поле CurrentUserIDKey) и признак админа (поле CurrentUserIsAdminKey).
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			return
		}
		userClaim, ok := token.Claims.(*tokens.UserClaims)
		if !ok {
			_ = c.AbortWithError(http.StatusInternalServerError, errors.New("invalid jwt claims type")).
				SetType(gin.ErrorTypePrivate)
			return
		}
		c.Set(CurrentUserIDKey, userClaim.ID)
		c.Set(CurrentUserIsAdminKey, userClaim.IsAdmin)
		c.Next()
	}
}

// AdminRequired пропускает только токены с админским клеймом. Вешается после AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exist := c.Get(CurrentUserIsAdminKey)
		isAdmin, ok := value.(bool)
		if !exist || !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// NonAuthRequired пропускает запросы без токена или с недействительным токеном.
func NonAuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := checkAuthorization(c, jwtTokenSecret)
		if err == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Already authorized"})
			return
		}

		c.Next()
	}
}
