package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/transport/api/middlewares"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка
// утверждения типа - вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// abortWithDomainError транслирует доменные ошибки в http статусы. Всё, что не
// опознано, уходит 500-кой с приватным типом - наружу такие тексты не показываются.
func abortWithDomainError(c *gin.Context, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, valErr).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrInsufficientCredits):
		_ = c.AbortWithError(http.StatusPaymentRequired, domain.ErrInsufficientCredits).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrInvalidOrderState):
		_ = c.AbortWithError(http.StatusConflict, domain.ErrInvalidOrderState).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrUserBanned):
		_ = c.AbortWithError(http.StatusForbidden, domain.ErrUserBanned).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrRecordNotFound):
		_ = c.AbortWithError(http.StatusNotFound, domain.ErrRecordNotFound).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrDuplicateKey):
		_ = c.AbortWithError(http.StatusConflict, domain.ErrDuplicateKey).SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
