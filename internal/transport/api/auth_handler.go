package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/atom-point/internal/domain"
	"github.com/fsdevblog/atom-point/internal/service"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Username string `binding:"required,min=1,max=15"  form:"login"    json:"login"`
	Password string `binding:"required,min=6,max=255" form:"password" json:"password"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя и аутентифицирует его.
// Код восстановления пароля отдается в ответе единственный раз.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, jwtToken, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errors.New("user with this login already exists")).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.Header("Authorization", "Bearer "+jwtToken)
	c.JSON(http.StatusOK, gin.H{
		"user":           newUserResponse(user),
		"securityAmount": user.SecurityAmount,
	})
}

type UserLoginParams struct {
	Username string `binding:"required,min=1,max=15"  json:"login"`
	Password string `binding:"required,min=6,max=255" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре логин/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, token, err := h.userService.Login(ctx, params.Username, params.Password)

	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPasswordMissMatch) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if errors.Is(err, domain.ErrUserBanned) {
			_ = c.AbortWithError(http.StatusForbidden, domain.ErrUserBanned).SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.Header("Authorization", "Bearer "+token)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type RecoverPasswordParams struct {
	Username       string `binding:"required,min=1,max=15"      json:"login"`
	SecurityAmount int    `binding:"required,min=1000,max=9999" json:"securityAmount"`
	NewPassword    string `binding:"required,min=6,max=255"     json:"newPassword"`
}

// Recover POST RouteGroup + RecoverRoute. Сброс пароля по коду восстановления,
// выданному при регистрации.
func (h *AuthHandler) Recover(c *gin.Context) {
	var params RecoverPasswordParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.RecoverPassword(ctx, params.Username, params.SecurityAmount, params.NewPassword); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}
