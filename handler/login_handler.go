package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/middleware"
	"github.com/tieubaoca/ayuroot-be/service"
	"github.com/tieubaoca/ayuroot-be/types"
)

type LoginHandler interface {
	HandleSignup(c *gin.Context)
	HandleLogin(c *gin.Context)
}

type loginHandler struct {
	userService  service.UserService
	cookieTTL    time.Duration
	secureCookie bool
}

func NewLoginHandler(userService service.UserService, cookieTTL time.Duration, secureCookie bool) LoginHandler {
	return &loginHandler{
		userService:  userService,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

func (h *loginHandler) HandleSignup(c *gin.Context) {
	var req types.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), req)
	switch {
	case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	case err != nil:
		log.Error().Err(err).Msg("Signup failed")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, types.SignupResponse{
		Success: true,
		Message: "User created successfully",
		User:    user.View(),
	})
}

func (h *loginHandler) HandleLogin(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrMissingFields):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrUserNotFound):
			status = http.StatusUnauthorized
		case errors.Is(err, service.ErrInvalidPassword):
			status = http.StatusForbidden
		default:
			log.Error().Err(err).Msg("Login failed")
		}
		c.JSON(status, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, types.LoginResponse{
		Success: true,
		Token:   token,
		User:    user.View(),
		Message: "User Logged in Successfully",
	})
}
