package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/service"
	"github.com/tieubaoca/ayuroot-be/types"
)

type LifestyleHandler interface {
	HandleLifestyle(c *gin.Context)
}

type lifestyleHandler struct {
	lifestyleService service.LifestyleService
}

func NewLifestyleHandler(lifestyleService service.LifestyleService) LifestyleHandler {
	return &lifestyleHandler{
		lifestyleService: lifestyleService,
	}
}

func (h *lifestyleHandler) HandleLifestyle(c *gin.Context) {
	var req types.LifestyleRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	result, err := h.lifestyleService.Assess(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidLifestyle) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Lifestyle Controller Error")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.LifestyleResponse{
		Success: true,
		Data:    result,
	})
}
