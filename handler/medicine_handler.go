package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tieubaoca/ayuroot-be/service"
	"github.com/tieubaoca/ayuroot-be/types"
)

type MedicineHandler interface {
	HandleRecommend(c *gin.Context)
}

type medicineHandler struct {
	medicineService service.MedicineService
}

func NewMedicineHandler(medicineService service.MedicineService) MedicineHandler {
	return &medicineHandler{
		medicineService: medicineService,
	}
}

func (h *medicineHandler) HandleRecommend(c *gin.Context) {
	var req types.MedicineRequest
	if err := bindJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	medicine, err := h.medicineService.Recommend(c.Request.Context(), req.Symptom)
	if errors.Is(err, service.ErrEmptySymptom) {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Medicine API error")
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.MedicineResponse{
		Success:  true,
		Medicine: medicine,
	})
}
