package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendora/taxengine/internal/api/dto"
	ierr "github.com/vendora/taxengine/internal/errors"
	"github.com/vendora/taxengine/internal/logger"
	"github.com/vendora/taxengine/internal/service"
)

type TaxHandler struct {
	service service.TaxService
	logger  *logger.Logger
}

func NewTaxHandler(service service.TaxService, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Calculate tax for a sale
// @Description Calculate the indirect tax owed on a single sale
// @Tags Taxes
// @Accept json
// @Produce json
// @Param calculation body dto.CalculateTaxRequest true "Sale to calculate tax for"
// @Success 200 {object} dto.CalculateTaxResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /taxes/calculate [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req dto.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List rate rows
// @Description List the jurisdiction rate dataset, optionally for one country
// @Tags Taxes
// @Accept json
// @Produce json
// @Param country query string false "Filter by ISO-3166 alpha-2 country code"
// @Success 200 {object} dto.ListRateRowsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /taxes/rates [get]
func (h *TaxHandler) ListRates(c *gin.Context) {
	var (
		resp *dto.ListRateRowsResponse
		err  error
	)

	if country := c.Query("country"); country != "" {
		resp, err = h.service.ListCountryRates(c.Request.Context(), country)
	} else {
		resp, err = h.service.ListRates(c.Request.Context())
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
