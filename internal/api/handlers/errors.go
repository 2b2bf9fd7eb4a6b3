package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wcrlabs/lineup-engine/pkg/types"
)

// respondError maps pipeline errors to structured API responses. Integrity
// violations are the caller's fault; an infeasible lineup is a legitimate
// named outcome; anything else is an internal failure.
func respondError(c *gin.Context, err error) {
	var integrityErr *types.DataIntegrityError
	if errors.As(err, &integrityErr) {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error: integrityErr.Error(),
			Code:  "DATA_INTEGRITY",
		})
		return
	}

	var infeasibleErr *types.InfeasibleLineupError
	if errors.As(err, &infeasibleErr) {
		c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
			Error: infeasibleErr.Error(),
			Code:  "INFEASIBLE_LINEUP",
			Details: map[string]string{
				"team": infeasibleErr.Team,
			},
		})
		return
	}

	var numericErr *types.NumericInstabilityError
	if errors.As(err, &numericErr) {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error: numericErr.Error(),
			Code:  "NUMERIC_INSTABILITY",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, types.ErrorResponse{
		Error: err.Error(),
		Code:  "INTERNAL_ERROR",
	})
}

// respondBadRequest reports a malformed request body.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error: "Invalid request format",
		Code:  "INVALID_REQUEST",
		Details: map[string]string{
			"validation_error": err.Error(),
		},
	})
}
