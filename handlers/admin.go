// File: podgoro/handlers/admin.go
package handlers

import (
	"net/http"

	"podgoro/config"
	"podgoro/models"
	"podgoro/services/reservation"
	"podgoro/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the host-facing reservation operations.
type AdminHandler struct {
	Reservations reservation.ReservationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rs reservation.ReservationService) *AdminHandler {
	return &AdminHandler{Reservations: rs}
}

type adminLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// LoginHandler exchanges the shared admin token for a short-lived JWT.
func (ah *AdminHandler) LoginHandler(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if config.AppConfig.AdminToken == "" || req.Token != config.AppConfig.AdminToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin token"})
		return
	}

	token, err := utils.GenerateToken("admin", "admin", utils.AdminTokenTTL)
	if err != nil {
		zap.L().Error("Failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ListReservationsHandler returns reservations filtered by status.
// Without a status query parameter, pending ones are returned.
func (ah *AdminHandler) ListReservationsHandler(c *gin.Context) {
	status := c.DefaultQuery("status", models.ReservationPending)
	reservations, err := ah.Reservations.ListByStatus(c.Request.Context(), status)
	if err != nil {
		if reservation.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("Failed to list reservations", zap.String("status", status), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reservations"})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// ConfirmReservationHandler moves a pending reservation to confirmed.
func (ah *AdminHandler) ConfirmReservationHandler(c *gin.Context) {
	res, err := ah.Reservations.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		ah.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RejectReservationHandler moves a pending reservation to rejected and
// releases its capacity.
func (ah *AdminHandler) RejectReservationHandler(c *gin.Context) {
	res, err := ah.Reservations.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		ah.transitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ah *AdminHandler) transitionError(c *gin.Context, err error) {
	switch {
	case reservation.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case reservation.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "Reservation is not pending"})
	default:
		zap.L().Error("Reservation transition failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
	}
}
