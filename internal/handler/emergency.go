package handler

import (
	"errors"
	"net/http"

	"github.com/srijan008/MedGamma-Server/internal/application"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/notify"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmergencyHandler struct {
	alerts *application.AlertService
}

func NewEmergencyHandler(alerts *application.AlertService) *EmergencyHandler {
	return &EmergencyHandler{alerts: alerts}
}

// Trigger fires a manual emergency alert. SMS always goes out; a voice call
// is placed only for critical severity.
func (h *EmergencyHandler) Trigger(c *gin.Context) {
	var req struct {
		Type     string `json:"type"`
		Location string `json:"location"`
		Severity string `json:"severity"`
	}
	// Body is optional, ignore bind failures on an empty payload.
	_ = c.ShouldBindJSON(&req)

	severity := domain.Severity(req.Severity)
	switch severity {
	case domain.SeverityNone, domain.SeverityMedium, domain.SeverityCritical:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "severity must be 'medium' or 'critical'"})
		return
	}

	alertType := req.Type
	if alertType == "" {
		alertType = "sos"
	}
	alert := &domain.Alert{
		Type:     alertType,
		Severity: severity,
		Location: req.Location,
	}
	if err := h.alerts.HandleAlert(c.Request.Context(), alert); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "emergency notification service is not configured"})
			return
		}
		logging.L().Error("emergency alert delivery failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deliver emergency alert"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Emergency alert triggered."})
}
