package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/internal/services"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// @Summary List Alerts
// @Description Get a paginated list of operational alerts
// @Tags Alerts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Router /alerts [get]
func (h *AlertHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["alert_type"] = c.Query("alert_type")

	alerts, total, err := h.alertService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	unread, err := h.alertService.CountUnread(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"unread": unread,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// @Summary Mark Alert Read
// @Description Mark an alert as read
// @Tags Alerts
// @Produce json
// @Param alert_id path int true "Alert ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /alerts/{alert_id}/read [put]
func (h *AlertHandler) MarkRead(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("alert_id"), 10, 32)
	if err := h.alertService.MarkAsRead(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert marked as read"})
}
