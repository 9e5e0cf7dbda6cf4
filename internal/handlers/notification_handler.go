package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skproperty/brokerage-api/internal/notify"
	"github.com/skproperty/brokerage-api/internal/services"
)

type NotificationHandler struct {
	scheduler  *services.SchedulerService
	dispatcher *notify.Dispatcher
}

func NewNotificationHandler(scheduler *services.SchedulerService, dispatcher *notify.Dispatcher) *NotificationHandler {
	return &NotificationHandler{scheduler: scheduler, dispatcher: dispatcher}
}

// @Summary Send Reminder Now
// @Description Dispatch a reminder immediately, regardless of its send window
// @Tags Notifications
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} services.DispatchOutcome
// @Failure 404 {object} map[string]string
// @Router /notifications/send-reminder/{reminder_id} [post]
func (h *NotificationHandler) SendReminder(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	outcome, err := h.scheduler.SendNow(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": outcome.Success,
		"results": outcome.Results,
	})
}

// @Summary Check Reminders
// @Description Run a reminder scan immediately
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Router /notifications/check-reminders [post]
func (h *NotificationHandler) CheckReminders(c *gin.Context) {
	h.scheduler.Scan(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Reminder check completed"})
}

// @Summary Scheduler Status
// @Description Get the reminder scheduler status
// @Tags Notifications
// @Produce json
// @Success 200 {object} services.SchedulerStatus
// @Router /notifications/status [get]
func (h *NotificationHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.scheduler.Status())
}

// @Summary Channel Configuration
// @Description Get the delivery channel configuration
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]notify.ChannelStatus
// @Router /notifications/config [get]
func (h *NotificationHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"channels": h.dispatcher.Config()})
}

type TestNotificationRequest struct {
	Phone        string `json:"phone" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// @Summary Test Notification
// @Description Send a test message over the phone channels
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body TestNotificationRequest true "Test target"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /notifications/test [post]
func (h *NotificationHandler) Test(c *gin.Context) {
	var req TestNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number is required"})
		return
	}
	if req.CustomerName == "" {
		req.CustomerName = "Customer"
	}

	results := h.dispatcher.Test(c.Request.Context(), req.Phone, req.CustomerName)
	c.JSON(http.StatusOK, gin.H{
		"success": results.AnySuccess(),
		"results": results,
	})
}
