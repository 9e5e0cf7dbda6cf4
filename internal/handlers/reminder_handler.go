package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skproperty/brokerage-api/internal/models"
	"github.com/skproperty/brokerage-api/internal/repository"
	"github.com/skproperty/brokerage-api/internal/services"
)

type ReminderHandler struct {
	reminderService *services.ReminderService
}

func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// @Summary List Reminders
// @Description Get a paginated list of reminders
// @Tags Reminders
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Router /reminders [get]
func (h *ReminderHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["category"] = c.Query("category")
	query.Filters["transaction_type"] = c.Query("transaction_type")
	query.Search = c.Query("search_term")

	// Parse sort parameter (format: field-direction)
	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	reminders, total, err := h.reminderService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range reminders {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"reminders": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Create Reminder
// @Description Create a new reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param request body models.Reminder true "Reminder"
// @Success 201 {object} models.ReminderResponse
// @Failure 400 {object} map[string]string
// @Router /reminders [post]
func (h *ReminderHandler) Create(c *gin.Context) {
	var reminder models.Reminder
	if err := BindNestedOrFlat(c, "reminder", &reminder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.reminderService.Create(c.Request.Context(), &reminder); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminder": reminder.ToResponse()})
}

// @Summary Get Reminder
// @Description Get a reminder by ID
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} models.ReminderResponse
// @Failure 404 {object} map[string]string
// @Router /reminders/{reminder_id} [get]
func (h *ReminderHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	reminder, err := h.reminderService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": reminder.ToResponse()})
}

// @Summary Update Reminder
// @Description Update an existing reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Param request body models.Reminder true "Reminder"
// @Success 200 {object} models.ReminderResponse
// @Failure 404 {object} map[string]string
// @Router /reminders/{reminder_id} [put]
func (h *ReminderHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	reminder, err := h.reminderService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "reminder", reminder); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	reminder.ID = uint(id)

	if err := h.reminderService.Update(c.Request.Context(), reminder); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder.ToResponse()})
}

// @Summary Complete Reminder
// @Description Mark a reminder as completed
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reminders/{reminder_id}/complete [put]
func (h *ReminderHandler) Complete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	if err := h.reminderService.Complete(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder marked as completed"})
}

// @Summary Cancel Reminder
// @Description Cancel a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reminders/{reminder_id}/cancel [put]
func (h *ReminderHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	if err := h.reminderService.Cancel(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder cancelled"})
}

// @Summary Mark Reminder Sent
// @Description Mark a reminder as reminded without dispatching
// @Tags Reminders
// @Accept json
// @Produce json
// @Param reminder_id path int true "Reminder ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reminders/{reminder_id}/mark-sent [put]
func (h *ReminderHandler) MarkSent(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("reminder_id"), 10, 32)
	if err := h.reminderService.MarkSent(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder marked as sent"})
}

// @Summary Due Reminders
// @Description Get reminders currently inside their send window
// @Tags Reminders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reminders/due [get]
func (h *ReminderHandler) Due(c *gin.Context) {
	reminders, err := h.reminderService.FindDue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range reminders {
		responses = append(responses, r.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"reminders": responses, "count": len(reminders)})
}

// @Summary Overdue Reminders
// @Description Get open reminders past their due date
// @Tags Reminders
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reminders/overdue [get]
func (h *ReminderHandler) Overdue(c *gin.Context) {
	reminders, err := h.reminderService.FindOverdue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, r := range reminders {
		responses = append(responses, r.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"reminders": responses, "count": len(reminders)})
}
