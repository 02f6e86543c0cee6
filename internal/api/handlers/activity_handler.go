// server/internal/api/handlers/activity_handler.go
package handlers

import (
	"net/http"
	"time"

	"agrifield-api-server/internal/api/middleware"
	"agrifield-api-server/internal/service"
	"agrifield-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityHandler struct {
	Activities *service.ActivityService
	Hub        *socket.Hub
}

type CreateActivityRequest struct {
	FieldID      string    `json:"fieldID" binding:"required"`
	ActivityType string    `json:"activityType" binding:"required"`
	ActivityDate time.Time `json:"activityDate"`
	ProductName  string    `json:"productName"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Cost         float64   `json:"cost"`
	Revenue      float64   `json:"revenue"`
	Notes        string    `json:"notes"`
}

func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fieldID, err := primitive.ObjectIDFromHex(req.FieldID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	owner := middleware.UserID(c)
	activity, err := h.Activities.Create(c.Request.Context(), owner, service.CreateActivityInput{
		FieldID:      fieldID,
		ActivityType: req.ActivityType,
		ActivityDate: req.ActivityDate,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Cost:         req.Cost,
		Revenue:      req.Revenue,
		Notes:        req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "activity.created", Payload: activity})
	c.JSON(http.StatusCreated, activity)
}

// GetActivitiesForField lists the field's non-deleted activities, most recent
// activityDate first.
func (h *ActivityHandler) GetActivitiesForField(c *gin.Context) {
	fieldID, err := primitive.ObjectIDFromHex(c.Param("fieldId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	activities, err := h.Activities.ListForField(c.Request.Context(), middleware.UserID(c), fieldID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// MarkCompleted transitions the activity Planned→Completed. Repeating the
// call on a Completed activity succeeds without change.
func (h *ActivityHandler) MarkCompleted(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity id"})
		return
	}

	owner := middleware.UserID(c)
	activity, err := h.Activities.MarkCompleted(c.Request.Context(), owner, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "activity.completed", Payload: activity})
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity id"})
		return
	}

	owner := middleware.UserID(c)
	if err := h.Activities.SoftDelete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "activity.deleted", Payload: gin.H{"id": id.Hex()}})
	c.JSON(http.StatusOK, gin.H{"message": "Activity moved to recycle bin"})
}
