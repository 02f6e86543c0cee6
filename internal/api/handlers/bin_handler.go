// server/internal/api/handlers/bin_handler.go
package handlers

import (
	"net/http"

	"agrifield-api-server/internal/api/middleware"
	"agrifield-api-server/internal/service"
	"agrifield-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BinHandler serves the recycle-bin views and the restore operations for both
// entity families.
type BinHandler struct {
	Fields     *service.FieldService
	Activities *service.ActivityService
	Hub        *socket.Hub
}

func (h *BinHandler) GetFieldBin(c *gin.Context) {
	fields, err := h.Fields.ListBin(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

func (h *BinHandler) GetActivityBin(c *gin.Context) {
	activities, err := h.Activities.ListBin(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

func (h *BinHandler) RestoreField(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	owner := middleware.UserID(c)
	if err := h.Fields.Restore(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "field.restored", Payload: gin.H{"id": id.Hex()}})
	c.JSON(http.StatusOK, gin.H{"message": "Field restored"})
}

func (h *BinHandler) RestoreActivity(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity id"})
		return
	}

	owner := middleware.UserID(c)
	if err := h.Activities.Restore(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "activity.restored", Payload: gin.H{"id": id.Hex()}})
	c.JSON(http.StatusOK, gin.H{"message": "Activity restored"})
}
