// server/internal/api/handlers/field_handler.go
package handlers

import (
	"net/http"

	"agrifield-api-server/internal/api/middleware"
	"agrifield-api-server/internal/service"
	"agrifield-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldHandler struct {
	Fields *service.FieldService
	Hub    *socket.Hub
}

type CreateFieldRequest struct {
	Name              string   `json:"name" binding:"required"`
	Area              float64  `json:"area" binding:"required,gt=0"`
	SoilType          string   `json:"soilType" binding:"required"`
	CurrentCrop       string   `json:"currentCrop" binding:"required"`
	ImageURL          string   `json:"imageURL"`
	WaterAvailability string   `json:"waterAvailability"`
	RecommendedCrops  []string `json:"recommendedCrops"`
	WaterRequirement  string   `json:"waterRequirement"`
}

func (h *FieldHandler) CreateField(c *gin.Context) {
	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owner := middleware.UserID(c)
	field, err := h.Fields.Create(c.Request.Context(), owner, service.CreateFieldInput{
		Name:              req.Name,
		Area:              req.Area,
		SoilType:          req.SoilType,
		CurrentCrop:       req.CurrentCrop,
		ImageURL:          req.ImageURL,
		WaterAvailability: req.WaterAvailability,
		RecommendedCrops:  req.RecommendedCrops,
		WaterRequirement:  req.WaterRequirement,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "field.created", Payload: field})
	c.JSON(http.StatusCreated, field)
}

// GetFields lists the caller's active fields, each annotated with its
// financial aggregates.
func (h *FieldHandler) GetFields(c *gin.Context) {
	fields, err := h.Fields.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

func (h *FieldHandler) GetFieldByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	detail, err := h.Fields.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteField moves the field into the recycle bin; the storage engine purges
// it once the bin window elapses.
func (h *FieldHandler) DeleteField(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid field id"})
		return
	}

	owner := middleware.UserID(c)
	if err := h.Fields.SoftDelete(c.Request.Context(), owner, id); err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Notify(owner.Hex(), socket.Event{Type: "field.deleted", Payload: gin.H{"id": id.Hex()}})
	c.JSON(http.StatusOK, gin.H{"message": "Field moved to recycle bin"})
}
