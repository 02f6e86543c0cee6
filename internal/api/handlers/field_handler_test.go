package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agrifield-api-server/config"
	"agrifield-api-server/internal/api/handlers"
	"agrifield-api-server/internal/api/middleware"
	"agrifield-api-server/internal/auth"
	"agrifield-api-server/internal/repository"
	"agrifield-api-server/internal/service"
	"agrifield-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	err := auth.Init(config.JWTConfig{Secret: "test-secret", Expiration: "1h"})
	assert.NoError(t, err)

	logger := zap.NewNop()
	fieldRepo := repository.NewMemoryFieldRepository()
	activityRepo := repository.NewMemoryActivityRepository()

	fieldService := service.NewFieldService(fieldRepo, activityRepo, 720*time.Hour, logger)
	activityService := service.NewActivityService(activityRepo, fieldRepo, 0, logger)
	hub := socket.NewHub(logger)

	fieldHandler := &handlers.FieldHandler{Fields: fieldService, Hub: hub}
	activityHandler := &handlers.ActivityHandler{Activities: activityService, Hub: hub}
	binHandler := &handlers.BinHandler{Fields: fieldService, Activities: activityService, Hub: hub}

	router := gin.New()
	protected := router.Group("/api/v1")
	protected.Use(middleware.Authenticate())
	{
		protected.GET("/fields", fieldHandler.GetFields)
		protected.POST("/fields", fieldHandler.CreateField)
		protected.GET("/fields/:id", fieldHandler.GetFieldByID)
		protected.DELETE("/fields/:id", fieldHandler.DeleteField)
		protected.POST("/activities", activityHandler.CreateActivity)
		protected.PATCH("/activities/:id", activityHandler.MarkCompleted)
		protected.DELETE("/activities/:id", activityHandler.DeleteActivity)
		protected.GET("/bin/fields", binHandler.GetFieldBin)
		protected.GET("/bin/activities", binHandler.GetActivityBin)
		protected.POST("/bin/fields/:id/restore", binHandler.RestoreField)
	}
	return router
}

func bearerToken(t *testing.T, userID primitive.ObjectID) string {
	token, err := auth.GenerateJWT(userID.Hex(), "farmer@example.com", "Farmer")
	assert.NoError(t, err)
	return "Bearer " + token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticationRequired(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/fields", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/fields", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFieldDashboardScenario(t *testing.T) {
	router := setupTestRouter(t)
	owner := primitive.NewObjectID()
	token := bearerToken(t, owner)

	// Create the field.
	w := doJSON(router, http.MethodPost, "/api/v1/fields", token, gin.H{
		"name": "North Plot", "area": 2.5, "soilType": "Black", "currentCrop": "Wheat",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var field struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))

	// Log a sowing and a harvesting activity.
	w = doJSON(router, http.MethodPost, "/api/v1/activities", token, gin.H{
		"fieldID": field.ID, "activityType": "Sowing", "cost": 500, "revenue": 0,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/activities", token, gin.H{
		"fieldID": field.ID, "activityType": "Harvesting", "cost": 200, "revenue": 3000,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var harvest struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &harvest))

	// Listing carries the aggregates.
	w = doJSON(router, http.MethodGet, "/api/v1/fields", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed []struct {
		Name  string `json:"name"`
		Stats struct {
			TotalCost    float64 `json:"totalCost"`
			TotalRevenue float64 `json:"totalRevenue"`
			NetProfit    float64 `json:"netProfit"`
		} `json:"stats"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, "North Plot", listed[0].Name)
	assert.Equal(t, 700.0, listed[0].Stats.TotalCost)
	assert.Equal(t, 3000.0, listed[0].Stats.TotalRevenue)
	assert.Equal(t, 2300.0, listed[0].Stats.NetProfit)

	// Binning the harvesting activity drops its cost and revenue from the
	// aggregates.
	w = doJSON(router, http.MethodDelete, "/api/v1/activities/"+harvest.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/fields", token, nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Equal(t, 500.0, listed[0].Stats.TotalCost)
	assert.Equal(t, 0.0, listed[0].Stats.TotalRevenue)
	assert.Equal(t, -500.0, listed[0].Stats.NetProfit)

	// The binned activity still shows in the recycle bin with its field name.
	w = doJSON(router, http.MethodGet, "/api/v1/bin/activities", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var bin []struct {
		FieldName string `json:"fieldName"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &bin))
	assert.Len(t, bin, 1)
	assert.Equal(t, "North Plot", bin[0].FieldName)
}

func TestFieldBinRoundTripOverHTTP(t *testing.T) {
	router := setupTestRouter(t)
	owner := primitive.NewObjectID()
	token := bearerToken(t, owner)

	w := doJSON(router, http.MethodPost, "/api/v1/fields", token, gin.H{
		"name": "South Plot", "area": 1.2, "soilType": "Red", "currentCrop": "Cotton",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var field struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))

	w = doJSON(router, http.MethodDelete, "/api/v1/fields/"+field.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/bin/fields", token, nil)
	var bin []struct {
		ID       string     `json:"id"`
		ExpireAt *time.Time `json:"expireAt"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &bin))
	assert.Len(t, bin, 1)
	assert.NotNil(t, bin[0].ExpireAt)

	w = doJSON(router, http.MethodPost, "/api/v1/bin/fields/"+field.ID+"/restore", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/fields", token, nil)
	var listed []struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestCrossOwnerAccessIsForbidden(t *testing.T) {
	router := setupTestRouter(t)
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	w := doJSON(router, http.MethodPost, "/api/v1/fields", bearerToken(t, owner), gin.H{
		"name": "North Plot", "area": 2.5, "soilType": "Black", "currentCrop": "Wheat",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	var field struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))

	strangerToken := bearerToken(t, stranger)
	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/fields/" + field.ID},
		{http.MethodDelete, "/api/v1/fields/" + field.ID},
		{http.MethodPost, "/api/v1/activities"},
	} {
		var body interface{}
		if tc.method == http.MethodPost {
			body = gin.H{"fieldID": field.ID, "activityType": "Sowing"}
		}
		w := doJSON(router, tc.method, tc.path, strangerToken, body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}

	// Nothing changed for the real owner.
	w = doJSON(router, http.MethodGet, "/api/v1/fields/"+field.ID, bearerToken(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMarkCompletedTwiceOverHTTP(t *testing.T) {
	router := setupTestRouter(t)
	owner := primitive.NewObjectID()
	token := bearerToken(t, owner)

	w := doJSON(router, http.MethodPost, "/api/v1/fields", token, gin.H{
		"name": "North Plot", "area": 2.5, "soilType": "Black", "currentCrop": "Wheat",
	})
	var field struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &field))

	w = doJSON(router, http.MethodPost, "/api/v1/activities", token, gin.H{
		"fieldID": field.ID, "activityType": "Sowing",
	})
	var activity struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &activity))

	for i := 0; i < 2; i++ {
		w = doJSON(router, http.MethodPatch, "/api/v1/activities/"+activity.ID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var completed struct {
			Status string `json:"status"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
		assert.Equal(t, "Completed", completed.Status)
	}
}
