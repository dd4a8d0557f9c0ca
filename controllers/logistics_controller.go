package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/middleware"
	"github.com/acroscarlos/suite-erp-api/models"
	"github.com/acroscarlos/suite-erp-api/services"
	"github.com/acroscarlos/suite-erp-api/utils"
)

// UploadPOD handles POST /api/v1/orders/:id/pod - attaches a proof-of-delivery
// image to an order and moves it to dispatched
func UploadPOD(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !actor.Can(services.CapDispatchOrders) && !actor.IsElevated() {
		c.PureJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Dispatching orders requires the logistics role",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file field is required",
			},
		})
		return
	}

	podService := services.GetPODService()
	if podService == nil {
		c.PureJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Proof-of-delivery storage is not configured",
			},
		})
		return
	}

	key, err := podService.UploadPOD(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		status := http.StatusInternalServerError
		code := "UPLOAD_FAILED"
		if errors.As(err, &uploadErr) {
			status = http.StatusBadRequest
			code = uploadErr.Code
		}
		c.PureJSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("pod_key", key).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	// Uploading the POD is what dispatches the order
	transition := services.TransitionInput{TargetStatus: models.StatusDispatched}
	if err := services.TransitionOrderStatus(db, actor, orderID, transition, c.ClientIP()); err != nil {
		middleware.RecordOrderOperation("dispatch", false)
		respondServiceError(c, err)
		return
	}

	middleware.RecordOrderOperation("dispatch", true)
	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      orderID,
			"pod_key": key,
			"status":  models.StatusDispatched,
		},
	})
}

// GetPODURL handles GET /api/v1/orders/:id/pod - returns a short-lived URL for
// the stored proof-of-delivery image
func GetPODURL(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := services.GetOrder(db, actor, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if order.PODKey == nil || *order.PODKey == "" {
		c.PureJSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No proof of delivery is attached to this order",
			},
		})
		return
	}

	podService := services.GetPODService()
	if podService == nil {
		c.PureJSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Proof-of-delivery storage is not configured",
			},
		})
		return
	}

	url, err := podService.GetPODURL(*order.PODKey)
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to generate proof-of-delivery URL",
			},
		})
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"url": url,
		},
	})
}
