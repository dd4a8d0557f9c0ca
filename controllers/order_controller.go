package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/middleware"
	"github.com/acroscarlos/suite-erp-api/services"
)

// respondServiceError writes the standard error envelope for a service failure
func respondServiceError(c *gin.Context, err error) {
	c.PureJSON(services.HTTPStatus(err), gin.H{
		"success": false,
		"error": gin.H{
			"code":    services.ErrCode(err),
			"message": err.Error(),
		},
	})
}

// requireActor extracts the resolved actor or writes a 401 envelope
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.PureJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return services.Actor{}, false
	}
	return actor, true
}

// parseIDParam parses a numeric URL parameter or writes a 400 envelope
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A numeric " + name + " parameter is required",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	Client services.ClientInput      `json:"client" binding:"required"`
	Items  []services.OrderItemInput `json:"items" binding:"required"`
	Meta   services.OrderMeta        `json:"meta"`
}

// CreateOrder handles POST /api/v1/orders - creates a complete order
func CreateOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	result, err := services.CreateOrder(db, actor, req.Client, req.Items, req.Meta)
	if err != nil {
		middleware.RecordOrderOperation("create", false)
		respondServiceError(c, err)
		return
	}

	middleware.RecordOrderOperation("create", true)
	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// TransitionOrder handles PATCH /api/v1/orders/:id/status - moves an order
// through the pipeline
func TransitionOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.TransitionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := services.TransitionOrderStatus(db, actor, orderID, req, c.ClientIP()); err != nil {
		middleware.RecordOrderOperation("transition", false)
		respondServiceError(c, err)
		return
	}

	middleware.RecordOrderOperation("transition", true)
	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     orderID,
			"status": req.TargetStatus,
		},
	})
}

// GetKanban handles GET /api/v1/orders/kanban - returns the board grouped by status
func GetKanban(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	db := config.GetDB()
	board, err := services.KanbanBoard(db, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    board,
	})
}

// GetOrderHistory handles GET /api/v1/orders - lists recent orders for the actor
func GetOrderHistory(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	db := config.GetDB()
	orders, err := services.VendorHistory(db, actor, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one order with its items
func GetOrder(c *gin.Context) {
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

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
