package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/services"
)

// SearchClients handles GET /api/v1/clients/search?q=term - finds clients by
// name or tax ID
func SearchClients(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	term := c.Query("q")
	if term == "" {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A search term is required",
			},
		})
		return
	}

	db := config.GetDB()
	clients, err := services.SearchClients(db, term)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
	})
}

// GetClientProfile handles GET /api/v1/clients/:id - returns stats plus the
// client's recent orders
func GetClientProfile(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	stats, err := services.GetClientStats(db, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	history, err := services.GetClientHistory(db, clientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats":   stats,
			"history": history,
		},
	})
}

// UpdateClient handles PUT /api/v1/clients/:id - updates a client's profile
func UpdateClient(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ClientInput
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
	if err := services.UpdateClient(db, clientID, req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": clientID,
		},
	})
}

// DeleteClient handles DELETE /api/v1/clients/:id - removes a client without
// purchase history
func DeleteClient(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	if err := services.DeleteClient(db, actor, clientID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": clientID,
		},
	})
}
