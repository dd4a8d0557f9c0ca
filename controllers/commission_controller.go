package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/acroscarlos/suite-erp-api/config"
	"github.com/acroscarlos/suite-erp-api/services"
)

// monthYearQuery reads month/year query parameters, defaulting to the current period
func monthYearQuery(c *gin.Context) (int, int) {
	now := time.Now()
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		month = int(now.Month())
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year <= 0 {
		year = now.Year()
	}
	return month, year
}

// GetWallet handles GET /api/v1/commissions/wallet - returns the actor's own
// wallet, or another seller's when ?seller_id is set and the actor is elevated
func GetWallet(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	sellerID := actor.SellerID
	if raw := c.Query("seller_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.PureJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_REQUEST",
					"message": "seller_id must be numeric",
				},
			})
			return
		}
		sellerID = uint(parsed)
	}
	month, year := monthYearQuery(c)

	db := config.GetDB()
	wallet, err := services.SellerWallet(db, actor, sellerID, month, year)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wallet,
	})
}

// GetLeaderboard handles GET /api/v1/commissions/leaderboard - returns the
// period's computed gamification winners
func GetLeaderboard(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	month, year := monthYearQuery(c)

	db := config.GetDB()
	winners, err := services.GamificationWinners(db, month, year)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    winners,
	})
}

// GetDashboard handles GET /api/v1/commissions/dashboard - the seller home
// view: this month's wallet plus the current gamification leaders
func GetDashboard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	month, year := monthYearQuery(c)

	db := config.GetDB()
	wallet, err := services.SellerWallet(db, actor, actor.SellerID, month, year)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	winners, err := services.GamificationWinners(db, month, year)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"wallet":  wallet,
			"winners": winners,
		},
	})
}

// FreezeRequest represents the request body for the monthly accounting close
type FreezeRequest struct {
	Cutoff string `json:"cutoff"` // RFC 3339; empty means now
}

// FreezeLedger handles POST /api/v1/commissions/freeze - flips pending ledger
// entries to paid and adjudicates the period's prizes
func FreezeLedger(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
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

	var cutoff time.Time
	if req.Cutoff != "" {
		parsed, err := time.Parse(time.RFC3339, req.Cutoff)
		if err != nil {
			c.PureJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "cutoff must be an RFC 3339 timestamp",
				},
			})
			return
		}
		cutoff = parsed
	}

	db := config.GetDB()
	frozen, err := services.FreezeMonth(db, actor, cutoff)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"frozen_entries": frozen,
		},
	})
}

// ManualPrizeRequest represents the request body for assigning a manual prize
type ManualPrizeRequest struct {
	SellerID  uint    `json:"seller_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	AmountUSD float64 `json:"amount_usd"`
	Month     int     `json:"month" binding:"required"`
	Year      int     `json:"year" binding:"required"`
}

// AssignPrize handles POST /api/v1/commissions/prizes - records an
// admin-assigned prize
func AssignPrize(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req ManualPrizeRequest
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
	prizeID, err := services.AssignManualPrize(db, actor, req.SellerID, req.Name, req.AmountUSD, req.Month, req.Year)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"id": prizeID,
		},
	})
}
