package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/acroscarlos/suite-erp-api/models"
	"gorm.io/gorm"
)

// ClientInput carries raw customer data submitted with a new order
type ClientInput struct {
	TaxID         string `json:"tax_id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person"`
	Notes         string `json:"notes"`
}

// OrderItemInput is one submitted cart line
type OrderItemInput struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LeadTime  string  `json:"lead_time"`
}

// OrderMeta carries sale metadata for a new order
type OrderMeta struct {
	ExchangeRate float64 `json:"exchange_rate"`
	ValidityDays int     `json:"validity_days"`
	Currency     string  `json:"currency"`
}

// CreateOrderResult identifies a freshly created order
type CreateOrderResult struct {
	Code       string `json:"code"`
	InternalID uint   `json:"internal_id"`
}

// CreateOrder creates a complete order inside one transaction: the client is
// resolved (or inserted) by normalized tax ID, a day-scoped human code is
// generated, submitted prices are clamped up to the inventory floor, and the
// header totals are computed from the line subtotals. Any failure rolls the
// whole thing back; no partial order can exist.
//
// The code generator counts today's orders before inserting, so two truly
// simultaneous creations can read the same count and emit duplicate codes.
// That matches the observed production behavior and is left as-is.
func CreateOrder(db *gorm.DB, actor Actor, client ClientInput, items []OrderItemInput, meta OrderMeta) (*CreateOrderResult, error) {
	if err := Authorize(actor, CapCreateOrder); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newError(CodeValidation, "the cart cannot be empty")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, newError(CodeValidation, fmt.Sprintf("invalid quantity for %q", item.SKU))
		}
		if item.UnitPrice < 0 {
			return nil, newError(CodeValidation, fmt.Sprintf("negative price for %q", item.SKU))
		}
	}

	taxID := models.NormalizeTaxID(client.TaxID)
	if taxID == "" {
		return nil, newError(CodeValidation, "the provided tax ID is not valid")
	}

	var result CreateOrderResult
	err := db.Transaction(func(tx *gorm.DB) error {
		// Resolve or insert the client
		var existing models.Client
		clientErr := tx.Where("tax_id = ?", taxID).First(&existing).Error
		clientID := existing.ID
		if errors.Is(clientErr, gorm.ErrRecordNotFound) {
			newClient := models.Client{
				Name:          client.Name,
				TaxID:         taxID,
				Address:       client.Address,
				City:          client.City,
				State:         client.State,
				Phone:         client.Phone,
				Email:         client.Email,
				ContactPerson: client.ContactPerson,
				Notes:         client.Notes,
			}
			if err := tx.Create(&newClient).Error; err != nil {
				return fmt.Errorf("failed to register the new client: %w", err)
			}
			clientID = newClient.ID
		} else if clientErr != nil {
			return clientErr
		}

		// Generate the human order code from today's sequence
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		var todayCount int64
		if err := tx.Model(&models.Order{}).
			Where("issued_at >= ? AND issued_at < ?", dayStart, dayEnd).
			Count(&todayCount).Error; err != nil {
			return err
		}
		code := fmt.Sprintf("%s%02d%s%s", now.Format("2006"), todayCount+1, now.Format("02"), now.Format("01"))

		// Pre-load every catalog floor price in one query
		var catalogSKUs []string
		for _, item := range items {
			if models.IsCatalogSKU(item.SKU) {
				catalogSKUs = append(catalogSKUs, item.SKU)
			}
		}
		floors, err := FloorPrices(tx, catalogSKUs)
		if err != nil {
			return err
		}

		order := models.Order{
			Code:            code,
			ClientID:        clientID,
			ClientName:      client.Name,
			ClientTaxID:     taxID,
			DeliveryAddress: client.Address,
			SellerID:        actor.SellerID,
			Currency:        meta.Currency,
			ExchangeRate:    meta.ExchangeRate,
			ValidityDays:    meta.ValidityDays,
			Status:          models.StatusEmitted,
			IssuedAt:        now,
		}
		if order.Currency == "" {
			order.Currency = "USD"
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create the order header: %w", err)
		}

		totalUSD := 0.0
		for _, item := range items {
			price := item.UnitPrice
			if models.IsCatalogSKU(item.SKU) {
				floor, found := floors[strings.ToUpper(item.SKU)]
				if !found {
					return newError(CodeSKUNotFound, fmt.Sprintf("SKU %q does not exist in the catalog", item.SKU))
				}
				// Price floor clamp: raise a too-cheap price to the
				// floor, keep anything at or above it untouched.
				if price < floor {
					price = floor
				}
			}

			leadTime := item.LeadTime
			if leadTime == "" {
				leadTime = "Immediate"
			}
			subtotal := float64(item.Quantity) * price
			totalUSD += subtotal

			line := models.OrderItem{
				OrderID:      order.ID,
				SKU:          item.SKU,
				ProductName:  item.Name,
				Quantity:     item.Quantity,
				UnitPriceUSD: price,
				LeadTime:     leadTime,
				SubtotalUSD:  subtotal,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("failed to insert order line: %w", err)
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"total_usd":   totalUSD,
			"total_local": totalUSD * meta.ExchangeRate,
		}).Error; err != nil {
			return fmt.Errorf("failed to update order totals: %w", err)
		}

		result = CreateOrderResult{Code: code, InternalID: order.ID}
		return nil
	})
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, newError(CodeDBError, fmt.Sprintf("order creation failed: %v", err))
	}

	GetEventPublisher().OrderCreated(result.InternalID, result.Code)
	return &result, nil
}

// TransitionInput carries the target status plus optional payment closing
// data (captured when moving into "paid") and commission collaborators
type TransitionInput struct {
	TargetStatus    string `json:"target_status"`
	SaleChannel     string `json:"sale_channel"`
	PaymentMethod   string `json:"payment_method"`
	DeliveryMethod  string `json:"delivery_method"`
	PaymentProofURL string `json:"payment_proof_url"`
	ReceiptNumber   string `json:"receipt_number"`
	Collaborators   []uint `json:"collaborators"`
}

// TransitionOrderStatus moves an order to a new pipeline status, enforcing
// ownership, the immutability lock on protected statuses, receipt uniqueness,
// and optimistic concurrency. Crossing into a protected status discounts
// inventory; entering "paid" additionally posts commissions. The status flip
// and its side effects are not one transaction: a posting failure after a
// successful flip is surfaced but not rolled back.
func TransitionOrderStatus(db *gorm.DB, actor Actor, orderID uint, in TransitionInput, clientIP string) error {
	target := strings.ToLower(strings.TrimSpace(in.TargetStatus))
	if !models.IsValidTransitionTarget(target) {
		return newError(CodeInvalidStatus, fmt.Sprintf("status %q is not valid", target))
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(CodeNotFound, "the order does not exist")
		}
		return fmt.Errorf("failed to load order: %w", err)
	}
	current := strings.ToLower(order.Status)
	if current == "" {
		current = models.StatusEmitted
	}
	audit := GetAuditLogger()

	// Ownership: the original seller, an elevated role, or logistics moving
	// specifically into "dispatched". Anything else is an IDOR attempt.
	isOwner := order.SellerID == actor.SellerID
	isLogisticsDispatch := target == models.StatusDispatched && actor.Can(CapDispatchOrders)
	if !isOwner && !actor.IsElevated() && !isLogisticsDispatch {
		audit.Record(actor.SellerID, "idor_attempt",
			fmt.Sprintf("seller %d tried to move order %s (owner %d) to %s", actor.SellerID, order.Code, order.SellerID, target), clientIP)
		return newError(CodeIDOR, "this order belongs to another seller")
	}

	// Immutability lock: protected orders only move for elevated roles
	if models.IsProtectedStatus(current) && !actor.IsElevated() {
		return newError(CodeImmutableLock, "this order has already been processed and cannot be modified at your access level")
	}

	// Reverse logistics: pulling a dispatched order back into the pipeline
	// is an elevated-only override with a mandatory audit trail
	isReversal := current == models.StatusDispatched && target == models.StatusInProcess
	if isReversal && !actor.IsElevated() {
		return newError(CodeImmutableLock, "returning a dispatched order requires an elevated role")
	}

	if target == models.StatusPaid {
		if in.ReceiptNumber != "" {
			var conflict models.Order
			err := db.Where("receipt_number = ? AND id <> ?", in.ReceiptNumber, order.ID).First(&conflict).Error
			if err == nil {
				return newError(CodeDuplicateReceipt,
					fmt.Sprintf("receipt %q is already registered on order %s", in.ReceiptNumber, conflict.Code))
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check receipt uniqueness: %w", err)
			}
		}
		// Capture closing data on the header before the status flip
		updates := map[string]interface{}{
			"sale_channel":      in.SaleChannel,
			"payment_method":    in.PaymentMethod,
			"delivery_method":   in.DeliveryMethod,
			"payment_proof_url": in.PaymentProofURL,
			"receipt_number":    in.ReceiptNumber,
		}
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to store payment data: %w", err)
		}
	}

	// Optimistic concurrency: the update only lands if the status is still
	// the one read above. Zero rows means another request won the race.
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", target)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newError(CodeRaceCondition, "the order was already processed by another user")
	}

	// Side effects fire only when crossing into a protected status from a
	// non-protected one, so a repeated transition never discounts twice
	if models.IsProtectedStatus(target) && !models.IsProtectedStatus(current) {
		var items []models.OrderItem
		if err := db.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		lines := make([]StockLine, 0, len(items))
		for _, item := range items {
			lines = append(lines, StockLine{SKU: item.SKU, Quantity: item.Quantity})
		}
		DiscountStock(db, actor.SellerID, lines)
	}

	if target == models.StatusPaid && current != models.StatusPaid {
		if _, err := PostCommission(db, order.ID, order.SellerID, order.TotalUSD, in.Collaborators); err != nil {
			return fmt.Errorf("status updated but commission posting failed: %w", err)
		}
	}

	if isReversal {
		audit.Record(actor.SellerID, "reverse_logistics",
			fmt.Sprintf("order %s pulled back from dispatched to in_process", order.Code), clientIP)
		if _, err := ReverseCommission(db, order.ID); err != nil {
			return fmt.Errorf("status updated but commission reversal failed: %w", err)
		}
	}

	GetEventPublisher().OrderStatusChanged(order.ID, current, target)
	return nil
}

// KanbanCard is the board projection of one order
type KanbanCard struct {
	ID         uint      `json:"id"`
	Code       string    `json:"code"`
	ClientName string    `json:"client_name"`
	TotalUSD   float64   `json:"total_usd"`
	Status     string    `json:"status"`
	SellerID   uint      `json:"seller_id"`
	IssuedAt   time.Time `json:"issued_at"`
}

// kanbanColumns fixes the board layout; unknown statuses get their own column
var kanbanColumns = []string{
	models.StatusEmitted,
	models.StatusInProcess,
	models.StatusPaid,
	models.StatusToShip,
	models.StatusDispatched,
}

// KanbanBoard groups recent orders by status. Sellers only see their own
// cards unless they hold global visibility; expired emitted quotes
// (issued_at + validity already past) are hidden from the board.
func KanbanBoard(db *gorm.DB, actor Actor) (map[string][]KanbanCard, error) {
	query := db.Model(&models.Order{}).
		Where("status <> ?", models.StatusArchived)
	if !actor.Can(CapViewAllOrders) {
		query = query.Where("seller_id = ?", actor.SellerID)
	}

	var orders []models.Order
	if err := query.Order("issued_at DESC").Limit(200).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load kanban orders: %w", err)
	}

	board := make(map[string][]KanbanCard, len(kanbanColumns))
	for _, col := range kanbanColumns {
		board[col] = []KanbanCard{}
	}

	now := time.Now()
	for _, o := range orders {
		status := strings.ToLower(o.Status)
		if status == "" {
			status = models.StatusEmitted
		}
		if status == models.StatusEmitted && o.IssuedAt.AddDate(0, 0, o.ValidityDays).Before(now) {
			continue
		}
		board[status] = append(board[status], KanbanCard{
			ID:         o.ID,
			Code:       o.Code,
			ClientName: o.ClientName,
			TotalUSD:   o.TotalUSD,
			Status:     status,
			SellerID:   o.SellerID,
			IssuedAt:   o.IssuedAt,
		})
	}
	return board, nil
}

// VendorHistory lists recent orders, scoped to the actor unless they hold
// global visibility
func VendorHistory(db *gorm.DB, actor Actor, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	query := db.Preload("Client")
	if !actor.Can(CapViewAllOrders) {
		query = query.Where("seller_id = ?", actor.SellerID)
	}

	var orders []models.Order
	if err := query.Order("id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return orders, nil
}

// GetOrder loads one order with its line items, enforcing ownership scoping
func GetOrder(db *gorm.DB, actor Actor, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Preload("Client").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "the order does not exist")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order.SellerID != actor.SellerID && !actor.Can(CapViewAllOrders) {
		GetAuditLogger().Record(actor.SellerID, "idor_attempt",
			fmt.Sprintf("seller %d tried to read order %s (owner %d)", actor.SellerID, order.Code, order.SellerID), "")
		return nil, newError(CodeIDOR, "this order belongs to another seller")
	}
	return &order, nil
}
