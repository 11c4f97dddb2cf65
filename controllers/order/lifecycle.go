package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

var ErrInvalidStatusTransition = errors.New("invalid status transition")

// allowedTransitions is the full status graph. delivered and cancelled are
// terminal.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusContacted, models.OrderStatusCancelled},
	models.OrderStatusContacted: {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusDelivered},
	models.OrderStatusDelivered: {},
	models.OrderStatusCancelled: {},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves an order along the status graph. Out-of-graph targets are
// rejected and the order is left untouched.
func Transition(db *gorm.DB, orderID uint, newStatus models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if !canTransition(order.Status, newStatus) {
			return ErrInvalidStatusTransition
		}
		order.Status = newStatus
		return tx.Model(&order).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SoftDeleteOrder hides an order from default listings and exports. The row
// stays queryable by id and restorable.
func SoftDeleteOrder(db *gorm.DB, orderID uint) error {
	return setDeleted(db, orderID, true)
}

func RestoreOrder(db *gorm.DB, orderID uint) error {
	return setDeleted(db, orderID, false)
}

func setDeleted(db *gorm.DB, orderID uint, deleted bool) error {
	result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("is_deleted", deleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// OrderFilter narrows ListOrders. The zero value lists non-deleted orders,
// newest first, first page.
type OrderFilter struct {
	Status         models.OrderStatus
	IncludeDeleted bool
	Page           int
	PageSize       int
}

func ListOrders(db *gorm.DB, filter OrderFilter) ([]models.Order, error) {
	query := db.Model(&models.Order{}).Preload("Items")
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var orders []models.Order
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&orders).Error
	return orders, err
}

// -------- Handlers --------

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// GET /admin/orders?status=&include_deleted=&page=
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		filter := OrderFilter{
			Status:         models.OrderStatus(c.Query("status")),
			IncludeDeleted: c.Query("include_deleted") == "true",
			Page:           page,
		}
		orders, err := ListOrders(db, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": filter.Page, "orders": orders})
	}
}

// GET /admin/orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var order models.Order
		if err := db.Preload("Items").First(&order, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "total": order.TotalPrice()})
	}
}

// PUT /admin/orders/:id/status
func TransitionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var req TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		order, err := Transition(db, uint(id), models.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			case errors.Is(err, ErrInvalidStatusTransition):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:id/delivery-date
func SetEstimatedDeliveryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var req struct {
			Date string `json:"date" binding:"required"` // YYYY-MM-DD
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		result := db.Model(&models.Order{}).Where("id = ?", id).Update("estimated_delivery_date", date)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Delivery date updated"})
	}
}

// DELETE /admin/orders/:id  (soft delete)
func SoftDeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lifecycleToggle(c, db, SoftDeleteOrder, "Order deleted")
	}
}

// POST /admin/orders/:id/restore
func RestoreOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		lifecycleToggle(c, db, RestoreOrder, "Order restored")
	}
}

func lifecycleToggle(c *gin.Context, db *gorm.DB, op func(*gorm.DB, uint) error, message string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	if err := op(db, uint(id)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
