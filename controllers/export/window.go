package exportControllers

import (
	"time"

	"gorm.io/gorm"

	"github.com/othmane-chaikhi/AmodgreenStore/models"
)

// Window is a predefined export date range, evaluated against the current
// moment in local time.
type Window string

const (
	WindowToday    Window = "today"
	WindowLast3    Window = "last_3_days"
	WindowLastWeek Window = "last_week"
	WindowMonth    Window = "last_month"
	WindowYear     Window = "last_year"
	WindowAll      Window = "all"
)

// fallbackCount is how many recent orders an empty "today" export falls back
// to, so the report is degraded-but-useful instead of blank.
const fallbackCount = 5

// windowRange returns the inclusive [start, end] bounds for a window:
// midnight of the first day through 23:59:59 of today, local time. ok=false
// means no bounds (WindowAll or unknown).
func windowRange(w Window, now time.Time) (start, end time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end = midnight.Add(24*time.Hour - time.Second)

	switch w {
	case WindowToday:
		return midnight, end, true
	case WindowLast3:
		return midnight.AddDate(0, 0, -2), end, true
	case WindowLastWeek:
		return midnight.AddDate(0, 0, -6), end, true
	case WindowMonth:
		return midnight.AddDate(0, 0, -30), end, true
	case WindowYear:
		return midnight.AddDate(0, 0, -365), end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FetchOrders loads the non-deleted orders of a window, newest first. An
// empty "today" window falls back to the most recent non-deleted orders.
func FetchOrders(db *gorm.DB, w Window, now time.Time) ([]models.Order, error) {
	query := db.Model(&models.Order{}).
		Where("is_deleted = ?", false).
		Preload("Items").
		Order("created_at DESC")

	if start, end, ok := windowRange(w, now); ok {
		query = query.Where("created_at >= ? AND created_at <= ?", start, end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}

	if w == WindowToday && len(orders) == 0 {
		err := db.Model(&models.Order{}).
			Where("is_deleted = ?", false).
			Preload("Items").
			Order("created_at DESC").
			Limit(fallbackCount).
			Find(&orders).Error
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}
