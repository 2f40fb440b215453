package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
)

var (
	ErrNoSelection      = errors.New("no plan or product selected")
	ErrUnknownSelection = errors.New("selection not in contract catalog")
)

// BuildOrderItems computes the order total and line items for a selection.
// A plan yields a single line item; otherwise one item per product. The two
// paths are mutually exclusive: the total is the plan price or the exact sum
// of product prices, never a mix.
func BuildOrderItems(cat *Catalog, planID *uint, productIDs []uint) (float64, []models.OrderItem, error) {
	if planID != nil {
		plan := cat.Plan(*planID)
		if plan == nil {
			return 0, nil, fmt.Errorf("plan %d: %w", *planID, ErrUnknownSelection)
		}
		id := plan.ID
		item := models.OrderItem{PlanID: &id, ItemType: "plan", Quantity: 1, Price: plan.Price}
		return plan.Price, []models.OrderItem{item}, nil
	}

	if len(productIDs) == 0 {
		return 0, nil, ErrNoSelection
	}

	var total float64
	items := make([]models.OrderItem, 0, len(productIDs))
	for _, pid := range productIDs {
		prod := cat.Product(pid)
		if prod == nil {
			return 0, nil, fmt.Errorf("product %d: %w", pid, ErrUnknownSelection)
		}
		id := prod.ID
		items = append(items, models.OrderItem{ProductID: &id, ItemType: "product", Quantity: 1, Price: prod.Price})
		total += prod.Price
	}
	return total, items, nil
}

// newOrderCode draws 32 bits from crypto/rand: ORD-XXXXXXXX (uppercase hex).
func newOrderCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return "ORD-" + strings.ToUpper(hex.EncodeToString(b[:]))
}

// GenerateOrderCode creates a unique ORD-XXXXXXXX code.
func GenerateOrderCode(gdb *gorm.DB) string {
	for i := 0; i < 20; i++ {
		code := newOrderCode()
		if code == "" {
			continue
		}
		var exists int64
		_ = gdb.Model(&models.Order{}).Where("code = ?", code).Count(&exists).Error
		if exists == 0 {
			return code
		}
	}
	return ""
}
