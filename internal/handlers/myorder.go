package handlers

import (
	"net/http"
	"time"

	"github.com/memoryschool/portal/internal/db"
	"github.com/memoryschool/portal/internal/models"
	svc "github.com/memoryschool/portal/internal/services"
)

type orderItemView struct {
	ItemType string  `json:"item_type"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type dependentView struct {
	Name         string `json:"name"`
	SchoolCourse string `json:"school_course"`
	Age          int    `json:"age"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

type orderView struct {
	Code       string          `json:"code"`
	Status     string          `json:"status"`
	Total      float64         `json:"total_amount"`
	CreatedAt  time.Time       `json:"created_at"`
	ParentName string          `json:"parent_name"`
	Items      []orderItemView `json:"items"`
	Dependents []dependentView `json:"dependents"`
}

// MyOrder returns the order summary for a code. The code works as the
// lookup capability, the same way cancellation codes do elsewhere in the
// portal.
// GET /api/my/order?code=ORD-XXXXXXXX
func MyOrder(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	var order models.Order
	if err := db.Conn().Preload("Items").Where("code = ?", code).First(&order).Error; err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	var client models.Client
	if err := db.Conn().Preload("Dependents").First(&client, order.ClientID).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "client lookup failed")
		return
	}

	view := orderView{
		Code:       order.Code,
		Status:     order.Status,
		Total:      order.TotalAmount,
		CreatedAt:  order.CreatedAt,
		ParentName: client.ParentName,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderItemView{
			ItemType: item.ItemType,
			Name:     itemName(item),
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	now := time.Now()
	for _, dep := range client.Dependents {
		dv := dependentView{
			Name:         dep.Name,
			SchoolCourse: dep.SchoolCourse,
			Age:          svc.AgeAt(dep.BirthDate, now),
		}
		if dep.ProfilePhotoURL != nil {
			dv.PhotoURL = *dep.ProfilePhotoURL
		}
		view.Dependents = append(view.Dependents, dv)
	}

	writeJSON(w, http.StatusOK, view)
}

func itemName(item models.OrderItem) string {
	switch {
	case item.PlanID != nil:
		var plan models.Plan
		if err := db.Conn().First(&plan, *item.PlanID).Error; err == nil {
			return plan.Name
		}
	case item.ProductID != nil:
		var prod models.Product
		if err := db.Conn().First(&prod, *item.ProductID).Error; err == nil {
			return prod.Name
		}
	}
	return ""
}

// ClientDashboard is the landing target of the links sent in notifications.
// GET /client/dashboard
func ClientDashboard(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		MyOrder(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "welcome to your client area; open your order with ?code=ORD-XXXXXXXX",
	})
}
