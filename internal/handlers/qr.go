package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/memoryschool/portal/internal/db"
	"github.com/memoryschool/portal/internal/models"
)

// QR renders an order code as a PNG. Scanning opens the order summary, which
// the studio uses at the photo session to pull up the family's package.
func QR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.NotFound(w, r)
		return
	}
	var order models.Order
	if err := db.Conn().Where("code = ?", code).First(&order).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	url := "http://" + r.Host + "/api/my/order?code=" + code

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
