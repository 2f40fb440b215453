package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
	"github.com/memoryschool/portal/internal/services"
)

var ErrMissingFields = errors.New("missing name, phone, clientDashboardLink, or messageType")

// Dispatcher renders a template and hands it to the configured provider.
// Every attempt is recorded in notification_logs, delivered or not.
type Dispatcher struct {
	db       *gorm.DB
	provider Provider
}

func NewDispatcher(gdb *gorm.DB, p Provider) *Dispatcher {
	return &Dispatcher{db: gdb, provider: p}
}

// Send delivers one templated message. Template validation happens before
// any delivery attempt; delivery failure is returned to the caller, which
// decides whether it is fatal (it never is for the registration flow).
func (d *Dispatcher) Send(ctx context.Context, name, phone, dashboardLink, messageType string) error {
	if name == "" || phone == "" || dashboardLink == "" || messageType == "" {
		return ErrMissingFields
	}

	message, err := Render(messageType, name, dashboardLink)
	if err != nil {
		return err
	}

	phone = services.DigitsOnly(phone)
	sendErr := d.provider.Send(ctx, phone, message)

	entry := models.NotificationLog{
		Phone:       phone,
		MessageType: messageType,
		Delivered:   sendErr == nil,
		SentAt:      time.Now(),
	}
	if d.db != nil {
		_ = d.db.Create(&entry).Error
	}

	if sendErr != nil {
		return fmt.Errorf("deliver %s to %s: %w", messageType, phone, sendErr)
	}
	return nil
}
