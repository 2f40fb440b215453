package notify

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
	"github.com/memoryschool/portal/internal/services"
)

// StartReminderLoop sends a follow-up message to guardians whose order was
// created REMIND_AFTER ago (default 24h) and who have not received one yet.
func StartReminderLoop(gdb *gorm.DB, d *Dispatcher, dashboardLink string) {
	if os.Getenv("PORTAL_ENABLE_REMINDERS") != "1" {
		return
	}
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			runReminders(gdb, d, dashboardLink, time.Now())
		}
	}()
}

func remindAfter() time.Duration {
	raw := strings.TrimSpace(os.Getenv("REMIND_AFTER"))
	if raw == "" {
		return 24 * time.Hour
	}
	dur, err := time.ParseDuration(raw)
	if err != nil || dur <= 0 {
		return 24 * time.Hour
	}
	return dur
}

type reminderRow struct {
	OrderID    uint
	ParentName string
	Phone      string
}

// runReminders uses a strict 1-minute window [tick, tick+1m) so a given
// order is picked up by exactly one tick:
// trigger = order.created_at + after ∈ [tick, next)
// => created_at ∈ [tick-after, next-after)
func runReminders(gdb *gorm.DB, d *Dispatcher, dashboardLink string, now time.Time) {
	tick := now.Truncate(time.Minute)
	next := tick.Add(time.Minute)
	after := remindAfter()

	start := tick.Add(-after)
	end := next.Add(-after)

	var rows []reminderRow
	err := gdb.Table("orders o").
		Select("o.id as order_id, clients.parent_name, clients.phone").
		Joins("JOIN clients ON clients.id = o.client_id").
		Where("o.created_at >= ? AND o.created_at < ?", start, end).
		Where("o.status <> ?", "canceled").
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return
	}

	for _, row := range rows {
		firstName := row.ParentName
		if i := strings.IndexByte(firstName, ' '); i > 0 {
			firstName = firstName[:i]
		}
		// dedup against the digits-only phone the dispatcher logs
		if alreadyReminded(gdb, services.DigitsOnly(row.Phone)) {
			continue
		}
		orderID := row.OrderID
		if err := d.Send(context.Background(), firstName, row.Phone, dashboardLink, TypeReminder24); err != nil {
			log.Printf("reminder for order %d: %v", orderID, err)
		}
	}
}

func alreadyReminded(gdb *gorm.DB, phone string) bool {
	var count int64
	_ = gdb.Model(&models.NotificationLog{}).
		Where("phone = ? AND message_type = ?", phone, TypeReminder24).
		Count(&count).Error
	return count > 0
}
