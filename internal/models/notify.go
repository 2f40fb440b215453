package models

import "time"

// NotificationLog records every outbound message attempt. The reminder loop
// uses it to avoid sending the same template to the same phone twice.
type NotificationLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Phone       string `gorm:"index"`
	MessageType string `gorm:"index"`
	OrderID     *uint  `gorm:"index"`
	Delivered   bool
	SentAt      time.Time
}
