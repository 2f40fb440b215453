package db

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
)

var conn *gorm.DB

func Init() error {
	dsn := os.Getenv("PORTAL_DB")
	if dsn == "" {
		dsn = "portal.db"
	}
	dsn += "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	var err error
	conn, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.Contract{},
		&models.Plan{},
		&models.Product{},
		&models.Client{},
		&models.Dependent{},
		&models.Order{},
		&models.OrderItem{},
		&models.Account{},
		&models.Credential{},
		&models.NotificationLog{},
	); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	// Composite indexes that GORM doesn't auto-create from struct tags.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_order_client_status ON orders(client_id, status)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_notify_phone_type   ON notification_logs(phone, message_type)")

	log.Println("database ready (sqlite)")
	return nil
}

func Conn() *gorm.DB {
	return conn
}
