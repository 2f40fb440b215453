package services

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memoryschool/portal/internal/models"
)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Contract{}, &models.Plan{}, &models.Product{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

func TestResolveContract(t *testing.T) {
	gdb := openTestDB(t)

	contract := models.Contract{
		ID:           "c-1",
		Name:         "Escola Azul 2026",
		InviteLinkID: "slug-abc",
		Plans:        []models.Plan{{Name: "Plano Completo", Price: 120}},
		Products:     []models.Product{{Name: "Caneca", Price: 40}, {Name: "Chaveiro", Price: 30}},
	}
	if err := gdb.Create(&contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	cat, err := ResolveContract(gdb, "slug-abc")
	if err != nil {
		t.Fatalf("ResolveContract: %v", err)
	}
	if cat.ContractID != "c-1" || cat.ContractName != "Escola Azul 2026" {
		t.Errorf("bad catalog header: %+v", cat)
	}
	if len(cat.Plans) != 1 || len(cat.Products) != 2 {
		t.Errorf("bad catalog sizes: %d plans, %d products", len(cat.Plans), len(cat.Products))
	}
	if cat.Plan(cat.Plans[0].ID) == nil {
		t.Error("Plan lookup by id failed")
	}
	if cat.Plan(9999) != nil {
		t.Error("Plan lookup for unknown id should be nil")
	}
}

func TestResolveContract_NotFound(t *testing.T) {
	gdb := openTestDB(t)
	_, err := ResolveContract(gdb, "no-such-slug")
	if !errors.Is(err, ErrContractNotFound) {
		t.Errorf("want ErrContractNotFound, got %v", err)
	}
}
