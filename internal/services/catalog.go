package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/models"
)

var ErrContractNotFound = errors.New("contract not found")

type CatalogPlan struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type CatalogProduct struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Catalog is the read-only snapshot a registration session validates its
// selection against. Fetched once when the invite slug resolves; immutable
// for the wizard's duration.
type Catalog struct {
	ContractID   string           `json:"contract_id"`
	ContractName string           `json:"contract_name"`
	Plans        []CatalogPlan    `json:"plans"`
	Products     []CatalogProduct `json:"products"`
}

// ResolveContract looks up a contract by its public invite slug. A missing
// slug is terminal for the session (no retry); callers redirect to the
// generic entry point.
func ResolveContract(gdb *gorm.DB, slug string) (*Catalog, error) {
	var c models.Contract
	err := gdb.Preload("Plans").Preload("Products").
		Where("invite_link_id = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}

	cat := &Catalog{ContractID: c.ID, ContractName: c.Name}
	for _, p := range c.Plans {
		cat.Plans = append(cat.Plans, CatalogPlan{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price})
	}
	for _, p := range c.Products {
		cat.Products = append(cat.Products, CatalogProduct{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price})
	}
	return cat, nil
}

func (c *Catalog) Plan(id uint) *CatalogPlan {
	for i := range c.Plans {
		if c.Plans[i].ID == id {
			return &c.Plans[i]
		}
	}
	return nil
}

func (c *Catalog) Product(id uint) *CatalogProduct {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}
