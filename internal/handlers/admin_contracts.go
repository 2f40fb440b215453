package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/memoryschool/portal/internal/db"
	"github.com/memoryschool/portal/internal/models"
)

type contractItemReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// AdminCreateContract creates a contract with its eligible plans/products
// and a fresh invite link families register through.
// POST /admin/contracts
func AdminCreateContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Plans       []contractItemReq `json:"plans"`
		Products    []contractItemReq `json:"products"`
	}
	if err := readJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing contract name")
		return
	}

	contract := models.Contract{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		InviteLinkID: uuid.NewString(),
	}
	for _, p := range req.Plans {
		contract.Plans = append(contract.Plans, models.Plan{Name: p.Name, Description: p.Description, Price: p.Price})
	}
	for _, p := range req.Products {
		contract.Products = append(contract.Products, models.Product{Name: p.Name, Description: p.Description, Price: p.Price})
	}

	if err := db.Conn().Create(&contract).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "save contract failed")
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

// AdminListContracts lists contracts with their catalogs.
// GET /admin/contracts
func AdminListContracts(w http.ResponseWriter, _ *http.Request) {
	var contracts []models.Contract
	if err := db.Conn().Preload("Plans").Preload("Products").
		Order("created_at desc").Find(&contracts).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, contracts)
}

// AdminListRegistrations lists provisioned orders joined with guardian info,
// newest first: the back-office view of everything the wizard produced.
// GET /admin/registrations
func AdminListRegistrations(w http.ResponseWriter, _ *http.Request) {
	type row struct {
		OrderID    uint    `json:"order_id"`
		Code       string  `json:"code"`
		Status     string  `json:"status"`
		Total      float64 `json:"total_amount"`
		ParentName string  `json:"parent_name"`
		Phone      string  `json:"phone"`
		Email      string  `json:"email"`
		Contract   string  `json:"contract"`
		Dependents int64   `json:"dependents"`
	}

	var rows []row
	err := db.Conn().Table("orders o").
		Select(`o.id as order_id, o.code, o.status, o.total_amount as total,
		        clients.parent_name, clients.phone, clients.email,
		        contracts.name as contract,
		        COUNT(dependents.id) as dependents`).
		Joins("JOIN clients ON clients.id = o.client_id").
		Joins("JOIN contracts ON contracts.id = o.contract_id").
		Joins("LEFT JOIN dependents ON dependents.client_id = clients.id").
		Group("o.id").
		Order("o.created_at desc").
		Scan(&rows).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
