package models

import "time"

// Contract is one school-photography engagement (a school or event).
// Families register through its public invite link.
type Contract struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name         string `gorm:"not null"`
	Description  string
	InviteLinkID string `gorm:"uniqueIndex;size:36"` // public registration slug

	Plans    []Plan    `gorm:"many2many:contract_plans"`
	Products []Product `gorm:"many2many:contract_products"`
}

type Plan struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string
	Description string
	Price       float64
}

type Product struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string
	Description string
	Price       float64
}

// Client is the guardian record, 1:1 with an account identity.
type Client struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID     string `gorm:"uniqueIndex;size:36;not null"`
	CPF        string `gorm:"uniqueIndex;not null"`
	ParentName string
	Phone      string
	Email      string

	Dependents []Dependent
}

type Dependent struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ClientID     uint `gorm:"index"`
	Name         string
	BirthDate    time.Time
	SchoolCourse string // "School - Class (shift)"

	// nil when no photo was uploaded (or the upload failed)
	ProfilePhotoURL *string
}

// Status: "pending", "paid", "canceled"
type Order struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ClientID    uint   `gorm:"index"`
	ContractID  string `gorm:"size:36;index"`
	TotalAmount float64
	Status      string
	Code        string `gorm:"uniqueIndex"` // e.g., ORD-1A2B3C4D

	Items []OrderItem
}

// OrderItem references exactly one of PlanID/ProductID, mirrored by ItemType
// ("plan" | "product"). Items are immutable once created; corrections happen
// via new records in the admin screens.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	OrderID   uint `gorm:"index"`
	PlanID    *uint
	ProductID *uint
	ItemType  string
	Quantity  int
	Price     float64
}

// Account is an authentication identity for the client portal.
type Account struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email     string `gorm:"uniqueIndex;not null"`
	FirstName string
	LastName  string
	Verified  bool
}

type Credential struct {
	AccountID    string `gorm:"primaryKey;size:36"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	PasswordHash string
	Salt         string
}
