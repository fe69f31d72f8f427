package database

import (
	"time"

	"laptoppos/auth"
)

// Payment method constants
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentInstallment  = "installment"
	PaymentBankTransfer = "bank_transfer"
)

// Sale status constants
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
)

// Repair status constants
const (
	RepairStatusReceived   = "received"
	RepairStatusInProgress = "in_progress"
	RepairStatusCompleted  = "completed"
	RepairStatusDelivered  = "delivered"
)

// Registration request status constants
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationApproved  = "approved"
	RegistrationRejected  = "rejected"
)

// Installment status constants
const (
	InstallmentActive    = "active"
	InstallmentCompleted = "completed"
)

// Laptop represents one inventory line item
type Laptop struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Brand             string    `json:"brand"`
	Model             string    `json:"model"`
	Processor         string    `json:"processor"`
	RAM               string    `gorm:"column:ram" json:"ram"`
	Storage           string    `json:"storage"`
	GraphicsCard      string    `json:"graphics_card"`
	ScreenSize        string    `json:"screen_size"`
	Price             float64   `json:"price"`
	Cost              float64   `json:"cost"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Category          string    `json:"category"`
	Supplier          string    `json:"supplier"`
	WarrantyMonths    int       `json:"warranty_months"`
	SerialNumber      string    `gorm:"size:100" json:"serial_number"`
	CreatedAt         time.Time `json:"created_at"`
}

// Customer represents a buyer. Tier, totals and preferred brands are
// derived in the reports package, never stored.
type Customer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	Email           string    `gorm:"size:255" json:"email"`
	Phone           string    `gorm:"size:50" json:"phone"`
	Address         string    `json:"address"`
	PreferredBrands string    `json:"preferred_brands"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Sale is the transaction record. TotalAmount always equals
// UnitPrice * Quantity and WarrantyExpiry is SaleDate plus the laptop's
// warranty period, both fixed at creation time.
type Sale struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	LaptopID       uint      `gorm:"index" json:"laptop_id"`
	CustomerID     uint      `gorm:"index" json:"customer_id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	TotalAmount    float64   `json:"total_amount"`
	PaymentMethod  string    `gorm:"size:50" json:"payment_method"`
	Status         string    `gorm:"size:50" json:"status"`
	SaleDate       time.Time `json:"sale_date"`
	WarrantyExpiry time.Time `json:"warranty_expiry"`
	CreatedAt      time.Time `json:"created_at"`
}

// Installment tracks a monthly payment plan for one sale
type Installment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SaleID        uint      `gorm:"index" json:"sale_id"`
	CustomerID    uint      `gorm:"index" json:"customer_id"`
	TotalAmount   float64   `json:"total_amount"`
	MonthlyAmount float64   `json:"monthly_amount"`
	Months        int       `json:"months"`
	PaidMonths    int       `json:"paid_months"`
	NextDueDate   time.Time `json:"next_due_date"`
	Status        string    `gorm:"size:50" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// User is a system account. PasswordHash must survive snapshot
// round-trips; controllers blank it before serializing a response.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         auth.Role `gorm:"size:20" json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegistrationRequest is a pending signup awaiting email confirmation or
// admin approval
type RegistrationRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Token        string    `gorm:"size:64;index" json:"token"`
	Status       string    `gorm:"size:20" json:"status"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLog is an append-only record of privileged actions
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Username  string    `gorm:"size:50" json:"username"`
	Action    string    `gorm:"size:50" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// Repair tracks a service job, independent of any sale
type Repair struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LaptopBrand  string    `json:"laptop_brand"`
	LaptopModel  string    `json:"laptop_model"`
	CustomerID   uint      `gorm:"index" json:"customer_id"`
	SerialNumber string    `gorm:"size:100" json:"serial_number"`
	Issue        string    `gorm:"type:text" json:"issue"`
	Status       string    `gorm:"size:50" json:"status"`
	Cost         float64   `json:"cost"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor identifies who is invoking a store mutation. Every mutating entry
// point checks the actor's permissions before touching any collection.
type Actor struct {
	UserID   uint
	Username string
	Role     auth.Role
}

// System is the actor used for internal operations such as seeding.
var System = Actor{UserID: 0, Username: "system", Role: auth.RoleAdmin}
