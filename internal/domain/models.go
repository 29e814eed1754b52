// Package domain defines the persistence models for sellers and their
// purchases. These types are mapped with GORM and form the core data layer
// of the cashback application.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase status values. A purchase receives its status exactly once at
// creation when the client does not provide one (see InitialStatus); the
// system never reassigns it afterwards, although explicit updates through
// back-office tooling remain possible.
const (
	StatusPendingReview = "pending review"
	StatusApproved      = "approved"
	StatusDenied        = "denied"
)

// VIPSellerCPF is the taxpayer ID whose purchases are approved immediately on
// submission instead of starting in review. This is a known special case in
// the current business rules; it is kept as a named value (overridable via
// configuration) and must not be generalized without product input.
const VIPSellerCPF = "15350946056"

// InitialStatus resolves the status assigned to a purchase submitted without
// one. vipCPF overrides the built-in VIP taxpayer ID when non-empty.
func InitialStatus(sellerCPF, vipCPF string) string {
	if vipCPF == "" {
		vipCPF = VIPSellerCPF
	}
	if sellerCPF == vipCPF {
		return StatusApproved
	}
	return StatusPendingReview
}

// Seller represents a registered salesperson. The CPF is stored only in its
// canonical digits-only form (SanitizeCPF runs before any write or
// comparison) and is unique across sellers.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Login: unique credential identifier used for authentication.
//   - CPF: canonical 11-digit taxpayer ID, unique.
//   - Email: contact address, required at registration.
//   - FirstName / LastName: the two stored halves of the display name
//     (see PersonName for the split/join rules).
//   - PasswordHash: bcrypt hash; never serialized.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Seller struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Login        string    `json:"login"      gorm:"type:varchar(64);not null;uniqueIndex"`
	CPF          string    `json:"cpf"        gorm:"type:char(11);not null;uniqueIndex"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(120)"`
	LastName     string    `json:"last_name"  gorm:"type:varchar(120)"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(96);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Seller.
func (Seller) TableName() string { return "sellers" }

// Name joins the stored name halves into the display name.
func (s *Seller) Name() string {
	return PersonName{First: s.FirstName, Last: s.LastName}.Full()
}

// SetName splits a full display name into the stored first/last columns.
func (s *Seller) SetName(full string) {
	n := SplitName(full)
	s.FirstName, s.LastName = n.First, n.Last
}

// Purchase represents a sale submitted by a seller. A purchase cannot exist
// without its seller (the FK is RESTRICT on delete, mirroring referential
// integrity in the business rules) and is never reassigned.
//
// Percentage is a derived, mutable field in [0, 20]: it is written at
// creation and overwritten retroactively whenever any later purchase by the
// same seller lands inside the trailing 30-day window. Purchases are never
// deleted by this core.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Code: unique short purchase code supplied by the client.
//   - Amount: monetary value, fixed-point decimal with 2 places.
//   - Date: purchase timestamp; defaults to creation time when absent.
//   - SellerID: foreign key to the owning seller (indexed with Date for
//     window scans).
//   - Status: one of the Status* constants, enforced by a DB check.
//   - Percentage: current cashback percentage for this purchase.
type Purchase struct {
	ID         string          `json:"id"         gorm:"type:char(36);primaryKey"`
	Code       string          `json:"code"       gorm:"type:varchar(6);not null;uniqueIndex"`
	Amount     decimal.Decimal `json:"amount"     gorm:"type:decimal(12,2);not null"`
	Date       time.Time       `json:"date"       gorm:"not null;index:idx_seller_window,priority:2"`
	SellerID   string          `json:"seller_id"  gorm:"type:char(36);not null;index:idx_seller_window,priority:1"`
	Status     string          `json:"status"     gorm:"type:varchar(16);not null;check:status IN ('pending review','approved','denied')"`
	Percentage decimal.Decimal `json:"percentage" gorm:"type:decimal(5,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Seller is the owning salesperson. Deleting a seller with purchases is
	// rejected at the database level.
	Seller Seller `json:"-" gorm:"foreignKey:SellerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Purchase.
func (Purchase) TableName() string { return "purchases" }
