package models

import "time"

// Budget statuses. The transition graph is fully connected on purpose:
// approving, rejecting, and reverting to pending are all legal from any
// current status, so a wrongly rejected budget can always be corrected.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ValidStatus reports whether s is one of the known budget statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Budget / quote models. JSON tags mirror the wire names used by clients
// (client, items, total, date).
type Budget struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ClientName  string       `gorm:"not null;index" json:"client"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email"`
	Address     string       `json:"address"`
	Items       []BudgetItem `gorm:"foreignKey:BudgetID" json:"items"`
	GrandTotal  float64      `json:"total"`
	Status      string       `gorm:"not null;default:'PENDING';index" json:"status"`
	CreatedDate string       `json:"date"` // display stamp, dd/mm/yyyy
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

type BudgetItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	BudgetID    uint    `gorm:"not null;index" json:"-"`
	Position    int     `gorm:"not null" json:"-"` // insertion order = display order
	Description string  `gorm:"not null" json:"desc"`
	Note        string  `json:"obs"`
	Quantity    float64 `gorm:"not null" json:"qty"`
	UnitPrice   float64 `gorm:"not null" json:"price"`
	LineTotal   float64 `json:"total"` // always derived: Quantity * UnitPrice
}

// BudgetSummary is the history-list projection of a budget.
type BudgetSummary struct {
	ID         uint    `json:"id"`
	ClientName string  `json:"client"`
	Date       string  `json:"date"`
	ItemsCount int     `json:"items_count"`
	Total      float64 `json:"total"`
	Status     string  `json:"status"`
}
