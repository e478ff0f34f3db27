package ledger

import "time"

// Transaction is one ledger entry for a kid. Amount is signed cents: a
// credit is positive, a debit negative. Date is server-assigned at creation
// and never changed by edits.
type Transaction struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	KidID       string    `gorm:"type:uuid;not null;index"`
	Amount      int64     `gorm:"not null"`
	Description string    `gorm:"not null"`
	Date        time.Time `gorm:"not null"`
	ParentName  string    `gorm:"not null;default:''"`
	ParentEmail string    `gorm:"not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Attribution records who created a transaction.
type Attribution struct {
	Name  string
	Email string
}

// SystemAttribution marks transactions created by the recurring allowance
// job rather than a parent.
var SystemAttribution = Attribution{Name: "System"}
