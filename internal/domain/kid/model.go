package kid

import "time"

// Days holds the allowance day names in week order, matching what the
// recurring job derives from the trigger time.
var Days = []string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Kid is one tracked child: a cached balance denormalized from the
// transaction ledger, plus sharing and allowance settings. Balance and
// WeeklyAllowance are in cents.
type Kid struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null"`
	Slug            string    `gorm:"not null;uniqueIndex"`
	OwnerID         string    `gorm:"type:uuid;not null;index"`
	OwnerEmail      string    `gorm:"not null;default:''"`
	Public          bool      `gorm:"not null;default:false"`
	Balance         int64     `gorm:"not null;default:0"`
	WeeklyAllowance int64     `gorm:"not null;default:0"`
	AllowanceDay    string    `gorm:"type:varchar(16);not null;default:''"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// Share grants one email address editor access to one kid.
type Share struct {
	KidID     string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Kid Kid `gorm:"foreignKey:KidID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Share) TableName() string {
	return "kid_shares"
}
