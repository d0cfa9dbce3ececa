package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProjectTypeFree = "free"
	ProjectTypePaid = "paid"
)

// Project is a volunteer placement offered by an organization. Paid projects
// charge DailyRate per traveller per day; free projects never gate on payment.
type Project struct {
	gorm.Model
	OrganizationID uint            `json:"organizationID" gorm:"not null;index"`
	Organization   *Organization   `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Title          string          `json:"title" gorm:"not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Type           string          `json:"type" gorm:"type:varchar(10);default:paid;index"` // free, paid
	DailyRate      decimal.Decimal `json:"dailyRate" gorm:"type:numeric(12,2)"`
	MaxTravellers  int             `json:"maxTravellers"`
	IsActive       bool            `json:"isActive" gorm:"default:true"`
}
