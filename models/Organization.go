package models

import "gorm.io/gorm"

// Organization represents a volunteer-hosting organization. Profile details
// beyond what bookings and contact disclosure need live elsewhere.
type Organization struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Country string `json:"country"`

	OwnerID uint `json:"ownerID" gorm:"not null;index"`
	Owner   User `json:"owner" gorm:"foreignKey:OwnerID"`

	Projects []Project `json:"projects,omitempty" gorm:"foreignKey:OrganizationID"`
}
