package models

import "gorm.io/gorm"

const (
	ContactGrantPending  = "pending"
	ContactGrantApproved = "approved"
	ContactGrantRejected = "rejected"
)

// ContactGrant authorizes an organization to view a volunteer's personal
// contact details for one booking. At most one non-rejected grant may exist
// per (volunteer, organization, booking); the workflow enforces this, not
// the schema.
type ContactGrant struct {
	gorm.Model
	VolunteerID    uint   `json:"volunteerID" gorm:"not null;index"`
	OrganizationID uint   `json:"organizationID" gorm:"not null;index"`
	BookingID      uint   `json:"bookingID" gorm:"not null;index"`
	Status         string `json:"status" gorm:"type:varchar(10);default:pending;index"` // pending, approved, rejected
	Note           string `json:"note" gorm:"size:500"`

	Volunteer    *User         `json:"volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
