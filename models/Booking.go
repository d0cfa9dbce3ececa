package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking is a volunteer's claim on an organization's project for a date
// range. Status changes only go through services.TransitionBooking; rows are
// never hard-deleted.
type Booking struct {
	gorm.Model
	VolunteerID    uint      `json:"volunteerID" gorm:"not null;index"`
	OrganizationID uint      `json:"organizationID" gorm:"not null;index"`
	ProjectID      uint      `json:"projectID" gorm:"not null;index"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	TravellerCount int       `json:"travellerCount" gorm:"default:1"`
	Status         string    `json:"status" gorm:"type:varchar(16);default:pending;index"`
	Note           string    `json:"note" gorm:"type:text"`
	PaidWithPoints bool      `json:"paidWithPoints" gorm:"default:false"`
	PointsAmount   int       `json:"pointsAmount" gorm:"default:0"`

	Volunteer    *User         `json:"volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Project      *Project      `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// BookingAudit records one successful status transition. Append-only.
type BookingAudit struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"bookingID" gorm:"not null;index"`
	FromStatus string    `json:"fromStatus" gorm:"type:varchar(16)"`
	ToStatus   string    `json:"toStatus" gorm:"type:varchar(16)"`
	ActorID    uint      `json:"actorID" gorm:"index"`
	CreatedAt  time.Time `json:"createdAt"`
}
