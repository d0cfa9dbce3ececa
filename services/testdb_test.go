package services

import (
	"testing"
	"time"

	"volunteer-connect-server/models"
	"volunteer-connect-server/storage"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points storage.DB at a fresh in-memory database for one test.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Project{},
		&models.Booking{},
		&models.BookingAudit{},
		&models.PaymentIntent{},
		&models.PaymentRecord{},
		&models.ContactGrant{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	storage.DB = db
}

// seedPaidBooking creates a volunteer, an organization with its owner, a paid
// project at the given daily rate and a pending five-day booking for two
// travellers (rate 100 makes the total 1000 and the deposit 200).
func seedPaidBooking(t *testing.T, rate string) models.Booking {
	t.Helper()

	owner := models.User{FirstName: "Olive", LastName: "Farm", Email: "owner-" + t.Name() + "@example.org", Role: "organization"}
	if err := storage.DB.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	volunteer := models.User{FirstName: "Val", LastName: "Unteer", Email: "volunteer-" + t.Name() + "@example.org", Role: "volunteer"}
	if err := storage.DB.Create(&volunteer).Error; err != nil {
		t.Fatalf("seed volunteer: %v", err)
	}
	org := models.Organization{Name: "Olive Grove", OwnerID: owner.ID}
	if err := storage.DB.Create(&org).Error; err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	project := models.Project{
		OrganizationID: org.ID,
		Title:          "Olive harvest",
		Type:           models.ProjectTypePaid,
		DailyRate:      decimal.RequireFromString(rate),
		IsActive:       true,
	}
	if err := storage.DB.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	booking := models.Booking{
		VolunteerID:    volunteer.ID,
		OrganizationID: org.ID,
		ProjectID:      project.ID,
		StartDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		TravellerCount: 2,
		Status:         models.BookingStatusPending,
	}
	if err := storage.DB.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

// seedSucceededRecord appends one succeeded ledger record directly.
func seedSucceededRecord(t *testing.T, bookingID uint, amount, kind string) {
	t.Helper()
	record := models.PaymentRecord{
		BookingID:      bookingID,
		Amount:         decimal.RequireFromString(amount),
		Kind:           kind,
		Outcome:        models.PaymentOutcomeSucceeded,
		IdempotencyKey: "seed-" + t.Name() + "-" + kind + "-" + amount,
	}
	if err := storage.DB.Create(&record).Error; err != nil {
		t.Fatalf("seed payment record: %v", err)
	}
}
