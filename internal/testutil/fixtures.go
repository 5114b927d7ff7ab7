package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"protrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestClient creates an active client with a unique name.
func CreateTestClient(t *testing.T, db *gorm.DB, userID uint) *models.Client {
	t.Helper()
	name := fmt.Sprintf("Client %d", nextID())
	return CreateTestClientWithName(t, db, userID, name)
}

// CreateTestClientWithName creates an active client with the given name.
func CreateTestClientWithName(t *testing.T, db *gorm.DB, userID uint, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		UserID:       userID,
		Name:         name,
		ContactEmail: fmt.Sprintf("billing%d@test.com", nextID()),
		IsActive:     true,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestProject creates an active project with a unique title and the
// given hourly rate in cents.
func CreateTestProject(t *testing.T, db *gorm.DB, userID, clientID uint, hourlyRateCents int64) *models.Project {
	t.Helper()

	project := &models.Project{
		UserID:          userID,
		ClientID:        clientID,
		Title:           fmt.Sprintf("Project %d", nextID()),
		HourlyRateCents: hourlyRateCents,
		Status:          models.ProjectStatusActive,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestTimeEntry creates an unbilled time entry spanning the given interval.
func CreateTestTimeEntry(t *testing.T, db *gorm.DB, userID, projectID uint, start, end time.Time) *models.TimeEntry {
	t.Helper()

	entry := &models.TimeEntry{
		UserID:      userID,
		ProjectID:   projectID,
		StartTime:   start,
		EndTime:     end,
		Description: fmt.Sprintf("Work session %d", nextID()),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test time entry: %v", err)
	}
	return entry
}

// CreateTestInvoice creates an unpaid invoice with the given number and
// total in cents.
func CreateTestInvoice(t *testing.T, db *gorm.DB, userID, clientID uint, number string, totalCents int64) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		UserID:           userID,
		ClientID:         clientID,
		InvoiceNumber:    number,
		InvoiceDate:      time.Now().UTC(),
		TotalAmountCents: totalCents,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}
