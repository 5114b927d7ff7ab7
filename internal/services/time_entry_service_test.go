package services

import (
	"testing"
	"time"

	"protrack/internal/models"
	"protrack/internal/pagination"
	"protrack/internal/testutil"
)

// hour returns a fixed test day at the given hour, UTC.
func hour(h int) time.Time {
	return time.Date(2026, time.March, 10, h, 0, 0, 0, time.UTC)
}

func TestCreateTimeEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)

		entry, err := svc.CreateTimeEntry(user.ID, TimeEntryDraft{
			ProjectID:   project.ID,
			StartTime:   hour(9),
			EndTime:     hour(11),
			Description: "Homepage wireframes",
		})
		testutil.AssertNoError(t, err)

		if entry.ID == 0 {
			t.Fatal("expected non-zero entry ID")
		}
		if entry.IsBilled {
			t.Error("expected new entry to be unbilled")
		}
		if got := entry.DurationHours(); got != 2 {
			t.Errorf("expected 2 hours, got %v", got)
		}
		if entry.Project == nil || entry.Project.Client == nil {
			t.Error("expected project and client to be preloaded")
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)

		_, err := svc.CreateTimeEntry(user.ID, TimeEntryDraft{
			ProjectID: project.ID,
			StartTime: hour(11),
			EndTime:   hour(9),
		})
		testutil.AssertAppError(t, err, "INVALID_TIME_RANGE")
	})

	t.Run("zero_length", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)

		_, err := svc.CreateTimeEntry(user.ID, TimeEntryDraft{
			ProjectID: project.ID,
			StartTime: hour(9),
			EndTime:   hour(9),
		})
		testutil.AssertAppError(t, err, "INVALID_TIME_RANGE")
	})

	t.Run("foreign_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreignClient := testutil.CreateTestClient(t, db, other.ID)
		foreignProject := testutil.CreateTestProject(t, db, other.ID, foreignClient.ID, 5000)

		_, err := svc.CreateTimeEntry(user.ID, TimeEntryDraft{
			ProjectID: foreignProject.ID,
			StartTime: hour(9),
			EndTime:   hour(10),
		})
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestGetUserTimeEntries(t *testing.T) {
	t.Run("search_spans_project_and_client", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		acme := testutil.CreateTestClientWithName(t, db, user.ID, "Acme Corp")
		globex := testutil.CreateTestClientWithName(t, db, user.ID, "Globex")
		acmeProject := testutil.CreateTestProject(t, db, user.ID, acme.ID, 5000)
		globexProject := testutil.CreateTestProject(t, db, user.ID, globex.ID, 5000)
		testutil.CreateTestTimeEntry(t, db, user.ID, acmeProject.ID, hour(9), hour(10))
		testutil.CreateTestTimeEntry(t, db, user.ID, globexProject.ID, hour(10), hour(11))

		page, err := svc.GetUserTimeEntries(user.ID, pagination.PageRequest{}, "acme")
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 entry via client name, got %d", page.TotalItems)
		}
		if page.Data[0].ProjectID != acmeProject.ID {
			t.Errorf("expected the Acme entry, got project %d", page.Data[0].ProjectID)
		}
	})

	t.Run("ordered_by_start_time_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)
		testutil.CreateTestTimeEntry(t, db, user.ID, project.ID, hour(9), hour(10))
		latest := testutil.CreateTestTimeEntry(t, db, user.ID, project.ID, hour(14), hour(15))

		page, err := svc.GetUserTimeEntries(user.ID, pagination.PageRequest{}, "")
		testutil.AssertNoError(t, err)

		if len(page.Data) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(page.Data))
		}
		if page.Data[0].ID != latest.ID {
			t.Errorf("expected newest entry first, got %d", page.Data[0].ID)
		}
	})
}

func TestUpdateTimeEntry(t *testing.T) {
	t.Run("stale_version", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)
		entry := testutil.CreateTestTimeEntry(t, db, user.ID, project.ID, hour(9), hour(10))

		draft := TimeEntryDraft{
			ProjectID:   project.ID,
			StartTime:   hour(9),
			EndTime:     hour(12),
			Description: "Extended session",
			Version:     entry.Version,
		}
		_, err := svc.UpdateTimeEntry(user.ID, entry.ID, draft)
		testutil.AssertNoError(t, err)

		_, err = svc.UpdateTimeEntry(user.ID, entry.ID, draft)
		testutil.AssertAppError(t, err, "CONFLICT")
	})
}

func TestToggleBilled(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)
		entry := testutil.CreateTestTimeEntry(t, db, user.ID, project.ID, hour(9), hour(10))

		billed, err := svc.ToggleBilled(user.ID, entry.ID)
		testutil.AssertNoError(t, err)
		if !billed.IsBilled {
			t.Fatal("expected entry to be billed after first toggle")
		}

		unbilled, err := svc.ToggleBilled(user.ID, entry.ID)
		testutil.AssertNoError(t, err)
		if unbilled.IsBilled {
			t.Fatal("expected entry to be unbilled after second toggle")
		}
	})

	t.Run("not_owner", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTimeEntryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db, user.ID)
		project := testutil.CreateTestProject(t, db, user.ID, client.ID, 5000)
		entry := testutil.CreateTestTimeEntry(t, db, user.ID, project.ID, hour(9), hour(10))

		_, err := svc.ToggleBilled(other.ID, entry.ID)
		testutil.AssertAppError(t, err, "TIME_ENTRY_NOT_FOUND")
	})
}

func TestTimeEntryAmount(t *testing.T) {
	entry := models.TimeEntry{StartTime: hour(9), EndTime: hour(9).Add(90 * time.Minute)}

	if got := entry.AmountCents(5000); got != 7500 {
		t.Errorf("expected 7500 cents for 1.5h at $50/h, got %d", got)
	}
	// 1 second at $36/h is exactly one cent.
	short := models.TimeEntry{StartTime: hour(9), EndTime: hour(9).Add(time.Second)}
	if got := short.AmountCents(3600); got != 1 {
		t.Errorf("expected 1 cent, got %d", got)
	}
	// Rounds to nearest cent rather than truncating.
	if got := short.AmountCents(5400); got != 2 {
		t.Errorf("expected 1.5 cents to round to 2, got %d", got)
	}
}
