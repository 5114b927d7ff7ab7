package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestBillingFlow walks the whole lifecycle over HTTP: client, project,
// tracked time, preview, invoice, billed and paid toggles, dashboard.
func TestBillingFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "freelancer@example.com", "password123")

	clientID := app.createClient(t, token, "Acme Corp")
	projectID := app.createProject(t, token, clientID, "Website Redesign", 5000)

	// Two hours of work.
	start := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	body := fmt.Sprintf(`{"project_id":%d,"start_time":%q,"end_time":%q,"description":"Homepage layout"}`,
		int(projectID), start.Format(time.RFC3339), end.Format(time.RFC3339))
	rec := app.request("POST", "/api/v1/time-entries", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create time entry failed: %d %s", rec.Code, rec.Body.String())
	}
	entry := parseJSON(t, rec)["time_entry"].(map[string]interface{})
	entryID := entry["id"].(float64)

	// Dashboard reflects the unbilled work.
	rec = app.request("GET", "/api/v1/dashboard", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", rec.Code, rec.Body.String())
	}
	stats := parseJSON(t, rec)
	if got := stats["unbilled_hours"].(float64); got != 2 {
		t.Errorf("expected 2 unbilled hours, got %v", got)
	}
	if got := stats["total_revenue_cents"].(float64); got != 0 {
		t.Errorf("expected no revenue yet, got %v", got)
	}

	// Preview prices the entry at the project rate.
	previewBody := fmt.Sprintf(`{"client_id":%d,"start_date":%q,"end_date":%q}`,
		int(clientID), start.Format(time.RFC3339), end.Format(time.RFC3339))
	rec = app.request("POST", "/api/v1/invoices/preview", previewBody, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview failed: %d %s", rec.Code, rec.Body.String())
	}
	preview := parseJSON(t, rec)
	if got := preview["total_amount_cents"].(float64); got != 10000 {
		t.Errorf("expected preview total 10000 cents, got %v", got)
	}
	if got := preview["entry_count"].(float64); got != 1 {
		t.Errorf("expected 1 previewed entry, got %v", got)
	}

	// First invoice gets the year's 001 number.
	rec = app.request("GET", "/api/v1/invoices/next-number", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("next-number failed: %d %s", rec.Code, rec.Body.String())
	}
	wantNumber := fmt.Sprintf("INV-%d-001", time.Now().UTC().Year())
	if got := parseJSON(t, rec)["invoice_number"]; got != wantNumber {
		t.Errorf("expected next number %s, got %v", wantNumber, got)
	}

	invoiceBody := fmt.Sprintf(`{"client_id":%d,"invoice_date":%q,"total_amount_cents":10000,"time_entry_ids":[%d]}`,
		int(clientID), start.Format(time.RFC3339), int(entryID))
	rec = app.request("POST", "/api/v1/invoices", invoiceBody, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice failed: %d %s", rec.Code, rec.Body.String())
	}
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(float64)
	if invoice["invoice_number"] != wantNumber {
		t.Errorf("expected invoice number %s, got %v", wantNumber, invoice["invoice_number"])
	}

	// Linking alone does not mark the entry billed.
	rec = app.request("GET", fmt.Sprintf("/api/v1/time-entries/%d", int(entryID)), "", token)
	entry = parseJSON(t, rec)["time_entry"].(map[string]interface{})
	if entry["is_billed"] != false {
		t.Error("expected entry to stay unbilled after invoicing")
	}

	// Mark the entry billed.
	rec = app.request("POST", fmt.Sprintf("/api/v1/time-entries/%d/toggle-billed", int(entryID)), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle-billed failed: %d %s", rec.Code, rec.Body.String())
	}
	entry = parseJSON(t, rec)["time_entry"].(map[string]interface{})
	if entry["is_billed"] != true {
		t.Error("expected entry to be billed after toggle")
	}

	// Mark the invoice paid.
	rec = app.request("POST", fmt.Sprintf("/api/v1/invoices/%d/toggle-paid", int(invoiceID)), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle-paid failed: %d %s", rec.Code, rec.Body.String())
	}
	invoice = parseJSON(t, rec)["invoice"].(map[string]interface{})
	if invoice["is_paid"] != true {
		t.Error("expected invoice to be paid after toggle")
	}
	if invoice["payment_date"] == nil {
		t.Error("expected payment date to be stamped")
	}

	// Dashboard now shows settled revenue and nothing pending.
	rec = app.request("GET", "/api/v1/dashboard", "", token)
	stats = parseJSON(t, rec)
	if got := stats["total_revenue_cents"].(float64); got != 10000 {
		t.Errorf("expected total revenue 10000, got %v", got)
	}
	if got := stats["pending_revenue_cents"].(float64); got != 0 {
		t.Errorf("expected no pending revenue, got %v", got)
	}
	if got := stats["unbilled_hours"].(float64); got != 0 {
		t.Errorf("expected no unbilled hours, got %v", got)
	}
	if got := stats["unpaid_invoices"].(float64); got != 0 {
		t.Errorf("expected no unpaid invoices, got %v", got)
	}

	// Nothing left to preview for this client.
	rec = app.request("POST", "/api/v1/invoices/preview", previewBody, token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 with no unbilled work, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvoiceNumberingOverHTTP(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "numbers@example.com", "password123")
	clientID := app.createClient(t, token, "Globex")

	year := time.Now().UTC().Year()
	for i, want := range []string{
		fmt.Sprintf("INV-%d-001", year),
		fmt.Sprintf("INV-%d-002", year),
		fmt.Sprintf("INV-%d-003", year),
	} {
		body := fmt.Sprintf(`{"client_id":%d,"invoice_date":"2026-03-%02dT00:00:00Z","total_amount_cents":1000}`,
			int(clientID), i+1)
		rec := app.request("POST", "/api/v1/invoices", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create invoice %d failed: %d %s", i, rec.Code, rec.Body.String())
		}
		invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
		if invoice["invoice_number"] != want {
			t.Errorf("invoice %d: expected number %s, got %v", i, want, invoice["invoice_number"])
		}
	}

	// Explicit duplicate is rejected.
	body := fmt.Sprintf(`{"client_id":%d,"invoice_number":"INV-%d-002","invoice_date":"2026-03-09T00:00:00Z","total_amount_cents":500}`,
		int(clientID), year)
	rec := app.request("POST", "/api/v1/invoices", body, token)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate number, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOptimisticLockingOverHTTP(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "locking@example.com", "password123")
	clientID := app.createClient(t, token, "Initech")

	path := fmt.Sprintf("/api/v1/clients/%d", int(clientID))
	update := `{"name":"Initech Renamed","version":1}`
	rec := app.request("PUT", path, update, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("first update failed: %d %s", rec.Code, rec.Body.String())
	}
	client := parseJSON(t, rec)["client"].(map[string]interface{})
	if got := client["version"].(float64); got != 2 {
		t.Errorf("expected version 2 after update, got %v", got)
	}

	// Replaying the stale version conflicts.
	rec = app.request("PUT", path, update, token)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 on stale version, got %d: %s", rec.Code, rec.Body.String())
	}
}
