package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	t.Run("register_login_profile", func(t *testing.T) {
		token, _ := app.registerUser(t, "freelancer@example.com", "password123")

		rec := app.request("GET", "/api/v1/profile", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["email"] != "freelancer@example.com" {
			t.Errorf("expected profile email freelancer@example.com, got %v", user["email"])
		}

		rec = app.request("POST", "/api/v1/auth/login",
			`{"email":"freelancer@example.com","password":"password123"}`, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["token"] == "" {
			t.Error("expected login to return a token")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/auth/login",
			`{"email":"freelancer@example.com","password":"wrongpass1"}`, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/profile", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		body := `{"email":"freelancer@example.com","password":"password123","first_name":"Dup","last_name":"User"}`
		rec := app.request("POST", "/api/v1/auth/register", body, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestTenantIsolation(t *testing.T) {
	app := setupApp(t)

	aliceToken, _ := app.registerUser(t, "alice@example.com", "password123")
	bobToken, _ := app.registerUser(t, "bob@example.com", "password123")

	clientID := app.createClient(t, aliceToken, "Acme Corp")
	projectID := app.createProject(t, aliceToken, clientID, "Website Redesign", 5000)

	// Bob cannot see or touch Alice's records.
	paths := []string{
		fmt.Sprintf("/api/v1/clients/%d", int(clientID)),
		fmt.Sprintf("/api/v1/projects/%d", int(projectID)),
	}
	for _, path := range paths {
		rec := app.request("GET", path, "", bobToken)
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s as other user: expected 404, got %d", path, rec.Code)
		}
	}

	rec := app.request("DELETE", fmt.Sprintf("/api/v1/clients/%d", int(clientID)), "", bobToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("DELETE as other user: expected 404, got %d", rec.Code)
	}

	// Bob cannot attach a project to Alice's client.
	body := fmt.Sprintf(`{"client_id":%d,"title":"Hijack","hourly_rate_cents":1000}`, int(clientID))
	rec = app.request("POST", "/api/v1/projects", body, bobToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("project against foreign client: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// Alice's list is unaffected by Bob's account.
	rec = app.request("GET", "/api/v1/clients", "", aliceToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := parseJSON(t, rec)
	if got := page["total_items"].(float64); got != 1 {
		t.Errorf("expected alice to have 1 client, got %v", got)
	}

	rec = app.request("GET", "/api/v1/clients", "", bobToken)
	page = parseJSON(t, rec)
	if got := page["total_items"].(float64); got != 0 {
		t.Errorf("expected bob to have 0 clients, got %v", got)
	}
}
