package integration

import (
	"net/http"
	"testing"
)

func TestExpenseFlow_SplitLifecycle(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "splitter", "split@test.com", "password123")

	// Create an equal split between two people
	rec := app.request("POST", "/api/expenses/add",
		`{"description":"Dinner","amount":90,"participants":[{"name":"Alice","share":45},{"name":"Bob","share":45}]}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	expenseID := expense["id"].(string)
	if expense["status"] != "Pending" {
		t.Errorf("expected Pending default, got %v", expense["status"])
	}
	if len(expense["participants"].([]interface{})) != 2 {
		t.Errorf("expected 2 participants, got %v", expense["participants"])
	}

	// Settle it with a custom split; the participant set is replaced
	rec = app.request("PUT", "/api/expenses/"+expenseID,
		`{"description":"Dinner","amount":90,"date":"2025-02-08T19:30:00Z","split_type":"custom","status":"Paid","participants":[{"name":"Alice","share":60,"has_paid":true},{"name":"Carol","share":30,"has_paid":true}]}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	expense = parseJSON(t, rec)["expense"].(map[string]interface{})
	if expense["status"] != "Paid" {
		t.Errorf("expected Paid, got %v", expense["status"])
	}
	participants := expense["participants"].([]interface{})
	if len(participants) != 2 {
		t.Fatalf("expected 2 participants after replacement, got %d", len(participants))
	}
	names := map[string]bool{}
	for _, raw := range participants {
		names[raw.(map[string]interface{})["name"].(string)] = true
	}
	if !names["Carol"] || names["Bob"] {
		t.Errorf("expected Bob replaced by Carol, got %v", names)
	}

	// Participants are required
	rec = app.request("POST", "/api/expenses/add",
		`{"description":"Solo","amount":10,"participants":[]}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty participants, got %d", rec.Code)
	}

	// Delete
	rec = app.request("DELETE", "/api/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/expenses/"+expenseID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after deletion, got %d", rec.Code)
	}
}

func TestExpenseFlow_ScopedToOwner(t *testing.T) {
	app := setupApp(t)
	ownerToken, _ := app.registerUser(t, "owner", "owner@test.com", "password123")
	otherToken, _ := app.registerUser(t, "other", "other@test.com", "password123")

	rec := app.request("POST", "/api/expenses/add",
		`{"description":"Rent share","amount":800,"participants":[{"name":"Alice","share":400}]}`, ownerToken)
	expenseID := parseJSON(t, rec)["expense"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/expenses/"+expenseID, "", otherToken)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's expense, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/expenses", "", otherToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["total_items"].(float64) != 0 {
		t.Error("expected no expenses for the other user")
	}
}
