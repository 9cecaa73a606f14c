package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestGoalFlow_ContributeUntilComplete(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "goalie", "goal@test.com", "password123")

	endDate := time.Now().AddDate(1, 0, 0).Format(time.RFC3339)
	rec := app.request("POST", "/api/savings-goals/add",
		fmt.Sprintf(`{"name":"Vacation","target_amount":1000,"end_date":%q,"category":"Travel","priority":"High"}`, endDate), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	goal := parseJSON(t, rec)["goal"].(map[string]interface{})
	goalID := goal["id"].(string)
	if goal["category"] != "Travel" {
		t.Errorf("expected Travel, got %v", goal["category"])
	}

	// First contribution
	rec = app.request("POST", "/api/savings-goals/"+goalID+"/contribute",
		`{"amount":400,"note":"tax refund"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["current_amount"].(float64) != 400 {
		t.Errorf("expected current_amount 400, got %v", goal["current_amount"])
	}
	if goal["is_completed"] != false {
		t.Error("expected goal to remain open below target")
	}

	// Second contribution reaches the target
	rec = app.request("POST", "/api/savings-goals/"+goalID+"/contribute",
		`{"amount":600}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	if goal["is_completed"] != true {
		t.Error("expected goal to complete at target")
	}
	progress := goal["progress"].(map[string]interface{})
	if progress["progress_percentage"].(float64) != 100 {
		t.Errorf("expected 100%%, got %v", progress["progress_percentage"])
	}

	// Contributions are preserved on the goal
	rec = app.request("GET", "/api/savings-goals/"+goalID, "", token)
	goal = parseJSON(t, rec)["goal"].(map[string]interface{})
	contributions := goal["contributions"].([]interface{})
	if len(contributions) != 2 {
		t.Errorf("expected 2 contributions, got %d", len(contributions))
	}
}

func TestGoalFlow_Report(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "reporter", "report@test.com", "password123")

	endDate := time.Now().AddDate(0, 6, 0).Format(time.RFC3339)
	rec := app.request("POST", "/api/savings-goals/add",
		fmt.Sprintf(`{"name":"Emergency fund","target_amount":2000,"end_date":%q,"category":"Emergency"}`, endDate), token)
	goalID := parseJSON(t, rec)["goal"].(map[string]interface{})["id"].(string)

	app.request("POST", "/api/savings-goals/"+goalID+"/contribute", `{"amount":500}`, token)

	rec = app.request("GET", "/api/savings-goals/"+goalID+"/report", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["report"].(map[string]interface{})
	if report["amount_progress"].(float64) != 25 {
		t.Errorf("expected amount_progress 25, got %v", report["amount_progress"])
	}
	if report["remaining_amount"].(float64) != 1500 {
		t.Errorf("expected remaining_amount 1500, got %v", report["remaining_amount"])
	}
	if report["remaining_days"].(float64) <= 0 {
		t.Errorf("expected positive remaining_days, got %v", report["remaining_days"])
	}
	if report["required_daily_contribution"].(float64) <= 0 {
		t.Errorf("expected positive required_daily_contribution, got %v", report["required_daily_contribution"])
	}
}

func TestGoalFlow_RejectsPastEndDate(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "pastgoal", "past@test.com", "password123")

	endDate := time.Now().AddDate(0, 0, -1).Format(time.RFC3339)
	rec := app.request("POST", "/api/savings-goals/add",
		fmt.Sprintf(`{"name":"Too late","target_amount":100,"end_date":%q}`, endDate), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
