package router_test

import (
	"fmt"
	"net/http"
	"testing"

	"lunchvote-backend/internal/audit"
	"lunchvote-backend/internal/models"
	"lunchvote-backend/internal/restaurant"
	"lunchvote-backend/internal/testutil"
	"lunchvote-backend/internal/vote"
)

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := testutil.NewApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/restaurants"},
		{http.MethodPost, "/api/restaurants"},
		{http.MethodPost, "/api/votes/vote"},
		{http.MethodGet, "/api/votes/results"},
		{http.MethodGet, "/api/audit-logs"},
	}

	for _, tt := range paths {
		resp := testutil.DoJSON(t, app, tt.method, tt.path, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want %d", tt.method, tt.path, resp.StatusCode, http.StatusUnauthorized)
		}
	}
}

// Full voting flow: owner publishes a menu, an employee votes once, the second
// vote is rejected and the tally for the day reports the single vote.
func TestVotingScenario(t *testing.T) {
	app := testutil.NewApp(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	employee := testutil.CreateUser(t, models.RoleEmployee)
	ownerToken := testutil.AccessToken(t, owner)
	employeeToken := testutil.AccessToken(t, employee)

	// Owner creates "Cafe".
	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/restaurants", ownerToken,
		restaurant.CreateRestaurantRequest{Name: "Cafe"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Restaurant create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var cafe restaurant.RestaurantResponse
	testutil.DecodeJSON(t, resp, &cafe)

	// Owner adds the employee.
	resp = testutil.DoJSON(t, app, http.MethodPatch,
		fmt.Sprintf("/api/restaurants/%d/add-employee", cafe.ID), ownerToken,
		restaurant.AddEmployeeRequest{EmployeeID: employee.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Add employee status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// Owner publishes the menu for 2025-03-01.
	date := "2025-03-01"
	resp = testutil.DoJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/restaurants/%d/menus", cafe.ID), ownerToken,
		map[string]any{"date": date, "items": map[string]any{"Soup": 5}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Menu create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var menu restaurant.MenuResponse
	testutil.DecodeJSON(t, resp, &menu)

	// Employee votes once.
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/votes/vote", employeeToken,
		map[string]uint{"menu": menu.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Vote status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	// Second vote is rejected.
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/votes/vote", employeeToken,
		map[string]uint{"menu": menu.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Second vote status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	var errBody struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, resp, &errBody)
	if errBody.Error != "You have already voted for this menu." {
		t.Errorf("Second vote error = %q, want the already-voted message", errBody.Error)
	}

	// Voting for an unknown menu is a validation error, not a 404 route miss.
	resp = testutil.DoJSON(t, app, http.MethodPost, "/api/votes/vote", employeeToken,
		map[string]uint{"menu": 9999})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Unknown-menu vote status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	// Results for the date contain the single tallied vote.
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/votes/results?date="+date, employeeToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Results status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var results []vote.Result
	testutil.DecodeJSON(t, resp, &results)
	if len(results) != 1 {
		t.Fatalf("Results returned %d entries, want 1", len(results))
	}
	want := vote.Result{Restaurant: "Cafe", MenuID: menu.ID, Votes: 1}
	if results[0] != want {
		t.Errorf("results[0] = %+v, want %+v", results[0], want)
	}
}

func TestAuditTrail(t *testing.T) {
	app := testutil.NewApp(t)

	owner := testutil.CreateUser(t, models.RoleRestaurantAdmin)
	employee := testutil.CreateUser(t, models.RoleEmployee)
	ownerToken := testutil.AccessToken(t, owner)

	resp := testutil.DoJSON(t, app, http.MethodPost, "/api/restaurants", ownerToken,
		restaurant.CreateRestaurantRequest{Name: "Audited"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Restaurant create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/audit-logs?entity_type=restaurant", ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Audit list status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var logs []audit.AuditLogResponse
	testutil.DecodeJSON(t, resp, &logs)
	if len(logs) != 1 {
		t.Fatalf("Audit log entries = %d, want 1", len(logs))
	}
	if logs[0].Action != models.AuditActionCreate || logs[0].UserID != owner.ID {
		t.Errorf("Audit entry = %+v, want create action by user %d", logs[0], owner.ID)
	}

	// Employees may not read the audit trail.
	resp = testutil.DoJSON(t, app, http.MethodGet, "/api/audit-logs", testutil.AccessToken(t, employee), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Employee audit list status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}
