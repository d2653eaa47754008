package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/feedback/api"
	"github.com/garnizeh/feedback/internal/models"
)

func TestManagerEmployeeScenario(t *testing.T) {
	ts := newTestServer(t)
	jane := ts.login(t, "manager_jane")
	alice := ts.login(t, "employee_alice")
	aliceID := ts.user(t, "employee_alice").ID

	// manager dashboard reflects the fixture
	w := ts.do(t, http.MethodGet, "/dashboard", jane, nil)
	expectStatus(t, w, http.StatusOK)
	var md models.ManagerDashboard
	decode(t, w, &md)
	if md.TeamName != "Alpha Team" || md.FeedbackCount != 2 || len(md.TeamMembers) != 2 {
		t.Fatalf("unexpected manager dashboard %#v", md)
	}

	// manager gives feedback to a team member
	w = ts.do(t, http.MethodPost, "/feedback", jane, map[string]any{
		"employee_id":      aliceID,
		"strengths":        "Clear written updates",
		"areas_to_improve": "Speak up in planning",
		"sentiment":        "negative",
	})
	expectStatus(t, w, http.StatusCreated)
	var created models.Feedback
	decode(t, w, &created)
	if created.ID == 0 || created.Acknowledged || created.RecipientID != aliceID || created.AuthorName != "Jane Smith" {
		t.Fatalf("unexpected created feedback %#v", created)
	}

	w = ts.do(t, http.MethodGet, "/dashboard", jane, nil)
	decode(t, w, &md)
	if md.FeedbackCount != 3 || md.SentimentTrends[models.SentimentNegative] != 1 {
		t.Fatalf("dashboard not updated: %#v", md)
	}
	var sum int64
	for _, n := range md.SentimentTrends {
		sum += n
	}
	if sum != md.FeedbackCount {
		t.Fatalf("trends sum %d != feedback_count %d", sum, md.FeedbackCount)
	}

	// employee sees it first on the timeline
	w = ts.do(t, http.MethodGet, "/dashboard", alice, nil)
	expectStatus(t, w, http.StatusOK)
	var ed models.EmployeeDashboard
	decode(t, w, &ed)
	if len(ed.FeedbackTimeline) != 2 || ed.FeedbackTimeline[0].ID != created.ID {
		t.Fatalf("unexpected timeline %#v", ed.FeedbackTimeline)
	}

	// acknowledging is idempotent
	ackPath := fmt.Sprintf("/feedback/acknowledge/%d", created.ID)
	for i := 0; i < 2; i++ {
		w = ts.do(t, http.MethodPut, ackPath, alice, nil)
		expectStatus(t, w, http.StatusOK)
		var acked models.Feedback
		decode(t, w, &acked)
		if !acked.Acknowledged {
			t.Fatalf("attempt %d: expected acknowledged record", i+1)
		}
	}

	// only the author edits; immutable fields survive
	updatePath := fmt.Sprintf("/feedback/%d", created.ID)
	expectStatus(t, ts.do(t, http.MethodPut, updatePath, alice, map[string]string{"strengths": "mine"}), http.StatusForbidden)

	w = ts.do(t, http.MethodPut, updatePath, jane, map[string]string{"strengths": "Very clear written updates"})
	expectStatus(t, w, http.StatusOK)
	var updated models.Feedback
	decode(t, w, &updated)
	if updated.Strengths != "Very clear written updates" || updated.AreasToImprove != created.AreasToImprove {
		t.Fatalf("unexpected update result %#v", updated)
	}
	if !updated.Acknowledged || updated.AuthorID != created.AuthorID || updated.RecipientID != created.RecipientID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("immutable fields changed: %#v", updated)
	}
}

func TestFeedbackErrors(t *testing.T) {
	ts := newTestServer(t)
	jane := ts.login(t, "manager_jane")
	doe := ts.login(t, "manager_doe")
	alice := ts.login(t, "employee_alice")
	aliceID := ts.user(t, "employee_alice").ID
	charlieID := ts.user(t, "employee_charlie").ID

	body := func(id int64) map[string]any {
		return map[string]any{"employee_id": id, "strengths": "s", "areas_to_improve": "a", "sentiment": "neutral"}
	}

	w := ts.do(t, http.MethodPost, "/feedback", jane, body(aliceID))
	expectStatus(t, w, http.StatusCreated)
	var f models.Feedback
	decode(t, w, &f)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
		wantCode   api.ErrorCode
	}{
		{name: "CrossTeamCreate", method: http.MethodPost, path: "/feedback", token: jane, body: body(charlieID), wantStatus: http.StatusForbidden, wantCode: api.CodeForbidden},
		{name: "EmployeeCreate", method: http.MethodPost, path: "/feedback", token: alice, body: body(aliceID), wantStatus: http.StatusForbidden, wantCode: api.CodeForbidden},
		{name: "UnknownRecipient", method: http.MethodPost, path: "/feedback", token: jane, body: body(99999), wantStatus: http.StatusNotFound, wantCode: api.CodeNotFound},
		{name: "MissingFields", method: http.MethodPost, path: "/feedback", token: jane, body: map[string]any{"employee_id": aliceID}, wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{name: "BadSentiment", method: http.MethodPost, path: "/feedback", token: jane, body: map[string]any{"employee_id": aliceID, "strengths": "s", "areas_to_improve": "a", "sentiment": "great"}, wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{name: "BlankStrengths", method: http.MethodPost, path: "/feedback", token: jane, body: map[string]any{"employee_id": aliceID, "strengths": "   ", "areas_to_improve": "a", "sentiment": "neutral"}, wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{name: "StringEmployeeID", method: http.MethodPost, path: "/feedback", token: jane, body: map[string]any{"employee_id": "1", "strengths": "s", "areas_to_improve": "a", "sentiment": "neutral"}, wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{name: "OtherManagerUpdate", method: http.MethodPut, path: fmt.Sprintf("/feedback/%d", f.ID), token: doe, body: map[string]string{"strengths": "x"}, wantStatus: http.StatusForbidden, wantCode: api.CodeForbidden},
		{name: "UpdateMissing", method: http.MethodPut, path: "/feedback/99999", token: jane, body: map[string]string{"strengths": "x"}, wantStatus: http.StatusNotFound, wantCode: api.CodeNotFound},
		{name: "UpdateEmptyStrengths", method: http.MethodPut, path: fmt.Sprintf("/feedback/%d", f.ID), token: jane, body: map[string]string{"strengths": ""}, wantStatus: http.StatusBadRequest, wantCode: api.CodeValidation},
		{name: "AcknowledgeByAuthor", method: http.MethodPut, path: fmt.Sprintf("/feedback/acknowledge/%d", f.ID), token: jane, wantStatus: http.StatusForbidden, wantCode: api.CodeForbidden},
		{name: "AcknowledgeMissing", method: http.MethodPut, path: "/feedback/acknowledge/99999", token: alice, wantStatus: http.StatusNotFound, wantCode: api.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.token, tt.body)
			expectStatus(t, w, tt.wantStatus)
			if got := errorBody(t, w); got.Code != tt.wantCode {
				t.Fatalf("want code %s, got %#v", tt.wantCode, got)
			}
		})
	}
}

func TestTeamEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/team", ts.login(t, "manager_doe"), nil)
	expectStatus(t, w, http.StatusOK)
	var members []models.User
	decode(t, w, &members)
	if len(members) != 1 || members[0].Username != "employee_charlie" {
		t.Fatalf("unexpected members %#v", members)
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/team", ts.login(t, "employee_charlie"), nil), http.StatusForbidden)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := ts.store.CreateUser(context.Background(), &models.User{Username: "manager_new", FullName: "New Manager", PasswordHash: string(hash), Role: models.RoleManager}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	newManager := ts.login(t, "manager_new")

	w = ts.do(t, http.MethodGet, "/team", newManager, nil)
	expectStatus(t, w, http.StatusNotFound)

	w = ts.do(t, http.MethodGet, "/dashboard", newManager, nil)
	expectStatus(t, w, http.StatusOK)
	var md models.ManagerDashboard
	decode(t, w, &md)
	if md.TeamName != models.NoTeamName || md.FeedbackCount != 0 || len(md.TeamMembers) != 0 {
		t.Fatalf("unexpected dashboard for manager without team %#v", md)
	}
}

func TestDashboard_UnknownRole(t *testing.T) {
	ts := newTestServer(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := ts.store.CreateUser(context.Background(), &models.User{Username: "auditor", FullName: "Auditor", PasswordHash: string(hash), Role: models.Role("auditor")}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	w := ts.do(t, http.MethodGet, "/dashboard", ts.login(t, "auditor"), nil)
	expectStatus(t, w, http.StatusForbidden)
	if got := errorBody(t, w); got.Code != api.CodeInvalidRole {
		t.Fatalf("unexpected error %#v", got)
	}
}

func TestInternalErrorsAreNotEchoed(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, "manager_jane")
	ts.store.Err = fmt.Errorf("connection reset by peer")

	w := ts.do(t, http.MethodGet, "/dashboard", token, nil)
	expectStatus(t, w, http.StatusInternalServerError)
	if got := errorBody(t, w); got.Code != api.CodeInternal || got.Message != "internal server error" {
		t.Fatalf("unexpected error %#v", got)
	}
}
