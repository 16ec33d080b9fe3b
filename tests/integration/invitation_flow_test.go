package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// sendInvitation invites an email to a household and returns the invitation ID.
func (app *testApp) sendInvitation(t *testing.T, token, householdID, email, role string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"role":%q}`, email, role)
	rec := app.request("POST", "/api/v1/households/"+householdID+"/invitations", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("send invitation failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	invitation := result["invitation"].(map[string]interface{})
	return invitation["id"].(string)
}

func TestInvitationFlow_InviteExistingUserAccept(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "owner@test.com", "password123")
	inviteeToken, inviteeID := app.registerUser(t, "invitee@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Shared Home")

	invitationID := app.sendInvitation(t, ownerToken, householdID, "invitee@test.com", "manager")

	// The invitee got a notification
	rec := app.request("GET", "/api/v1/notifications/unread-count", "", inviteeToken)
	result := parseJSON(t, rec)
	if result["count"].(float64) != 1 {
		t.Errorf("expected 1 unread notification, got %v", result["count"])
	}

	// The invitee sees the pending invitation
	rec = app.request("GET", "/api/v1/invitations/pending", "", inviteeToken)
	result = parseJSON(t, rec)
	pending := result["invitations"].([]interface{})
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending invitation, got %d", len(pending))
	}

	// Accept
	rec = app.request("POST", "/api/v1/invitations/"+invitationID+"/accept", "", inviteeToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept failed: %d %s", rec.Code, rec.Body.String())
	}

	// The invitee is now a manager
	rec = app.request("GET", "/api/v1/households/"+householdID+"/members/me", "", inviteeToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected membership, got %d: %s", rec.Code, rec.Body.String())
	}
	result = parseJSON(t, rec)
	member := result["member"].(map[string]interface{})
	if member["role"] != "manager" {
		t.Errorf("expected manager role, got %v", member["role"])
	}
	if member["user_id"] != inviteeID {
		t.Errorf("expected membership for invitee, got %v", member["user_id"])
	}

	// Accepting again fails: the invitation is resolved
	rec = app.request("POST", "/api/v1/invitations/"+invitationID+"/accept", "", inviteeToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second accept, got %d", rec.Code)
	}
}

func TestInvitationFlow_RegisterAfterInvite(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "early@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Future Home")

	// Invite an email that has no account yet
	invitationID := app.sendInvitation(t, ownerToken, householdID, "late@test.com", "member")

	// The invitee registers afterwards and still sees the invitation
	lateToken, _ := app.registerUser(t, "late@test.com", "password123")

	rec := app.request("GET", "/api/v1/invitations/pending", "", lateToken)
	result := parseJSON(t, rec)
	pending := result["invitations"].([]interface{})
	if len(pending) != 1 {
		t.Fatalf("expected invitation matched by email, got %d", len(pending))
	}

	rec = app.request("POST", "/api/v1/invitations/"+invitationID+"/accept", "", lateToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/households", "", lateToken)
	result = parseJSON(t, rec)
	households := result["households"].([]interface{})
	if len(households) != 1 {
		t.Errorf("expected 1 household after accepting, got %d", len(households))
	}
}

func TestInvitationFlow_DuplicatePendingRejected(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "dupinv@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Home")

	app.sendInvitation(t, ownerToken, householdID, "twice@test.com", "member")

	rec := app.request("POST", "/api/v1/households/"+householdID+"/invitations",
		`{"email":"twice@test.com","role":"member"}`, ownerToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate pending invitation, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvitationFlow_DeletePending(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "delowner@test.com", "password123")
	inviteeToken, _ := app.registerUser(t, "delinvitee@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Home")

	invitationID := app.sendInvitation(t, ownerToken, householdID, "delinvitee@test.com", "member")

	// Delete works on a pending invitation, no cancel step required
	rec := app.request("DELETE", "/api/v1/invitations/"+invitationID, "", ownerToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting pending invitation, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/invitations/pending", "", inviteeToken)
	result := parseJSON(t, rec)
	if pending := result["invitations"].([]interface{}); len(pending) != 0 {
		t.Errorf("expected no pending invitations after delete, got %d", len(pending))
	}
}

func TestInvitationFlow_RejectAndCancel(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "rejowner@test.com", "password123")
	inviteeToken, _ := app.registerUser(t, "rejinvitee@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Home")

	// Reject
	first := app.sendInvitation(t, ownerToken, householdID, "rejinvitee@test.com", "member")
	rec := app.request("POST", "/api/v1/invitations/"+first+"/reject", "", inviteeToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", rec.Code, rec.Body.String())
	}

	// After rejection a new invitation may be sent, then cancelled by the inviter
	second := app.sendInvitation(t, ownerToken, householdID, "rejinvitee@test.com", "member")
	rec = app.request("POST", "/api/v1/invitations/"+second+"/cancel", "", ownerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", rec.Code, rec.Body.String())
	}

	// A cancelled invitation cannot be accepted
	rec = app.request("POST", "/api/v1/invitations/"+second+"/accept", "", inviteeToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 accepting cancelled invitation, got %d", rec.Code)
	}

	// The invitee never became a member
	rec = app.request("GET", "/api/v1/households/"+householdID+"/members/me", "", inviteeToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", rec.Code)
	}
}

func TestInvitationFlow_MemberCannotInvite(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "capowner@test.com", "password123")
	memberToken, _ := app.registerUser(t, "capmember@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Home")

	invitationID := app.sendInvitation(t, ownerToken, householdID, "capmember@test.com", "member")
	rec := app.request("POST", "/api/v1/invitations/"+invitationID+"/accept", "", memberToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept failed: %d %s", rec.Code, rec.Body.String())
	}

	// A plain member may not send invitations
	rec = app.request("POST", "/api/v1/households/"+householdID+"/invitations",
		`{"email":"someone@test.com","role":"member"}`, memberToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member inviting, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInvitationFlow_MaintenancePurge(t *testing.T) {
	app := setupApp(t)

	ownerToken, _ := app.registerUser(t, "purgeowner@test.com", "password123")
	inviteeToken, _ := app.registerUser(t, "purgeinvitee@test.com", "password123")
	householdID := app.createHousehold(t, ownerToken, "Home")

	rejected := app.sendInvitation(t, ownerToken, householdID, "purgeinvitee@test.com", "member")
	rec := app.request("POST", "/api/v1/invitations/"+rejected+"/reject", "", inviteeToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", rec.Code, rec.Body.String())
	}
	app.sendInvitation(t, ownerToken, householdID, "stillpending@test.com", "member")

	// No key, wrong key
	rec = app.request("POST", "/api/v1/internal/maintenance/purge-invitations", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}
	rec = app.requestWithAPIKey("POST", "/api/v1/internal/maintenance/purge-invitations", "wrong-key")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong API key, got %d", rec.Code)
	}

	// Purge everything terminal regardless of age
	rec = app.requestWithAPIKey("POST", "/api/v1/internal/maintenance/purge-invitations?older_than_days=0", "test-service-key")
	if rec.Code != http.StatusOK {
		t.Fatalf("purge failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["removed"].(float64) != 1 {
		t.Errorf("expected 1 purged invitation, got %v", result["removed"])
	}

	// The pending invitation survived
	rec = app.request("GET", "/api/v1/households/"+householdID+"/invitations", "", ownerToken)
	result = parseJSON(t, rec)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected 1 remaining invitation, got %v", result["total_items"])
	}
}
