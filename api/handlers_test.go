package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/caffeinepub/sprint-lane-7/store"
)

const (
	alice = "auth0|alice"
	bob   = "auth0|bob"
)

// mockAuth treats the bearer token itself as the principal, so tests can act
// as any user without minting JWTs.
type mockAuth struct{}

func (mockAuth) UserIDFromAuthHeader(h string) (string, error) {
	if h == "" {
		return "", errMissingAuthorization
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

func newTestServer(t *testing.T) (*echo.Echo, *store.Store) {
	t.Helper()
	e := echo.New()
	logger, _ := test.NewNullLogger()
	st := store.New()
	Register(e, st, mockAuth{}, logger)
	return e, st
}

func doJSON(e *echo.Echo, method, path, principal, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if principal != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+principal)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := sonic.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateAndGetBoard(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Sprint 1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create board: status %d, body %s", rec.Code, rec.Body.String())
	}
	var created idResponse
	decodeResponse(t, rec, &created)
	if created.ID != 1 {
		t.Fatalf("board id = %d, want 1", created.ID)
	}

	rec = doJSON(e, http.MethodGet, "/api/boards/1", alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get board: status %d, body %s", rec.Code, rec.Body.String())
	}
	var detail store.BoardDetail
	decodeResponse(t, rec, &detail)
	if detail.Board.Name != "Sprint 1" {
		t.Fatalf("board name = %q", detail.Board.Name)
	}
	if len(detail.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(detail.Columns))
	}
	if len(detail.Members) != 1 || detail.Members[0].UserID != alice {
		t.Fatalf("members = %+v", detail.Members)
	}
}

func TestAnonymousRequestsRejected(t *testing.T) {
	e, _ := newTestServer(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/boards"},
		{http.MethodGet, "/api/boards"},
		{http.MethodGet, "/api/boards/1"},
		{http.MethodDelete, "/api/boards/1"},
		{http.MethodPost, "/api/columns/1/cards"},
		{http.MethodPut, "/api/profile"},
		{http.MethodGet, "/api/users/lookup"},
		{http.MethodPost, "/api/invites/AAAA-AAAA/join"},
	}
	for _, r := range routes {
		rec := doJSON(e, r.method, r.path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status %d, want 401", r.method, r.path, rec.Code)
		}
	}

	if rec := doJSON(e, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz: status %d, want 200", rec.Code)
	}
}

func TestPublicInviteLookup(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)
	rec := doJSON(e, http.MethodPost, "/api/boards/1/invites", alice, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate invite: status %d", rec.Code)
	}
	var invite codeResponse
	decodeResponse(t, rec, &invite)

	rec = doJSON(e, http.MethodGet, "/api/invites/"+invite.InviteCode, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup invite: status %d, body %s", rec.Code, rec.Body.String())
	}
	var details store.InviteDetails
	decodeResponse(t, rec, &details)
	if details.BoardName != "Team" || details.MemberCount != 1 {
		t.Fatalf("details = %+v", details)
	}

	if rec := doJSON(e, http.MethodGet, "/api/invites/ZZZZ-2222", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown invite: status %d, want 404", rec.Code)
	}
}

func TestJoinFlowOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)
	rec := doJSON(e, http.MethodPost, "/api/boards/1/invites", alice, "")
	var invite codeResponse
	decodeResponse(t, rec, &invite)

	rec = doJSON(e, http.MethodPost, "/api/invites/"+invite.InviteCode+"/join", bob, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("join: status %d, body %s", rec.Code, rec.Body.String())
	}
	var joined boardIDResponse
	decodeResponse(t, rec, &joined)
	if joined.BoardID != 1 {
		t.Fatalf("joined board %d, want 1", joined.BoardID)
	}

	// The code is single-use.
	rec = doJSON(e, http.MethodPost, "/api/invites/"+invite.InviteCode+"/join", "auth0|carol", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("reused code: status %d, want 404", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	e, _ := newTestServer(t)
	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)

	cases := []struct {
		name      string
		method    string
		path      string
		principal string
		body      string
		want      int
	}{
		{"missing board", http.MethodGet, "/api/boards/999", alice, "", http.StatusNotFound},
		{"non-member", http.MethodGet, "/api/boards/1", bob, "", http.StatusForbidden},
		{"blank name", http.MethodPost, "/api/boards", alice, `{"name":"   "}`, http.StatusBadRequest},
		{"malformed id", http.MethodGet, "/api/boards/abc", alice, "", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/boards", alice, `{"name":"x","bogus":1}`, http.StatusBadRequest},
		{"delete as member", http.MethodDelete, "/api/boards/1", bob, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := doJSON(e, tc.method, tc.path, tc.principal, tc.body)
		if rec.Code != tc.want {
			t.Errorf("%s: status %d, want %d (body %s)", tc.name, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestProfileConflictIs409(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPut, "/api/profile", alice, `{"username":"alice","email":"alice@example.com"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("set profile: status %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodPut, "/api/profile", bob, `{"username":"Alice","email":"bob@example.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate username: status %d, want 409", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/users/lookup?q=alice", bob, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("lookup: status %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/users/"+alice, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("public profile: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCardLifecycleOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)

	rec := doJSON(e, http.MethodPost, "/api/columns/1/cards", alice, `{"title":"First"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create card: status %d, body %s", rec.Code, rec.Body.String())
	}
	doJSON(e, http.MethodPost, "/api/columns/1/cards", alice, `{"title":"Second"}`)

	rec = doJSON(e, http.MethodPost, "/api/cards/1/move", alice, `{"columnId":2,"position":0}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("move card: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPatch, "/api/cards/2", alice, `{"description":"details"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update card: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/boards/1", alice, "")
	var detail store.BoardDetail
	decodeResponse(t, rec, &detail)
	if len(detail.Columns[0].Cards) != 1 || detail.Columns[0].Cards[0].Title != "Second" {
		t.Fatalf("column 1 cards = %+v", detail.Columns[0].Cards)
	}
	if len(detail.Columns[1].Cards) != 1 || detail.Columns[1].Cards[0].Title != "First" {
		t.Fatalf("column 2 cards = %+v", detail.Columns[1].Cards)
	}

	rec = doJSON(e, http.MethodDelete, "/api/cards/2", alice, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete card: status %d", rec.Code)
	}
}

func TestMemberManagementOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)

	rec := doJSON(e, http.MethodPost, "/api/boards/1/members", alice, `{"userId":"auth0|bob"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("invite member: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/boards/1/members", bob, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list members: status %d", rec.Code)
	}

	// Only the owner may remove members.
	rec = doJSON(e, http.MethodDelete, "/api/boards/1/members/"+alice, bob, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("remove by member: status %d, want 403", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/api/boards/1/members/"+bob, alice, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove member: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestExportBoardCSVOverHTTP(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/api/boards", alice, `{"name":"Team"}`)
	doJSON(e, http.MethodPost, "/api/columns/1/cards", alice, `{"title":"=HYPERLINK(\"x\")"}`)

	rec := doJSON(e, http.MethodGet, "/api/boards/1/export.csv", alice, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), `"'=HYPERLINK`) {
		t.Fatalf("formula not neutralized: %s", rec.Body.String())
	}

	if rec := doJSON(e, http.MethodGet, "/api/boards/1/export.csv", bob, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("export by non-member: status %d, want 403", rec.Code)
	}
}
