package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	kiddomain "allowance-app-go/internal/domain/kid"
	"allowance-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	testOwnerID    = "11111111-1111-1111-1111-111111111111"
	testStrangerID = "22222222-2222-2222-2222-222222222222"
)

func newPublicTestRouter(t *testing.T) (chi.Router, *fakeKidStore) {
	t.Helper()

	kidStore := newFakeKidStore()
	kidStore.kids["private-kid"] = &kiddomain.Kid{
		ID: "private-kid", Name: "Alex", Slug: "alex", OwnerID: testOwnerID, Public: false, Balance: 1200,
	}
	kidStore.kids["public-kid"] = &kiddomain.Kid{
		ID: "public-kid", Name: "Billie", Slug: "billie", OwnerID: testOwnerID, Public: true, Balance: 500,
	}

	handlers := newTestHandlers(kidStore, newFakeLedgerStore("private-kid", "public-kid"))

	r := chi.NewRouter()
	r.Get("/api/public/kids/{slug}", handlers.GetKidBySlug)
	return r, kidStore
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return envelope.Error.Code
}

func TestGetKidBySlugAccess(t *testing.T) {
	cases := []struct {
		name       string
		slug       string
		user       *middleware.User
		wantStatus int
		wantCode   string
	}{
		{
			name:       "anonymous private kid signals sign in",
			slug:       "alex",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "sign_in_required",
		},
		{
			name:       "authenticated stranger private kid forbidden",
			slug:       "alex",
			user:       &middleware.User{ID: testStrangerID, Email: "stranger@example.com"},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "unknown slug not found",
			slug:       "nobody",
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "anonymous public kid readable",
			slug:       "billie",
			wantStatus: http.StatusOK,
		},
		{
			name:       "owner private kid readable",
			slug:       "alex",
			user:       &middleware.User{ID: testOwnerID, Email: "owner@example.com"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, _ := newPublicTestRouter(t)

			req := httptest.NewRequest(http.MethodGet, "/api/public/kids/"+tc.slug, nil)
			if tc.user != nil {
				req = req.WithContext(middleware.WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantCode != "" {
				if got := decodeErrorCode(t, rec.Body.Bytes()); got != tc.wantCode {
					t.Fatalf("error code = %q, want %q", got, tc.wantCode)
				}
			}
		})
	}
}

func TestGetKidBySlugPublicPayload(t *testing.T) {
	router, _ := newPublicTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/kids/billie", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var payload publicKidResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Kid.Slug != "billie" || payload.Kid.Balance != "5.00" {
		t.Fatalf("kid = %+v", payload.Kid)
	}
	if payload.Kid.Role != "public_viewer" {
		t.Fatalf("role = %q, want public_viewer", payload.Kid.Role)
	}
	if len(payload.Kid.SharedWith) != 0 {
		t.Fatal("public view must not expose the shared-with list")
	}
}
