package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kiddomain "allowance-app-go/internal/domain/kid"
	"github.com/go-chi/chi/v5"
)

func TestKidEventsStopsWhenMadePrivate(t *testing.T) {
	restorePoll, restoreHeartbeat := eventsPollInterval, eventsHeartbeat
	eventsPollInterval = 10 * time.Millisecond
	eventsHeartbeat = time.Hour
	defer func() {
		eventsPollInterval = restorePoll
		eventsHeartbeat = restoreHeartbeat
	}()

	kidStore := newFakeKidStore()
	kidStore.kids["public-kid"] = &kiddomain.Kid{
		ID: "public-kid", Name: "Billie", Slug: "billie", OwnerID: testOwnerID, Public: true,
	}
	handlers := newTestHandlers(kidStore, newFakeLedgerStore("public-kid"))

	router := chi.NewRouter()
	router.Get("/api/kids/{id}/events", handlers.KidEvents)
	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/kids/public-kid/events")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read initial event: %v", err)
	}
	if !strings.HasPrefix(line, "event: update") {
		t.Fatalf("initial line = %q, want update event", line)
	}

	if err := kidStore.SetVisibility(context.Background(), "public-kid", false); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				done <- nil
				return
			}
			if strings.HasPrefix(line, "event: update") {
				done <- fmt.Errorf("received %q after the kid went private", line)
				return
			}
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not close after access was revoked")
	}
}

func TestKidEventsDeniesPrivateKidToAnonymous(t *testing.T) {
	kidStore := newFakeKidStore()
	kidStore.kids["private-kid"] = &kiddomain.Kid{
		ID: "private-kid", Name: "Alex", Slug: "alex", OwnerID: testOwnerID, Public: false,
	}
	handlers := newTestHandlers(kidStore, newFakeLedgerStore("private-kid"))

	router := chi.NewRouter()
	router.Get("/api/kids/{id}/events", handlers.KidEvents)

	req := httptest.NewRequest(http.MethodGet, "/api/kids/private-kid/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeErrorCode(t, rec.Body.Bytes()); got != "sign_in_required" {
		t.Fatalf("error code = %q, want sign_in_required", got)
	}
}
