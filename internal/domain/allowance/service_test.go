package allowance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"allowance-app-go/internal/domain/ledger"
	"allowance-app-go/pkg/logger"
)

type fakeDueRepo struct {
	due map[string][]Recipient
	err error
}

func (r *fakeDueRepo) ListDue(ctx context.Context, day string) ([]Recipient, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.due[day], nil
}

type fakeAppender struct {
	balances map[string]int64
	appended []ledger.Transaction
	failFor  map[string]error
}

func newFakeAppender() *fakeAppender {
	return &fakeAppender{
		balances: make(map[string]int64),
		failFor:  make(map[string]error),
	}
}

func (a *fakeAppender) Append(ctx context.Context, kidID string, amount int64, description string, attribution ledger.Attribution) (*ledger.Transaction, error) {
	if err := a.failFor[kidID]; err != nil {
		return nil, err
	}
	txn := ledger.Transaction{
		KidID:       kidID,
		Amount:      amount,
		Description: description,
		ParentName:  attribution.Name,
		ParentEmail: attribution.Email,
	}
	a.balances[kidID] += amount
	a.appended = append(a.appended, txn)
	return &txn, nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

// a Monday
var monday = time.Date(2024, 3, 4, 6, 0, 0, 0, time.UTC)

func TestRunCreditsDueKids(t *testing.T) {
	repo := &fakeDueRepo{due: map[string][]Recipient{
		"Monday": {{KidID: "k1", Name: "Alex", Amount: 500}},
	}}
	appender := newFakeAppender()
	service := NewService(repo, appender, testLogger(), nil)

	summary, err := service.Run(context.Background(), monday)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Day != "Monday" || summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if appender.balances["k1"] != 500 {
		t.Fatalf("balance = %d, want 500", appender.balances["k1"])
	}

	txn := appender.appended[0]
	if txn.Description != "Weekly Allowance (Monday)" {
		t.Fatalf("description = %q", txn.Description)
	}
	if txn.ParentName != "System" || txn.ParentEmail != "" {
		t.Fatalf("attribution = %q/%q, want System with no email", txn.ParentName, txn.ParentEmail)
	}
}

func TestRunSkipsOtherDays(t *testing.T) {
	repo := &fakeDueRepo{due: map[string][]Recipient{
		"Friday": {{KidID: "k1", Name: "Alex", Amount: 500}},
	}}
	appender := newFakeAppender()
	service := NewService(repo, appender, testLogger(), nil)

	summary, err := service.Run(context.Background(), monday)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 0 || len(appender.appended) != 0 {
		t.Fatalf("summary = %+v, appended = %d; want nothing credited", summary, len(appender.appended))
	}
}

func TestRunIsNotDeduplicated(t *testing.T) {
	repo := &fakeDueRepo{due: map[string][]Recipient{
		"Monday": {{KidID: "k1", Name: "Alex", Amount: 500}},
	}}
	appender := newFakeAppender()
	service := NewService(repo, appender, testLogger(), nil)
	ctx := context.Background()

	if _, err := service.Run(ctx, monday); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := service.Run(ctx, monday.Add(2*time.Hour)); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	// two same-day triggers credit twice; the scheduler owns once-per-day
	if appender.balances["k1"] != 1000 {
		t.Fatalf("balance = %d, want 1000 after double trigger", appender.balances["k1"])
	}
}

func TestRunContinuesPastFailedCredit(t *testing.T) {
	repo := &fakeDueRepo{due: map[string][]Recipient{
		"Monday": {
			{KidID: "k1", Name: "Alex", Amount: 500},
			{KidID: "k2", Name: "Billie", Amount: 750},
			{KidID: "k3", Name: "Casey", Amount: 250},
		},
	}}
	appender := newFakeAppender()
	appender.failFor["k2"] = errors.New("store unavailable")
	service := NewService(repo, appender, testLogger(), nil)

	summary, err := service.Run(context.Background(), monday)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %+v, want 2 processed, 1 failed", summary)
	}
	if appender.balances["k1"] != 500 || appender.balances["k3"] != 250 {
		t.Fatalf("balances = %+v", appender.balances)
	}
}

func TestRunAbortsOnEnumerationFailure(t *testing.T) {
	repo := &fakeDueRepo{err: errors.New("connection refused")}
	service := NewService(repo, newFakeAppender(), testLogger(), nil)

	_, err := service.Run(context.Background(), monday)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "list due kids") {
		t.Fatalf("err = %v", err)
	}
}

func TestRunSkipsNonPositiveAmounts(t *testing.T) {
	repo := &fakeDueRepo{due: map[string][]Recipient{
		"Monday": {
			{KidID: "k1", Name: "Alex", Amount: 0},
			{KidID: "k2", Name: "Billie", Amount: 500},
		},
	}}
	appender := newFakeAppender()
	service := NewService(repo, appender, testLogger(), nil)

	summary, err := service.Run(context.Background(), monday)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, credited := appender.balances["k1"]; credited {
		t.Fatal("zero-amount kid must not be credited")
	}
}
