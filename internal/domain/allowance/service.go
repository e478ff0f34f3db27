// Package allowance implements the recurring weekly-allowance job. Credits
// go through the ledger service, the same path as manual transactions.
package allowance

import (
	"context"
	"fmt"
	"time"

	"allowance-app-go/internal/domain/ledger"
	"allowance-app-go/pkg/logger"
	"allowance-app-go/pkg/money"
)

// Recipient is one kid due an allowance credit. Amount is cents.
type Recipient struct {
	KidID  string
	Name   string
	Amount int64
}

type Repository interface {
	// ListDue returns kids whose allowance day matches the given weekday
	// name and whose weekly allowance is strictly positive.
	ListDue(ctx context.Context, day string) ([]Recipient, error)
}

// Appender is the slice of the ledger service the job needs.
type Appender interface {
	Append(ctx context.Context, kidID string, amount int64, description string, attribution ledger.Attribution) (*ledger.Transaction, error)
}

type Metrics interface {
	AllowanceProcessed()
	AllowanceFailed()
}

type noopMetrics struct{}

func (noopMetrics) AllowanceProcessed() {}
func (noopMetrics) AllowanceFailed()    {}

type Summary struct {
	Day       string `json:"day"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
}

type Service struct {
	repo    Repository
	ledger  Appender
	log     logger.Logger
	metrics Metrics
}

func NewService(repo Repository, appender Appender, log logger.Logger, metrics Metrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:    repo,
		ledger:  appender,
		log:     log,
		metrics: metrics,
	}
}

// Run processes every kid due an allowance on the weekday of now. Each credit
// is applied independently: a failure is counted and the run continues. Only
// a failure of the enumeration query aborts the run. The job carries no
// same-day dedup guard; the external scheduler is expected to trigger it at
// most once per calendar day.
func (s *Service) Run(ctx context.Context, now time.Time) (Summary, error) {
	day := now.Weekday().String()
	s.log.Info("allowance: run started", "day", day)

	recipients, err := s.repo.ListDue(ctx, day)
	if err != nil {
		return Summary{Day: day}, fmt.Errorf("list due kids: %w", err)
	}

	summary := Summary{Day: day}
	description := fmt.Sprintf("Weekly Allowance (%s)", day)

	for _, recipient := range recipients {
		if recipient.Amount <= 0 {
			continue
		}

		_, err := s.ledger.Append(ctx, recipient.KidID, recipient.Amount, description, ledger.SystemAttribution)
		if err != nil {
			summary.Failed++
			s.metrics.AllowanceFailed()
			s.log.InternalError("allowance: credit failed", err, "kid_id", recipient.KidID, "kid_name", recipient.Name)
			continue
		}

		summary.Processed++
		s.metrics.AllowanceProcessed()
		s.log.Info("allowance: credited", "kid_id", recipient.KidID, "kid_name", recipient.Name, "amount", money.FormatCents(recipient.Amount))
	}

	s.log.Info("allowance: run finished", "day", day, "processed", summary.Processed, "failed", summary.Failed)
	return summary, nil
}
