// Package services – PurchaseService
//
// This file implements PurchaseService, the application-level component that
// owns the purchase submission workflow and the rolling-window cashback
// recompute. Submission validates the order code and amount, canonicalizes
// and cross-checks the CPF against the authenticated seller, rejects
// purchases dated outside the thirty-day window, assigns the review status
// once, and persists the row together with the window recompute in a single
// transaction.
//
// Concurrency: submissions for the same seller are serialized with a
// per-seller lock so that two concurrent saves cannot both recompute against
// a stale window and overwrite each other's percentages. Submissions for
// different sellers proceed in parallel.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// seller identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-cashback-backend/internal/domain"
	"github.com/tbourn/go-cashback-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// windowDays is the size of the rolling cashback window, in calendar days
	// before the reference date.
	windowDays = 30

	// maxCodeLen caps the order-code length.
	maxCodeLen = 6
)

// windowRecomputes counts rolling-window recomputes; rewrites additionally
// tracks how many rows each recompute actually touched.
var (
	windowRecomputes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cashback_window_recomputes_total",
		Help: "Total number of rolling-window cashback recomputes.",
	})
	windowRewrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cashback_window_rewritten_rows_total",
		Help: "Total number of purchase rows rewritten by window recomputes.",
	})
)

func init() {
	prometheus.MustRegister(windowRecomputes, windowRewrites)
}

// PurchaseService coordinates purchase persistence and cashback recomputes.
type PurchaseService struct {
	DB *gorm.DB

	// VIPCPF overrides the always-approved seller CPF; blank uses the
	// built-in default.
	VIPCPF string

	// Now allows tests to pin the clock; nil means time.Now.
	Now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPurchaseService constructs a PurchaseService.
func NewPurchaseService(db *gorm.DB, vipCPF string) *PurchaseService {
	return &PurchaseService{
		DB:     db,
		VIPCPF: vipCPF,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Create runs the purchase submission workflow for the authenticated seller:
// validate, cross-check CPF ownership, reject stale dates, assign the review
// status, persist with a provisional percentage, and recompute the window —
// all inside one transaction, serialized per seller.
func (s *PurchaseService) Create(ctx context.Context, sellerID, code, cpf string, amount decimal.Decimal, date time.Time) (*domain.Purchase, error) {
	tr := otel.Tracer("services/PurchaseService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("seller.id", sellerID),
			attribute.String("purchase.code", code),
		),
	)
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" || len(code) > maxCodeLen {
		return nil, ErrInvalidCode
	}
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	canonical, err := domain.SanitizeCPF(cpf)
	if err != nil {
		return nil, err
	}

	seller, err := repo.GetSeller(ctx, s.DB, sellerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	if seller.CPF != canonical {
		return nil, ErrCPFMismatch
	}

	now := s.now()
	if date.Before(startOfDayUTC(now).AddDate(0, 0, -windowDays)) {
		return nil, ErrStalePurchase
	}

	status := domain.InitialStatus(seller.CPF, s.VIPCPF)

	purchase := &domain.Purchase{
		Code:     code,
		Amount:   amount,
		Date:     date.UTC(),
		SellerID: sellerID,
		Status:   status,
		// Provisional; the window recompute below settles the final value.
		Percentage: domain.TierPercentage(amount),
		UpdatedAt:  now,
	}

	unlock := s.lockSeller(sellerID)
	defer unlock()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreatePurchase(tx, purchase); err != nil {
			return err
		}
		// Anchored at the submission time, not the purchase's own date: a
		// backdated purchase must not drag settled history back into the sum.
		return s.recomputeWindow(tx, sellerID, now)
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	// Reload: the recompute may have rewritten this row's percentage.
	return repo.GetPurchase(s.DB.WithContext(ctx), purchase.ID)
}

// ListPage returns paginated purchases for a seller, most recent first.
func (s *PurchaseService) ListPage(ctx context.Context, sellerID string, page, pageSize int) ([]domain.Purchase, int64, error) {
	tr := otel.Tracer("services/PurchaseService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("seller.id", sellerID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountPurchases(ctx, s.DB, sellerID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Purchase{}, 0, nil
	}

	items, err := repo.ListPurchasesPage(ctx, s.DB, sellerID, offset, pageSize)
	return items, total, err
}

// recomputeWindow rewrites the cashback percentage of every purchase of the
// seller whose date falls within the thirty days before ref (and on ref's
// own day). The tier is derived from the decimal sum of the window amounts;
// only rows whose stored percentage differs are rewritten, in one UPDATE.
func (s *PurchaseService) recomputeWindow(tx *gorm.DB, sellerID string, ref time.Time) error {
	from := startOfDayUTC(ref).AddDate(0, 0, -windowDays)
	to := startOfDayUTC(ref).AddDate(0, 0, 1)

	rows, err := repo.FindPurchasesInWindow(tx, sellerID, from, to)
	if err != nil {
		return err
	}

	sum := decimal.Zero
	for i := range rows {
		sum = sum.Add(rows[i].Amount)
	}
	pct := domain.TierPercentage(sum)

	ids := make([]string, 0, len(rows))
	for i := range rows {
		if !rows[i].Percentage.Equal(pct) {
			ids = append(ids, rows[i].ID)
		}
	}
	if err := repo.UpdatePercentageBulk(tx, ids, pct); err != nil {
		return err
	}
	windowRecomputes.Inc()
	windowRewrites.Add(float64(len(ids)))
	return nil
}

// lockSeller serializes submissions per seller. Locks are never evicted; the
// map is bounded by the number of active sellers.
func (s *PurchaseService) lockSeller(sellerID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[sellerID]
	if !ok {
		l = &sync.Mutex{}
		if s.locks == nil {
			s.locks = make(map[string]*sync.Mutex)
		}
		s.locks[sellerID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *PurchaseService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// startOfDayUTC truncates a timestamp to its UTC calendar day.
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
