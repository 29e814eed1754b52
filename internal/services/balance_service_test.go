package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type stubProvider struct {
	credit decimal.Decimal
	err    error
	gotCPF string
	calls  int
}

func (p *stubProvider) Credit(_ context.Context, cpf string) (decimal.Decimal, error) {
	p.calls++
	p.gotCPF = cpf
	return p.credit, p.err
}

func TestBalance_Success(t *testing.T) {
	db := newSvcDB(t)
	seller := seedSeller(t, db, "bal", testCPF)

	prov := &stubProvider{credit: decimal.RequireFromString("35.23")}
	svc := NewBalanceService(db, prov)

	got, err := svc.Balance(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("35.23")) {
		t.Fatalf("expected 35.23, got %s", got)
	}
	if prov.gotCPF != testCPF {
		t.Fatalf("provider called with %q, want %q", prov.gotCPF, testCPF)
	}
}

func TestBalance_SellerNotFound(t *testing.T) {
	svc := NewBalanceService(newSvcDB(t), &stubProvider{})
	if _, err := svc.Balance(context.Background(), "missing"); err != ErrSellerNotFound {
		t.Fatalf("expected ErrSellerNotFound, got %v", err)
	}
}

func TestBalance_ProviderError(t *testing.T) {
	db := newSvcDB(t)
	seller := seedSeller(t, db, "balerr", testCPF)

	cause := errors.New("boom")
	svc := NewBalanceService(db, &stubProvider{err: cause})

	_, err := svc.Balance(context.Background(), seller.ID)
	if !errors.Is(err, ErrBalanceUnavailable) {
		t.Fatalf("expected ErrBalanceUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
