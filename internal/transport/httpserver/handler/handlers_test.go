package handler

import (
	"context"
	"io"
	"log/slog"
	"sync"

	kiddomain "allowance-app-go/internal/domain/kid"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	"allowance-app-go/pkg/logger"
)

type fakeKidStore struct {
	mu     sync.Mutex
	kids   map[string]*kiddomain.Kid
	shares map[string][]kiddomain.Share
}

func newFakeKidStore() *fakeKidStore {
	return &fakeKidStore{
		kids:   make(map[string]*kiddomain.Kid),
		shares: make(map[string][]kiddomain.Share),
	}
}

func (s *fakeKidStore) Transaction(ctx context.Context, fn func(kiddomain.Repository) error) error {
	return fn(s)
}

func (s *fakeKidStore) Create(ctx context.Context, k *kiddomain.Kid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *k
	s.kids[k.ID] = &clone
	return nil
}

func (s *fakeKidStore) GetByID(ctx context.Context, kidID string) (*kiddomain.Kid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.kids[kidID]
	if !ok {
		return nil, kiddomain.ErrKidNotFound
	}
	clone := *k
	return &clone, nil
}

func (s *fakeKidStore) GetBySlug(ctx context.Context, slug string) (*kiddomain.Kid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.kids {
		if k.Slug == slug {
			clone := *k
			return &clone, nil
		}
	}
	return nil, kiddomain.ErrKidNotFound
}

func (s *fakeKidStore) ListByOwner(ctx context.Context, ownerID string) ([]kiddomain.Kid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []kiddomain.Kid
	for _, k := range s.kids {
		if k.OwnerID == ownerID {
			result = append(result, *k)
		}
	}
	return result, nil
}

func (s *fakeKidStore) ListSharedWith(ctx context.Context, email string) ([]kiddomain.Kid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []kiddomain.Kid
	for kidID, shares := range s.shares {
		for _, share := range shares {
			if share.Email == email {
				if k, ok := s.kids[kidID]; ok {
					result = append(result, *k)
				}
				break
			}
		}
	}
	return result, nil
}

func (s *fakeKidStore) IsSlugTaken(ctx context.Context, slug, excludeKidID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.kids {
		if k.Slug == slug && k.ID != excludeKidID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeKidStore) UpdateSettings(ctx context.Context, k *kiddomain.Kid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.kids[k.ID]
	if !ok {
		return kiddomain.ErrKidNotFound
	}
	existing.Name = k.Name
	existing.Slug = k.Slug
	existing.WeeklyAllowance = k.WeeklyAllowance
	existing.AllowanceDay = k.AllowanceDay
	return nil
}

func (s *fakeKidStore) SetVisibility(ctx context.Context, kidID string, public bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.kids[kidID]
	if !ok {
		return kiddomain.ErrKidNotFound
	}
	k.Public = public
	return nil
}

func (s *fakeKidStore) ListShares(ctx context.Context, kidID string) ([]kiddomain.Share, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]kiddomain.Share{}, s.shares[kidID]...), nil
}

func (s *fakeKidStore) AddShare(ctx context.Context, share *kiddomain.Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shares[share.KidID] {
		if existing.Email == share.Email {
			return nil
		}
	}
	s.shares[share.KidID] = append(s.shares[share.KidID], *share)
	return nil
}

func (s *fakeKidStore) RemoveShare(ctx context.Context, kidID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shares := s.shares[kidID]
	for i, share := range shares {
		if share.Email == email {
			s.shares[kidID] = append(shares[:i], shares[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeKidStore) Delete(ctx context.Context, kidID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.kids[kidID]; !ok {
		return false, nil
	}
	delete(s.kids, kidID)
	delete(s.shares, kidID)
	return true, nil
}

type fakeLedgerStore struct {
	mu       sync.Mutex
	balances map[string]int64
	txns     map[string]*ledgerdomain.Transaction
}

func newFakeLedgerStore(kidIDs ...string) *fakeLedgerStore {
	store := &fakeLedgerStore{
		balances: make(map[string]int64),
		txns:     make(map[string]*ledgerdomain.Transaction),
	}
	for _, id := range kidIDs {
		store.balances[id] = 0
	}
	return store
}

func (s *fakeLedgerStore) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return fn(s)
}

func (s *fakeLedgerStore) KidExists(ctx context.Context, kidID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.balances[kidID]
	return ok, nil
}

func (s *fakeLedgerStore) Create(ctx context.Context, txn *ledgerdomain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *txn
	s.txns[txn.ID] = &clone
	return nil
}

func (s *fakeLedgerStore) GetByID(ctx context.Context, kidID, txnID string) (*ledgerdomain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[txnID]
	if !ok || txn.KidID != kidID {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	clone := *txn
	return &clone, nil
}

func (s *fakeLedgerStore) Update(ctx context.Context, txn *ledgerdomain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.txns[txn.ID]
	if !ok {
		return ledgerdomain.ErrTransactionNotFound
	}
	existing.Amount = txn.Amount
	existing.Description = txn.Description
	return nil
}

func (s *fakeLedgerStore) Delete(ctx context.Context, kidID, txnID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[txnID]
	if !ok || txn.KidID != kidID {
		return false, nil
	}
	delete(s.txns, txnID)
	return true, nil
}

func (s *fakeLedgerStore) List(ctx context.Context, kidID string, limit, offset int) ([]ledgerdomain.Transaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []ledgerdomain.Transaction
	for _, txn := range s.txns {
		if txn.KidID == kidID {
			all = append(all, *txn)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *fakeLedgerStore) IncrementBalance(ctx context.Context, kidID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[kidID] += delta
	return nil
}

func (s *fakeLedgerStore) SumAmounts(ctx context.Context, kidID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, txn := range s.txns {
		if txn.KidID == kidID {
			sum += txn.Amount
		}
	}
	return sum, nil
}

func (s *fakeLedgerStore) SetBalance(ctx context.Context, kidID string, balance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[kidID] = balance
	return nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func newTestHandlers(kidStore *fakeKidStore, ledgerStore *fakeLedgerStore) *Handlers {
	return New(
		kiddomain.NewService(kidStore),
		ledgerdomain.NewService(ledgerStore),
		nil,
		nil,
		nil,
		nil,
		Config{},
		testLogger(),
		nil,
	)
}
