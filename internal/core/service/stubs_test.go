package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[domain.Partition]map[string]domain.Account
	nextID   int32
	findErr  error
	findHits int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[domain.Partition]map[string]domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, p domain.Partition, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	part := r.accounts[p]
	if part == nil {
		part = make(map[string]domain.Account)
		r.accounts[p] = part
	}
	if _, exists := part[a.Login]; exists {
		return nil, domain.ErrLoginUnavailable
	}
	r.nextID++
	stored := *a
	stored.ID = r.nextID
	part[a.Login] = stored
	return &domain.Account{ID: stored.ID, Login: stored.Login, SecurityLvl: stored.SecurityLvl}, nil
}

func (r *stubAccountRepo) FindByLogin(_ context.Context, p domain.Partition, login string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.findHits++
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.accounts[p][login]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r *stubAccountRepo) DeleteByLogin(_ context.Context, p domain.Partition, login string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[p][login]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	delete(r.accounts[p], login)
	return &domain.Account{ID: a.ID, Login: a.Login, SecurityLvl: a.SecurityLvl}, nil
}

func (r *stubAccountRepo) List(_ context.Context, p domain.Partition) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Account, 0, len(r.accounts[p]))
	for _, a := range r.accounts[p] {
		out = append(out, domain.Account{ID: a.ID, Login: a.Login, SecurityLvl: a.SecurityLvl})
	}
	return out, nil
}

func (r *stubAccountRepo) stored(p domain.Partition, login string) (domain.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[p][login]
	return a, ok
}

// stubHasher is a transparent, non-cryptographic hasher.
// Both methods honour cancellation the way the hashing pool does.
type stubHasher struct {
	mu          sync.Mutex
	hashes      int
	verifies    int
	lastEncoded string
	hashErr     error
	verifyErr   error
}

func (h *stubHasher) Hash(ctx context.Context, password, salt string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if h.hashErr != nil {
		return "", h.hashErr
	}
	h.hashes++
	return "hashed:" + salt + ":" + password, nil
}

func (h *stubHasher) Verify(ctx context.Context, encoded, password, salt string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.lastEncoded = encoded
	h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return encoded == "hashed:"+salt+":"+password, nil
}

func (h *stubHasher) setHashErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hashErr = err
}

func (h *stubHasher) lastVerified() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastEncoded
}

func (h *stubHasher) verifyCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.verifies
}

func sequentialSalts() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("Salt%04d", n), nil
	}
}

type stubTokens struct {
	issued []domain.Claims
}

func (t *stubTokens) Issue(c domain.Claims) (string, error) {
	t.issued = append(t.issued, c)
	return fmt.Sprintf("token-%d-%d", c.ID, c.SecurityLvl), nil
}

func (t *stubTokens) Verify(string) (domain.Claims, error) {
	return domain.Claims{}, domain.ErrInvalidToken
}

// stubThrottle counts attempts per login and allows up to limit of them.
// A zero limit never blocks.
type stubThrottle struct {
	mu         sync.Mutex
	limit      int
	acquireErr error
	attempts   map[string]int
	releases   map[string]int
	resets     map[string]int
}

func newStubThrottle() *stubThrottle {
	return &stubThrottle{
		attempts: make(map[string]int),
		releases: make(map[string]int),
		resets:   make(map[string]int),
	}
}

func (t *stubThrottle) Acquire(_ context.Context, login string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.acquireErr != nil {
		return true, t.acquireErr
	}
	t.attempts[login]++
	return t.limit == 0 || t.attempts[login] <= t.limit, nil
}

func (t *stubThrottle) Release(_ context.Context, login string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts[login]--
	t.releases[login]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, login string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, login)
	t.resets[login]++
	return nil
}

func (t *stubThrottle) attemptsFor(login string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts[login]
}

type stubAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (a *stubAudit) Record(_ context.Context, e domain.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, e)
	return nil
}

func (a *stubAudit) types() []domain.AuditEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

var errStore = errors.New("connection refused")
