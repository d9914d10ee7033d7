package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketdesk/portfolio-api/internal/api/metrics"
	"github.com/marketdesk/portfolio-api/internal/core/domain"
	"github.com/marketdesk/portfolio-api/internal/core/ports"
)

// Password verification for unknown logins runs against this fixed pair so that
// missing accounts and wrong passwords cost the same.
const (
	dummyPassword = "not-a-real-password"
	dummySalt     = "Dummy000"
)

// AccountDeps groups the collaborators of AccountService.
type AccountDeps struct {
	Repo     ports.AccountRepository
	Hasher   ports.PasswordHasher
	Salts    ports.SaltGenerator
	Tokens   ports.TokenIssuer
	Throttle ports.LoginThrottle // optional
	Audit    ports.AuditLog      // optional

	// Partition stores the accounts created by registration and read by login.
	Partition    domain.Partition
	DefaultLevel domain.SecurityLevel
	Log          zerolog.Logger
}

// AccountService implements ports.AccountService.
type AccountService struct {
	repo         ports.AccountRepository
	hasher       ports.PasswordHasher
	salts        ports.SaltGenerator
	tokens       ports.TokenIssuer
	throttle     ports.LoginThrottle
	audit        ports.AuditLog
	partition    domain.Partition
	defaultLevel domain.SecurityLevel
	log          zerolog.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

func NewAccountService(d AccountDeps) *AccountService {
	if d.Throttle == nil {
		d.Throttle = ports.NopThrottle{}
	}
	if d.Audit == nil {
		d.Audit = ports.NopAuditLog{}
	}
	if d.Partition == "" {
		d.Partition = domain.PartitionAuth
	}
	return &AccountService{
		repo:         d.Repo,
		hasher:       d.Hasher,
		salts:        d.Salts,
		tokens:       d.Tokens,
		throttle:     d.Throttle,
		audit:        d.Audit,
		partition:    d.Partition,
		defaultLevel: d.DefaultLevel,
		log:          d.Log,
	}
}

// Register creates an account with the configured default security level.
func (s *AccountService) Register(ctx context.Context, login, password string) (*domain.Account, error) {
	return s.create(ctx, nil, login, password, s.defaultLevel)
}

// RegisterWithLevel creates an account with an explicit level. Admins only.
func (s *AccountService) RegisterWithLevel(ctx context.Context, caller domain.Claims, login, password string, lvl domain.SecurityLevel) (*domain.Account, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if lvl < 0 {
		return nil, fmt.Errorf("%w: security level must not be negative", domain.ErrInvalidInput)
	}
	return s.create(ctx, &caller.ID, login, password, lvl)
}

func (s *AccountService) create(ctx context.Context, actor *int32, login, password string, lvl domain.SecurityLevel) (*domain.Account, error) {
	if login == "" || password == "" {
		return nil, fmt.Errorf("%w: login and password are required", domain.ErrInvalidInput)
	}
	if login != strings.TrimSpace(login) {
		return nil, fmt.Errorf("%w: login must not start or end with whitespace", domain.ErrInvalidInput)
	}

	salt, err := s.salts()
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(ctx, password, salt)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, s.partition, &domain.Account{
		Login:          login,
		HashedPassword: hash,
		Salt:           salt,
		SecurityLvl:    lvl,
	})
	switch {
	case errors.Is(err, domain.ErrLoginUnavailable):
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, err
	case err != nil:
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int32("account_id", created.ID).Str("login", created.Login).Msg("account registered")
	s.record(ctx, domain.AuditEvent{
		Type:      domain.AuditAccountRegistered,
		Login:     created.Login,
		AccountID: created.ID,
		ActorID:   actor,
		Partition: s.partition,
	})
	return created, nil
}

// Authenticate checks the credentials and returns a signed token. An unknown
// login and a wrong password both yield domain.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (string, error) {
	allowed, err := s.throttle.Acquire(ctx, login)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	if !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		s.record(ctx, domain.AuditEvent{Type: domain.AuditLoginThrottled, Login: login, Partition: s.partition})
		return "", domain.ErrTooManyAttempts
	}

	account, err := s.repo.FindByLogin(ctx, s.partition, login)
	if errors.Is(err, domain.ErrAccountNotFound) {
		if err := s.verifyDummy(ctx, password); err != nil {
			s.log.Warn().Err(err).Msg("dummy password verification failed")
		}
		return "", s.failLogin(ctx, login, 0)
	}
	if err != nil {
		s.abortLogin(ctx, login)
		return "", err
	}

	ok, err := s.hasher.Verify(ctx, account.HashedPassword, password, account.Salt)
	if err != nil {
		s.abortLogin(ctx, login)
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", s.failLogin(ctx, login, account.ID)
	}

	token, err := s.tokens.Issue(domain.Claims{ID: account.ID, SecurityLvl: account.SecurityLvl})
	if err != nil {
		s.abortLogin(ctx, login)
		return "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.throttle.Reset(ctx, login); err != nil {
		s.log.Warn().Err(err).Msg("reset login throttle")
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(ctx, domain.AuditEvent{
		Type:      domain.AuditLoginSucceeded,
		Login:     login,
		AccountID: account.ID,
		Partition: s.partition,
	})
	return token, nil
}

// failLogin reports a credential failure. The attempt already counts against
// the throttle.
func (s *AccountService) failLogin(ctx context.Context, login string, accountID int32) error {
	metrics.LoginsTotal.WithLabelValues("invalid").Inc()
	s.record(ctx, domain.AuditEvent{
		Type:      domain.AuditLoginFailed,
		Login:     login,
		AccountID: accountID,
		Partition: s.partition,
	})
	return domain.ErrInvalidCredentials
}

// abortLogin returns the throttle attempt of a login that failed for reasons
// other than the credentials.
func (s *AccountService) abortLogin(ctx context.Context, login string) {
	metrics.LoginsTotal.WithLabelValues("error").Inc()
	if err := s.throttle.Release(ctx, login); err != nil {
		s.log.Warn().Err(err).Msg("release login throttle")
	}
}

// verifyDummy spends one verification on the fixed dummy pair.
func (s *AccountService) verifyDummy(ctx context.Context, password string) error {
	encoded, err := s.dummy(ctx)
	if err != nil {
		return fmt.Errorf("compute dummy hash: %w", err)
	}
	_, err = s.hasher.Verify(ctx, encoded, password, dummySalt)
	return err
}

// dummy returns a hash in the current format, computed on first successful
// use. The computation is detached from the request's cancellation and is
// retried on the next call when it fails.
func (s *AccountService) dummy(ctx context.Context) (string, error) {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash != "" {
		return s.dummyHash, nil
	}
	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword, dummySalt)
	if err != nil {
		return "", err
	}
	s.dummyHash = hash
	return hash, nil
}

// Delete removes an account from the partition routed from the caller's level.
// Admins only.
func (s *AccountService) Delete(ctx context.Context, caller domain.Claims, login string) (*domain.Account, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	p := domain.Route(caller.SecurityLvl)

	deleted, err := s.repo.DeleteByLogin(ctx, p, login)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int32("actor_id", caller.ID).Str("login", deleted.Login).Str("partition", string(p)).Msg("account deleted")
	s.record(ctx, domain.AuditEvent{
		Type:      domain.AuditAccountDeleted,
		Login:     deleted.Login,
		AccountID: deleted.ID,
		ActorID:   &caller.ID,
		Partition: p,
	})
	return deleted, nil
}

// List returns the public view of every account in the caller's partition.
// Admins only.
func (s *AccountService) List(ctx context.Context, caller domain.Claims) ([]domain.Account, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, domain.Route(caller.SecurityLvl))
}

func (s *AccountService) record(ctx context.Context, event domain.AuditEvent) {
	event.At = time.Now().UTC()
	if err := s.audit.Record(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(event.Type)).Msg("failed to record audit event")
	}
}
