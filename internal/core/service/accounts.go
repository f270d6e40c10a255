package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"github.com/yndnr/teataster-go/internal/core/domain"
	"github.com/yndnr/teataster-go/pkg/cmap"
	"github.com/yndnr/teataster-go/pkg/token"
)

// HashParams are the argon2id parameters for new password hashes.
type HashParams struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultHashParams returns the standard password hashing cost.
func DefaultHashParams() HashParams {
	return HashParams{Time: 2, MemoryKiB: 16384, Threads: 2, KeyLen: 32}
}

// AccountConfig configures an AccountService.
type AccountConfig struct {
	// LoginRate limits login attempts per email, per second. Zero disables
	// the limit.
	LoginRate int

	Hash HashParams
}

// DefaultAccountConfig returns the default configuration.
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{LoginRate: 5, Hash: DefaultHashParams()}
}

type account struct {
	user         domain.User
	passwordHash string
}

// AccountService holds the user accounts and the tokens issued to them.
type AccountService struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	byID    map[int]*account
	nextID  int

	// tokens maps a token hash to a user id. Plain tokens are never kept.
	tokens *cmap.Map[int]

	limiters  *RateLimiterRegistry
	loginRate int
	params    HashParams
}

// NewAccountService creates an empty AccountService.
func NewAccountService(cfg AccountConfig) *AccountService {
	if cfg.Hash == (HashParams{}) {
		cfg.Hash = DefaultHashParams()
	}
	return &AccountService{
		byEmail:   make(map[string]*account),
		byID:      make(map[int]*account),
		nextID:    1,
		tokens:    cmap.New[int](),
		limiters:  NewRateLimiterRegistry(),
		loginRate: cfg.LoginRate,
		params:    cfg.Hash,
	}
}

// AddUser registers user with password and returns it with its id. A zero
// id is assigned.
func (s *AccountService) AddUser(user domain.User, password string) (domain.User, error) {
	email := normalizeEmail(user.Email)
	if email == "" || password == "" {
		return domain.User{}, domain.ErrMissingArgument.WithDetails("email and password are required")
	}
	hash, err := hashPassword(password, s.params)
	if err != nil {
		return domain.User{}, domain.ErrInternal.WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return domain.User{}, domain.ErrInvalidArgument.WithDetails("email already registered")
	}
	if user.ID == 0 {
		user.ID = s.nextID
	}
	if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	acc := &account{user: user, passwordHash: hash}
	s.byEmail[email] = acc
	s.byID[user.ID] = acc
	return user, nil
}

// Login checks the credentials and issues a new bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = normalizeEmail(email)
	if s.loginRate > 0 && !s.limiters.GetOrCreate(email, s.loginRate).Allow() {
		return "", domain.User{}, domain.ErrRateLimited.WithDetails("too many login attempts")
	}

	s.mu.RLock()
	acc, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok || !verifyPassword(password, acc.passwordHash) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	tok, err := token.Generate()
	if err != nil {
		return "", domain.User{}, domain.ErrInternal.WithCause(err)
	}
	s.tokens.Set(token.Hash(tok), acc.user.ID)
	return tok, acc.user, nil
}

// Authenticate returns the user a token was issued to.
func (s *AccountService) Authenticate(ctx context.Context, tok string) (domain.User, error) {
	if !token.WellFormed(tok) {
		return domain.User{}, domain.ErrUnauthenticated
	}
	id, ok := s.tokens.Get(token.Hash(tok))
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return acc.user, nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, tok string) {
	s.tokens.Delete(token.Hash(tok))
}

// ActiveTokens returns the number of issued, unrevoked tokens.
func (s *AccountService) ActiveTokens() int {
	return s.tokens.Count()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// hashPassword returns an encoded argon2id hash:
// $argon2id$v=19$m=<KiB>,t=<time>,p=<threads>$<salt>$<hash>
func hashPassword(password string, p HashParams) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// verifyPassword checks password against a hash from hashPassword, using
// the parameters recorded in the hash.
func verifyPassword(password, hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var p HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// RateLimiterRegistry hands out one token bucket per key.
type RateLimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiterRegistry creates an empty registry.
func NewRateLimiterRegistry() *RateLimiterRegistry {
	return &RateLimiterRegistry{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetOrCreate returns the limiter for key, creating it with perSecond
// events per second and an equal burst.
func (r *RateLimiterRegistry) GetOrCreate(key string, perSecond int) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[key]
	r.mu.RUnlock()
	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if limiter, exists := r.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	r.limiters[key] = limiter
	return limiter
}

// Delete removes the limiter for key.
func (r *RateLimiterRegistry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.limiters, key)
}
