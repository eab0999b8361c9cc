package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when registering an address that
	// already has an account.
	ErrEmailTaken = errors.New("devserver: email already registered")

	// ErrBadCredentials is returned on an unknown address or a
	// password mismatch. The two cases are deliberately
	// indistinguishable.
	ErrBadCredentials = errors.New("devserver: bad credentials")

	// ErrUserNotFound is returned by ID lookups for deleted or
	// never-existing users.
	ErrUserNotFound = errors.New("devserver: user not found")
)

// User is a stored account record. PasswordHash is a bcrypt hash;
// TOTPSecret is the base32 key and is only meaningful while
// TwoFactorEnabled is set.
type User struct {
	ID               int64
	Email            string
	Name             string
	PasswordHash     []byte
	IsAdmin          bool
	IsVerified       bool
	TwoFactorEnabled bool
	TOTPSecret       string
}

// UserStore is an in-memory account table guarded by a mutex. Lookup
// methods return copies so callers can never mutate stored state
// without going through a store method.
type UserStore struct {
	mu     sync.Mutex
	byID   map[int64]*User
	byMail map[string]int64
	nextID int64
}

// NewUserStore returns an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		byID:   make(map[int64]*User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new account with a freshly hashed password.
func (s *UserStore) Create(email, name, password string, admin, verified bool) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	email = normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byMail[email]; ok {
		return User{}, ErrEmailTaken
	}

	u := &User{
		ID:           s.nextID,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsAdmin:      admin,
		IsVerified:   verified,
	}
	s.nextID++
	s.byID[u.ID] = u
	s.byMail[email] = u.ID
	return *u, nil
}

// Authenticate checks an email/password pair. Unknown addresses and
// wrong passwords both yield ErrBadCredentials.
func (s *UserStore) Authenticate(email, password string) (User, error) {
	s.mu.Lock()
	id, ok := s.byMail[normalizeEmail(email)]
	var u User
	if ok {
		u = *s.byID[id]
	}
	s.mu.Unlock()

	if !ok {
		// Burn a comparison anyway so timing does not reveal
		// whether the address exists.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("accountflow-dummy"), bcrypt.MinCost)

// ByID returns the user with the given ID.
func (s *UserStore) ByID(id int64) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *u, nil
}

// ByEmail returns the user with the given address.
func (s *UserStore) ByEmail(email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byMail[normalizeEmail(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return *s.byID[id], nil
}

// SetPassword replaces the stored hash for a user.
func (s *UserStore) SetPassword(id int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

// MarkVerified flips the verified flag for an address.
func (s *UserStore) MarkVerified(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byMail[normalizeEmail(email)]
	if !ok {
		return ErrUserNotFound
	}
	s.byID[id].IsVerified = true
	return nil
}

// SetTwoFactor installs or clears the TOTP secret for a user. Disabling
// also wipes the stored secret.
func (s *UserStore) SetTwoFactor(id int64, secret string, enabled bool) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	if enabled {
		u.TOTPSecret = secret
	} else {
		u.TOTPSecret = ""
	}
	u.TwoFactorEnabled = enabled
	return *u, nil
}

// Delete removes a user.
func (s *UserStore) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(s.byMail, u.Email)
	delete(s.byID, id)
	return nil
}

// List returns one page of users ordered by ID, plus the total page
// count for the given page size. Page numbers start at 1; out-of-range
// pages return an empty slice.
func (s *UserStore) List(page, perPage int) ([]User, int) {
	if perPage < 1 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	all := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		all = append(all, *u)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	totalPages := (len(all) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	start := (page - 1) * perPage
	if start >= len(all) {
		return []User{}, totalPages
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], totalPages
}
