package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recetario/internal/common"
	"github.com/dmitrijs2005/recetario/internal/logging"
	"github.com/dmitrijs2005/recetario/internal/tokenx"
)

// StudentChecker answers whether a user has a student record.
type StudentChecker interface {
	IsStudent(ctx context.Context, userID, token string) (bool, error)
}

// SessionStore is the single source of truth for who is logged in. Reads are
// served from memory; every mutation writes through to the metadata
// repository. Safe for concurrent use.
type SessionStore struct {
	repo    metadata.Repository
	checker StudentChecker
	log     logging.Logger
	now     func() time.Time

	// writeMu serializes write-through operations so a background student
	// check cannot persist after a logout has wiped the keys.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session models.Session
	// gen is bumped by Login, Logout and SetStudentStatus; a student check
	// only applies while gen still has the value it started with.
	gen uint64

	wg sync.WaitGroup
}

type SessionOption func(*SessionStore)

func WithSessionLogger(l logging.Logger) SessionOption {
	return func(s *SessionStore) { s.log = l }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) { s.now = now }
}

func NewSessionStore(repo metadata.Repository, checker StudentChecker, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		repo:    repo,
		checker: checker,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns a copy of the in-memory session.
func (s *SessionStore) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token makes the store usable as the HTTP client's token source.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated
}

// Login sets every session field, persists them in one write and starts the
// student-status check in the background. The check never fails the login.
func (s *SessionStore) Login(ctx context.Context, d models.LoginData) error {
	if d.Token == "" || d.UserID == "" {
		return fmt.Errorf("%w: token and user id are required", common.ErrInvalidToken)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	values := map[string][]byte{
		common.KeyLoggedIn:  []byte("true"),
		common.KeyToken:     []byte(d.Token),
		common.KeyUserID:    []byte(d.UserID),
		common.KeyUsername:  []byte(d.Username),
		common.KeyEmail:     []byte(d.Email),
		common.KeyFirstName: []byte(d.FirstName),
		common.KeyLastName:  []byte(d.LastName),
	}
	if err := s.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	// A flag left over from a previous user must not survive.
	if err := s.repo.Delete(ctx, common.KeyIsStudent); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.session = models.Session{
		Authenticated: true,
		UserID:        d.UserID,
		Username:      d.Username,
		Email:         d.Email,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Token:         d.Token,
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.log.Info(ctx, "logged in", "user_id", d.UserID)
	s.startStudentCheck(ctx, gen, d.UserID, d.Token)
	return nil
}

// Logout clears memory and removes every persisted session key. It does not
// call the server.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	userID := s.session.UserID
	s.session = models.Session{}
	s.gen++
	s.mu.Unlock()

	if err := s.repo.DeleteMany(ctx, common.SessionKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.log.Info(ctx, "logged out", "user_id", userID)
	return nil
}

// Restore re-hydrates the session from storage at process start. A session
// is restored only when the logged-in flag, token and user id are all
// present. A JWT whose exp has passed is dropped from storage instead.
// When the student flag was never persisted the check runs again.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	stored := make(map[string]string, len(common.SessionKeys))
	present := make(map[string]bool, len(common.SessionKeys))
	for _, k := range common.SessionKeys {
		v, err := s.repo.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("read %s: %w", k, err)
		}
		if v != nil {
			stored[k] = string(v)
			present[k] = true
		}
	}

	loggedIn, _ := strconv.ParseBool(stored[common.KeyLoggedIn])
	token := stored[common.KeyToken]
	userID := stored[common.KeyUserID]

	if !loggedIn || token == "" || userID == "" {
		s.log.Debug(ctx, "no session to restore")
		return nil
	}

	if tokenx.Expired(token, s.now()) {
		s.log.Info(ctx, "stored token expired, dropping session", "user_id", userID)
		if err := s.repo.DeleteMany(ctx, common.SessionKeys...); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	isStudent, _ := strconv.ParseBool(stored[common.KeyIsStudent])

	s.mu.Lock()
	s.session = models.Session{
		Authenticated: true,
		UserID:        userID,
		Username:      stored[common.KeyUsername],
		Email:         stored[common.KeyEmail],
		FirstName:     stored[common.KeyFirstName],
		LastName:      stored[common.KeyLastName],
		Token:         token,
		IsStudent:     isStudent,
	}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "user_id", userID)

	if !present[common.KeyIsStudent] {
		s.startStudentCheck(ctx, gen, userID, token)
	}
	return nil
}

// SetStudentStatus updates and persists the student flag, e.g. after an
// upgrade-to-student succeeded. A pending background check is superseded.
func (s *SessionStore) SetStudentStatus(ctx context.Context, isStudent bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}
	if err := s.repo.Set(ctx, common.KeyIsStudent, []byte(strconv.FormatBool(isStudent))); err != nil {
		return fmt.Errorf("persist student flag: %w", err)
	}

	s.mu.Lock()
	s.session.IsStudent = isStudent
	s.gen++
	s.mu.Unlock()
	return nil
}

// UpdateProfile writes the non-empty fields of upd through to storage.
func (s *SessionStore) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.IsAuthenticated() {
		return common.ErrNotAuthenticated
	}

	values := map[string][]byte{}
	if upd.Username != "" {
		values[common.KeyUsername] = []byte(upd.Username)
	}
	if upd.Email != "" {
		values[common.KeyEmail] = []byte(upd.Email)
	}
	if upd.FirstName != "" {
		values[common.KeyFirstName] = []byte(upd.FirstName)
	}
	if upd.LastName != "" {
		values[common.KeyLastName] = []byte(upd.LastName)
	}
	if len(values) == 0 {
		return nil
	}
	if err := s.repo.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}

	s.mu.Lock()
	if upd.Username != "" {
		s.session.Username = upd.Username
	}
	if upd.Email != "" {
		s.session.Email = upd.Email
	}
	if upd.FirstName != "" {
		s.session.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		s.session.LastName = upd.LastName
	}
	s.mu.Unlock()
	return nil
}

// Wait blocks until background student checks have finished.
func (s *SessionStore) Wait() {
	s.wg.Wait()
}

func (s *SessionStore) startStudentCheck(ctx context.Context, gen uint64, userID, token string) {
	if s.checker == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		isStudent, err := s.checker.IsStudent(ctx, userID, token)
		if err != nil {
			// Unknown status reads as false but is not persisted, so the
			// next start checks again.
			s.log.Warn(ctx, "student check failed", "user_id", userID, "error", err)
			s.applyStudentCheck(ctx, gen, false, false)
			return
		}
		s.applyStudentCheck(ctx, gen, isStudent, true)
	}()
}

func (s *SessionStore) applyStudentCheck(ctx context.Context, gen uint64, isStudent, persist bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	stale := s.gen != gen || !s.session.Authenticated
	s.mu.RUnlock()
	if stale {
		s.log.Debug(ctx, "discarding stale student check")
		return
	}

	if persist {
		if err := s.repo.Set(ctx, common.KeyIsStudent, []byte(strconv.FormatBool(isStudent))); err != nil {
			s.log.Warn(ctx, "persist student flag failed", "error", err)
		}
	}

	s.mu.Lock()
	s.session.IsStudent = isStudent
	s.mu.Unlock()
}
