package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/dmitrijs2005/acadex/internal/metrics"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Snapshot is a consistent copy of the session state. Version grows by one
// with every committed change.
type Snapshot struct {
	Version  uint64
	Loading  bool
	Accounts []models.Account
	Active   *models.Account
}

func (s Snapshot) State() State {
	if s.Active != nil {
		return Authenticated
	}
	return Unauthenticated
}

// DraftResetter discards an in-progress login attempt.
type DraftResetter interface {
	ResetDraft()
}

// SessionManager owns the saved accounts and the active pointer. Every
// mutation is written to the store before it is applied in memory, under a
// single lock, so memory never runs ahead of disk and a failed write leaves
// both untouched.
type SessionManager struct {
	store   accounts.Store
	log     logging.Logger
	metrics metrics.Recorder
	drafts  DraftResetter

	mu       sync.Mutex
	accounts []models.Account
	activeID string
	loading  bool
	version  uint64
	subs     map[int]chan Snapshot
	nextSub  int
}

type SessionOption func(*SessionManager)

func WithSessionMetrics(r metrics.Recorder) SessionOption {
	return func(m *SessionManager) { m.metrics = r }
}

// WithDraftResetter clears the login draft on switch and logout.
func WithDraftResetter(d DraftResetter) SessionOption {
	return func(m *SessionManager) { m.drafts = d }
}

func NewSessionManager(store accounts.Store, log logging.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		store:   store,
		log:     log,
		metrics: metrics.Nop{},
		loading: true,
		subs:    make(map[int]chan Snapshot),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Load reads the saved accounts once. Read failures leave the manager
// logged out. If ctx is done before the read returns, the saved accounts
// are kept but none is made active, so a caller that stopped waiting never
// sees a login appear after it decided the user was logged out.
func (m *SessionManager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The read itself outlives ctx so a late load never drops saved accounts.
	list, activeID := m.store.LoadAll(context.WithoutCancel(ctx))
	if err := ctx.Err(); err != nil && activeID != "" {
		m.log.Warn(ctx, "sessions loaded after caller gave up, starting logged out", "account_id", activeID, "error", err)
		activeID = ""
	}
	m.accounts = list
	m.activeID = activeID
	m.loading = false
	m.commitLocked()
	m.log.Info(ctx, "sessions loaded", "accounts", len(list), "state", m.stateLocked())
}

// Login adds account, or replaces the saved account of the same member at
// the same institution in place, and makes it active.
func (m *SessionManager) Login(ctx context.Context, account models.Account) error {
	if account.ID == "" {
		return errors.New("login: account id is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := slices.Clone(m.accounts)
	if i := models.FindAccountByKey(next, account.Key()); i >= 0 {
		next[i] = account
	} else {
		next = append(next, account)
	}

	if err := m.store.SaveSession(ctx, next, account.ID); err != nil {
		return m.failLocked(ctx, "login", err)
	}
	m.accounts = next
	m.activeID = account.ID
	m.commitLocked()
	m.metrics.RecordSessionTransition("login", nil)
	m.log.Info(ctx, "user logged in", "account_id", account.ID, "member_id", account.MemberID, "institution", account.InstitutionCode)
	return nil
}

// SwitchUser makes the saved account with id active.
func (m *SessionManager) SwitchUser(ctx context.Context, id string) error {
	err := m.switchUser(ctx, id)
	if err == nil {
		m.resetDraft()
	}
	return err
}

func (m *SessionManager) switchUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if models.FindAccount(m.accounts, id) < 0 {
		return m.failLocked(ctx, "switch_user", fmt.Errorf("%w: %s", ErrAccountNotFound, id))
	}
	if err := m.store.SetActive(ctx, id); err != nil {
		return m.failLocked(ctx, "switch_user", err)
	}
	m.activeID = id
	m.commitLocked()
	m.metrics.RecordSessionTransition("switch_user", nil)
	m.log.Info(ctx, "user switched", "account_id", id)
	return nil
}

// RemoveUser deletes the saved account with id. Removing the active account
// activates the first remaining one, or logs out when none is left.
func (m *SessionManager) RemoveUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, "remove_user", id)
}

// LogoutCurrentUser removes the active account.
func (m *SessionManager) LogoutCurrentUser(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeID == "" {
		return m.failLocked(ctx, "logout_current_user", ErrNotAuthenticated)
	}
	return m.removeLocked(ctx, "logout_current_user", m.activeID)
}

func (m *SessionManager) removeLocked(ctx context.Context, op, id string) error {
	i := models.FindAccount(m.accounts, id)
	if i < 0 {
		return m.failLocked(ctx, op, fmt.Errorf("%w: %s", ErrAccountNotFound, id))
	}

	next := slices.Delete(slices.Clone(m.accounts), i, i+1)
	activeID := m.activeID
	if activeID == id {
		activeID = ""
		if len(next) > 0 {
			activeID = next[0].ID
		}
	}

	if err := m.store.SaveSession(ctx, next, activeID); err != nil {
		return m.failLocked(ctx, op, err)
	}
	m.accounts = next
	m.activeID = activeID
	m.commitLocked()
	m.metrics.RecordSessionTransition(op, nil)
	m.log.Info(ctx, "user removed", "account_id", id, "active_id", activeID)
	return nil
}

// Logout clears the active pointer and keeps every saved account.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.logout(ctx)
	if err == nil {
		m.resetDraft()
	}
	return err
}

func (m *SessionManager) logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.ClearActive(ctx); err != nil {
		return m.failLocked(ctx, "logout", err)
	}
	m.activeID = ""
	m.commitLocked()
	m.metrics.RecordSessionTransition("logout", nil)
	m.log.Info(ctx, "user logged out")
	return nil
}

// LogoutAllUsers forgets every saved account.
func (m *SessionManager) LogoutAllUsers(ctx context.Context) error {
	err := m.logoutAll(ctx)
	if err == nil {
		m.resetDraft()
	}
	return err
}

func (m *SessionManager) logoutAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return m.failLocked(ctx, "logout_all", err)
	}
	m.accounts = nil
	m.activeID = ""
	m.commitLocked()
	m.metrics.RecordSessionTransition("logout_all", nil)
	m.log.Info(ctx, "all users logged out")
	return nil
}

// User returns the active account.
func (m *SessionManager) User() (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := models.FindAccount(m.accounts, m.activeID); i >= 0 {
		return m.accounts[i], true
	}
	return models.Account{}, false
}

// Users returns the saved accounts in insertion order.
func (m *SessionManager) Users() []models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.accounts)
}

// Loading reports whether Load has not completed yet.
func (m *SessionManager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *SessionManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel that receives the current snapshot at once
// and then one snapshot per committed change. A slow reader only sees the
// latest snapshot. cancel closes the channel.
func (m *SessionManager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- m.snapshotLocked()
	m.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (m *SessionManager) stateLocked() State {
	if m.activeID != "" {
		return Authenticated
	}
	return Unauthenticated
}

func (m *SessionManager) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:  m.version,
		Loading:  m.loading,
		Accounts: slices.Clone(m.accounts),
	}
	if i := models.FindAccount(m.accounts, m.activeID); i >= 0 {
		a := m.accounts[i]
		s.Active = &a
	}
	return s
}

// commitLocked publishes the current state to subscribers. Only the holder
// of mu sends, so after draining a full buffer the send cannot block.
func (m *SessionManager) commitLocked() {
	m.version++
	m.metrics.SetSavedAccounts(len(m.accounts))

	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (m *SessionManager) failLocked(ctx context.Context, op string, err error) error {
	m.metrics.RecordSessionTransition(op, err)
	m.log.Warn(ctx, "session transition failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (m *SessionManager) resetDraft() {
	if m.drafts != nil {
		m.drafts.ResetDraft()
	}
}
