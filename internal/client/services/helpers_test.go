package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/acadex/internal/client/client"
	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/prefs"
	"github.com/dmitrijs2005/acadex/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.RunMigrations(context.Background(), db))
	return db
}

func newPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	return prefs.NewStore(metadata.NewSQLiteRepository(setupDB(t)))
}

func testLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.New(&buf, "debug"), &buf
}

func member(id int, inst string) models.MemberCandidate {
	return models.MemberCandidate{
		InstitutionCode: inst,
		RoleID:          4,
		MemberID:        id,
		Category:        4,
		MemberName:      "Member",
		MobileNo:        "9159622785",
		IsActive:        1,
	}
}

func account(id string, memberID int, inst string) models.Account {
	return models.NewAccount(id, member(memberID, inst), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

// ---- fake client ----

type fakeClient struct {
	CloseErr error
	PingErr  error

	RolesRet []models.RoleOption
	RolesErr error

	SearchRet []models.InstitutionCandidate
	SearchErr error

	MembersRet []models.MemberCandidate
	MembersErr error

	// Block, when set, holds SearchUser and LoadMembers until closed.
	Block chan struct{}

	mu              sync.Mutex
	SearchCalls     int
	LastContact     string
	LastRoleID      int
	LastLoadMembers client.LoadMembersRequest
}

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) FetchRoles(ctx context.Context) ([]models.RoleOption, error) {
	return f.RolesRet, f.RolesErr
}

func (f *fakeClient) SearchUser(ctx context.Context, contact string, roleID int) ([]models.InstitutionCandidate, error) {
	f.mu.Lock()
	f.SearchCalls++
	f.LastContact = contact
	f.LastRoleID = roleID
	f.mu.Unlock()
	if f.Block != nil {
		<-f.Block
	}
	return f.SearchRet, f.SearchErr
}

func (f *fakeClient) LoadMembers(ctx context.Context, req client.LoadMembersRequest) ([]models.MemberCandidate, error) {
	f.mu.Lock()
	f.LastLoadMembers = req
	f.mu.Unlock()
	if f.Block != nil {
		<-f.Block
	}
	return f.MembersRet, f.MembersErr
}

// ---- fake account store ----

// failingStore wraps a real store and fails writes while Err is set.
type failingStore struct {
	accounts.Store
	Err error
}

func (s *failingStore) SaveAll(ctx context.Context, list []models.Account) error {
	if s.Err != nil {
		return s.Err
	}
	return s.Store.SaveAll(ctx, list)
}

func (s *failingStore) SetActive(ctx context.Context, id string) error {
	if s.Err != nil {
		return s.Err
	}
	return s.Store.SetActive(ctx, id)
}

func (s *failingStore) ClearActive(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	return s.Store.ClearActive(ctx)
}

func (s *failingStore) SaveSession(ctx context.Context, list []models.Account, activeID string) error {
	if s.Err != nil {
		return s.Err
	}
	return s.Store.SaveSession(ctx, list, activeID)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	return s.Store.Clear(ctx)
}

var errDiskFull = errors.New("disk full")

// slowStore delays reads by Delay.
type slowStore struct {
	accounts.Store
	Delay time.Duration
}

func (s *slowStore) LoadAll(ctx context.Context) ([]models.Account, string) {
	time.Sleep(s.Delay)
	return s.Store.LoadAll(ctx)
}

// ---- fake recorder ----

type fakeRecorder struct {
	mu          sync.Mutex
	Transitions map[string]int
	Failures    map[string]int
	Steps       map[string]int
	Saved       int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		Transitions: map[string]int{},
		Failures:    map[string]int{},
		Steps:       map[string]int{},
	}
}

func (r *fakeRecorder) RecordSessionTransition(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.Failures[op]++
		return
	}
	r.Transitions[op]++
}

func (r *fakeRecorder) RecordResolverRequest(step string, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[step]++
}

func (r *fakeRecorder) SetSavedAccounts(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Saved = n
}
