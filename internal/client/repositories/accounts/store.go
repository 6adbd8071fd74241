// Package accounts persists the saved-account list and the active-account
// pointer on top of the metadata key/value table.
//
// Two keys are used: savedUsers holds the JSON array of every saved account
// and activeUserId holds the plain id of the active one. Both are always
// written whole; merging is the caller's job.
package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/acadex/internal/client/models"
	"github.com/dmitrijs2005/acadex/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/acadex/internal/dbx"
	"github.com/dmitrijs2005/acadex/internal/logging"
)

const (
	KeySavedUsers   = "savedUsers"
	KeyActiveUserID = "activeUserId"
)

// Store is the persistence contract the session manager relies on.
type Store interface {
	// LoadAll never fails: unreadable or corrupt data is logged and
	// reported as nothing saved.
	LoadAll(ctx context.Context) ([]models.Account, string)
	SaveAll(ctx context.Context, accounts []models.Account) error
	SetActive(ctx context.Context, id string) error
	ClearActive(ctx context.Context) error
	// SaveSession writes the list and the active pointer atomically. An
	// empty activeID removes the pointer.
	SaveSession(ctx context.Context, accounts []models.Account, activeID string) error
	Clear(ctx context.Context) error
}

type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log.With("component", "account_store")}
}

func (s *SQLiteStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Account, string) {
	repo := s.repo(s.db)
	accounts := []models.Account{}

	raw, err := repo.Get(ctx, KeySavedUsers)
	if err != nil {
		s.log.Error(ctx, "loading saved accounts failed", "error", err)
		return accounts, ""
	}
	if len(raw) == 0 {
		return accounts, ""
	}
	if err := json.Unmarshal(raw, &accounts); err != nil {
		s.log.Error(ctx, "saved accounts are corrupt, ignoring them", "error", err)
		return []models.Account{}, ""
	}

	active, err := repo.Get(ctx, KeyActiveUserID)
	if err != nil {
		s.log.Error(ctx, "loading active account id failed", "error", err)
		return accounts, ""
	}
	activeID := string(active)
	if activeID != "" && models.FindAccount(accounts, activeID) < 0 {
		s.log.Warn(ctx, "active account id not found among saved accounts", "account_id", activeID)
		activeID = ""
	}

	s.log.Debug(ctx, "accounts loaded", "count", len(accounts), "active", activeID != "")
	return accounts, activeID
}

func (s *SQLiteStore) SaveAll(ctx context.Context, accounts []models.Account) error {
	return writeAccounts(ctx, s.repo(s.db), accounts)
}

func (s *SQLiteStore) SetActive(ctx context.Context, id string) error {
	return s.repo(s.db).Set(ctx, KeyActiveUserID, []byte(id))
}

func (s *SQLiteStore) ClearActive(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, KeyActiveUserID)
}

func (s *SQLiteStore) SaveSession(ctx context.Context, accounts []models.Account, activeID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := writeAccounts(ctx, repo, accounts); err != nil {
			return err
		}
		if activeID == "" {
			return repo.Delete(ctx, KeyActiveUserID)
		}
		return repo.Set(ctx, KeyActiveUserID, []byte(activeID))
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, KeySavedUsers, KeyActiveUserID)
}

func writeAccounts(ctx context.Context, repo metadata.Repository, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	b, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode saved accounts: %w", err)
	}
	return repo.Set(ctx, KeySavedUsers, b)
}
