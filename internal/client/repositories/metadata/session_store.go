package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/launchpad/internal/dbx"
)

const (
	keyAccessToken = "access_token"
	keyUserID      = "user_id"
)

// SessionStore persists the signed-in session in the metadata table.
// It implements session.Store.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) LoadSession(ctx context.Context) (string, string, error) {
	repo := NewSQLiteRepository(s.db)
	token, err := repo.Get(ctx, keyAccessToken)
	if err != nil {
		return "", "", err
	}
	userID, err := repo.Get(ctx, keyUserID)
	if err != nil {
		return "", "", err
	}
	return string(token), string(userID), nil
}

// SaveSession writes the token and the user id atomically.
func (s *SessionStore) SaveSession(ctx context.Context, token, userID string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUserID, []byte(userID))
	})
}

func (s *SessionStore) ClearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyUserID)
	})
}
