package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-jet/jet/v2/sqlite"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/credentials/gen/model"
	"github.com/goserg/ligavocal/internal/credentials/gen/table"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/migrate"
)

// Storage holds sessions for many scopes in one sqlite file. Each scope is
// an independent credentials.Store.
type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

func New(l *logrus.Logger, fileName string) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "credentials-storage",
	})
	db, err := sql.Open("sqlite3", buildSource(fileName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	err = migrate.UpCredentialsDB(db)
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("credentials storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Scope(name string) *Scoped {
	return &Scoped{
		storage: s,
		scope:   name,
	}
}

type Scoped struct {
	storage *Storage
	scope   string
}

var _ credentials.Store = (*Scoped)(nil)

func (s *Scoped) Save(ctx context.Context, session domain.Session) error {
	token, user, err := credentials.Encode(session)
	if err != nil {
		return err
	}
	now := time.Now()
	entries := []model.SessionEntries{
		{Scope: s.scope, Key: credentials.KeyToken, Value: token, UpdatedAt: now},
		{Scope: s.scope, Key: credentials.KeyUser, Value: user, UpdatedAt: now},
	}
	err = s.storage.inTx(ctx, func(tx *sql.Tx) error {
		_, err := table.SessionEntries.
			DELETE().
			WHERE(table.SessionEntries.Scope.EQ(sqlite.String(s.scope))).
			ExecContext(ctx, tx)
		if err != nil {
			return err
		}
		_, err = table.SessionEntries.
			INSERT(table.SessionEntries.AllColumns).
			MODELS(entries).
			ExecContext(ctx, tx)
		return err
	})
	if err != nil {
		return storageError(err)
	}
	s.storage.log.WithField("scope", s.scope).Debug("session saved")
	return nil
}

func (s *Scoped) Load(ctx context.Context) (domain.Session, bool, error) {
	var entries []model.SessionEntries
	err := table.SessionEntries.
		SELECT(table.SessionEntries.AllColumns).
		FROM(table.SessionEntries).
		WHERE(table.SessionEntries.Scope.EQ(sqlite.String(s.scope))).
		QueryContext(ctx, s.storage.db, &entries)
	if err != nil {
		return domain.Session{}, false, storageError(err)
	}
	var token, user string
	for _, e := range entries {
		switch e.Key {
		case credentials.KeyToken:
			token = e.Value
		case credentials.KeyUser:
			user = e.Value
		}
	}
	if token == "" {
		return domain.Session{}, false, nil
	}
	if credentials.Expired(token, time.Now()) {
		s.storage.log.WithField("scope", s.scope).Info("stored token expired, session dropped")
		if err := s.Clear(ctx); err != nil {
			return domain.Session{}, false, err
		}
		return domain.Session{}, false, nil
	}
	session := credentials.Decode(token, user)
	if session.Degraded {
		s.storage.log.WithField("scope", s.scope).Warn("stored profile unreadable, using degraded session")
	}
	return session, true, nil
}

func (s *Scoped) Clear(ctx context.Context) error {
	_, err := table.SessionEntries.
		DELETE().
		WHERE(table.SessionEntries.Scope.EQ(sqlite.String(s.scope))).
		ExecContext(ctx, s.storage.db)
	if err != nil {
		return storageError(err)
	}
	s.storage.log.WithField("scope", s.scope).Debug("session cleared")
	return nil
}

func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", credentials.ErrStorage, err)
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}
