package sqlite

import (
	"context"
	"time"

	"github.com/go-jet/jet/v2/sqlite"

	"github.com/goserg/ligavocal/internal/credentials/gen/model"
	"github.com/goserg/ligavocal/internal/credentials/gen/table"
)

// SetRaw overwrites a single entry of a scope without encoding.
func (s *Scoped) SetRaw(ctx context.Context, key, value string) error {
	entry := model.SessionEntries{
		Value:     value,
		UpdatedAt: time.Now(),
	}
	_, err := table.SessionEntries.
		UPDATE(table.SessionEntries.Value, table.SessionEntries.UpdatedAt).
		MODEL(entry).
		WHERE(table.SessionEntries.Scope.EQ(sqlite.String(s.scope)).
			AND(table.SessionEntries.Key.EQ(sqlite.String(key)))).
		ExecContext(ctx, s.storage.db)
	return err
}

