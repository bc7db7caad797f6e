package credentials

import (
	"context"
	"errors"

	"github.com/goserg/ligavocal/internal/domain"
)

// Store keeps one session. Load reports ok=false when nothing is stored.
type Store interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (session domain.Session, ok bool, err error)
	Clear(ctx context.Context) error
}

var ErrStorage = errors.New("credential storage unavailable")

// Keys of the two persisted entries.
const (
	KeyToken = "token"
	KeyUser  = "usuario"
)
