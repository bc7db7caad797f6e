package api

import (
	"context"
	"encoding/json"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

// Doer is the part of the gateway the client needs.
type Doer interface {
	Do(ctx context.Context, req gateway.Request) (json.RawMessage, error)
	DoAnonymous(ctx context.Context, req gateway.Request) (json.RawMessage, error)
	Store() credentials.Store
}

var _ Doer = (*gateway.Gateway)(nil)

// Client exposes one method per backend operation a vocal can perform.
// Calls block until the single round trip they make is done; nothing is
// retried or queued.
type Client struct {
	gw  Doer
	log *logrus.Entry

	// finalized holds matches this client closed. They accept no more
	// mutations, whatever state a stale copy of the match claims.
	finalized mapset.Set[int64]
}

func New(gw Doer, l *logrus.Logger) *Client {
	return &Client{
		gw:        gw,
		log:       l.WithField("from", "api"),
		finalized: mapset.NewSet[int64](),
	}
}

// Session returns the stored session, if any.
func (c *Client) Session(ctx context.Context) (domain.Session, bool, error) {
	return c.gw.Store().Load(ctx)
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.gw.Store().Clear(ctx); err != nil {
		return err
	}
	c.log.Info("logged out")
	return nil
}

// Finalized reports whether this client already closed the match.
func (c *Client) Finalized(matchID int64) bool {
	return c.finalized.Contains(matchID)
}
