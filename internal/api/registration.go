package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

func (c *Client) requireState(m domain.Match, want domain.MatchState) error {
	if c.finalized.Contains(m.ID) {
		return fmt.Errorf("%w: el partido %d ya fue finalizado", ErrInvalidState, m.ID)
	}
	if m.State != want {
		return fmt.Errorf("%w: el partido %d está %q, se requiere %q", ErrInvalidState, m.ID, m.State.Label(), want.Label())
	}
	return nil
}

// mutate sends a lifecycle call and checks the success flag of the answer.
func (c *Client) mutate(ctx context.Context, path string, body any) error {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodPut,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return err
	}
	_, err = openEnvelope(raw)
	return err
}

// StartMatch moves a pending match to in play.
func (c *Client) StartMatch(ctx context.Context, m domain.Match) error {
	if err := c.requireState(m, domain.StatePending); err != nil {
		return err
	}
	if err := c.mutate(ctx, apipath.StartMatch(m.ID), nil); err != nil {
		return err
	}
	c.log.WithField("match_id", m.ID).Info("match started")
	return nil
}

// UpdateScore records the running score of a match in play. Negative goals
// are refused before anything else.
func (c *Client) UpdateScore(ctx context.Context, m domain.Match, score domain.Score) error {
	if err := score.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScore, err)
	}
	if err := c.requireState(m, domain.StateInPlay); err != nil {
		return err
	}
	return c.mutate(ctx, apipath.Score(m.ID), scoreRequest{
		LocalGoals:   score.Local,
		VisitorGoals: score.Visitor,
	})
}

// UpdateSchedule sets the date (YYYY-MM-DD) and time (HH:MM) of a match.
func (c *Client) UpdateSchedule(ctx context.Context, matchID int64, date string, clock string) error {
	var err error
	if _, perr := time.Parse(time.DateOnly, date); perr != nil {
		err = errors.Join(err, fmt.Errorf("fecha %q: se espera AAAA-MM-DD", date))
	}
	if _, perr := time.Parse("15:04", clock); perr != nil {
		err = errors.Join(err, fmt.Errorf("hora %q: se espera HH:MM", clock))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchedule, err)
	}
	if c.finalized.Contains(matchID) {
		return fmt.Errorf("%w: el partido %d ya fue finalizado", ErrInvalidState, matchID)
	}
	return c.mutate(ctx, apipath.Schedule(matchID), scheduleRequest{
		Date: date,
		Time: clock,
	})
}

// NewSubmission assembles a submission with the vocal id of the stored
// session.
func (c *Client) NewSubmission(ctx context.Context, score domain.Score, refereeID int64, evidence domain.EvidenceReceipt) (domain.Submission, error) {
	session, ok, err := c.Session(ctx)
	if err != nil {
		return domain.Submission{}, err
	}
	if !ok {
		return domain.Submission{}, ErrMissingToken
	}
	return domain.Submission{
		Score:     score,
		RefereeID: refereeID,
		VocalID:   session.User.ID,
		Evidence:  evidence,
	}, nil
}

// FinalizeMatch closes a match in play with its final score, referee and
// acta. It is a single call: on failure the match is left as it was. On
// success the client refuses any further mutation of the match.
func (c *Client) FinalizeMatch(ctx context.Context, m domain.Match, sub domain.Submission) error {
	if c.finalized.Contains(m.ID) {
		return fmt.Errorf("%w: el partido %d ya fue finalizado", ErrInvalidState, m.ID)
	}
	if err := sub.Missing(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompleteSubmission, err)
	}
	if sub.Evidence.MatchID != m.ID {
		return fmt.Errorf("%w: el acta pertenece al partido %d", ErrIncompleteSubmission, sub.Evidence.MatchID)
	}
	if len(m.Referees) > 0 {
		if _, ok := m.Referee(sub.RefereeID); !ok {
			return fmt.Errorf("%w: árbitro %d no asignado al partido", ErrIncompleteSubmission, sub.RefereeID)
		}
	}
	if err := sub.Score.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScore, err)
	}
	if err := c.requireState(m, domain.StateInPlay); err != nil {
		return err
	}

	err := c.mutate(ctx, apipath.Finalize(m.ID), finalizeRequest{
		LocalGoals:   sub.Score.Local,
		VisitorGoals: sub.Score.Visitor,
		RefereeID:    sub.RefereeID,
		VocalID:      sub.VocalID,
		ActaHash:     sub.Evidence.Hash,
	})
	if err != nil {
		return err
	}
	c.finalized.Add(m.ID)
	c.log.WithFields(map[string]interface{}{
		"match_id": m.ID,
		"score":    fmt.Sprintf("%d-%d", sub.Score.Local, sub.Score.Visitor),
	}).Info("match finalized")
	return nil
}
