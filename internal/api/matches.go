package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

// ListActiveChampionships returns the championships the backend considers
// active for the vocal. An empty list is not an error.
func (c *Client) ListActiveChampionships(ctx context.Context) ([]domain.Championship, error) {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.ActiveChampionships,
	})
	if err != nil {
		return nil, err
	}
	var dtos []championshipDTO
	if _, err := decodeData(raw, &dtos); err != nil {
		return nil, err
	}
	championships := make([]domain.Championship, 0, len(dtos))
	for _, dto := range dtos {
		ch, err := dto.convertToDomain()
		if err != nil {
			return nil, malformed(err)
		}
		championships = append(championships, ch)
	}
	return championships, nil
}

// ListMatches fetches every match of a championship in one call. Filtering
// happens client side.
func (c *Client) ListMatches(ctx context.Context, championshipID int64) ([]domain.Match, error) {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.ChampionshipMatches(championshipID),
	})
	if err != nil {
		return nil, err
	}
	var dtos []matchDTO
	if _, err := decodeData(raw, &dtos); err != nil {
		return nil, err
	}
	return convertMatches(dtos)
}

// GetMatchDetail returns the match with its referees and registration flag.
func (c *Client) GetMatchDetail(ctx context.Context, matchID int64) (domain.Match, error) {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.MatchDetail(matchID),
	})
	if err != nil {
		return domain.Match{}, err
	}
	var dto matchDTO
	if _, err := decodeData(raw, &dto); err != nil {
		return domain.Match{}, err
	}
	m, err := dto.convertToDomain()
	if err != nil {
		return domain.Match{}, malformed(err)
	}
	return m, nil
}
