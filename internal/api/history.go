package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

const defaultPageSize = 20

// History lists the matches the vocal registered, newest first as the
// backend orders them.
func (c *Client) History(ctx context.Context, page int, limit int) (domain.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	query := url.Values{}
	query.Set("pagina", strconv.Itoa(page))
	query.Set("limite", strconv.Itoa(limit))

	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.History + "?" + query.Encode(),
	})
	if err != nil {
		return domain.HistoryPage{}, err
	}
	var dtos []historyDTO
	env, err := decodeData(raw, &dtos)
	if err != nil {
		return domain.HistoryPage{}, err
	}
	result := domain.HistoryPage{
		Entries: make([]domain.HistoryEntry, 0, len(dtos)),
		Page:    page,
	}
	for _, dto := range dtos {
		entry, err := dto.convertToDomain()
		if err != nil {
			return domain.HistoryPage{}, malformed(err)
		}
		result.Entries = append(result.Entries, entry)
	}
	if env.Total != nil {
		result.Total = int(*env.Total)
	} else {
		result.Total = len(result.Entries)
	}
	result.TotalPages = (result.Total + limit - 1) / limit
	return result, nil
}

func (c *Client) Statistics(ctx context.Context) (domain.VocalStatistics, error) {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.Statistics,
	})
	if err != nil {
		return domain.VocalStatistics{}, err
	}
	var dto statisticsDTO
	if _, err := decodeData(raw, &dto); err != nil {
		return domain.VocalStatistics{}, err
	}
	return domain.VocalStatistics{
		Registered:    int(dto.Registered),
		Pending:       int(dto.Pending),
		InPlay:        int(dto.InPlay),
		Championships: int(dto.Championships),
	}, nil
}

// VerifyIntegrity asks the backend to check the stored acta of a match
// against its recorded hash.
func (c *Client) VerifyIntegrity(ctx context.Context, matchID int64) (domain.IntegrityReport, error) {
	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodGet,
		Path:   apipath.Integrity(matchID),
	})
	if err != nil {
		return domain.IntegrityReport{}, err
	}
	var dto integrityDTO
	if _, err := decodeData(raw, &dto); err != nil {
		return domain.IntegrityReport{}, err
	}
	return domain.IntegrityReport{
		MatchID: matchID,
		Valid:   dto.Valid,
		Hash:    dto.Hash,
		Message: dto.Message,
	}, nil
}
