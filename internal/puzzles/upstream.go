// internal/puzzles/upstream.go
//
// Puzzle data sources.
// Responsibilities:
//   - Source: the interface the HTTP layer and CLI read puzzles through.
//   - Upstream: fetch a day's puzzle from the provider's JSON endpoint.
//
// Anything that goes wrong upstream (transport, non-2xx, bad JSON, a status
// other than "ok", a puzzle that is not 4x4) is logged and reported as
// ErrNotFound; callers never see provider details.

package puzzles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/puzzles/apps/go-server/internal/connections"
)

// ErrNotFound means no playable puzzle exists for the date.
var ErrNotFound = errors.New("puzzle not found")

// Source resolves a puzzle date to its data.
type Source interface {
	Get(ctx context.Context, date string) (connections.PuzzleData, error)
}

// Upstream fetches puzzles from the provider.
type Upstream struct {
	urlTemplate string
	client      *http.Client
}

// NewUpstream returns a fetcher for urlTemplate ("%s" is replaced by the date).
func NewUpstream(urlTemplate string, timeout time.Duration) *Upstream {
	return &Upstream{urlTemplate: urlTemplate, client: &http.Client{Timeout: timeout}}
}

// Get implements Source.
func (u *Upstream) Get(ctx context.Context, date string) (connections.PuzzleData, error) {
	body, err := u.Fetch(ctx, date)
	if err != nil {
		return connections.PuzzleData{}, err
	}
	return Decode(date, body)
}

// Fetch returns the provider's raw JSON for date.
func (u *Upstream) Fetch(ctx context.Context, date string) ([]byte, error) {
	url := fmt.Sprintf(u.urlTemplate, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := u.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("fetch puzzle")
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Error().Int("status", res.StatusCode).Str("date", date).Msg("provider rejected puzzle request")
		return nil, fmt.Errorf("%w: upstream status %d", ErrNotFound, res.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNotFound, err)
	}
	if _, err := Decode(date, body); err != nil {
		return nil, err
	}
	return body, nil
}

// Decode parses and validates provider JSON.
func Decode(date string, body []byte) (connections.PuzzleData, error) {
	var p connections.PuzzleData
	if err := json.Unmarshal(body, &p); err != nil {
		log.Error().Err(err).Str("date", date).Msg("decode puzzle")
		return p, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !strings.EqualFold(p.Status, "ok") {
		log.Error().Str("date", date).Str("status", p.Status).Msg("response from provider wasn't successful")
		return p, fmt.Errorf("%w: status %q", ErrNotFound, p.Status)
	}
	if err := p.Validate(); err != nil {
		log.Error().Err(err).Str("date", date).Msg("unplayable puzzle")
		return p, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return p, nil
}
