// Package bcb downloads and parses the participant lists the Banco Central
// do Brasil publishes: the PIX list, republished every business day under a
// dated URL, and the STR list at a fixed URL. It produces raw records for the
// normalizers; it knows nothing about merging.
package bcb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/openispb/ispbmap/pkg/constants"
	"github.com/openispb/ispbmap/pkg/errors"
	"github.com/openispb/ispbmap/pkg/logging"
	"github.com/openispb/ispbmap/pkg/sources"
)

// datePlaceholder marks where the YYYYMMDD date goes in the PIX URL template.
const datePlaceholder = "{date}"

// Client fetches the BCB registry files over HTTP.
type Client struct {
	// PIXURLTemplate is the dated PIX list URL with a {date} placeholder.
	PIXURLTemplate string

	// STRURL is the fixed STR list URL.
	STRURL string

	// HTTP is the client used for downloads.
	HTTP *http.Client

	// now supplies the reference date for PIX URL probing.
	now func() time.Time
}

// NewClient creates a client with the published BCB endpoints.
func NewClient() *Client {
	return &Client{
		PIXURLTemplate: constants.PIXParticipantsURLTemplate,
		STRURL:         constants.STRParticipantsURL,
		HTTP:           &http.Client{Timeout: constants.DefaultHTTPTimeout},
		now:            time.Now,
	}
}

// FetchPIX downloads and parses the most recent PIX participant list. The
// BCB publishes one file per business day with no stable "latest" URL, so
// recent dates are probed weekdays-first until one responds.
func (c *Client) FetchPIX(ctx context.Context) ([]sources.RawRecord, error) {
	var lastErr error
	for _, date := range probeDates(c.now(), constants.PIXProbeDays) {
		url := strings.ReplaceAll(c.PIXURLTemplate, datePlaceholder, date)
		data, err := c.download(ctx, sources.PIX.String(), url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			logging.Debug().
				Str("source", sources.PIX.String()).
				Str("date", date).
				Msg("No PIX list published for date")
			continue
		}
		records, err := ParsePIX(data)
		if err != nil {
			return nil, err
		}
		logging.Info().
			Str("source", sources.PIX.String()).
			Str("date", date).
			Int("rows", len(records)).
			Msg("Downloaded PIX participant list")
		return records, nil
	}
	return nil, errors.WrapAPI(sources.PIX.String(), c.PIXURLTemplate, 0,
		fmt.Errorf("no PIX list published in the last %d days: %w", constants.PIXProbeDays, lastErr))
}

// FetchSTR downloads and parses the STR participant list.
func (c *Client) FetchSTR(ctx context.Context) ([]sources.RawRecord, error) {
	data, err := c.download(ctx, sources.STR.String(), c.STRURL)
	if err != nil {
		return nil, err
	}
	records, err := ParseSTR(data)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("source", sources.STR.String()).
		Int("rows", len(records)).
		Msg("Downloaded STR participant list")
	return records, nil
}

// download fetches one URL, returning the body bytes.
func (c *Client) download(ctx context.Context, source, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(source, url, 0, err)
	}
	req.Header.Set("User-Agent", "ispbmap/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Source:   source,
			Endpoint: url,
			Message:  "download failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Source:     source,
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	return io.ReadAll(resp.Body)
}

// probeDates returns the last daysBack dates as YYYYMMDD, weekdays before
// weekend days and most recent first within each group. The BCB only
// publishes the PIX list on business days.
func probeDates(now time.Time, daysBack int) []string {
	type candidate struct {
		date    string
		weekend bool
	}
	candidates := make([]candidate, 0, daysBack)
	for i := 0; i < daysBack; i++ {
		day := now.AddDate(0, 0, -i)
		candidates = append(candidates, candidate{
			date:    day.Format("20060102"),
			weekend: day.Weekday() == time.Saturday || day.Weekday() == time.Sunday,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].weekend != candidates[j].weekend {
			return !candidates[i].weekend
		}
		return candidates[i].date > candidates[j].date
	})

	dates := make([]string, len(candidates))
	for i, c := range candidates {
		dates[i] = c.date
	}
	return dates
}
