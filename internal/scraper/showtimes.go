package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
)

const showtimesAction = "GetShowtimesForEvent"

// ShowTimeResult is the outcome of a showtime batch
type ShowTimeResult struct {
	ShowTimes []*show.ShowTime
	Failed    []int
}

// showTimeRecord is one element of the showtime feed. encoding/json matches keys
// case-insensitively, so "DateTime" and "datetime" both land here.
type showTimeRecord struct {
	ID                 json.RawMessage `json:"id"`
	Title              *string         `json:"title"`
	DateTime           string          `json:"datetime"`
	PerformanceTime    string          `json:"performanceTime"`
	PerformanceDate    string          `json:"performanceDate"`
	PresentationFormat string          `json:"presentationFormat"`
	Reserved           bool            `json:"reserved"`
}

// FetchShowTimes pulls the showtime feed for every ID on the worker pool. A non-2xx
// response or an unreadable feed counts as "no showtimes" for that show; only
// transport failures are reported as failed IDs.
func (s *Scraper) FetchShowTimes(ctx context.Context, ids []int) *ShowTimeResult {
	logger.Info("Pulling showtimes", logger.Fields{"count": len(ids)})

	var times collector[*show.ShowTime]

	failed := s.forEachID(ctx, ids, func(ctx context.Context, id int) error {
		start := time.Now()
		sts, err := s.fetchShowTimes(ctx, id)
		logger.RecordTiming("showtimes.fetch", time.Since(start))
		if err != nil {
			logger.IncrCounter("showtimes.failed")
			logger.Error("Error getting showtimes", logger.Fields{"show_id": id}, err)
			return err
		}
		if len(sts) == 0 {
			logger.IncrCounter("showtimes.empty")
			return nil
		}
		logger.IncrCounter("showtimes.ok")
		times.add(sts...)
		return nil
	})

	if len(failed) > 0 {
		logger.Warn("Failed to get showtimes for some shows", logger.Fields{
			"count": len(failed),
			"ids":   failed,
		})
	}

	list := times.list()
	show.SortShowTimes(list)
	logger.Info("Successfully scraped showtimes", logger.Fields{"count": len(list)})

	return &ShowTimeResult{ShowTimes: list, Failed: failed}
}

// fetchShowTimes posts the showtime form for one show
func (s *Scraper) fetchShowTimes(ctx context.Context, id int) ([]*show.ShowTime, error) {
	form := url.Values{}
	form.Set("action", showtimesAction)
	form.Set("selectedDateFormattedForSoap", s.windowStart)
	form.Set("selectedDateNextDayFormattedForSoap", s.windowEnd)
	form.Set("eventId", fmt.Sprintf("%s:%d", EventPrefix, id))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.AjaxURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting showtime form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Failed to fetch showtimes", logger.Fields{
			"show_id": id,
			"status":  resp.Status,
		})
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	sts, err := parseShowTimes(body, id)
	if err != nil {
		logger.Warn("Error parsing showtimes", logger.Fields{"show_id": id, "error": err.Error()})
		return nil, nil
	}
	if len(sts) == 0 {
		logger.Warn("No showtimes found for show", logger.Fields{"show_id": id})
	}
	return sts, nil
}

// parseShowTimes decodes a showtime feed. Any record that cannot be converted
// invalidates the whole response.
func parseShowTimes(body []byte, showID int) ([]*show.ShowTime, error) {
	var records []showTimeRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decoding showtimes: %w", err)
	}

	now := time.Now().UTC()
	out := make([]*show.ShowTime, 0, len(records))
	for i, r := range records {
		dt, err := show.ParseDateTime(r.DateTime)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		tod, err := show.ParseTimeOfDay(r.PerformanceTime)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, &show.ShowTime{
			ShowID:             showID,
			DateTime:           dt,
			PerformanceTime:    tod,
			PerformanceDate:    strings.TrimSpace(r.PerformanceDate),
			PresentationFormat: strings.TrimSpace(r.PresentationFormat),
			Reserved:           r.Reserved,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	return out, nil
}
