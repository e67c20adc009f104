package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/clockedin/clockedin/internal/meetings"
)

// Client wraps the Google Calendar service for one authenticated
// principal.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client from the principal's OAuth token.
// The token source refreshes the access token transparently when Google
// reports it expired.
func NewClient(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*Client, error) {
	httpClient := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// YearWindow returns the stats window for a year: January 1st (UTC) up to
// the earlier of now and the last second of the year.
func YearWindow(year int, now time.Time) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	if now.Before(end) {
		end = now
	}
	return start, end
}

// ListYearEvents fetches the principal's primary-calendar events for the
// stats year in ascending start order, with recurring series expanded to
// single events. Failures are surfaced without retries; the caller
// decides whether to re-request.
func (c *Client) ListYearEvents(ctx context.Context, year int, now time.Time) ([]meetings.EventRecord, error) {
	timeMin, timeMax := YearWindow(year, now)

	events, err := c.svc.Events.List("primary").
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	records := make([]meetings.EventRecord, 0, len(events.Items))
	for _, event := range events.Items {
		records = append(records, ToEventRecord(event))
	}

	return records, nil
}
