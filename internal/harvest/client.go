// Package harvest is a minimal client for the Harvest v2 REST API, covering
// the two reads the reminder pipeline needs: active users with their role
// tags, and time entries for a date range.
package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hoursbot/internal/report"
)

const (
	// DefaultBaseURL is the hosted Harvest API endpoint.
	DefaultBaseURL = "https://api.harvestapp.com/v2"

	requestTimeout = 30 * time.Second
	userAgent      = "hoursbot (hours compliance reminder)"
)

// Client talks to the time-tracking backend. Credentials are pass-through
// from configuration; the client performs no retries, the next scheduled run
// is the retry.
type Client struct {
	baseURL    string
	token      string
	accountID  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient builds a Harvest client. baseURL may be empty for the hosted
// endpoint.
func NewClient(baseURL, token, accountID string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		accountID:  accountID,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log.With("component", "harvest_client"),
	}
}

type userPayload struct {
	ID        int64    `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	IsActive  bool     `json:"is_active"`
	Roles     []string `json:"roles"`
}

type usersPage struct {
	Users    []userPayload `json:"users"`
	NextPage *int          `json:"next_page"`
}

type timeEntryPayload struct {
	Hours     float64 `json:"hours"`
	SpentDate string  `json:"spent_date"`
	User      struct {
		ID int64 `json:"id"`
	} `json:"user"`
}

type timeEntriesPage struct {
	TimeEntries []timeEntryPayload `json:"time_entries"`
	NextPage    *int               `json:"next_page"`
}

// ListUsers fetches every user account, following pagination.
func (c *Client) ListUsers(ctx context.Context) ([]report.TrackedUser, error) {
	var users []report.TrackedUser

	page := 1
	for {
		var body usersPage
		if err := c.get(ctx, "/users", url.Values{"page": {strconv.Itoa(page)}}, &body); err != nil {
			return nil, fmt.Errorf("fetching users page %d: %w", page, err)
		}

		for _, u := range body.Users {
			users = append(users, report.TrackedUser{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				IsActive:  u.IsActive,
				Roles:     u.Roles,
			})
		}

		if body.NextPage == nil {
			break
		}
		page = *body.NextPage
	}

	c.log.DebugContext(ctx, "Fetched tracked users", "count", len(users))
	return users, nil
}

// ListTimeEntries fetches the time entries logged between from and to,
// bounds inclusive, following pagination. The window bounds are passed to
// the backend as calendar dates.
func (c *Client) ListTimeEntries(ctx context.Context, from, to time.Time) ([]report.TimeEntry, error) {
	var entries []report.TimeEntry

	page := 1
	for {
		query := url.Values{
			"from": {from.Format(report.DateLayout)},
			"to":   {to.Format(report.DateLayout)},
			"page": {strconv.Itoa(page)},
		}

		var body timeEntriesPage
		if err := c.get(ctx, "/time_entries", query, &body); err != nil {
			return nil, fmt.Errorf("fetching time entries page %d: %w", page, err)
		}

		for _, e := range body.TimeEntries {
			entries = append(entries, report.TimeEntry{
				UserID:    e.User.ID,
				Hours:     e.Hours,
				SpentDate: e.SpentDate,
			})
		}

		if body.NextPage == nil {
			break
		}
		page = *body.NextPage
	}

	c.log.DebugContext(ctx, "Fetched time entries", "count", len(entries))
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Harvest-Account-Id", c.accountID)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
