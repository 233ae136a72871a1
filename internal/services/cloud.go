// Cloud library [RemoteLibrary] implementation
//
// Talks to the library proxy over HTTP. Tracks are listed page by page and ratings are pushed in one request.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/starsync/internal/models"
	"github.com/desertthunder/starsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultCloudBaseURL = "http://127.0.0.1:8080"
	defaultPageSize     = 500

	songsEndpoint   = "/api/library/songs"
	ratingsEndpoint = "/api/library/songs/ratings"
)

// CloudOpts configures [NewCloudLibrary].
type CloudOpts struct {
	BaseURL           string
	Token             string // bearer token, sent through an oauth2 transport
	AuthFile          string // proxy-side credentials file, sent as X-Auth-File when no token is set
	PageSize          int
	RequestsPerSecond float64 // <= 0 disables throttling
	Timeout           time.Duration
	HTTPClient        *http.Client // base client, mainly for tests
	Logger            *log.Logger
}

// CloudLibrary implements [RemoteLibrary] against the library proxy.
type CloudLibrary struct {
	baseURL    string
	authFile   string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

type songsPage struct {
	Tracks       []*models.RemoteTrack `json:"tracks"`
	Continuation string                `json:"continuation,omitempty"`
}

type ratingUpdate struct {
	ID     string `json:"id"`
	Rating int    `json:"rating"`
}

type ratingsRequest struct {
	Tracks []ratingUpdate `json:"tracks"`
}

type ratingsResponse struct {
	Updated int `json:"updated"`
}

// NewCloudLibrary creates a client for the library proxy.
func NewCloudLibrary(ctx context.Context, opts CloudOpts) *CloudLibrary {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultCloudBaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	base := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		base = &copied
	}

	client := base
	if opts.Token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}))
	}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &CloudLibrary{
		baseURL:    opts.BaseURL,
		authFile:   opts.AuthFile,
		pageSize:   opts.PageSize,
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}
}

// Name returns the library label.
func (c *CloudLibrary) Name() string {
	return "cloud"
}

// ListTracks retrieves the whole library.
//
// Calls GET /api/library/songs once per page, following the continuation token.
func (c *CloudLibrary) ListTracks(ctx context.Context) ([]*models.RemoteTrack, error) {
	var tracks []*models.RemoteTrack
	continuation := ""

	for page := 1; ; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		if continuation != "" {
			q.Set("continuation", continuation)
		}

		var resp songsPage
		if err := c.doRequest(ctx, http.MethodGet, songsEndpoint+"?"+q.Encode(), nil, &resp); err != nil {
			return nil, fmt.Errorf("failed to list songs (page %d): %w", page, err)
		}

		for _, t := range resp.Tracks {
			if t == nil {
				continue
			}
			tracks = append(tracks, Clean(t))
		}
		c.logger.Debug("fetched library page", "page", page, "tracks", len(resp.Tracks), "total", len(tracks))

		if resp.Continuation == "" || len(resp.Tracks) == 0 {
			break
		}
		continuation = resp.Continuation
	}

	return tracks, nil
}

// UpdateTracks pushes the ratings of tracks in one request.
//
// Calls POST /api/library/songs/ratings. The proxy must report every track as updated.
func (c *CloudLibrary) UpdateTracks(ctx context.Context, tracks []*models.RemoteTrack) error {
	if len(tracks) == 0 {
		return nil
	}

	body := ratingsRequest{Tracks: make([]ratingUpdate, 0, len(tracks))}
	for _, t := range tracks {
		body.Tracks = append(body.Tracks, ratingUpdate{ID: t.ID, Rating: t.Rating})
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var resp ratingsResponse
	if err := c.doRequest(ctx, http.MethodPost, ratingsEndpoint, body, &resp); err != nil {
		return err
	}

	if resp.Updated != len(tracks) {
		return fmt.Errorf("%w: proxy updated %d of %d tracks", shared.ErrAPIRequest, resp.Updated, len(tracks))
	}
	return nil
}

func (c *CloudLibrary) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.authFile != "" {
		req.Header.Set("X-Auth-File", c.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)

		var errResp struct {
			Detail string `json:"detail"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&errResp); derr == nil && errResp.Detail != "" {
			err = fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, err)
		}
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
