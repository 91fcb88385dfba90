// Package playlist fetches ordered video metadata for a playlist from the
// configured metadata API. Per-video metadata is fetched concurrently, but
// results are always reassembled in playlist order: ordering is a contract at
// this boundary, not an optimization.
package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sourcegraph/conc/pool"

	"studystream/models"
)

var (
	ErrURLRequired   = errors.New("playlist URL is required")
	ErrEmptyPlaylist = errors.New("playlist is empty or private")
	ErrUnavailable   = errors.New("playlist source unavailable")
)

const (
	defaultMaxWorkers   = 8
	defaultRetryBackoff = 200 * time.Millisecond
	retryAttempts       = 3
)

// Source fetches the ordered video list for a playlist URL.
type Source interface {
	Fetch(ctx context.Context, playlistURL string) ([]models.PlaylistVideo, error)
}

// Client talks to a playlist metadata API: one index endpoint resolving a
// playlist URL into an ordered list of video refs, and one per-video endpoint.
type Client struct {
	log        *slog.Logger
	baseURL    string
	httpc      *http.Client
	maxWorkers int
}

// NewClient creates a playlist client for the given API base URL.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		log:        slog.Default().With("component", "playlist"),
		baseURL:    baseURL,
		httpc:      httpc,
		maxWorkers: defaultMaxWorkers,
	}
}

type videoRef struct {
	ID string `json:"id"`
}

type playlistIndex struct {
	Videos []videoRef `json:"videos"`
}

type videoMetadata struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Link     string `json:"link"`
}

// Fetch resolves the playlist URL into its ordered video list. Any per-video
// failure aborts the whole fetch; callers never see a partial playlist.
func (c *Client) Fetch(ctx context.Context, playlistURL string) ([]models.PlaylistVideo, error) {
	if playlistURL == "" {
		return nil, ErrURLRequired
	}

	index, err := c.fetchIndex(ctx, playlistURL)
	if err != nil {
		return nil, err
	}
	if len(index.Videos) == 0 {
		return nil, ErrEmptyPlaylist
	}

	// Fetch per-video metadata in parallel; each result lands in its own
	// slot so playlist order survives any completion order.
	results := make([]models.PlaylistVideo, len(index.Videos))
	errs := make([]error, len(index.Videos))

	p := pool.New().WithMaxGoroutines(c.maxWorkers)
	for i, ref := range index.Videos {
		i, ref := i, ref
		p.Go(func() {
			meta, err := c.fetchVideo(ctx, ref.ID)
			if err != nil {
				errs[i] = fmt.Errorf("video %s: %w", ref.ID, err)
				return
			}
			results[i] = models.PlaylistVideo{
				Title:    meta.Title,
				Duration: meta.Duration,
				Link:     meta.Link,
			}
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	c.log.Debug("fetched playlist", "url", playlistURL, "videos", len(results))
	return results, nil
}

func (c *Client) fetchIndex(ctx context.Context, playlistURL string) (*playlistIndex, error) {
	endpoint := fmt.Sprintf("%s/playlists?url=%s", c.baseURL, url.QueryEscape(playlistURL))

	var index playlistIndex
	if err := c.getJSON(ctx, endpoint, &index); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrEmptyPlaylist
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &index, nil
}

func (c *Client) fetchVideo(ctx context.Context, id string) (*videoMetadata, error) {
	endpoint := fmt.Sprintf("%s/videos/%s", c.baseURL, url.PathEscape(id))

	var meta videoMetadata
	if err := c.getJSON(ctx, endpoint, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// errNotFound marks a 404 from the metadata API.
var errNotFound = errors.New("not found")

// getJSON performs a GET with bounded retries on transient failures and
// decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusOK:
				if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
					return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
				}
				return nil
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(errNotFound)
			case resp.StatusCode >= 500:
				return fmt.Errorf("status %d", resp.StatusCode)
			default:
				return retry.Unrecoverable(fmt.Errorf("status %d", resp.StatusCode))
			}
		},
		retry.Attempts(retryAttempts),
		retry.Delay(defaultRetryBackoff),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}
