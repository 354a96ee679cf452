package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultOEmbedURL = "https://www.youtube.com/oembed"

// Client looks up video titles through the oEmbed endpoint. Results are
// cached in redis so a refresh cycle does not hammer the endpoint for titles
// it already resolved recently.
type Client struct {
	baseURL  string
	http     *http.Client
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{
		baseURL: defaultOEmbedURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		rdb:      rdb,
		cacheTTL: 30 * time.Minute,
	}
}

type oEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// FetchTitle resolves the current title for a video id. A cached title is
// served without touching the network; a fresh lookup populates the cache.
func (c *Client) FetchTitle(ctx context.Context, videoID string) (string, error) {
	cacheKey := "oembed:title:" + videoID
	if c.rdb != nil {
		if title, err := c.rdb.Get(ctx, cacheKey).Result(); err == nil && title != "" {
			return title, nil
		}
	}

	url := fmt.Sprintf("%s?url=https://www.youtube.com/watch?v=%s&format=json", c.baseURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed status %d for %s", resp.StatusCode, videoID)
	}

	var body oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Title == "" {
		return "", fmt.Errorf("oembed returned no title for %s", videoID)
	}

	if c.rdb != nil {
		// Best effort; a failed cache write only costs the next lookup.
		_ = c.rdb.Set(ctx, cacheKey, body.Title, c.cacheTTL).Err()
	}
	return body.Title, nil
}
