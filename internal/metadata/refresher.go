package metadata

import (
	"context"
	"log"
	"time"

	"privatetube/internal/catalog"
)

// Refresher periodically re-resolves the title of every stored video against
// the oEmbed endpoint and persists changes. Lookup failures are logged and
// skipped per video; a bad cycle never takes the service down.
type Refresher struct {
	videos   *catalog.VideoRepo
	client   *Client
	interval time.Duration
}

func NewRefresher(videos *catalog.VideoRepo, client *Client, interval time.Duration) *Refresher {
	return &Refresher{videos: videos, client: client, interval: interval}
}

// Start runs refresh cycles until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				r.RefreshAll(ctx)
			}
		}
	}()
}

func (r *Refresher) RefreshAll(ctx context.Context) {
	videos, err := r.videos.ListAll(ctx)
	if err != nil {
		log.Printf("metadata: list videos: %v", err)
		return
	}

	for _, v := range videos {
		if ctx.Err() != nil {
			return
		}
		title, err := r.client.FetchTitle(ctx, v.YouTubeID)
		if err != nil {
			log.Printf("metadata: refresh %s: %v", v.YouTubeID, err)
			continue
		}
		if title == v.Title {
			continue
		}
		if err := r.videos.UpdateTitle(ctx, v.ID, title); err != nil {
			log.Printf("metadata: update title for video %d: %v", v.ID, err)
		}
	}
}
