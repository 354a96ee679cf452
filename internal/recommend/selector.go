// Package recommend picks the "next" video and the recommended list shown on
// the watch page. Candidates are already visibility-filtered; nothing here
// consults grants.
package recommend

import (
	"math/rand"
	"sync"

	"privatetube/internal/catalog"
)

// Limit caps the recommended list shown alongside a playing video.
const Limit = 10

// Selector is shared across requests; rnd is not goroutine-safe on its own,
// so every use goes through mu.
type Selector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSelector seeds the selector. Pass a fixed source in tests for
// reproducible shuffles.
func NewSelector(src rand.Source) *Selector {
	return &Selector{rnd: rand.New(src)}
}

// Pick builds the watch-page companions for current out of the accessible
// candidate set. Same-playlist videos are shuffled and placed first, the rest
// shuffled after them, and the combined list truncated to Limit. Next is the
// continuation video: the lowest-position same-playlist recommendation with a
// higher id than current, else any same-playlist recommendation, else the
// head of the list; nil when there are no candidates at all.
func (s *Selector) Pick(current catalog.Video, accessible []catalog.Video) (next *catalog.Video, recommended []catalog.Video) {
	var same, others []catalog.Video
	for _, v := range accessible {
		if v.ID == current.ID {
			continue
		}
		if v.PlaylistID == current.PlaylistID {
			same = append(same, v)
		} else {
			others = append(others, v)
		}
	}

	s.shuffle(same)
	s.shuffle(others)

	recommended = make([]catalog.Video, 0, len(same)+len(others))
	recommended = append(recommended, same...)
	recommended = append(recommended, others...)
	if len(recommended) > Limit {
		recommended = recommended[:Limit]
	}

	for i := range recommended {
		v := recommended[i]
		if v.PlaylistID == current.PlaylistID && v.ID > current.ID {
			return &v, recommended
		}
	}
	for i := range recommended {
		v := recommended[i]
		if v.PlaylistID == current.PlaylistID {
			return &v, recommended
		}
	}
	if len(recommended) > 0 {
		v := recommended[0]
		return &v, recommended
	}
	return nil, recommended
}

func (s *Selector) shuffle(videos []catalog.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rnd.Shuffle(len(videos), func(i, j int) {
		videos[i], videos[j] = videos[j], videos[i]
	})
}
