package recommend

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatetube/internal/catalog"
)

func vid(id, playlistID int64) catalog.Video {
	return catalog.Video{ID: id, PlaylistID: playlistID, IsActive: true}
}

func ids(videos []catalog.Video) []int64 {
	out := make([]int64, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}

func TestPickSamePlaylistFirst(t *testing.T) {
	current := vid(5, 1)
	accessible := []catalog.Video{
		vid(20, 2), vid(3, 1), vid(7, 1), vid(9, 1),
	}

	for seed := int64(0); seed < 20; seed++ {
		s := NewSelector(rand.NewSource(seed))
		next, recommended := s.Pick(current, accessible)

		require.Len(t, recommended, 4)
		for _, v := range recommended[:3] {
			assert.Equal(t, int64(1), v.PlaylistID, "same-playlist videos come first (seed %d)", seed)
		}
		assert.Equal(t, int64(2), recommended[3].PlaylistID)

		require.NotNil(t, next)
		assert.Contains(t, []int64{7, 9}, next.ID, "next follows the current id (seed %d)", seed)
	}
}

func TestPickNextFallsBackToEarlierInPlaylist(t *testing.T) {
	// No same-playlist video has a greater id than current, so any
	// same-playlist video serves as next.
	current := vid(9, 1)
	accessible := []catalog.Video{vid(3, 1), vid(20, 2)}

	s := NewSelector(rand.NewSource(1))
	next, _ := s.Pick(current, accessible)

	require.NotNil(t, next)
	assert.Equal(t, int64(3), next.ID)
}

func TestPickNextFallsBackToOtherPlaylists(t *testing.T) {
	current := vid(5, 1)
	accessible := []catalog.Video{vid(20, Limit + 2), vid(21, Limit + 2)}

	s := NewSelector(rand.NewSource(1))
	next, recommended := s.Pick(current, accessible)

	require.NotNil(t, next)
	assert.Equal(t, recommended[0].ID, next.ID, "next is the head of the list")
}

func TestPickEmpty(t *testing.T) {
	s := NewSelector(rand.NewSource(1))
	next, recommended := s.Pick(vid(5, 1), nil)

	assert.Nil(t, next)
	assert.Empty(t, recommended)
}

func TestPickExcludesCurrent(t *testing.T) {
	current := vid(5, 1)
	accessible := []catalog.Video{current, vid(7, 1)}

	s := NewSelector(rand.NewSource(1))
	_, recommended := s.Pick(current, accessible)

	assert.NotContains(t, ids(recommended), int64(5))
}

func TestPickCapsAtLimit(t *testing.T) {
	current := vid(1, 1)
	var accessible []catalog.Video
	for i := int64(2); i <= 30; i++ {
		accessible = append(accessible, vid(i, i%3+1))
	}

	s := NewSelector(rand.NewSource(42))
	_, recommended := s.Pick(current, accessible)

	assert.Len(t, recommended, Limit)
}

// One selector serves every request, so Pick must tolerate concurrent callers.
// Run with -race.
func TestPickConcurrent(t *testing.T) {
	current := vid(5, 1)
	accessible := []catalog.Video{
		vid(20, 2), vid(3, 1), vid(7, 1), vid(9, 1), vid(21, 3),
	}

	s := NewSelector(rand.NewSource(1))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				next, recommended := s.Pick(current, accessible)
				if next == nil || len(recommended) != 5 {
					t.Error("unexpected pick result under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
