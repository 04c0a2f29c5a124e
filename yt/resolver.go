package yt

import (
	"context"
	"fmt"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// searchFunc turns free text into candidate tracks, best match first.
type searchFunc func(ctx context.Context, query string) ([]*Track, error)

// lookupFunc fetches full metadata for a video ID with the given client.
type lookupFunc func(ctx context.Context, client *youtube.Client, videoID string) (*Track, error)

// Resolver turns a free-text query or a YouTube URL into a playable Track.
// Direct URLs go through an ordered metadata fallback chain; anything else
// is treated as a search.
type Resolver struct {
	client     *youtube.Client
	authClient *youtube.Client
	search     searchFunc
	meta       lookupFunc
	cache      *MetadataCache
	gap        time.Duration
}

func NewResolver(rdb *redis.Client) *Resolver {
	r := &Resolver{
		client:     &youtube.Client{},
		authClient: newAuthClient(viper.GetString("youtube.cookies")),
		cache:      NewMetadataCache(rdb),
		gap:        time.Duration(viper.GetInt("stream.strategygap")) * time.Second,
	}
	r.search = r.searchProvider
	r.meta = r.lookup
	return r
}

// Resolve returns the track for a query, or ErrNotFound once every path is
// exhausted. Provider errors never escape this boundary unclassified.
func (r *Resolver) Resolve(ctx context.Context, query, requestedBy string) (*Track, error) {
	if videoID, err := youtube.ExtractVideoID(query); err == nil {
		return r.resolveDirect(ctx, videoID, requestedBy)
	}
	return r.resolveSearch(ctx, query, requestedBy)
}

func (r *Resolver) resolveDirect(ctx context.Context, videoID, requestedBy string) (*Track, error) {
	if cached, ok := r.cache.Get(videoID); ok {
		track := *cached
		track.RequestedBy = requestedBy
		return &track, nil
	}

	strategies := []strategy[*Track]{}
	if r.authClient != nil {
		strategies = append(strategies, strategy[*Track]{
			name: "authenticated metadata",
			attempt: func(ctx context.Context) (*Track, error) {
				return r.meta(ctx, r.authClient, videoID)
			},
		})
	}
	strategies = append(strategies,
		strategy[*Track]{
			name: "bare metadata",
			attempt: func(ctx context.Context) (*Track, error) {
				return r.meta(ctx, r.client, videoID)
			},
		},
		strategy[*Track]{
			name: "search by id",
			attempt: func(ctx context.Context) (*Track, error) {
				results, err := r.search(ctx, videoID)
				if err != nil {
					return nil, err
				}
				if len(results) == 0 {
					return nil, ErrNotFound
				}
				return results[0], nil
			},
		},
	)

	track, err := runStrategies(ctx, "resolve:"+videoID, r.gap, strategies)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	r.cache.Put(track)
	track.RequestedBy = requestedBy
	return track, nil
}

func (r *Resolver) resolveSearch(ctx context.Context, query, requestedBy string) (*Track, error) {
	results, err := r.search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %w", ErrNotFound, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", ErrNotFound, query)
	}

	track := results[0]
	// Search results carry no duration, so enrich from metadata when possible.
	if track.Duration == 0 {
		if full, err := r.meta(ctx, r.client, track.ID); err == nil {
			full.RequestedBy = requestedBy
			r.cache.Put(full)
			return full, nil
		}
	}
	track.RequestedBy = requestedBy
	return track, nil
}

func (r *Resolver) lookup(ctx context.Context, client *youtube.Client, videoID string) (*Track, error) {
	video, err := client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track := &Track{
		ID:       video.ID,
		Title:    video.Title,
		URL:      watchURL(video.ID),
		Duration: video.Duration,
	}
	if len(video.Thumbnails) > 0 {
		track.Thumbnail = video.Thumbnails[0].URL
	}
	return track, nil
}

func (r *Resolver) searchProvider(ctx context.Context, query string) ([]*Track, error) {
	c := ytsearch.NewClient(nil)
	res, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	tracks := make([]*Track, 0, len(res.Results))
	for _, v := range res.Results {
		tracks = append(tracks, &Track{
			ID:    v.VideoID,
			Title: v.Title,
			URL:   watchURL(v.VideoID),
		})
	}
	return tracks, nil
}
