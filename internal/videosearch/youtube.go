package videosearch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultMaxResults int64 = 5
	watchURLPrefix          = "https://www.youtube.com/watch?v="
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("video search not configured")

// Result is one video found by a search.
type Result struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// YouTubeSearcher finds exercise form videos through the YouTube Data API.
type YouTubeSearcher struct {
	service    *youtube.Service
	maxResults int64
}

// NewYouTubeSearcher builds a searcher. An empty endpoint uses the public API.
func NewYouTubeSearcher(ctx context.Context, apiKey, endpoint string, maxResults int64) (*YouTubeSearcher, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &YouTubeSearcher{service: svc, maxResults: maxResults}, nil
}

// FormQuery is the search used to find form videos for an exercise.
func FormQuery(exerciseName string) string {
	return strings.TrimSpace(exerciseName) + " exercise form"
}

// Search returns embeddable video results for query, most relevant first.
func (s *YouTubeSearcher) Search(ctx context.Context, query string) ([]Result, error) {
	resp, err := s.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		VideoEmbeddable("true").
		MaxResults(s.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		r := Result{VideoID: item.Id.VideoId, URL: watchURLPrefix + item.Id.VideoId}
		if item.Snippet != nil {
			r.Title = item.Snippet.Title
		}
		results = append(results, r)
	}
	log.Debugf("youtube search %q: %d results", query, len(results))
	return results, nil
}
