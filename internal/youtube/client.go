// Package youtube talks to the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"freeskill/internal/models"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("youtube api key not configured")

// Client searches videos in two steps: search for ids, then load their details.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

// NewClient creates a client. Every Search is bounded by timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Default thumbnail `json:"default"`
				Medium  thumbnail `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Search returns up to maxResults videos matching query with their duration and view count.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.VideoResult, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var found searchResponse
	err := c.get(ctx, "search", url.Values{
		"part":       {"snippet"},
		"q":          {query},
		"maxResults": {strconv.Itoa(maxResults)},
		"type":       {"video"},
	}, &found)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(found.Items))
	for _, item := range found.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []models.VideoResult{}, nil
	}

	var details videosResponse
	err = c.get(ctx, "videos", url.Values{
		"part": {"snippet,contentDetails,statistics"},
		"id":   {strings.Join(ids, ",")},
	}, &details)
	if err != nil {
		return nil, err
	}

	videos := make([]models.VideoResult, 0, len(details.Items))
	for _, item := range details.Items {
		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		videos = append(videos, models.VideoResult{
			VideoID:      item.ID,
			Title:        item.Snippet.Title,
			Thumbnail:    thumb,
			ChannelTitle: item.Snippet.ChannelTitle,
			Duration:     item.ContentDetails.Duration,
			Views:        item.Statistics.ViewCount,
		})
	}
	return videos, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build youtube %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("youtube %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read youtube %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("youtube %s returned %d: %s", endpoint, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("youtube %s returned %d", endpoint, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode youtube %s response: %w", endpoint, err)
	}
	return nil
}
