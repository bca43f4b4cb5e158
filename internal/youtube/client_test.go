package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchTwoStepFetch(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("key"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "golang", q.Get("q"))
			assert.Equal(t, "10", q.Get("maxResults"))
			assert.Equal(t, "video", q.Get("type"))
			w.Write([]byte(`{"items":[{"id":{"videoId":"a1"}},{"id":{"videoId":"b2"}}]}`))
		case "/videos":
			assert.Equal(t, "a1,b2", q.Get("id"))
			assert.Equal(t, "snippet,contentDetails,statistics", q.Get("part"))
			w.Write([]byte(`{"items":[
				{"id":"a1","snippet":{"title":"Go tour","channelTitle":"GoDev","thumbnails":{"medium":{"url":"https://i.ytimg.com/a1.jpg"}}},
				 "contentDetails":{"duration":"PT12M3S"},"statistics":{"viewCount":"12000"}},
				{"id":"b2","snippet":{"title":"Short","channelTitle":"X","thumbnails":{"default":{"url":"https://i.ytimg.com/b2.jpg"}}},
				 "contentDetails":{"duration":"PT40S"},"statistics":{}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	})

	client := NewClient(srv.URL+"/", "secret", time.Second)
	videos, err := client.Search(context.Background(), "golang", 10)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))

	assert.Equal(t, "a1", videos[0].VideoID)
	assert.Equal(t, "Go tour", videos[0].Title)
	assert.Equal(t, "GoDev", videos[0].ChannelTitle)
	assert.Equal(t, "https://i.ytimg.com/a1.jpg", videos[0].Thumbnail)
	assert.Equal(t, "PT12M3S", videos[0].Duration)
	assert.Equal(t, "12000", videos[0].Views)

	assert.Equal(t, "https://i.ytimg.com/b2.jpg", videos[1].Thumbnail)
	assert.Empty(t, videos[1].Views)
}

func TestSearchWithoutCandidatesSkipsDetails(t *testing.T) {
	var calls int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"items":[]}`))
	})

	videos, err := NewClient(srv.URL, "secret", time.Second).Search(context.Background(), "nothing", 10)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestSearchProviderError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})

	_, err := NewClient(srv.URL, "secret", time.Second).Search(context.Background(), "golang", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func TestSearchTimeout(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	_, err := NewClient(srv.URL, "secret", 50*time.Millisecond).Search(context.Background(), "golang", 10)
	assert.Error(t, err)
}

func TestSearchRequiresAPIKey(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:0", "", time.Second).Search(context.Background(), "golang", 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
