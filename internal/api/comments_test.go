package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_PostRoutesNestUnderPost(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	record := func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"data":{"id":9,"content":"nice"}}`))
	}
	mux.HandleFunc("/api/v1/posts/7/comments", record)
	mux.HandleFunc("/api/v1/posts/7/comments/9", record)
	mux.HandleFunc("/api/v1/posts/7/comments/9/like", record)

	c, _ := newFacadeClient(t, mux)
	comments := NewComments(c)
	ctx := context.Background()

	raw, err := comments.CreateForPost(ctx, 7, "nice")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	require.NoError(t, comments.LikeForPost(ctx, 7, 9))
	require.NoError(t, comments.DeleteForPost(ctx, 7, 9))

	assert.Equal(t, []string{
		"POST /api/v1/posts/7/comments",
		"POST /api/v1/posts/7/comments/9/like",
		"DELETE /api/v1/posts/7/comments/9",
	}, seen)
}

// Trend comment mutations address the comment by its own id, without the
// parent trend in the path. The backend routes them that way.
func TestComments_TrendRoutesSkipParentID(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	record := func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"data":{"id":4,"content":"first"}}`))
	}
	mux.HandleFunc("/api/v1/trends/3/comments", record)
	mux.HandleFunc("/api/v1/trends/comments/4", record)
	mux.HandleFunc("/api/v1/trends/comments/4/like", record)

	c, _ := newFacadeClient(t, mux)
	comments := NewComments(c)
	ctx := context.Background()

	_, err := comments.CreateForTrend(ctx, 3, "first")
	require.NoError(t, err)
	require.NoError(t, comments.LikeForTrend(ctx, 4))
	require.NoError(t, comments.DeleteForTrend(ctx, 4))

	assert.Equal(t, []string{
		"POST /api/v1/trends/3/comments",
		"POST /api/v1/trends/comments/4/like",
		"DELETE /api/v1/trends/comments/4",
	}, seen)
}

func TestComments_CreateRejectsEmptyContent(t *testing.T) {
	mux := http.NewServeMux()
	c, _ := newFacadeClient(t, mux)
	comments := NewComments(c)

	_, err := comments.CreateForPost(context.Background(), 7, "")
	assert.Error(t, err)

	_, err = comments.CreateForTrend(context.Background(), 3, "")
	assert.Error(t, err)
}
