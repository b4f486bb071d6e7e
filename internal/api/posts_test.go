package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firstlog/internal/models"
)

func TestPosts_GetAll_DefaultQuery(t *testing.T) {
	var got url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"data":{"list":[{"id":1,"title":"first ski trip"}]}}`))
	})

	c, _ := newFacadeClient(t, mux)
	posts, err := NewPosts(c).GetAll(context.Background(), ListQuery{})
	require.NoError(t, err)

	assert.Equal(t, "1", got.Get("page"))
	assert.Equal(t, "10", got.Get("size"))
	assert.Equal(t, "latest", got.Get("sort"))
	assert.Equal(t, "all", got.Get("emotion"))
	assert.Empty(t, got.Get("gu"))

	require.Len(t, posts, 1)
	assert.Equal(t, "first ski trip", posts[0].Title)
}

func TestPosts_GetAll_ExplicitQuery(t *testing.T) {
	var got url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	c, _ := newFacadeClient(t, mux)
	_, err := NewPosts(c).GetAll(context.Background(), ListQuery{
		Page: 3, Size: 20, Sort: "popular", Emotion: "fear", Gu: "마포구",
	})
	require.NoError(t, err)

	assert.Equal(t, "3", got.Get("page"))
	assert.Equal(t, "20", got.Get("size"))
	assert.Equal(t, "popular", got.Get("sort"))
	assert.Equal(t, "fear", got.Get("emotion"))
	assert.Equal(t, "마포구", got.Get("gu"))
}

func TestPosts_SearchMyPosts(t *testing.T) {
	var gotPath string
	var got url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me/posts", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		got = r.URL.Query()
		w.Write([]byte(`{"data":[]}`))
	})

	c, _ := newFacadeClient(t, mux)
	_, err := NewPosts(c).SearchMyPosts(context.Background(), "climbing")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/users/me/posts", gotPath)
	assert.Equal(t, "climbing", got.Get("keyword"))
}

func TestPosts_GetByID_NormalizesDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/posts/12", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"id":12,"emotion":"WONDERFUL","summary":"great day"}}`))
	})

	c, _ := newFacadeClient(t, mux)
	post, err := NewPosts(c).GetByID(context.Background(), 12)
	require.NoError(t, err)

	assert.EqualValues(t, 12, post.ID)
	assert.Equal(t, models.EmotionJoy, post.Emotion, "unrecognized emotion falls back")
	assert.Equal(t, "great day", post.Description)
	assert.Equal(t, models.UntitledPlaceholder, post.Title)
}

func TestPosts_MutationsPassThrough(t *testing.T) {
	var gotPath, gotMethod string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"data":{"id":99}}`))
	})

	c, _ := newFacadeClient(t, mux)
	facade := NewPosts(c)
	ctx := context.Background()

	ack, err := facade.Create(ctx, ExperienceInput{Title: "x", Emotion: "joy"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"id":99}}`, string(ack))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/posts", gotPath)

	_, err = facade.Update(ctx, 99, ExperienceInput{Title: "y"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/v1/posts/99", gotPath)

	require.NoError(t, facade.Delete(ctx, 99))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/posts/99", gotPath)
}

func TestComments_PathShapes(t *testing.T) {
	var gotPath, gotMethod string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	})

	c, _ := newFacadeClient(t, mux)
	facade := NewComments(c)
	ctx := context.Background()

	_, err := facade.CreateForPost(ctx, 5, "hi")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/posts/5/comments", gotPath)

	require.NoError(t, facade.DeleteForPost(ctx, 5, 7))
	assert.Equal(t, "/api/v1/posts/5/comments/7", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)

	require.NoError(t, facade.LikeForPost(ctx, 5, 7))
	assert.Equal(t, "/api/v1/posts/5/comments/7/like", gotPath)

	_, err = facade.CreateForTrend(ctx, 3, "hello")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/trends/3/comments", gotPath)

	// trend comment deletion and liking address the comment directly
	require.NoError(t, facade.DeleteForTrend(ctx, 8))
	assert.Equal(t, "/api/v1/trends/comments/8", gotPath)

	require.NoError(t, facade.LikeForTrend(ctx, 8))
	assert.Equal(t, "/api/v1/trends/comments/8/like", gotPath)
}
