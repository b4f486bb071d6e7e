package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"firstlog/internal/models"
	"firstlog/internal/normalize"
	"firstlog/internal/transport"
)

// Posts is the experience-post facade.
type Posts struct {
	client *transport.Client
}

// NewPosts creates the posts facade.
func NewPosts(client *transport.Client) *Posts {
	return &Posts{client: client}
}

// ListQuery holds pagination, sort, and filter parameters for list endpoints.
// Zero values fall back to the defaults the backend expects.
type ListQuery struct {
	Page    int
	Size    int
	Sort    string
	Emotion string
	Gu      string
	Keyword string
}

func (q ListQuery) values() url.Values {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Sort == "" {
		q.Sort = "latest"
	}
	if q.Emotion == "" {
		q.Emotion = "all"
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sort", q.Sort)
	v.Set("emotion", q.Emotion)
	if q.Gu != "" {
		v.Set("gu", q.Gu)
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	return v
}

// ExperienceInput is the payload for creating or updating a post.
type ExperienceInput struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Location    string   `json:"location,omitempty"`
	Emotion     string   `json:"emotion"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	TrendID     int64    `json:"trendId,omitempty"`
	Gu          string   `json:"gu,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

func (p *Posts) list(ctx context.Context, path string, q ListQuery) ([]models.Experience, error) {
	body, err := p.client.Get(ctx, path, q.values())
	if err != nil {
		return nil, err
	}
	items := normalize.UnwrapList(body)
	out := make([]models.Experience, 0, len(items))
	for _, item := range items {
		out = append(out, normalize.Experience(item))
	}
	return out, nil
}

// GetAll fetches the public post feed.
func (p *Posts) GetAll(ctx context.Context, q ListQuery) ([]models.Experience, error) {
	return p.list(ctx, "/posts", q)
}

// GetMyPosts fetches the current user's posts.
func (p *Posts) GetMyPosts(ctx context.Context, q ListQuery) ([]models.Experience, error) {
	return p.list(ctx, "/users/me/posts", q)
}

// SearchMyPosts fetches the current user's posts matching a keyword.
func (p *Posts) SearchMyPosts(ctx context.Context, keyword string) ([]models.Experience, error) {
	return p.list(ctx, "/users/me/posts", ListQuery{Keyword: keyword})
}

// GetByID fetches one post.
func (p *Posts) GetByID(ctx context.Context, id int64) (*models.Experience, error) {
	body, err := p.client.Get(ctx, fmt.Sprintf("/posts/%d", id), nil)
	if err != nil {
		return nil, err
	}
	exp := normalize.Experience(normalize.UnwrapObject(body))
	return &exp, nil
}

// Create submits a new post and returns the raw server acknowledgement.
// The calling screen owns any optimistic update to its local list.
func (p *Posts) Create(ctx context.Context, in ExperienceInput) (json.RawMessage, error) {
	return p.client.Post(ctx, "/posts", in)
}

// Update edits a post and returns the raw server acknowledgement.
func (p *Posts) Update(ctx context.Context, id int64, in ExperienceInput) (json.RawMessage, error) {
	return p.client.Put(ctx, fmt.Sprintf("/posts/%d", id), in)
}

// Delete removes a post.
func (p *Posts) Delete(ctx context.Context, id int64) error {
	_, err := p.client.Delete(ctx, fmt.Sprintf("/posts/%d", id))
	return err
}

// Like toggles the like flag server-side.
func (p *Posts) Like(ctx context.Context, id int64) error {
	_, err := p.client.Post(ctx, fmt.Sprintf("/posts/%d/like", id), nil)
	return err
}

// Scrap toggles the bookmark flag server-side.
func (p *Posts) Scrap(ctx context.Context, id int64) error {
	_, err := p.client.Post(ctx, fmt.Sprintf("/posts/%d/scrap", id), nil)
	return err
}
