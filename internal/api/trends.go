package api

import (
	"context"
	"encoding/json"
	"fmt"

	"firstlog/internal/models"
	"firstlog/internal/normalize"
	"firstlog/internal/transport"
)

// Trends is the trend facade.
type Trends struct {
	client *transport.Client
}

// NewTrends creates the trends facade.
func NewTrends(client *transport.Client) *Trends {
	return &Trends{client: client}
}

// TrendInput is the payload for creating or updating a trend.
type TrendInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

func (t *Trends) list(ctx context.Context, path string) ([]models.Trend, error) {
	body, err := t.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.UnwrapList(body)
	out := make([]models.Trend, 0, len(items))
	for _, item := range items {
		out = append(out, normalize.Trend(item))
	}
	return out, nil
}

// GetAll fetches every trend.
func (t *Trends) GetAll(ctx context.Context) ([]models.Trend, error) {
	return t.list(ctx, "/trends")
}

// GetRecent fetches recently added trends.
func (t *Trends) GetRecent(ctx context.Context) ([]models.Trend, error) {
	return t.list(ctx, "/trends/recent")
}

// GetPopular fetches the current most-engaged trends.
func (t *Trends) GetPopular(ctx context.Context) ([]models.Trend, error) {
	return t.list(ctx, "/trends/popular")
}

// GetRecommendations fetches trends recommended for the current user.
func (t *Trends) GetRecommendations(ctx context.Context) ([]models.Trend, error) {
	return t.list(ctx, "/trends/recommendations")
}

// GetPredictions fetches trends carrying growth predictions.
func (t *Trends) GetPredictions(ctx context.Context) ([]models.Trend, error) {
	return t.list(ctx, "/trends/predictions")
}

// GetByID fetches one trend. The like/scrap flags are folded in from
// whichever field name the server used; the normalizer resolves
// liked/isLiked/userLiked with first-truthy-wins.
func (t *Trends) GetByID(ctx context.Context, id int64) (*models.Trend, error) {
	body, err := t.client.Get(ctx, fmt.Sprintf("/trends/%d", id), nil)
	if err != nil {
		return nil, err
	}
	trend := normalize.Trend(normalize.UnwrapObject(body))
	return &trend, nil
}

// Create submits a new trend and returns the raw server acknowledgement.
func (t *Trends) Create(ctx context.Context, in TrendInput) (json.RawMessage, error) {
	return t.client.Post(ctx, "/trends", in)
}

// Update edits a trend and returns the raw server acknowledgement.
func (t *Trends) Update(ctx context.Context, id int64, in TrendInput) (json.RawMessage, error) {
	return t.client.Put(ctx, fmt.Sprintf("/trends/%d", id), in)
}

// Delete removes a trend.
func (t *Trends) Delete(ctx context.Context, id int64) error {
	_, err := t.client.Delete(ctx, fmt.Sprintf("/trends/%d", id))
	return err
}

// Like toggles the like flag server-side. The facade keeps no counts or
// booleans; optimistic state is the coordinator's job.
func (t *Trends) Like(ctx context.Context, id int64) error {
	_, err := t.client.Post(ctx, fmt.Sprintf("/trends/%d/like", id), nil)
	return err
}

// Scrap toggles the bookmark flag server-side.
func (t *Trends) Scrap(ctx context.Context, id int64) error {
	_, err := t.client.Post(ctx, fmt.Sprintf("/trends/%d/scrap", id), nil)
	return err
}
