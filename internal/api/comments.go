package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"firstlog/internal/models"
	"firstlog/internal/transport"
)

// Comments is the comment facade. Post and trend comments share a shape but
// not a path layout: trend comment deletion and liking address the comment
// directly under /trends/comments/{id}. That asymmetry is how the backend
// is deployed and must not be "fixed" client-side.
type Comments struct {
	client *transport.Client
}

// NewComments creates the comments facade.
func NewComments(client *transport.Client) *Comments {
	return &Comments{client: client}
}

// CreateForPost adds a comment to a post.
func (c *Comments) CreateForPost(ctx context.Context, postID int64, content string) (json.RawMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment content is required")
	}
	return c.client.Post(ctx, fmt.Sprintf("/posts/%d/comments", postID), map[string]string{
		"content": content,
	})
}

// DeleteForPost removes a comment from a post.
func (c *Comments) DeleteForPost(ctx context.Context, postID, commentID int64) error {
	_, err := c.client.Delete(ctx, fmt.Sprintf("/posts/%d/comments/%d", postID, commentID))
	return err
}

// LikeForPost toggles a like on a post comment.
func (c *Comments) LikeForPost(ctx context.Context, postID, commentID int64) error {
	_, err := c.client.Post(ctx, fmt.Sprintf("/posts/%d/comments/%d/like", postID, commentID), nil)
	return err
}

// CreateForTrend adds a comment to a trend.
func (c *Comments) CreateForTrend(ctx context.Context, trendID int64, content string) (json.RawMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment content is required")
	}
	return c.client.Post(ctx, fmt.Sprintf("/trends/%d/comments", trendID), map[string]string{
		"content": content,
	})
}

// DeleteForTrend removes a trend comment.
func (c *Comments) DeleteForTrend(ctx context.Context, commentID int64) error {
	_, err := c.client.Delete(ctx, fmt.Sprintf("/trends/comments/%d", commentID))
	return err
}

// LikeForTrend toggles a like on a trend comment.
func (c *Comments) LikeForTrend(ctx context.Context, commentID int64) error {
	_, err := c.client.Post(ctx, fmt.Sprintf("/trends/comments/%d/like", commentID), nil)
	return err
}
