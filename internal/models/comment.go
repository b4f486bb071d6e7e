package models

// Comment on a post or trend. DisplayTime is pre-formatted by the server
// and treated as opaque text.
type Comment struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayTime string `json:"time"`
	Content     string `json:"content"`
	LikeCount   int64  `json:"likeCount"`
	Liked       bool   `json:"liked"`
	AuthorID    int64  `json:"authorId,omitempty"`
}

// OwnedBy reports whether the comment belongs to the given user.
// Ownership-gated actions (delete) require this to hold.
func (c Comment) OwnedBy(userID int64) bool {
	return c.AuthorID != 0 && c.AuthorID == userID
}
