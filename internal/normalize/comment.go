package normalize

import "firstlog/internal/models"

// Comment maps a raw server comment payload into the canonical shape.
// The display time is pre-formatted by the server and passed through opaque.
func Comment(raw map[string]any) models.Comment {
	id, _ := firstInt64(raw, "id", "commentId")
	authorID, _ := firstInt64(raw, "authorId", "userId")
	likeCount, _ := firstInt64(raw, "likeCount")

	return models.Comment{
		ID:          id,
		Username:    firstString(raw, "username", "name", "author"),
		DisplayTime: firstString(raw, "time", "displayTime", "createdAt"),
		Content:     firstString(raw, "content", "text"),
		LikeCount:   likeCount,
		Liked:       firstTruthy(raw, "liked", "isLiked"),
		AuthorID:    authorID,
	}
}
