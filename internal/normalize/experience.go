package normalize

import (
	"time"

	"firstlog/internal/models"
)

// nowISO is swapped out in tests for a fixed clock.
var nowISO = func() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Experience maps a raw server post payload into the canonical shape.
func Experience(raw map[string]any) models.Experience {
	id, _ := firstInt64(raw, "id", "postId", "experienceId")
	trendID, _ := firstInt64(raw, "trendId")
	trendScore, _ := firstNumber(raw, "trendScore", "score")

	title := firstString(raw, "title")
	if title == "" {
		title = models.UntitledPlaceholder
	}

	date := firstString(raw, "date", "createdAt")
	if date == "" {
		date = nowISO()
	}

	description := firstString(raw, "description", "summary")

	e := models.Experience{
		ID:          id,
		Title:       title,
		Date:        date,
		Location:    firstString(raw, "location", "place"),
		Emotion:     models.ParseEmotion(firstString(raw, "emotion")),
		Description: description,
		TrendScore:  trendScore,
		TrendID:     trendID,
		TrendName:   firstString(raw, "trendName"),
		District:    firstString(raw, "gu", "district", "region"),

		Liked:    firstTruthy(raw, "liked", "isLiked", "userLiked"),
		Scrapped: firstTruthy(raw, "scrapped", "isScrapped", "userScrapped"),
	}

	e.ViewCount, _ = firstInt64(raw, "viewCount")
	e.LikeCount, _ = firstInt64(raw, "likeCount")
	e.CommentCount, _ = firstInt64(raw, "commentCount")
	e.ScrapCount, _ = firstInt64(raw, "scrapCount")

	// Tags are always a slice, never nil.
	e.Tags = stringSlice(raw["tags"])
	if e.Tags == nil {
		if tag := firstString(raw, "tag"); tag != "" {
			e.Tags = []string{tag}
		} else {
			e.Tags = []string{}
		}
	}

	if lat, ok := firstNumber(raw, "latitude", "lat"); ok {
		e.Latitude = &lat
	}
	if lng, ok := firstNumber(raw, "longitude", "lng"); ok {
		e.Longitude = &lng
	}

	if items, ok := raw["comments"].([]any); ok {
		for _, item := range items {
			if obj, ok := asObject(item); ok {
				e.Comments = append(e.Comments, Comment(obj))
			}
		}
	}

	return e
}
