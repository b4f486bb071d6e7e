package normalize

import "firstlog/internal/models"

// Trend maps a raw server trend payload into the canonical shape.
// The server may send either title or name; both are populated from
// whichever is present so neither alias is ever absent alone.
func Trend(raw map[string]any) models.Trend {
	id, _ := firstInt64(raw, "id", "trendId")

	title := firstString(raw, "title", "name")
	name := firstString(raw, "name", "title")

	score, _ := firstNumber(raw, "score", "trendScore")

	t := models.Trend{
		ID:          id,
		Title:       title,
		Name:        name,
		Description: firstString(raw, "description", "summary"),
		Category:    firstString(raw, "categoryName", "category", "tag"),
		Score:       score,

		LikeCount:      optionalInt64(raw, "likeCount"),
		ViewCount:      optionalInt64(raw, "viewCount"),
		SNSMentions:    optionalInt64(raw, "snsMentions"),
		YoutubeTopView: optionalInt64(raw, "youtubeTopView"),

		Liked:    firstTruthy(raw, "liked", "isLiked", "userLiked"),
		Scrapped: firstTruthy(raw, "scrapped", "isScrapped", "userScrapped"),
	}

	t.Tags = stringSlice(raw["tags"])
	if t.Tags == nil {
		if tag := firstString(raw, "tag"); tag != "" {
			t.Tags = []string{tag}
		}
	}

	t.Prediction = prediction(raw)

	if items, ok := raw["similarTrends"].([]any); ok {
		for _, item := range items {
			if obj, ok := asObject(item); ok {
				t.SimilarTrends = append(t.SimilarTrends, Trend(obj))
			}
		}
	}
	if items, ok := raw["recommendedNews"].([]any); ok {
		for _, item := range items {
			if obj, ok := asObject(item); ok {
				t.RecommendedNews = append(t.RecommendedNews, models.News{
					Title:  firstString(obj, "title", "name"),
					URL:    firstString(obj, "url", "link"),
					Source: firstString(obj, "source", "publisher"),
				})
			}
		}
	}

	return t
}

// prediction derives the forecast only when a confidence value is present.
// Direction comes from the sign of the growth rate: positive is up,
// negative is down, zero or absent is stable.
func prediction(raw map[string]any) *models.Prediction {
	src := raw
	if nested, ok := asObject(raw["prediction"]); ok {
		src = nested
	}

	confidence, ok := firstNumber(src, "confidence", "predictionConfidence")
	if !ok {
		return nil
	}

	growth, _ := firstNumber(src, "nextMonthGrowth", "growthRate", "nextMonthGrowthRate")

	direction := models.DirectionStable
	switch {
	case growth > 0:
		direction = models.DirectionUp
	case growth < 0:
		direction = models.DirectionDown
	}

	return &models.Prediction{
		Direction:       direction,
		Confidence:      confidence,
		NextMonthGrowth: growth,
	}
}
