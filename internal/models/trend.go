package models

// Prediction direction values.
const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStable = "stable"
)

// Prediction is a trend's forecast, present only when the server supplied a confidence.
type Prediction struct {
	Direction       string  `json:"direction"`
	Confidence      float64 `json:"confidence"`
	NextMonthGrowth float64 `json:"nextMonthGrowth"`
}

// News is a recommended article attached to a trend.
type News struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// Trend is the canonical trend shape. Name and Title are aliases: after
// normalization at least one is derived from the other, never both empty
// when either was present in the input.
type Trend struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Score       float64 `json:"score"`

	Prediction *Prediction `json:"prediction,omitempty"`

	// Engagement metrics are pointers so "absent" survives normalization.
	LikeCount      *int64 `json:"likeCount,omitempty"`
	ViewCount      *int64 `json:"viewCount,omitempty"`
	SNSMentions    *int64 `json:"snsMentions,omitempty"`
	YoutubeTopView *int64 `json:"youtubeTopView,omitempty"`

	Tags            []string `json:"tags,omitempty"`
	SimilarTrends   []Trend  `json:"similarTrends,omitempty"`
	RecommendedNews []News   `json:"recommendedNews,omitempty"`

	Liked    bool `json:"liked"`
	Scrapped bool `json:"scrapped"`
}

// DisplayName returns the trend's display name, whichever alias is populated.
func (t Trend) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}
