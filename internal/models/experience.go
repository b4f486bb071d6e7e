package models

import "strings"

// Emotion is the fixed ten-value emotion tag on an experience.
type Emotion string

// The full emotion domain. Unrecognized server values normalize to EmotionJoy.
const (
	EmotionJoy        Emotion = "joy"
	EmotionExcitement Emotion = "excitement"
	EmotionSurprise   Emotion = "surprise"
	EmotionTouched    Emotion = "touched"
	EmotionProud      Emotion = "proud"
	EmotionNervous    Emotion = "nervous"
	EmotionFun        Emotion = "fun"
	EmotionSadness    Emotion = "sadness"
	EmotionAnger      Emotion = "anger"
	EmotionFear       Emotion = "fear"
)

// Emotions lists every valid emotion value.
var Emotions = []Emotion{
	EmotionJoy, EmotionExcitement, EmotionSurprise, EmotionTouched, EmotionProud,
	EmotionNervous, EmotionFun, EmotionSadness, EmotionAnger, EmotionFear,
}

// ParseEmotion coerces a raw server value into the emotion domain,
// falling back to EmotionJoy for anything unrecognized.
func ParseEmotion(raw string) Emotion {
	v := Emotion(strings.ToLower(strings.TrimSpace(raw)))
	for _, e := range Emotions {
		if v == e {
			return e
		}
	}
	return EmotionJoy
}

// UntitledPlaceholder is the title used when the server omits one.
const UntitledPlaceholder = "제목 없음"

// Experience is the canonical post shape: one recorded "first experience".
type Experience struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Location    string   `json:"location,omitempty"`
	Emotion     Emotion  `json:"emotion"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	TrendScore  float64  `json:"trendScore"`
	TrendID     int64    `json:"trendId"`
	TrendName   string   `json:"trendName,omitempty"`

	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
	ScrapCount   int64 `json:"scrapCount"`

	Comments []Comment `json:"comments,omitempty"`

	Liked    bool `json:"liked"`
	Scrapped bool `json:"scrapped"`

	District  string   `json:"district,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
