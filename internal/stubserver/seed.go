package stubserver

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"

	"firstlog/internal/models"
)

// DemoEmail and DemoPassword sign in to the seeded demo account.
const (
	DemoEmail    = "demo@firstlog.app"
	DemoPassword = "password123!"
)

var (
	seedTrendNames = []string{
		"러닝 크루", "제로 웨이스트 카페", "비건 베이커리", "한강 피크닉",
		"보드게임 카페", "클라이밍", "전시 투어", "홈 카페",
	}
	seedCategories = []string{"운동", "카페", "문화", "음식"}
	seedDistricts  = []string{"마포구", "성동구", "강남구", "종로구", "서대문구"}
)

func (s *Server) seed() {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("seed: hash demo password: %v", err))
	}
	demo := &account{
		ID:           s.nextAccountID,
		Email:        DemoEmail,
		Name:         "데모",
		PasswordHash: string(hash),
	}
	s.nextAccountID++
	s.accounts[demo.ID] = demo

	for i, name := range seedTrendNames {
		t := &trendRecord{
			ID:          s.nextTrendID,
			Title:       name,
			Description: gofakeit.Sentence(8),
			Category:    seedCategories[i%len(seedCategories)],
			Score:       50 + r.Float64()*50,
			Confidence:  0.5 + r.Float64()*0.5,
			Growth:      r.Float64() * 30,
			ViewCount:   int64(r.Intn(5000)),
			likes:       make(map[int64]bool),
			scraps:      make(map[int64]bool),
		}
		s.nextTrendID++
		s.trends = append(s.trends, t)
	}

	for i := 0; i < 12; i++ {
		emotion := models.Emotions[r.Intn(len(models.Emotions))]
		trend := s.trends[r.Intn(len(s.trends))]
		p := &postRecord{
			ID:          s.nextPostID,
			UserID:      demo.ID,
			Title:       fmt.Sprintf("%s 첫 경험", trend.Title),
			Date:        time.Now().AddDate(0, 0, -r.Intn(60)).Format("2006-01-02"),
			Location:    gofakeit.Street(),
			Gu:          seedDistricts[r.Intn(len(seedDistricts))],
			Emotion:     string(emotion),
			Tags:        []string{trend.Category},
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			TrendID:     trend.ID,
			TrendScore:  trend.Score,
			ViewCount:   int64(r.Intn(500)),
			likes:       make(map[int64]bool),
			scraps:      make(map[int64]bool),
		}
		s.nextPostID++
		s.posts = append(s.posts, p)

		cm := s.newComment(demo.ID, gofakeit.Sentence(6))
		p.comments = append(p.comments, cm)
	}
}
