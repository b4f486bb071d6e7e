package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firstlog/internal/api"
	"firstlog/internal/models"
)

// authStub is a stub for AuthAPI.
type authStub struct {
	loginFn    func(context.Context, string, string) (*models.User, error)
	signupFn   func(context.Context, api.SignupInput) error
	logoutFn   func(context.Context)
	validateFn func(context.Context) (*models.User, error)
}

func (s *authStub) Login(ctx context.Context, email, password string) (*models.User, error) {
	return s.loginFn(ctx, email, password)
}
func (s *authStub) Signup(ctx context.Context, in api.SignupInput) error {
	return s.signupFn(ctx, in)
}
func (s *authStub) Logout(ctx context.Context) {
	if s.logoutFn != nil {
		s.logoutFn(ctx)
	}
}
func (s *authStub) ValidateToken(ctx context.Context) (*models.User, error) {
	return s.validateFn(ctx)
}

// trendStub is a stub for TrendAPI.
type trendStub struct {
	getAllFn func(context.Context) ([]models.Trend, error)
}

func (s *trendStub) GetAll(ctx context.Context) ([]models.Trend, error) { return s.getAllFn(ctx) }

// postStub is a stub for PostAPI.
type postStub struct {
	getAllFn func(context.Context, api.ListQuery) ([]models.Experience, error)
	likeFn   func(context.Context, int64) error
	scrapFn  func(context.Context, int64) error
}

func (s *postStub) GetAll(ctx context.Context, q api.ListQuery) ([]models.Experience, error) {
	return s.getAllFn(ctx, q)
}
func (s *postStub) Like(ctx context.Context, id int64) error  { return s.likeFn(ctx, id) }
func (s *postStub) Scrap(ctx context.Context, id int64) error { return s.scrapFn(ctx, id) }

func noopAuth() *authStub {
	return &authStub{
		loginFn: func(_ context.Context, email, _ string) (*models.User, error) {
			return &models.User{ID: 1, Email: email, Name: "tester"}, nil
		},
		signupFn:   func(context.Context, api.SignupInput) error { return nil },
		validateFn: func(context.Context) (*models.User, error) { return nil, errors.New("no session") },
	}
}

func noopTrends() *trendStub {
	return &trendStub{
		getAllFn: func(context.Context) ([]models.Trend, error) { return nil, nil },
	}
}

func noopPosts() *postStub {
	return &postStub{
		getAllFn: func(context.Context, api.ListQuery) ([]models.Experience, error) { return nil, nil },
		likeFn:   func(context.Context, int64) error { return nil },
		scrapFn:  func(context.Context, int64) error { return nil },
	}
}

func TestCoordinator_SessionGating(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())

	// Uninitialized: no user yet, startup check pending
	assert.True(t, c.IsInitializing())
	assert.Nil(t, c.User())

	c.Initialize(context.Background())

	// no token resolves to Anonymous, not an error
	assert.False(t, c.IsInitializing())
	assert.Nil(t, c.User())
}

func TestCoordinator_InitializeWithValidToken(t *testing.T) {
	auth := noopAuth()
	auth.validateFn = func(context.Context) (*models.User, error) {
		return &models.User{ID: 7, Email: "saved@session.com", Name: "saved"}, nil
	}
	c := New(auth, noopTrends(), noopPosts())

	c.Initialize(context.Background())

	require.NotNil(t, c.User())
	assert.EqualValues(t, 7, c.User().ID)
	assert.False(t, c.IsInitializing())
}

func TestCoordinator_LoginTransition(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())
	c.Initialize(context.Background())

	require.NoError(t, c.Login(context.Background(), "a@b.com", "pw"))
	require.NotNil(t, c.User())
	assert.Equal(t, "a@b.com", c.User().Email)
}

func TestCoordinator_LoginFailureStaysAnonymous(t *testing.T) {
	auth := noopAuth()
	auth.loginFn = func(context.Context, string, string) (*models.User, error) {
		return nil, models.NewAuthError("bad credentials")
	}
	c := New(auth, noopTrends(), noopPosts())
	c.Initialize(context.Background())

	assert.Error(t, c.Login(context.Background(), "a@b.com", "wrong"))
	assert.Nil(t, c.User())
}

func TestCoordinator_SignupThenLogin(t *testing.T) {
	var calls []string
	auth := noopAuth()
	auth.signupFn = func(_ context.Context, in api.SignupInput) error {
		calls = append(calls, "signup:"+in.Email)
		return nil
	}
	auth.loginFn = func(_ context.Context, email, _ string) (*models.User, error) {
		calls = append(calls, "login:"+email)
		return &models.User{ID: 2, Email: email}, nil
	}
	c := New(auth, noopTrends(), noopPosts())

	err := c.Signup(context.Background(), api.SignupInput{Email: "n@u.com", Password: "pw", Name: "N"})
	require.NoError(t, err)
	assert.Equal(t, []string{"signup:n@u.com", "login:n@u.com"}, calls)
	require.NotNil(t, c.User())
}

func TestCoordinator_LogoutClearsEverything(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())
	require.NoError(t, c.Login(context.Background(), "a@b.com", "pw"))
	require.NoError(t, c.ToggleLike(context.Background(), 5))
	require.NoError(t, c.ToggleScrap(context.Background(), 6))

	c.Logout(context.Background())

	assert.Nil(t, c.User())
	assert.Empty(t, c.LikedPostIDs())
	assert.Empty(t, c.ScrappedPostIDs())
}

func TestCoordinator_HandleUnauthorizedDropsUser(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())
	require.NoError(t, c.Login(context.Background(), "a@b.com", "pw"))

	ch, cancel := c.Subscribe()
	defer cancel()

	c.HandleUnauthorized()

	assert.Nil(t, c.User())
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a state-change notification")
	}
}

func TestCoordinator_ToggleLikeSuccess(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())

	require.False(t, c.IsLiked(10))
	require.NoError(t, c.ToggleLike(context.Background(), 10))
	assert.True(t, c.IsLiked(10))
	assert.Equal(t, []int64{10}, c.LikedPostIDs())

	// second toggle removes the membership
	require.NoError(t, c.ToggleLike(context.Background(), 10))
	assert.False(t, c.IsLiked(10))
	assert.Empty(t, c.LikedPostIDs())
}

func TestCoordinator_ToggleLikeRollbackOnFailure(t *testing.T) {
	posts := noopPosts()
	posts.likeFn = func(context.Context, int64) error { return models.NewNetworkError(errors.New("timeout")) }
	c := New(noopAuth(), noopTrends(), posts)

	err := c.ToggleLike(context.Background(), 10)
	require.Error(t, err)

	// net no-op: the optimistic flip was reverted
	assert.False(t, c.IsLiked(10))
	assert.Empty(t, c.LikedPostIDs())
}

func TestCoordinator_ToggleScrapIndependentOfLike(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())

	require.NoError(t, c.ToggleScrap(context.Background(), 3))
	assert.True(t, c.IsScrapped(3))
	assert.False(t, c.IsLiked(3))
}

func TestCoordinator_SetStatusIsIdempotent(t *testing.T) {
	var calls int
	posts := noopPosts()
	posts.likeFn = func(context.Context, int64) error { calls++; return nil }
	c := New(noopAuth(), noopTrends(), posts)

	require.NoError(t, c.SetLikeStatus(context.Background(), 4, true))
	require.NoError(t, c.SetLikeStatus(context.Background(), 4, true))
	require.NoError(t, c.SetLikeStatus(context.Background(), 4, true))

	assert.True(t, c.IsLiked(4))
	assert.Equal(t, 1, calls, "repeated sets to the same value must not re-fire")
}

func TestCoordinator_SameIDTogglesCoalesce(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan error)
	var mu sync.Mutex
	var calls int

	posts := noopPosts()
	posts.likeFn = func(context.Context, int64) error {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			entered <- struct{}{}
			return <-release
		}
		return nil
	}
	c := New(noopAuth(), noopTrends(), posts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.ToggleLike(context.Background(), 7)
	}()
	<-entered // first request is in flight, membership is optimistically on

	// second toggle while the first is unresolved: flips off immediately
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.ToggleLike(context.Background(), 7)
	}()
	require.Eventually(t, func() bool { return !c.IsLiked(7) },
		time.Second, time.Millisecond, "second toggle must apply optimistically")

	// first request fails; its rollback must not clobber the second
	// toggle, which now matches the confirmed state and owes no request
	release <- models.NewNetworkError(errors.New("lost"))
	wg.Wait()

	assert.False(t, c.IsLiked(7))
	mu.Lock()
	assert.Equal(t, 1, calls, "coalesced toggle must not issue a duplicate request")
	mu.Unlock()
}

func TestCoordinator_DifferentIDTogglesAreIndependent(t *testing.T) {
	var inFlight sync.WaitGroup
	inFlight.Add(2)
	release := make(chan struct{})

	posts := noopPosts()
	posts.likeFn = func(_ context.Context, _ int64) error {
		inFlight.Done()
		<-release
		return nil
	}
	c := New(noopAuth(), noopTrends(), posts)

	var wg sync.WaitGroup
	for _, id := range []int64{1, 2} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = c.ToggleLike(context.Background(), id)
		}(id)
	}

	// both requests reach the network concurrently; per-id serialization
	// must not make one wait on the other
	inFlight.Wait()
	close(release)
	wg.Wait()

	assert.True(t, c.IsLiked(1))
	assert.True(t, c.IsLiked(2))
}

func TestCoordinator_RefreshTrends(t *testing.T) {
	trends := noopTrends()
	trends.getAllFn = func(context.Context) ([]models.Trend, error) {
		return []models.Trend{{ID: 1, Title: "A", Name: "A"}}, nil
	}
	c := New(noopAuth(), trends, noopPosts())

	require.NoError(t, c.RefreshTrends(context.Background()))
	assert.False(t, c.LoadingTrends())
	require.Len(t, c.Trends(), 1)

	// wholesale replacement on the next fetch
	trends.getAllFn = func(context.Context) ([]models.Trend, error) {
		return []models.Trend{{ID: 2}, {ID: 3}}, nil
	}
	require.NoError(t, c.RefreshTrends(context.Background()))
	assert.Len(t, c.Trends(), 2)
}

func TestCoordinator_RefreshFailureKeepsPreviousData(t *testing.T) {
	posts := noopPosts()
	posts.getAllFn = func(context.Context, api.ListQuery) ([]models.Experience, error) {
		return []models.Experience{{ID: 1, Title: "kept"}}, nil
	}
	c := New(noopAuth(), noopTrends(), posts)
	require.NoError(t, c.RefreshExperiences(context.Background(), api.ListQuery{}))

	posts.getAllFn = func(context.Context, api.ListQuery) ([]models.Experience, error) {
		return nil, models.NewNetworkError(errors.New("down"))
	}
	err := c.RefreshExperiences(context.Background(), api.ListQuery{})
	require.Error(t, err)

	// loading cleared on the failure path, previous content intact
	assert.False(t, c.LoadingExperiences())
	require.Len(t, c.Experiences(), 1)
	assert.Equal(t, "kept", c.Experiences()[0].Title)
}

func TestCoordinator_SubscribeReceivesChanges(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())
	ch, cancel := c.Subscribe()
	defer cancel()

	require.NoError(t, c.Login(context.Background(), "a@b.com", "pw"))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a notification after login")
	}
}

func TestCoordinator_NavigationState(t *testing.T) {
	c := New(noopAuth(), noopTrends(), noopPosts())
	ch, cancel := c.Subscribe()
	defer cancel()

	assert.Empty(t, c.ActiveTab())
	assert.Zero(t, c.SelectedTrendID())

	c.SetActiveTab("trends")
	c.SelectTrend(7)
	assert.Equal(t, "trends", c.ActiveTab())
	assert.EqualValues(t, 7, c.SelectedTrendID())

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a notification after navigation change")
	}

	// setting the same values again must not wake subscribers
	for len(ch) > 0 {
		<-ch
	}
	c.SetActiveTab("trends")
	c.SelectTrend(7)
	assert.Empty(t, ch)

	c.SelectTrend(0)
	assert.Zero(t, c.SelectedTrendID())
}
