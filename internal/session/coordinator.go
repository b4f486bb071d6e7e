// Package session holds the process-wide reactive state every screen reads:
// the authenticated user, the loaded collections, and the optimistic
// like/scrap sets. Screens depend on the State interface, not the concrete
// coordinator.
package session

import (
	"context"
	"sync"

	"firstlog/internal/api"
	"firstlog/internal/models"
	"firstlog/internal/observability"
)

// AuthAPI is the slice of the auth facade the coordinator drives.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, in api.SignupInput) error
	Logout(ctx context.Context)
	ValidateToken(ctx context.Context) (*models.User, error)
}

// TrendAPI is the slice of the trends facade the coordinator drives. The
// optimistic id sets are post-scoped, so trend like/scrap calls go straight
// from screens to the facade and never pass through here.
type TrendAPI interface {
	GetAll(ctx context.Context) ([]models.Trend, error)
}

// PostAPI is the slice of the posts facade the coordinator drives.
type PostAPI interface {
	GetAll(ctx context.Context, q api.ListQuery) ([]models.Experience, error)
	Like(ctx context.Context, id int64) error
	Scrap(ctx context.Context, id int64) error
}

// State is the read/mutate surface screens consume.
type State interface {
	User() *models.User
	IsInitializing() bool
	Experiences() []models.Experience
	Trends() []models.Trend
	LoadingExperiences() bool
	LoadingTrends() bool
	IsLiked(id int64) bool
	IsScrapped(id int64) bool
	LikedPostIDs() []int64
	ScrappedPostIDs() []int64
	ActiveTab() string
	SelectedTrendID() int64
	Subscribe() (<-chan struct{}, func())

	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, in api.SignupInput) error
	Logout(ctx context.Context)
	ToggleLike(ctx context.Context, id int64) error
	ToggleScrap(ctx context.Context, id int64) error
	SetLikeStatus(ctx context.Context, id int64, liked bool) error
	SetScrapStatus(ctx context.Context, id int64, scrapped bool) error
	SetActiveTab(tab string)
	SelectTrend(id int64)
	RefreshExperiences(ctx context.Context, q api.ListQuery) error
	RefreshTrends(ctx context.Context) error
}

// Coordinator is the concrete shared state container. All fields are guarded
// by mu; callers on any goroutine see a consistent snapshot.
type Coordinator struct {
	auth   AuthAPI
	trends TrendAPI
	posts  PostAPI

	mu           sync.RWMutex
	user         *models.User
	initializing bool

	liked    map[int64]bool
	scrapped map[int64]bool
	// last server-confirmed membership, the rollback target for toggles
	likedConfirmed    map[int64]bool
	scrappedConfirmed map[int64]bool

	experiences        []models.Experience
	trendList          []models.Trend
	loadingExperiences bool
	loadingTrends      bool

	activeTab       string
	selectedTrendID int64

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	locks *keyedLocks
	log   *observability.Logger
}

var _ State = (*Coordinator)(nil)

// New creates a Coordinator in the Uninitialized state.
func New(auth AuthAPI, trends TrendAPI, posts PostAPI) *Coordinator {
	return &Coordinator{
		auth:              auth,
		trends:            trends,
		posts:             posts,
		initializing:      true,
		liked:             make(map[int64]bool),
		scrapped:          make(map[int64]bool),
		likedConfirmed:    make(map[int64]bool),
		scrappedConfirmed: make(map[int64]bool),
		subs:              make(map[int]chan struct{}),
		locks:             newKeyedLocks(),
		log:               observability.GlobalLogger,
	}
}

func (c *Coordinator) setFor(kind string) map[int64]bool {
	if kind == toggleScrap {
		return c.scrapped
	}
	return c.liked
}

func (c *Coordinator) confirmedFor(kind string) map[int64]bool {
	if kind == toggleScrap {
		return c.scrappedConfirmed
	}
	return c.likedConfirmed
}

// notify wakes every subscriber without blocking; a subscriber that has not
// drained its channel already has a wakeup pending.
func (c *Coordinator) notify() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives after every state change, and a
// cancel func the subscriber must call when done.
func (c *Coordinator) Subscribe() (<-chan struct{}, func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch
	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// Initialize performs the one-time startup token check. Validation failure
// is expected with no session and resolves to Anonymous, never an error.
func (c *Coordinator) Initialize(ctx context.Context) {
	user, err := c.auth.ValidateToken(ctx)

	c.mu.Lock()
	if err != nil {
		c.log.Debug("startup token validation failed, continuing anonymous", "error", err)
		c.user = nil
	} else {
		c.user = user
	}
	c.initializing = false
	c.mu.Unlock()
	c.notify()
}

// Login authenticates and transitions Anonymous → Authenticated.
func (c *Coordinator) Login(ctx context.Context, email, password string) error {
	user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	c.notify()
	return nil
}

// Signup registers a new account, then logs in to establish the session.
func (c *Coordinator) Signup(ctx context.Context, in api.SignupInput) error {
	if err := c.auth.Signup(ctx, in); err != nil {
		return err
	}
	return c.Login(ctx, in.Email, in.Password)
}

// Logout clears the session locally regardless of the server outcome, and
// drops the optimistic interaction sets since they belong to the user.
func (c *Coordinator) Logout(ctx context.Context) {
	c.auth.Logout(ctx)

	c.mu.Lock()
	c.user = nil
	c.liked = make(map[int64]bool)
	c.scrapped = make(map[int64]bool)
	c.likedConfirmed = make(map[int64]bool)
	c.scrappedConfirmed = make(map[int64]bool)
	c.mu.Unlock()
	c.notify()
}

// HandleUnauthorized is the transport's 401 hook: the token is already
// purged, so the user must drop before the next render.
func (c *Coordinator) HandleUnauthorized() {
	c.mu.Lock()
	alreadyAnonymous := c.user == nil
	c.user = nil
	c.mu.Unlock()
	if !alreadyAnonymous {
		c.notify()
	}
}

// User returns the authenticated user, or nil when anonymous.
func (c *Coordinator) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// IsInitializing reports whether the startup token check is still running.
func (c *Coordinator) IsInitializing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initializing
}

// ToggleLike optimistically flips the like membership for a post and
// reconciles with the server; on failure the flip is reverted.
func (c *Coordinator) ToggleLike(ctx context.Context, id int64) error {
	cmd := &toggleCommand{c: c, kind: toggleLike, id: id, send: c.posts.Like}
	return cmd.run(ctx)
}

// ToggleScrap optimistically flips the scrap membership for a post.
func (c *Coordinator) ToggleScrap(ctx context.Context, id int64) error {
	cmd := &toggleCommand{c: c, kind: toggleScrap, id: id, send: c.posts.Scrap}
	return cmd.run(ctx)
}

// SetLikeStatus imperatively drives the like membership to a target value;
// it is a no-op when the state already matches.
func (c *Coordinator) SetLikeStatus(ctx context.Context, id int64, liked bool) error {
	c.mu.RLock()
	current := c.liked[id]
	c.mu.RUnlock()
	if current == liked {
		return nil
	}
	return c.ToggleLike(ctx, id)
}

// SetScrapStatus imperatively drives the scrap membership to a target value.
func (c *Coordinator) SetScrapStatus(ctx context.Context, id int64, scrapped bool) error {
	c.mu.RLock()
	current := c.scrapped[id]
	c.mu.RUnlock()
	if current == scrapped {
		return nil
	}
	return c.ToggleScrap(ctx, id)
}

// IsLiked reports the optimistic like membership for a post. The id sets are
// authoritative for rendering, independent of flags on fetched entities.
func (c *Coordinator) IsLiked(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.liked[id]
}

// IsScrapped reports the optimistic scrap membership for a post.
func (c *Coordinator) IsScrapped(id int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scrapped[id]
}

// LikedPostIDs returns a snapshot of the liked id set.
func (c *Coordinator) LikedPostIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return setToSlice(c.liked)
}

// ScrappedPostIDs returns a snapshot of the scrapped id set.
func (c *Coordinator) ScrappedPostIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return setToSlice(c.scrapped)
}

func setToSlice(set map[int64]bool) []int64 {
	out := make([]int64, 0, len(set))
	for id, member := range set {
		if member {
			out = append(out, id)
		}
	}
	return out
}

// SetActiveTab records which screen tab is in front, so sibling screens can
// react to navigation they did not initiate.
func (c *Coordinator) SetActiveTab(tab string) {
	c.mu.Lock()
	changed := c.activeTab != tab
	c.activeTab = tab
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// ActiveTab returns the tab most recently brought to front.
func (c *Coordinator) ActiveTab() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeTab
}

// SelectTrend records the trend a detail screen is focused on; zero clears
// the selection.
func (c *Coordinator) SelectTrend(id int64) {
	c.mu.Lock()
	changed := c.selectedTrendID != id
	c.selectedTrendID = id
	c.mu.Unlock()
	if changed {
		c.notify()
	}
}

// SelectedTrendID returns the focused trend id, zero when none.
func (c *Coordinator) SelectedTrendID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedTrendID
}

// RefreshExperiences replaces the experience collection wholesale from the
// server. On failure the previous list stays in place. A refetch can
// overwrite liked/scrapped flags carried on entities before an in-flight
// toggle confirms; the id sets remain the source of truth for rendering.
func (c *Coordinator) RefreshExperiences(ctx context.Context, q api.ListQuery) error {
	c.mu.Lock()
	c.loadingExperiences = true
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.loadingExperiences = false
		c.mu.Unlock()
		c.notify()
	}()

	list, err := c.posts.GetAll(ctx, q)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.experiences = list
	c.mu.Unlock()
	return nil
}

// RefreshTrends replaces the trend collection wholesale from the server.
func (c *Coordinator) RefreshTrends(ctx context.Context) error {
	c.mu.Lock()
	c.loadingTrends = true
	c.mu.Unlock()
	c.notify()

	defer func() {
		c.mu.Lock()
		c.loadingTrends = false
		c.mu.Unlock()
		c.notify()
	}()

	list, err := c.trends.GetAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.trendList = list
	c.mu.Unlock()
	return nil
}

// Experiences returns a snapshot of the loaded experience collection.
func (c *Coordinator) Experiences() []models.Experience {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Experience, len(c.experiences))
	copy(out, c.experiences)
	return out
}

// Trends returns a snapshot of the loaded trend collection.
func (c *Coordinator) Trends() []models.Trend {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Trend, len(c.trendList))
	copy(out, c.trendList)
	return out
}

// LoadingExperiences reports whether an experience fetch is in flight.
func (c *Coordinator) LoadingExperiences() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadingExperiences
}

// LoadingTrends reports whether a trend fetch is in flight.
func (c *Coordinator) LoadingTrends() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadingTrends
}
