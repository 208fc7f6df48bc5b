package routes

import (
	"Soberlife/content"
	"Soberlife/middleware"
	"Soberlife/services/achievements"
	"Soberlife/services/game"
	redis_services "Soberlife/services/redis"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

const debugPassword = "letmein"

// client keeps the session cookie between requests like a browser would
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
	token   string
}

func newClient(t *testing.T, load bool) (*client, *game.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	center := achievements.NewNotificationCenter(time.Hour, time.Hour)
	t.Cleanup(center.Close)
	storage := redis_services.NewStorage(redis_services.NewMemoryStore(), "")
	app := game.NewApp(storage, game.Options{Notifier: center, RNG: rand.New(rand.NewSource(3))})
	if load {
		require.NoError(t, app.Load())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(debugPassword), bcrypt.MinCost)
	require.NoError(t, err)

	r := gin.New()
	middleware.SetUpMiddleware(r, "test-session-key", false)
	SetupRoutes(r, Deps{
		App:               app,
		Notifications:     center,
		JWTSecret:         []byte("test-jwt-secret"),
		DebugPasswordHash: string(hash),
	})
	return &client{t: t, router: r, cookies: make(map[string]*http.Cookie)}, app
}

func (c *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return c.send(req)
}

func (c *client) doJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) login() {
	w := c.do(http.MethodPost, "/debug/login", url.Values{"password": {debugPassword}})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &body))
	c.token = body.Token
}

func (c *client) state() game.Snapshot {
	w := c.do(http.MethodGet, "/state", nil)
	require.Equal(c.t, http.StatusOK, w.Code)
	var s game.Snapshot
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPingAndReady(t *testing.T) {
	c, _ := newClient(t, true)

	w := c.do(http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"gameFunctionsReady":true}`, w.Body.String())
}

func TestGameRoutesWaitForLoad(t *testing.T) {
	c, app := newClient(t, false)

	w := c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/campaign/start", nil).Code)

	require.NoError(t, app.Load())
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/campaign/start", nil).Code)
}

func TestPurchaseWithoutFunds(t *testing.T) {
	c, _ := newClient(t, true)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/campaign/start", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/shop/open", nil).Code)

	w := c.do(http.MethodPost, "/shop/purchase/extra_joker", nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "Not enough zen points", decode(t, w)["error"])

	s := c.state()
	assert.Equal(t, 0, s.ZenBalance)
	assert.Equal(t, 0, s.Deck.Jokers)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/shop/purchase/nothing", nil).Code)
}

func TestInvalidTransitionConflict(t *testing.T) {
	c, _ := newClient(t, true)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/shop/close", nil).Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/round/hit", nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, "/shop/close", url.Values{"exit": {"window"}}).Code)
}

func TestShopReturnsToFreePlay(t *testing.T) {
	c, _ := newClient(t, true)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/campaign/start", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/mode-select", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/freeplay/start", nil).Code)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/shop/open", nil).Code)

	w := c.do(http.MethodPost, "/shop/close", url.Values{"exit": {"continue"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "free_play_overview", decode(t, w)["view"])
}

func TestRoundOverHTTP(t *testing.T) {
	c, _ := newClient(t, true)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/campaign/start", nil).Code)

	w := c.do(http.MethodPost, "/task/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	round := body["round"].(map[string]interface{})
	assert.Len(t, round["playerHand"], 2)

	if round["outcome"] == "" {
		w = c.do(http.MethodPost, "/round/stand", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode(t, w)["round"].(map[string]interface{})["outcome"])
	}

	w = c.do(http.MethodPost, "/round/finish", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "campaign_overview", decode(t, w)["view"])
}

func TestResetNeedsTwoConfirmations(t *testing.T) {
	c, _ := newClient(t, true)
	c.login()
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/debug/zen", url.Values{"amount": {"40"}}).Code)

	// nothing pending yet
	assert.Equal(t, http.StatusConflict,
		c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"true"}}).Code)

	w := c.do(http.MethodPost, "/campaign/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["prompt"])

	w = c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"true"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["reset"])
	assert.NotEmpty(t, body["prompt"])

	w = c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"false"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["reset"])
	assert.Equal(t, 40, c.state().ZenBalance)

	c.do(http.MethodPost, "/campaign/reset", nil)
	c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"true"}})
	w = c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"true"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["reset"])
	assert.Equal(t, 0, c.state().ZenBalance)

	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodPost, "/campaign/reset/confirm", url.Values{"accept": {"maybe"}}).Code)
}

func TestDebugRoutes(t *testing.T) {
	c, _ := newClient(t, true)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/debug/zen", url.Values{"amount": {"5"}}).Code)
	assert.Equal(t, http.StatusUnauthorized,
		c.do(http.MethodPost, "/debug/login", url.Values{"password": {"wrong"}}).Code)

	c.login()
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/debug/zen", url.Values{"amount": {"lots"}}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/debug/zen", url.Values{"amount": {"-5"}}).Code)
	assert.Equal(t, http.StatusServiceUnavailable, c.do(http.MethodPost, "/debug/sync", nil).Code)

	w := c.doJSON(http.MethodPost, "/debug/deck", `{"jokers":2,"aces":4,"regularCards":48}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 54, c.state().Deck.TotalCards)
	assert.Equal(t, http.StatusBadRequest,
		c.doJSON(http.MethodPost, "/debug/deck", `{"jokers":0,"aces":1,"regularCards":1}`).Code)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/debug/unlock/nope", nil).Code)
}

func TestNotificationsOverHTTP(t *testing.T) {
	c, _ := newClient(t, true)
	c.login()

	w := c.do(http.MethodPost, "/debug/unlock/wealth_1000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unlocked":true}`, w.Body.String())

	w = c.do(http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []achievements.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	require.Len(t, active, 1)
	assert.Equal(t, "Zen Master", active[0].Title)

	dismiss := "/notifications/" + active[0].ID + "/dismiss"
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, dismiss, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, dismiss, nil).Code)

	w = c.do(http.MethodGet, "/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1 of 11 unlocked (9%)", decode(t, w)["summary"])
}

func TestFlavorFallback(t *testing.T) {
	c, _ := newClient(t, true)
	fallback := content.Default().FallbackFlavor

	for _, step := range []string{"99", "-1", "abc"} {
		w := c.do(http.MethodGet, "/flavor/"+step, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fallback.Title, decode(t, w)["title"], step)
	}
	w := c.do(http.MethodGet, "/flavor/0", nil)
	assert.Equal(t, content.Default().Flavor[0].Title, decode(t, w)["title"])
}

func TestAudioPreferences(t *testing.T) {
	c, _ := newClient(t, true)

	w := c.do(http.MethodGet, "/audio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"musicVolume":0.5,"effectsVolume":0.7,"musicMuted":false,"effectsMuted":false}`, w.Body.String())

	prefs := `{"musicVolume":0.2,"effectsVolume":1,"musicMuted":true,"effectsMuted":false}`
	require.Equal(t, http.StatusOK, c.doJSON(http.MethodPut, "/audio", prefs).Code)
	w = c.do(http.MethodGet, "/audio", nil)
	assert.JSONEq(t, prefs, w.Body.String())

	assert.Equal(t, http.StatusBadRequest,
		c.doJSON(http.MethodPut, "/audio", `{"musicVolume":2,"effectsVolume":0.5}`).Code)
}
