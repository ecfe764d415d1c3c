package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kanelabs/dogrun-engine/internal/apperr"
	"github.com/kanelabs/dogrun-engine/internal/db"
	"github.com/kanelabs/dogrun-engine/internal/engine"
)

// LeaderboardStore is the subset of *db.PostgresStore the API needs,
// narrowed to an interface so handlers can be tested against a fake.
type LeaderboardStore interface {
	FetchRecords(ctx context.Context, offset, limit int) ([]db.Record, error)
}

// maxRecordsPerRequest caps how many leaderboard rows a single
// /game/records call can request, independent of the store's own cap.
const maxRecordsPerRequest = 100

// APIHandler holds everything the HTTP layer needs to service a
// request: the game itself (read only outside the strand), the
// scheduler every mutation is dispatched through, the leaderboard
// store, and the debug tick-stream hub.
type APIHandler struct {
	game        *engine.Game
	scheduler   *engine.Scheduler
	leaderboard LeaderboardStore
	hub         *Hub
}

// SetupRouter builds the full router: CORS, the public map/join/records
// surface, the bearer-protected player surface, the debug tick stream,
// and static file serving for the bundled client.
func SetupRouter(game *engine.Game, scheduler *engine.Scheduler, leaderboard LeaderboardStore, hub *Hub, wwwRoot string) *gin.Engine {
	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		writeError(c, apperr.InvalidMethod("method %s is not allowed on %s", c.Request.Method, c.Request.URL.Path))
	})

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case allowedOrigins == "" || allowedOrigins == "*":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		default:
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Cache-Control", "no-cache")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	rl := NewRateLimiter(60, 10)

	h := &APIHandler{game: game, scheduler: scheduler, leaderboard: leaderboard, hub: hub}

	r.GET("/stream", hub.Subscribe)

	v1 := r.Group("/api/v1")

	v1.GET("/health", h.handleHealth)
	getHead(v1, "/maps", h.handleListMaps)
	getHead(v1, "/maps/:id", h.handleGetMap)
	getHead(v1, "/game/records", h.handleGetRecords)

	v1.POST("/game/join", rl.Middleware(), requireJSONContentType(), h.handleJoin)
	v1.POST("/game/tick", requireJSONContentType(), h.handleTick)

	protected := v1.Group("/game")
	protected.Use(AuthMiddleware(game))
	{
		getHead(protected, "/players", h.handleListPlayers)
		getHead(protected, "/state", h.handleGetState)
		protected.POST("/player/action", rl.Middleware(), requireJSONContentType(), h.handlePlayerAction)
	}

	if wwwRoot != "" {
		r.Static("/dashboard", wwwRoot)
	}

	return r
}

// getHead registers handler for both GET and HEAD, since the HTTP
// surface serves read endpoints under either verb.
func getHead(group *gin.RouterGroup, path string, handlers ...gin.HandlerFunc) {
	group.GET(path, handlers...)
	group.HEAD(path, handlers...)
}

// requireJSONContentType rejects any request whose body isn't declared
// as application/json before a handler ever calls ShouldBindJSON.
func requireJSONContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Content-Type"), "application/json") {
			abortWithError(c, apperr.BadRequest("Content-Type must be application/json"))
			return
		}
		c.Next()
	}
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type mapSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *APIHandler) handleListMaps(c *gin.Context) {
	var out []mapSummary
	h.scheduler.Submit(func() {
		out = make([]mapSummary, 0, len(h.game.Maps))
		for _, m := range h.game.Maps {
			out = append(out, mapSummary{ID: m.ID, Name: m.Name})
		}
	})
	c.JSON(http.StatusOK, out)
}

func (h *APIHandler) handleGetMap(c *gin.Context) {
	id := c.Param("id")
	var found bool
	var payload any
	h.scheduler.Submit(func() {
		m, ok := h.game.Maps[id]
		found = ok
		if ok {
			payload = m
		}
	})
	if !found {
		writeError(c, apperr.MapNotFound("map %q does not exist", id))
		return
	}
	c.JSON(http.StatusOK, payload)
}

type joinRequest struct {
	UserName string `json:"userName"`
	MapID    string `json:"mapId"`
}

type joinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  int64  `json:"playerId"`
}

func (h *APIHandler) handleJoin(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidArgument("request body must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		writeError(c, apperr.InvalidArgument("userName must not be empty"))
		return
	}
	if req.MapID == "" {
		writeError(c, apperr.InvalidArgument("mapId must not be empty"))
		return
	}

	var player *engine.Player
	var joinErr error
	h.scheduler.Submit(func() {
		player, joinErr = h.game.Join(req.UserName, req.MapID)
	})
	if joinErr != nil {
		writeError(c, apperr.MapNotFound("map %q does not exist or is not joinable", req.MapID))
		return
	}
	c.JSON(http.StatusOK, joinResponse{AuthToken: player.Token, PlayerID: player.ID})
}

type playerSummary struct {
	Name string `json:"name"`
}

func (h *APIHandler) handleListPlayers(c *gin.Context) {
	p := currentPlayer(c)
	if p == nil {
		writeError(c, apperr.UnknownToken("token not recognized"))
		return
	}
	var out map[string]playerSummary
	h.scheduler.Submit(func() {
		peers := h.game.Registry.OnMap(p.SessionID)
		out = make(map[string]playerSummary, len(peers))
		for _, peer := range peers {
			out[strconv.FormatInt(peer.ID, 10)] = playerSummary{Name: peer.UserName}
		}
	})
	c.JSON(http.StatusOK, out)
}

func (h *APIHandler) handleGetState(c *gin.Context) {
	p := currentPlayer(c)
	if p == nil {
		writeError(c, apperr.UnknownToken("token not recognized"))
		return
	}
	var state engine.SessionState
	h.scheduler.Submit(func() {
		state, _ = h.game.SessionState(p.SessionID)
	})
	c.JSON(http.StatusOK, state)
}

type actionRequest struct {
	Move string `json:"move"`
}

func (h *APIHandler) handlePlayerAction(c *gin.Context) {
	p := currentPlayer(c)
	if p == nil {
		writeError(c, apperr.UnknownToken("token not recognized"))
		return
	}
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidArgument("request body must be valid JSON"))
		return
	}

	var setErr error
	h.scheduler.Submit(func() {
		setErr = h.game.SetPlayerDirection(p.Token, req.Move)
	})
	if setErr != nil {
		writeError(c, apperr.InvalidArgument("move must be one of L, R, U, D, or empty to stop"))
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

type tickRequest struct {
	TimeDelta int64 `json:"timeDelta"`
}

func (h *APIHandler) handleTick(c *gin.Context) {
	var req tickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperr.InvalidArgument("request body must be valid JSON"))
		return
	}
	if err := h.scheduler.ExternalTick(req.TimeDelta); err != nil {
		writeError(c, apperr.InvalidArgument("%s", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

func (h *APIHandler) handleGetRecords(c *gin.Context) {
	start, _ := strconv.Atoi(c.Query("start"))
	maxItems := maxRecordsPerRequest
	if raw := c.Query("maxItems"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxRecordsPerRequest {
			writeError(c, apperr.InvalidArgument("maxItems must be a positive integer no greater than %d", maxRecordsPerRequest))
			return
		}
		maxItems = n
	}

	records, err := h.leaderboard.FetchRecords(c.Request.Context(), start, maxItems)
	if err != nil {
		writeError(c, apperr.Internal("failed to fetch leaderboard records"))
		return
	}
	c.JSON(http.StatusOK, records)
}
