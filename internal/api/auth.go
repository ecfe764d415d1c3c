package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kanelabs/dogrun-engine/internal/apperr"
	"github.com/kanelabs/dogrun-engine/internal/engine"
)

const playerContextKey = "dogrun.player"

// AuthMiddleware validates the Authorization header against the live
// player registry: "Bearer <32 hex chars>", looked up by exact token.
// Any other shape is 401 invalidToken; a well-formed but unregistered
// (or already-retired) token is 401 unknownToken. On success the
// resolved *engine.Player is stashed in the context for handlers to
// read via currentPlayer.
func AuthMiddleware(game *engine.Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			abortWithError(c, apperr.InvalidToken("missing or malformed Authorization header"))
			return
		}
		token := strings.TrimPrefix(auth, prefix)
		if !engine.ValidToken(token) {
			abortWithError(c, apperr.InvalidToken("token must be 32 hex characters"))
			return
		}

		player := game.Registry.ByToken(token)
		if player == nil {
			abortWithError(c, apperr.UnknownToken("token not recognized"))
			return
		}

		c.Set(playerContextKey, player)
		c.Next()
	}
}

func currentPlayer(c *gin.Context) *engine.Player {
	v, ok := c.Get(playerContextKey)
	if !ok {
		return nil
	}
	p, _ := v.(*engine.Player)
	return p
}

func abortWithError(c *gin.Context, err error) {
	writeError(c, err)
	c.Abort()
}
