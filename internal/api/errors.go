package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kanelabs/dogrun-engine/internal/apperr"
)

// errorPayload is the {code, message} JSON every error response carries.
type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindBadRequest:      http.StatusBadRequest,
	apperr.KindInvalidArgument: http.StatusBadRequest,
	apperr.KindInvalidMethod:   http.StatusMethodNotAllowed,
	apperr.KindMapNotFound:     http.StatusNotFound,
	apperr.KindInvalidToken:    http.StatusUnauthorized,
	apperr.KindUnknownToken:    http.StatusUnauthorized,
	apperr.KindInternal:        http.StatusInternalServerError,
}

// writeError translates err into the kind-appropriate status code and
// the {code, message} JSON body. Any error that isn't an *apperr.Error
// is treated as an unkinded internal failure, per the error handling
// design: its detail is logged, never echoed to the client.
func writeError(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, errorPayload{Code: "internal", Message: "internal error"})
		return
	}
	status, ok := statusByKind[ae.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, errorPayload{Code: ae.Code, Message: ae.Message})
}
