package handling

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleError logs an unexpected failure with the caller's location and
// answers with a bare 500
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("Unexpected request failure", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.WithMessage("error.internal")).Send()
}
