package mid

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/qcbit/escrow-gateway/business/sys/validate"
	v1 "github.com/qcbit/escrow-gateway/business/web/v1"
	"github.com/qcbit/escrow-gateway/foundation/blockchain/errs"
	"github.com/qcbit/escrow-gateway/foundation/web"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a uniform way.
// Unexpected errors (status >= 500) are logged.
func Errors(log *zap.SugaredLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			if err := handler(ctx, w, r); err != nil {

				// Log the error.
				log.Errorw("ERROR", "traceid", v.TraceID, "message", err)

				// Build out the error response.
				var er v1.ErrorResponse
				var status int
				switch {
				case validate.IsFieldErrors(err):
					fieldErrors := validate.GetFieldErrors(err)
					er = v1.ErrorResponse{
						Error:  "data validation error",
						Kind:   v1.KindName(errs.ErrInvalidArgument),
						Fields: fieldErrors.Fields(),
					}
					status = http.StatusBadRequest

				case v1.IsRequestError(err):
					reqErr := v1.GetRequestError(err)
					er = v1.ErrorResponse{
						Error: reqErr.Error(),
						Kind:  v1.KindName(errs.Kind(reqErr)),
					}
					status = reqErr.Status

				case errs.Kind(err) != nil:
					kind := errs.Kind(err)
					er = v1.ErrorResponse{
						Error: err.Error(),
						Kind:  v1.KindName(kind),
					}
					status = v1.StatusFor(kind)

				default:
					er = v1.ErrorResponse{
						Error: http.StatusText(http.StatusInternalServerError),
					}
					status = http.StatusInternalServerError
				}

				// Respond with the error back to the client.
				if err := web.Respond(ctx, w, er, status); err != nil {
					return err
				}

				// If we receive the shutdown err we need to return it
				// back to the base handler to shut down the service.
				if web.IsShutdown(err) {
					return err
				}
			}

			// The error has been handled so we can stop propagating it.
			return nil
		}

		return h
	}

	return m
}
