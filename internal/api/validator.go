package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// OapiRequestValidator returns middleware that validates requests against doc before they reach a
// handler. Requests for paths doc does not describe are passed through untouched.
func OapiRequestValidator(doc *openapi3.T, logger *slog.Logger) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("request failed validation", "path", r.URL.Path, "error", err)
				_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{ //nolint:errcheck // response already committed
					Error:   ErrorKindValidation,
					Code:    "invalid_request",
					Message: validationMessage(err),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Parameter != nil {
		return "invalid parameter " + reqErr.Parameter.Name + ": " + reqErr.Reason
	}
	return err.Error()
}
