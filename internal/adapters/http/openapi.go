package http

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the embedded OpenAPI 3 document served at /openapi.yaml.
func OpenAPISpec() []byte {
	return openAPISpec
}

func loadRouter() (routers.Router, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}
	return router, nil
}

// validate checks the request against the OpenAPI document. Routes the
// document does not describe are left to the mux.
func (s *Server) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidation, msgInvalidInput, validationDetails(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validationDetails(err error) fieldErrors {
	var field, reason string

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		reason = reqErr.Reason
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if ptr := schemaErr.JSONPointer(); len(ptr) > 0 && field == "" {
			field = strings.Join(ptr, ".")
		}
		if schemaErr.Reason != "" {
			reason = schemaErr.Reason
		}
	}
	if reason == "" {
		reason = err.Error()
	}
	return fieldError(field, reason)
}
