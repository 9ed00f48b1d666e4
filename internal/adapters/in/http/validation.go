package http

import (
	"context"
	"net/http"
	"strings"

	"dispatch/internal/adapters/in/http/api"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RequestValidator checks requests against the embedded OpenAPI document before
// they reach a handler. Paths outside the document (health, swagger) pass through.
type RequestValidator struct {
	router routers.Router
}

func NewRequestValidator(ctx context.Context) (*RequestValidator, error) {
	doc, err := api.Load(ctx)
	if err != nil {
		return nil, err
	}
	// Routes are matched on the path below api.BasePath.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, errors.Wrap(err, "build openapi router")
	}
	return &RequestValidator{router: router}, nil
}

func (v *RequestValidator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		original := c.Request()
		if !strings.HasPrefix(original.URL.Path, api.BasePath+"/") {
			return next(c)
		}

		req := *original
		u := *original.URL
		u.Path = strings.TrimPrefix(u.Path, api.BasePath)
		u.RawPath = ""
		req.URL = &u

		route, pathParams, err := v.router.FindRoute(&req)
		if err != nil {
			return next(c)
		}

		err = openapi3filter.ValidateRequest(original.Context(), &openapi3filter.RequestValidationInput{
			Request:    &req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		})
		// The validator drains and replaces the body on the copy.
		original.Body = req.Body
		if err != nil {
			return err
		}
		return next(c)
	}
}

// StructValidator plugs validator/v10 into echo.Context.Validate.
type StructValidator struct {
	validate *validator.Validate
}

func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *StructValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

var _ echo.Validator = (*StructValidator)(nil)

