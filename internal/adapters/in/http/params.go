package http

import (
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

const defaultOpenOrdersLimit = 50

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).SetInternal(err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func pathString(c echo.Context, name string) (string, error) {
	var s string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &s,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).SetInternal(err)
	}
	return s, nil
}

func queryBool(c echo.Context, name string) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).SetInternal(err)
	}
	return v != nil && *v, nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).SetInternal(err)
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}

func queryTime(c echo.Context, name string) (time.Time, error) {
	var v *time.Time
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &v); err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name).SetInternal(err)
	}
	if v == nil {
		return time.Time{}, nil
	}
	return *v, nil
}

// bind decodes the body into dst and runs the registered validator on it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}
