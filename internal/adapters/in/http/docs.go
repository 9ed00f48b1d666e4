package http

import (
	"dispatch/internal/adapters/in/http/api"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

type contract struct{}

func (contract) ReadDoc() string {
	return string(api.Document)
}

func init() {
	swag.Register(swag.Name, contract{})
}

// RegisterDocs serves the interactive API browser under /swagger.
func RegisterDocs(e *echo.Echo) {
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
