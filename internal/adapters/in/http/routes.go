package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/adapters/in/http/api"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// Config of the API listener.
type Config struct {
	Port         int           `koanf:"port"`
	BodyLimit    string        `koanf:"bodyLimit"`
	ReadTimeout  time.Duration `koanf:"readTimeout"`
	WriteTimeout time.Duration `koanf:"writeTimeout"`
	Swagger      bool          `koanf:"swagger"`
	LogLevel     string        `koanf:"logLevel"`
}

// Register mounts every operation of the contract on g.
func (s *Server) Register(g *echo.Group) {
	g.POST("/customers", s.RegisterCustomer)
	g.POST("/vendors", s.RegisterVendor)
	g.POST("/drivers", s.RegisterDriver)
	g.PUT("/drivers/:driverId/status", s.ChangeDriverStatus)
	g.GET("/drivers/:driverId/route", s.GetDriverRoute)
	g.GET("/participants/:participantId/orders", s.ListParticipantOrders)

	g.POST("/customers/:customerId/addresses", s.AddAddress)
	g.PATCH("/customers/:customerId/addresses/:addressId", s.EditAddress)
	g.DELETE("/customers/:customerId/addresses/:addressId", s.DeleteAddress)

	g.POST("/customers/:customerId/carts", s.CreateCart)
	g.POST("/customers/:customerId/carts/:orderId/items", s.AddLineItem)
	g.DELETE("/customers/:customerId/carts/:orderId/items/:lineItemId", s.RemoveLineItem)
	g.PUT("/customers/:customerId/carts/:orderId/address", s.SelectAddress)
	g.POST("/customers/:customerId/carts/:orderId/charge", s.ChargeCart)

	g.GET("/orders/:orderId", s.GetOrder)
	g.GET("/open-orders", s.ListOpenOrders)
	g.POST("/orders/:orderId/vendor-accept", s.VendorAccept)
	g.POST("/orders/:orderId/driver-accept", s.DriverAccept)
	g.POST("/orders/:orderId/driver-reject", s.DriverReject)
	g.POST("/orders/:orderId/ready", s.MarkReady)
	g.POST("/orders/:orderId/pickup", s.PickUp)
	g.POST("/orders/:orderId/deliver", s.Deliver)
	g.POST("/orders/:orderId/cancel", s.Cancel)

	g.PUT("/settings/:name", s.UpdateSetting)
}

// NewEcho builds the listener with the middleware chain, the error handler and
// the contract validator in front of s.
func NewEcho(ctx context.Context, cfg Config, s *Server, logger *slog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(gommonLevel(cfg.LogLevel))
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	e.HTTPErrorHandler = NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = NewStructValidator()

	rv, err := NewRequestValidator(ctx)
	if err != nil {
		return nil, err
	}
	e.Use(rv.Middleware)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if cfg.Swagger {
		RegisterDocs(e)
	}
	s.Register(e.Group(api.BasePath))

	return e, nil
}

func gommonLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
