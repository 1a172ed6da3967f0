package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventfoundry-api/internal/service"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, registry *prometheus.Registry) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newEventRoutesHandler(api, services, validate)
	newBidRoutesHandler(api, services, validate)

	handler.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
