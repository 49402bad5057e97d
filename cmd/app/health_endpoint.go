package main

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/siddik-official/evolution-gadget/internal/db"
	"github.com/siddik-official/evolution-gadget/internal/response"
)

func healthHandler(pool *pgxpool.Pool, env string) echo.HandlerFunc {
	start := time.Now()
	return func(c echo.Context) error {
		status := "ok"
		code := http.StatusOK
		if err := db.Health(c.Request().Context(), pool); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, response.Envelope{
			Success: code == http.StatusOK,
			Message: "Health check",
			Data: map[string]interface{}{
				"status":      status,
				"environment": env,
				"uptime":      time.Since(start).Round(time.Second).String(),
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		})
	}
}

func registerHealthRoutes(e *echo.Echo, pool *pgxpool.Pool, env string) {
	e.GET("/health", healthHandler(pool, env))
}
