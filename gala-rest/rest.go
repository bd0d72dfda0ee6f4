// Package galarest provides REST API utilities with CORS support and common
// middleware for running behind API Gateway or as a local webserver.
package galarest

import (
	"fmt"
	"net/http"
	"time"

	galacli "github.com/gala-events/gala-api/gala-cli"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/savaki/apigateway"
)

func Middlewares(service galacli.Service, routes chi.Router) chi.Router {
	routes.Use(
		withCORS(),
		withLogger(galacli.Logger(service)),
		Recoverer,
	)
	return routes
}

func Webserver(service galacli.Service, routes chi.Router) error {
	logger := galacli.Logger(service)

	if galacli.CommonOpts.Console {
		logger.Info().Int("port", galacli.CommonOpts.Port).Msg("starting http server")
		addr := fmt.Sprintf(":%v", galacli.CommonOpts.Port)
		return http.ListenAndServe(addr, routes)
	}

	lambda.Start(apigateway.Wrap(routes, galacli.CommonOpts.Env))
	return nil
}

// WithTiming publishes a ResponseTime metric per matched route. A nil
// Metrics (console mode) disables it.
func WithTiming(metrics *galacli.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			begin := time.Now()
			next.ServeHTTP(w, req)
			operation := chi.RouteContext(req.Context()).RoutePattern()
			metrics.Timing(req.Context(), galacli.ResponseTimeMetric, begin, map[galacli.DimensionName]string{
				galacli.OperationNameDimension: operation,
			})
		})
	}
}

func withCORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
	})
}

func withLogger(logger zerolog.Logger) func(handler http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := logger.WithContext(req.Context())
			req = req.WithContext(ctx)
			handler.ServeHTTP(w, req)
		})
	}
}
