// Package metrics expone métricas Prometheus HTTP y de negocio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de requests HTTP",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de requests HTTP en segundos",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Requests HTTP en curso",
		},
	)

	// Negocio
	costeoOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costeo_operations_total",
			Help: "Operaciones de compras, materiales y precios",
		},
		[]string{"operation", "status"},
	)

	stockRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "costeo_stock_rejections_total",
			Help: "Cálculos rechazados por stock insuficiente",
		},
	)

	stockShortfallsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "costeo_stock_shortfalls_total",
			Help: "Materiales faltantes en cálculos rechazados",
		},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total de aciertos de cache",
		},
		[]string{"cache"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total de fallos de cache",
		},
		[]string{"cache"},
	)
)

// Middleware registra conteo, duración y requests en curso por ruta.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := c.Route().Path
		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler sirve /metrics con el registro por defecto.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// RecordOperation registra una operación de negocio (record_purchase, save_product_price...).
func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	costeoOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordShortfall cuenta un rechazo por stock insuficiente con sus materiales faltantes.
// Los nombres de material no se usan como etiqueta: los define cada usuario.
func RecordShortfall(materials int) {
	stockRejectionsTotal.Inc()
	stockShortfallsTotal.Add(float64(materials))
}

// RecordCacheHit registra un acierto de cache.
func RecordCacheHit(cache string) {
	cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss registra un fallo de cache.
func RecordCacheMiss(cache string) {
	cacheMissesTotal.WithLabelValues(cache).Inc()
}
