// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// for recipe, membership and subscription activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// purpose: favorite | shopping_cart; action: add | remove.
	MembershipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_memberships_total",
			Help: "Successful favorite and shopping cart changes",
		},
		[]string{"purpose", "action"},
	)

	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_subscriptions_total",
			Help: "Successful subscribe and unsubscribe operations",
		},
		[]string{"action"},
	)

	RecipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipes_total",
			Help: "Recipe writes by action (create, update, delete)",
		},
		[]string{"action"},
	)

	ShoppingListDownloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Number of shopping lists rendered for download",
		},
	)
)

// Action labels.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

func RecordMembership(purpose, action string) {
	MembershipsTotal.WithLabelValues(purpose, action).Inc()
}

func RecordSubscription(action string) {
	SubscriptionsTotal.WithLabelValues(action).Inc()
}

func RecordRecipe(action string) {
	RecipesTotal.WithLabelValues(action).Inc()
}

func RecordShoppingListDownload() {
	ShoppingListDownloads.Inc()
}

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware records request count and latency labelled by the chi route
// pattern, so /api/recipes/{id} stays one series regardless of id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
