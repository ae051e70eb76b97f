package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordMembership(t *testing.T) {
	c := MembershipsTotal.WithLabelValues("favorite", ActionAdd)
	before := testutil.ToFloat64(c)

	RecordMembership("favorite", ActionAdd)
	RecordMembership("favorite", ActionAdd)

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("favorite adds increased by %v, want 2", got)
	}
}

func TestRecordSubscriptionAndRecipe(t *testing.T) {
	sub := SubscriptionsTotal.WithLabelValues(ActionRemove)
	rec := RecipesTotal.WithLabelValues(ActionDelete)
	subBefore, recBefore := testutil.ToFloat64(sub), testutil.ToFloat64(rec)

	RecordSubscription(ActionRemove)
	RecordRecipe(ActionDelete)

	if testutil.ToFloat64(sub)-subBefore != 1 {
		t.Error("subscription counter did not move")
	}
	if testutil.ToFloat64(rec)-recBefore != 1 {
		t.Error("recipe counter did not move")
	}
}

func TestRecordShoppingListDownload(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads)
	RecordShoppingListDownload()
	if testutil.ToFloat64(ShoppingListDownloads)-before != 1 {
		t.Error("download counter did not move")
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/recipes/{id}", "404")
	before := testutil.ToFloat64(c)

	for _, path := range []string{"/api/recipes/1", "/api/recipes/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("route counter increased by %v, want 2", got)
	}
}

func TestMiddleware_DefaultsStatusToOK(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200")
	before := testutil.ToFloat64(c)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if testutil.ToFloat64(c)-before != 1 {
		t.Error("handler without WriteHeader should count as 200")
	}
}

func TestHandler_ExposesFoodgramSeries(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "foodgram_http_requests_total") {
		t.Error("metrics output should include foodgram_http_requests_total")
	}
}
