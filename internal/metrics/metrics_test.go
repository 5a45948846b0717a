package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	IncMenuAction("compose")
	IncMenuError("compose")
	IncCompose("reply")
	IncRetweet("created")
	IncFollow("duplicate")
	IncSearch("tweets")
	IncLogin("ok")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"sqltweet_menu_actions_total",
		"sqltweet_menu_errors_total",
		`sqltweet_tweets_composed_total{kind="reply"}`,
		"sqltweet_retweets_total",
		"sqltweet_follows_total",
		"sqltweet_searches_total",
		"sqltweet_login_attempts_total",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}
