package metrics

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MenuActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_menu_actions_total",
		Help: "Menu operations run",
	}, []string{"action"})
	MenuErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_menu_errors_total",
		Help: "Menu operations that failed",
	}, []string{"action"})
	TweetsComposed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_tweets_composed_total",
		Help: "Tweets and replies posted",
	}, []string{"kind"})
	Retweets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_retweets_total",
		Help: "Retweet attempts by outcome",
	}, []string{"outcome"})
	Follows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_follows_total",
		Help: "Follow attempts by outcome",
	}, []string{"outcome"})
	Searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_searches_total",
		Help: "Searches run",
	}, []string{"kind"})
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sqltweet_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(MenuActions, MenuErrors, TweetsComposed, Retweets, Follows, Searches, Logins)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("SQLTWEET_METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

func IncMenuAction(action string) { MenuActions.WithLabelValues(action).Inc() }
func IncMenuError(action string)  { MenuErrors.WithLabelValues(action).Inc() }
func IncCompose(kind string)      { TweetsComposed.WithLabelValues(kind).Inc() }
func IncRetweet(outcome string)   { Retweets.WithLabelValues(outcome).Inc() }
func IncFollow(outcome string)    { Follows.WithLabelValues(outcome).Inc() }
func IncSearch(kind string)       { Searches.WithLabelValues(kind).Inc() }
func IncLogin(outcome string)     { Logins.WithLabelValues(outcome).Inc() }
