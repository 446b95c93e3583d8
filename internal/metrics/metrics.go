package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockotchi/internal/pet"
)

const namespace = "blockotchi"

// Recorder exports engine, feed and HTTP counters on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	ticks       prometheus.Counter
	actions     *prometheus.CounterVec
	coins       *prometheus.CounterVec
	deaths      prometheus.Counter
	feedPolls   *prometheus.CounterVec
	storeErrors prometheus.Counter
	stage       prometheus.Gauge
	requests    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks applied.",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Pet actions and commands by outcome.",
		}, []string{"action", "result"}),
		coins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_earned_total",
			Help:      "Coins credited by source.",
		}, []string{"source"}),
		deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Pets that died from a missed check-in.",
		}),
		feedPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_polls_total",
			Help:      "Wallet transaction polls by result.",
		}, []string{"result"}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Snapshot writes that failed.",
		}),
		stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage",
			Help:      "Current evolution stage, 0 (baby) to 4 (elder).",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests processed.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP API requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	r.registry.MustRegister(r.ticks, r.actions, r.coins, r.deaths, r.feedPolls, r.storeErrors, r.stage, r.requests, r.durations)
	return r
}

func (r *Recorder) Tick() { r.ticks.Inc() }

func (r *Recorder) Action(action, result string) {
	r.actions.WithLabelValues(action, result).Inc()
}

func (r *Recorder) CoinsEarned(source string, n int) {
	if n > 0 {
		r.coins.WithLabelValues(source).Add(float64(n))
	}
}

func (r *Recorder) Died() { r.deaths.Inc() }

func (r *Recorder) StageChanged(stage pet.Stage) {
	r.stage.Set(float64(pet.StageIndex(stage)))
}

func (r *Recorder) StoreError() { r.storeErrors.Inc() }

// FeedPoll counts one wallet poll.
func (r *Recorder) FeedPoll(result string) {
	r.feedPolls.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request.
func (r *Recorder) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.durations.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
