package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_signups_total",
			Help: "Total number of signup attempts.",
		},
		[]string{"service", "result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_verifications_total",
			Help: "Total number of verify and resend attempts.",
		},
		[]string{"service", "flow", "result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_tokens_issued_total",
			Help: "Total number of session tokens issued.",
		},
		[]string{"service", "result"},
	)

	TokenValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_token_validations_total",
			Help: "Total number of bearer-token validations at the gate.",
		},
		[]string{"service", "result"},
	)
)

func MustRegister(serviceName string) {
	HTTPRequestsTotal = HTTPRequestsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	HTTPRequestDurationSeconds = HTTPRequestDurationSeconds.MustCurryWith(prometheus.Labels{"service": serviceName}).(*prometheus.HistogramVec)
	SignupsTotal = SignupsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	LoginsTotal = LoginsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	VerificationsTotal = VerificationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	TokensIssuedTotal = TokensIssuedTotal.MustCurryWith(prometheus.Labels{"service": serviceName})
	TokenValidationsTotal = TokenValidationsTotal.MustCurryWith(prometheus.Labels{"service": serviceName})

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignupsTotal,
		LoginsTotal,
		VerificationsTotal,
		TokensIssuedTotal,
		TokenValidationsTotal,
	)
}
