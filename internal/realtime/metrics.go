package realtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Results of an authorization request, used as metric label.
const (
	ResultOK              = "ok"
	ResultMalformed       = "malformed"
	ResultUnauthenticated = "unauthenticated"
	ResultRoomNotFound    = "room_not_found"
	ResultDenied          = "denied"
	ResultProviderError   = "provider_error"
	ResultTimeout         = "timeout"
	ResultStoreError      = "store_error"
)

var (
	requests     *prometheus.CounterVec //nolint:gochecknoglobals
	requestsOnce sync.Once              //nolint:gochecknoglobals
)

func requestCounter() *prometheus.CounterVec {
	requestsOnce.Do(func() {
		requests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_auth_requests_total",
				Help: "Number of realtime channel authorization requests, differentiated by result.",
			},
			[]string{"result"},
		)
	})

	return requests
}
