package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "neoneats_authapi_requests_total",
	Help: "Auth API requests by path and outcome.",
}, []string{"path", "outcome"})
