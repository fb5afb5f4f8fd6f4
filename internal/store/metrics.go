package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neoneats_store_mutations_total",
		Help: "Number of applied state mutations per store.",
	}, []string{"store"})

	persistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neoneats_store_persist_failures_total",
		Help: "Number of snapshot writes that failed per store.",
	}, []string{"store"})

	restoreCorrupt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neoneats_store_restore_corrupt_total",
		Help: "Number of restores that discarded a corrupt snapshot.",
	}, []string{"store"})
)
