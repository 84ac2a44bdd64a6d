package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntitlementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revshare_entitlements_recorded_total",
		Help: "Total number of entitlement rows written, labelled by category.",
	}, []string{"category"})

	SalesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revshare_sales_ingested_total",
		Help: "Total number of sale events processed, labelled by outcome (created, replayed).",
	}, []string{"outcome"})

	TransfersIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revshare_transfers_total",
		Help: "Total number of transfer attempts, labelled by status (succeeded, failed, skipped).",
	}, []string{"status"})

	DistributionRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revshare_distribution_runs_total",
		Help: "Total number of completed payout distribution runs.",
	})

	LastPoolAmount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "revshare_last_pool_minor_units",
		Help: "Pool amount computed by the most recent distribution run, in minor currency units.",
	})
)
