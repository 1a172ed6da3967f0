// Package metrics exposes Prometheus counters for the bidding workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ShortlistingRuns  prometheus.Counter
	BidsShortlisted   prometheus.Counter
	BidsRejected      prometheus.Counter
	BidRevisions      prometheus.Counter
	PricingRecomputes prometheus.Counter
	WatchdogSweeps    prometheus.Counter
	WindowsClosed     prometheus.Counter
	WinnersSelected   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ShortlistingRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_shortlisting_runs_total",
			Help: "Completed shortlisting runs.",
		}),
		BidsShortlisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_bids_shortlisted_total",
			Help: "Bids moved to SHORTLISTED by shortlisting runs.",
		}),
		BidsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_bids_rejected_total",
			Help: "Bids rejected by shortlisting runs.",
		}),
		BidRevisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_bid_revisions_total",
			Help: "Round-2 revisions created.",
		}),
		PricingRecomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_pricing_recomputes_total",
			Help: "Competitive pricing recomputations.",
		}),
		WatchdogSweeps: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_watchdog_sweeps_total",
			Help: "Expired bidding window sweeps.",
		}),
		WindowsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_bidding_windows_closed_total",
			Help: "Bidding windows closed with a finalized shortlist.",
		}),
		WinnersSelected: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventfoundry_winners_selected_total",
			Help: "Events with a selected winner.",
		}),
	}
}
