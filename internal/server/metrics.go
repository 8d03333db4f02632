package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docbot/internal/digest"
)

var (
	digestsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docbot_digests_generated_total",
		Help: "Number of weekly digests assembled.",
	})
	sentinelEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docbot_digest_sentinel_entries_total",
		Help: "Digest entries filled with a sentinel instead of a result link.",
	}, []string{"sentinel"})
)

func observeDigest(d digest.Digest) {
	digestsGenerated.Inc()
	for _, e := range d.Results {
		switch e.Link {
		case digest.LinkNoResults:
			sentinelEntries.WithLabelValues("no_results").Inc()
		case digest.LinkFetchError:
			sentinelEntries.WithLabelValues("fetch_error").Inc()
		case digest.LinkNoCall:
			sentinelEntries.WithLabelValues("no_call").Inc()
		}
	}
}
