package merkletree

import "github.com/prometheus/client_golang/prometheus"

// Prometheus instrumentation for the three operations spec.md's size
// table (§2) calls out as the library's hot paths: build, audit-proof
// generation, and consistency-proof generation. Registration happens once
// at package init against the default registerer, following the direct
// prometheus.New*/MustRegister usage in the examples this stack is drawn
// from rather than a bespoke metrics abstraction — there are at most two
// things to observe per operation, not enough surface to justify one.
var (
	buildTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "merkletree",
		Name:      "builds_total",
		Help:      "Number of completed Tree.Build calls.",
	})

	buildLeaves = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "merkletree",
		Name:      "build_leaf_count",
		Help:      "Leaf count of each built tree.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})

	auditProofsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "merkletree",
		Name:      "audit_proofs_total",
		Help:      "Number of audit proofs generated.",
	})

	consistencyProofsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "merkletree",
		Name:      "consistency_proofs_total",
		Help:      "Number of consistency proofs generated.",
	})
)

func init() {
	prometheus.MustRegister(buildTotal, buildLeaves, auditProofsTotal, consistencyProofsTotal)
}

func observeBuild(leafCount int) {
	buildTotal.Inc()
	buildLeaves.Observe(float64(leafCount))
}

func observeAuditProof() {
	auditProofsTotal.Inc()
}

func observeConsistencyProof() {
	consistencyProofsTotal.Inc()
}
