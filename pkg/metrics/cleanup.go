package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DeletePlatformMetrics drops every series of a platform, so a freshly
// initialized runtime starts from empty gauges.
func DeletePlatformMetrics(platform string) {
	labels := prometheus.Labels{"platform": platform}
	UsageCount.DeletePartialMatch(labels)
	Transitions.DeletePartialMatch(labels)
	SequenceErrors.DeletePartialMatch(labels)
	D0InhibitRefs.DeletePartialMatch(labels)
	PowerOffs.DeletePartialMatch(labels)
}
