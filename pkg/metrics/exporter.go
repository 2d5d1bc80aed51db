package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// UpdateUsageCount ...
func UpdateUsageCount(platform, context string, index uint32, count int32) {
	UsageCount.With(prometheus.Labels{
		"platform": platform, "context": context, "index": strconv.FormatUint(uint64(index), 10)}).Set(float64(count))
}

// IncTransition ...
func IncTransition(platform, context string, index uint32, up bool) {
	direction := "down"
	if up {
		direction = "up"
	}
	Transitions.With(prometheus.Labels{
		"platform": platform, "context": context, "index": strconv.FormatUint(uint64(index), 10),
		"direction": direction}).Inc()
}

// IncSequenceError ...
func IncSequenceError(platform, context, reason string) {
	SequenceErrors.With(prometheus.Labels{"platform": platform, "context": context, "reason": reason}).Inc()
}

// UpdateD0InhibitRefs ...
func UpdateD0InhibitRefs(platform string, refs int32) {
	D0InhibitRefs.With(prometheus.Labels{"platform": platform}).Set(float64(refs))
}

// IncPowerOff ...
func IncPowerOff(platform string) {
	PowerOffs.With(prometheus.Labels{"platform": platform}).Inc()
}
