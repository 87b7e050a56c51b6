// Package promstats bridges Prometheus metrics into overlay counter
// groups.
//
// A Bridge samples a prometheus.Gatherer once per frame and publishes
// each metric family as one counter: gauges as their instantaneous value,
// counters as their per-update increase. The bridged group renders with
// the same tables and graphs as any other counters.
//
// Typical frame loop:
//
//	bridge, err := promstats.New(prometheus.DefaultGatherer, reg, "app", promstats.Options{})
//	if err != nil {
//	    // ...
//	}
//	for !done {
//	    bridge.Update()
//	    reg.Update()
//	    // lay out and draw
//	}
//
// Families with labels are aggregated by summing all their series.
// Histograms, summaries and untyped families are skipped. The family set
// is fixed at New; metrics exposed later are not picked up.
package promstats
