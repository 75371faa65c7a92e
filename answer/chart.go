package answer

import "log"

// SanitizeChart enforces the chart invariants: every dataset must match the
// label count, and arrays longer than MaxChartLabels are truncated in lockstep.
// Datasets that violate the length invariant are dropped; a chart left with no
// datasets is dropped entirely (ok=false). A bad chart is simply not rendered.
func SanitizeChart(c ChartSeries) (ChartSeries, bool) {
	if len(c.Labels) == 0 {
		return c, false
	}
	kept := c.Datasets[:0:0]
	for _, ds := range c.Datasets {
		if len(ds.Data) != len(c.Labels) {
			log.Printf("[answer][chart] dataset %q length %d != labels %d on %q, dropping dataset",
				ds.Label, len(ds.Data), len(c.Labels), c.Title)
			continue
		}
		kept = append(kept, ds)
	}
	if len(kept) == 0 {
		return c, false
	}
	c.Datasets = kept
	if len(c.Labels) > MaxChartLabels {
		log.Printf("[answer][chart] %q has %d labels, truncating to %d", c.Title, len(c.Labels), MaxChartLabels)
		c.Labels = c.Labels[:MaxChartLabels]
		for i := range c.Datasets {
			c.Datasets[i].Data = c.Datasets[i].Data[:MaxChartLabels]
		}
	}
	return c, true
}
