package dataview

// Stats holds the summary counters derived from a full collection.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Counters map[string]int `json:"counters"`
}

// Counter returns a named counter, falling back to per-status counts.
func (s Stats) Counter(name string) int {
	if name == "total" {
		return s.Total
	}
	if n, ok := s.Counters[name]; ok {
		return n
	}
	return s.ByStatus[name]
}

type compound struct {
	name     string
	statuses []string
}

type dateCounter[R any] struct {
	name     string
	field    DateField[R]
	bucket   Bucket
	statuses map[string]struct{}
}

type whereCounter[R any] struct {
	name string
	pred func(R) bool
}

// Aggregate reduces the full collection into Stats in a single pass. The clock
// is captured by the caller once so every record is bucketed against the same
// instant. Records are never modified.
func (v *View[R]) Aggregate(records []R, clock Clock) Stats {
	stats := Stats{
		Total:    len(records),
		ByStatus: make(map[string]int, len(v.statuses)),
		Counters: make(map[string]int, len(v.compounds)+len(v.dateCounters)+len(v.wheres)),
	}
	known := make(map[string]struct{}, len(v.statuses))
	for _, status := range v.statuses {
		stats.ByStatus[status] = 0
		known[status] = struct{}{}
	}
	for _, counter := range v.dateCounters {
		stats.Counters[counter.name] = 0
	}
	for _, counter := range v.wheres {
		stats.Counters[counter.name] = 0
	}

	for _, r := range records {
		var status string
		if v.status != nil {
			status = safeText(v.status, r)
			if _, ok := known[status]; ok {
				stats.ByStatus[status]++
			}
		}
		for _, counter := range v.dateCounters {
			if counter.statuses != nil {
				if _, ok := counter.statuses[status]; !ok {
					continue
				}
			}
			if clock.Matches(safeTime(counter.field.Get, r), counter.field.Kind, string(counter.bucket)) {
				stats.Counters[counter.name]++
			}
		}
		for _, counter := range v.wheres {
			if counter.pred(r) {
				stats.Counters[counter.name]++
			}
		}
	}

	for _, c := range v.compounds {
		sum := 0
		for _, status := range c.statuses {
			sum += stats.ByStatus[status]
		}
		stats.Counters[c.name] = sum
	}
	return stats
}
