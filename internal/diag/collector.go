package diag

// Collector is the standard Sink: an append-only, insertion-ordered
// list of diagnostics. It is owned by a single compilation session and
// is not safe for concurrent use (the pipeline is single-threaded).
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report appends a diagnostic.
func (c *Collector) Report(d Diagnostic) {
	c.items = append(c.items, d)
}

// Items returns the collected diagnostics in report order.
// The returned slice points at the collector's backing array; callers
// must not modify it.
func (c *Collector) Items() []Diagnostic {
	return c.items
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// HasErrors reports whether any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	for i := range c.items {
		if c.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}
