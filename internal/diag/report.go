package diag

// Report is the result of validating a subject. It is immutable after
// construction: validators build it, the orchestrator inspects Clean
// and forwards the messages to the sink. The validator itself never
// writes to a sink, which keeps it side-effect free for testing.
type Report[T any] struct {
	subject T
	items   []Diagnostic
}

// NewReport builds a report for subject with the given diagnostics.
// The slice is copied.
func NewReport[T any](subject T, items []Diagnostic) *Report[T] {
	copied := make([]Diagnostic, len(items))
	copy(copied, items)
	return &Report[T]{subject: subject, items: copied}
}

// Subject returns the validated subject.
func (r *Report[T]) Subject() T {
	return r.subject
}

// Items returns the report's diagnostics in order.
func (r *Report[T]) Items() []Diagnostic {
	return r.items
}

// Clean reports whether the report carries no error-severity
// diagnostic. Warnings and infos do not dirty a report.
func (r *Report[T]) Clean() bool {
	for i := range r.items {
		if r.items[i].Severity >= SevError {
			return false
		}
	}
	return true
}

// PrintTo forwards every diagnostic to the sink in order.
func (r *Report[T]) PrintTo(sink Sink) {
	for _, d := range r.items {
		sink.Report(d)
	}
}
