package diag

// dedupKey leaves out the variant: the same finding about a symbol is
// reported once even when several variants trigger it.
type dedupKey struct {
	code   Code
	sev    Severity
	symbol string
	msg    string
}

// DedupReporter wraps another Reporter and forwards only the first
// diagnostic per code, severity, symbol and message.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary Subject, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, symbol: primary.Symbol, msg: msg}
	if _, ok := r.seen[key]; ok {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed counts the duplicates that were not forwarded.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
