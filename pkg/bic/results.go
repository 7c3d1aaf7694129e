package bic

import "sync"

// Result is one named, parameterized pass/fail record.
type Result struct {
	Name  string
	Param int
	Pass  bool
}

// Ledger collects test results for the surrounding harness. Safe for
// concurrent use.
type Ledger struct {
	mu      sync.Mutex
	results []Result
}

func (l *Ledger) Record(name string, param int, pass bool) {
	l.mu.Lock()
	l.results = append(l.results, Result{Name: name, Param: param, Pass: pass})
	l.mu.Unlock()
}

// Results returns a snapshot of all recorded results in record order.
func (l *Ledger) Results() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Result, len(l.results))
	copy(out, l.results)
	return out
}

// Failures counts recorded failures.
func (l *Ledger) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range l.results {
		if !r.Pass {
			n++
		}
	}
	return n
}

// DefaultLedger is the process-wide ledger harness code records into when it
// has no reason to keep results separate.
var DefaultLedger = &Ledger{}
