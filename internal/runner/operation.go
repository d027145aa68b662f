package runner

import (
	"context"
	"sync"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

// Operation is a running or finished request
type Operation struct {
	kind   Kind
	stream *progress.Stream
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	results  []*scanner.Result
	outcome  *scanner.Outcome
	summary  progress.Summary
	err      error
	terminal progress.Event
}

// Kind returns what the operation does
func (o *Operation) Kind() Kind {
	return o.kind
}

// Events returns the ordered event channel. Exactly one Completed or
// Failed event arrives last, after which the channel is closed. Events
// queue without bound, so the channel may be drained at any pace.
func (o *Operation) Events() <-chan progress.Event {
	return o.stream.Events()
}

// Cancel asks the operation to stop at the next entry boundary
func (o *Operation) Cancel() {
	o.cancel()
}

// Done is closed once the operation has finished
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the operation finishes and returns its summary. The
// error is nil for cancelled operations.
func (o *Operation) Wait() (progress.Summary, error) {
	<-o.done
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary, o.err
}

// Results returns the scan results, once the operation has scanned
func (o *Operation) Results() []*scanner.Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.results
}

// Outcome returns the clean outcome, once a clean has finished
func (o *Operation) Outcome() *scanner.Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

func (o *Operation) emit(e progress.Event) {
	o.stream.Send(e)
}

func (o *Operation) setResults(results []*scanner.Result) {
	o.mu.Lock()
	o.results = results
	o.mu.Unlock()
}

func (o *Operation) setOutcome(out *scanner.Outcome) {
	o.mu.Lock()
	o.outcome = out
	o.mu.Unlock()
}

// finish sends the terminal event, closes the stream and releases Wait
func (o *Operation) finish(summary progress.Summary, err error) {
	var terminal progress.Event = progress.Completed{Summary: summary}
	if err != nil {
		terminal = progress.Failed{Reason: cleaner.ReasonOf(err), Err: err, Summary: summary}
	}

	o.mu.Lock()
	o.summary = summary
	o.err = err
	o.terminal = terminal
	o.mu.Unlock()

	o.stream.Send(terminal)
	o.stream.Close()
	o.cancel()
	close(o.done)
}
