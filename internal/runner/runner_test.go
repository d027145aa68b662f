package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/controller"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/security"
	"github.com/fenilsonani/reclaim/internal/shredder"
	"github.com/fenilsonani/reclaim/internal/testutil"
)

func newTestRunner(t *testing.T) (*Runner, *testutil.TestFixture) {
	t.Helper()
	f := testutil.NewFixture(t)

	info, err := platform.ForHome(platform.Linux, f.HomeDir, "tester")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.GetDefault()
	cfg.ExcludePattern = nil

	validator := security.NewPathValidator()
	remover := cleaner.NewRemover(validator, 0)
	env := &scanner.Env{Config: cfg, Platform: info, Remover: remover}

	r := New(scanner.Default(env), controller.New(), Options{
		Shred:     shredder.DefaultOptions(),
		Validator: validator,
	})
	return r, f
}

// collect drains every event and fails if the stream does not end with a
// single terminal event
func collect(t *testing.T, op *Operation) []progress.Event {
	t.Helper()
	var events []progress.Event
	timeout := time.After(30 * time.Second)
	for {
		select {
		case e, ok := <-op.Events():
			if !ok {
				terminals := 0
				for _, ev := range events {
					if progress.Terminal(ev) {
						terminals++
					}
				}
				if terminals != 1 || !progress.Terminal(events[len(events)-1]) {
					t.Fatalf("stream must end with exactly one terminal event, got %d terminals", terminals)
				}
				return events
			}
			events = append(events, e)
		case <-timeout:
			t.Fatal("timed out waiting for events")
		}
	}
}

func count[T progress.Event](events []progress.Event) int {
	n := 0
	for _, e := range events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

// =============================================================================
// Validation
// =============================================================================

func TestSubmitRejectsBadRequests(t *testing.T) {
	r, _ := newTestRunner(t)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"unknown category", Request{Kind: KindScan, Categories: []string{"nope"}}, cleaner.ErrUnknownCategory},
		{"no categories", Request{Kind: KindScan}, cleaner.ErrInvalidParameter},
		{"clean without selection", Request{Kind: KindClean, Categories: []string{scanner.IDTrash}}, cleaner.ErrInvalidParameter},
		{"negative passes", Request{Kind: KindShred, Paths: []string{"/tmp/x"}, Passes: -1}, cleaner.ErrInvalidParameter},
		{"no shred paths", Request{Kind: KindShred}, cleaner.ErrInvalidParameter},
		{"relative shred path", Request{Kind: KindShred, Paths: []string{"x.bin"}}, cleaner.ErrInvalidParameter},
		{"unknown kind", Request{Kind: Kind(42)}, cleaner.ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := r.Submit(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("Submit error = %v, want %v", err, tt.want)
			}
			if op != nil {
				t.Error("rejected request must not start an operation")
			}
			if r.Busy() {
				t.Error("runner should stay idle")
			}
		})
	}
}

// =============================================================================
// Scan and clean
// =============================================================================

func TestScanOperation(t *testing.T) {
	r, f := newTestRunner(t)
	f.CreateFile("home/.cache/a/1", make([]byte, 100))
	f.CreateFile("home/.cache/b/2", make([]byte, 50))

	op, err := r.Submit(context.Background(), Request{Kind: KindScan, Categories: []string{scanner.IDSystemCaches}})
	if err != nil {
		t.Fatal(err)
	}
	events := collect(t, op)

	done, ok := events[len(events)-1].(progress.Completed)
	if !ok {
		t.Fatalf("last event = %T, want Completed", events[len(events)-1])
	}
	if done.Summary.Completed != 2 || done.Summary.Bytes != 150 {
		t.Errorf("summary = %+v", done.Summary)
	}
	if count[progress.ScanProgress](events) == 0 {
		t.Error("expected scan progress events")
	}
	if len(op.Results()) != 1 || op.Results()[0].Count() != 2 {
		t.Errorf("results = %+v", op.Results())
	}
	if r.Controller().Phase() != controller.Scanned {
		t.Errorf("controller phase = %s", r.Controller().Phase())
	}
}

func TestCleanWithoutConfirmationIsDryRun(t *testing.T) {
	r, f := newTestRunner(t)
	f.CreateFile("home/.cache/a/1", make([]byte, 100))
	f.CreateFile("home/.cache/b/2", make([]byte, 50))

	before := f.Snapshot()
	op, err := r.Submit(context.Background(), Request{
		Kind:       KindClean,
		Categories: []string{scanner.IDSystemCaches},
		SelectAll:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	collect(t, op)
	summary, err := op.Wait()
	if err != nil {
		t.Fatal(err)
	}
	f.AssertUnchanged(before)

	if !summary.DryRun || summary.Completed != 2 || summary.Bytes != 150 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestCleanConfirmed(t *testing.T) {
	r, f := newTestRunner(t)
	f.CreateFile("home/.cache/a/1", make([]byte, 100))
	f.CreateFile("home/.cache/b/2", make([]byte, 50))

	op, err := r.Submit(context.Background(), Request{
		Kind:       KindClean,
		Categories: []string{scanner.IDSystemCaches},
		Selection:  []string{f.Path("home/.cache/a")},
		Confirmed:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	events := collect(t, op)
	summary, err := op.Wait()
	if err != nil {
		t.Fatal(err)
	}

	if summary.DryRun || summary.Completed != 1 || summary.Bytes != 100 {
		t.Errorf("summary = %+v", summary)
	}
	if count[progress.CleanProgress](events) != 1 {
		t.Errorf("expected 1 clean progress event")
	}
	f.AssertFileNotExists(f.Path("home/.cache/a"))
	f.AssertFileExists(f.Path("home/.cache/b"))
	if op.Outcome() == nil || len(op.Outcome().Entries) != 1 {
		t.Errorf("outcome = %+v", op.Outcome())
	}
}

func TestCleanUnknownSelectionFails(t *testing.T) {
	r, f := newTestRunner(t)
	f.CreateFile("home/.cache/a/1", make([]byte, 100))

	op, err := r.Submit(context.Background(), Request{
		Kind:       KindClean,
		Categories: []string{scanner.IDSystemCaches},
		Selection:  []string{f.Path("home/.cache/not-scanned")},
		Confirmed:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	events := collect(t, op)
	failed, ok := events[len(events)-1].(progress.Failed)
	if !ok {
		t.Fatalf("last event = %T, want Failed", events[len(events)-1])
	}
	if failed.Reason != cleaner.ErrorInvalidParameter {
		t.Errorf("reason = %v", failed.Reason)
	}
	f.AssertFileExists(f.Path("home/.cache/a"))
}

// =============================================================================
// Shred
// =============================================================================

func TestShredBatchCancelledAfterFirstFile(t *testing.T) {
	r, f := newTestRunner(t)
	paths := []string{
		f.CreateRandomFile("home/data/1.bin", 8192),
		f.CreateRandomFile("home/data/2.bin", 8192),
		f.CreateRandomFile("home/data/3.bin", 8192),
	}
	r.afterShred = func(op *Operation, res shredder.FileResult) {
		if res.Path == paths[0] {
			op.Cancel()
		}
	}

	op, err := r.Submit(context.Background(), Request{Kind: KindShred, Paths: paths})
	if err != nil {
		t.Fatal(err)
	}
	events := collect(t, op)
	summary, err := op.Wait()
	if err != nil {
		t.Fatalf("cancelled operation must not report an error: %v", err)
	}

	if summary.Completed != 1 || summary.Cancelled != 2 || summary.Failed != 0 {
		t.Errorf("summary = %d completed, %d cancelled, %d failed; want 1/2/0",
			summary.Completed, summary.Cancelled, summary.Failed)
	}
	if _, ok := events[len(events)-1].(progress.Completed); !ok {
		t.Errorf("cancelled operation should end with Completed, got %T", events[len(events)-1])
	}
	if got := count[progress.ShredProgress](events); got != 3 {
		t.Errorf("got %d shred progress events, want 3 (one per pass)", got)
	}
	f.AssertFileNotExists(paths[0])
	f.AssertFileExists(paths[1])
	f.AssertFileExists(paths[2])
}

func TestShredRefusesProtectedPath(t *testing.T) {
	r, f := newTestRunner(t)
	ok := f.CreateRandomFile("home/data/ok.bin", 100)

	op, err := r.Submit(context.Background(), Request{Kind: KindShred, Paths: []string{"/etc", ok}, Passes: 1})
	if err != nil {
		t.Fatal(err)
	}
	events := collect(t, op)
	summary, _ := op.Wait()

	if summary.Completed != 1 || summary.Failed != 1 || summary.Bytes != 100 {
		t.Errorf("summary = %+v", summary)
	}
	if count[progress.Warning](events) != 1 {
		t.Error("refused path should produce a warning")
	}
	if got := count[progress.ShredProgress](events); got != 1 {
		t.Errorf("got %d shred progress events, want 1", got)
	}
	f.AssertFileNotExists(ok)
}

func TestSubmitWhileBusy(t *testing.T) {
	r, f := newTestRunner(t)
	paths := []string{
		f.CreateRandomFile("home/data/1.bin", 1024),
		f.CreateRandomFile("home/data/2.bin", 1024),
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	r.afterShred = func(_ *Operation, res shredder.FileResult) {
		if res.Path == paths[0] {
			close(entered)
			<-release
		}
	}

	op, err := r.Submit(context.Background(), Request{Kind: KindShred, Paths: paths})
	if err != nil {
		t.Fatal(err)
	}
	<-entered

	if _, err := r.Submit(context.Background(), Request{Kind: KindScan, Categories: []string{scanner.IDTrash}}); !errors.Is(err, ErrBusy) {
		t.Errorf("scan during shred: err = %v, want ErrBusy", err)
	}
	if _, err := r.Submit(context.Background(), Request{Kind: KindShred, Paths: paths}); !errors.Is(err, ErrBusy) {
		t.Errorf("second shred: err = %v, want ErrBusy", err)
	}

	close(release)
	collect(t, op)
	if _, err := op.Wait(); err != nil {
		t.Fatal(err)
	}

	next, err := r.Submit(context.Background(), Request{Kind: KindScan, Categories: []string{scanner.IDTrash}})
	if err != nil {
		t.Fatalf("submit after finish: %v", err)
	}
	collect(t, next)
}
