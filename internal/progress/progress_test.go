package progress

import (
	"strings"
	"testing"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
)

func drain(s *Stream) []Event {
	var got []Event
	for e := range s.Events() {
		got = append(got, e)
	}
	return got
}

func TestStreamPreservesOrder(t *testing.T) {
	s := NewStream(0)

	// Sending a lot before anyone reads must not block
	for i := 0; i < 1000; i++ {
		s.Send(CleanProgress{Done: i})
	}
	s.Send(Completed{Summary: Summary{Operation: OperationClean}})
	s.Close()

	got := drain(s)
	if len(got) != 1001 {
		t.Fatalf("got %d events, want 1001", len(got))
	}
	for i := 0; i < 1000; i++ {
		if cp, ok := got[i].(CleanProgress); !ok || cp.Done != i {
			t.Fatalf("event %d out of order: %#v", i, got[i])
		}
	}
	if !Terminal(got[1000]) {
		t.Error("terminal event should be last")
	}
}

func TestStreamRejectsAfterClose(t *testing.T) {
	s := NewStream(0)
	s.Send(Completed{})
	s.Close()

	if s.Send(Warning{Path: "/late"}) {
		t.Error("Send after Close should report false")
	}
	if got := drain(s); len(got) != 1 {
		t.Errorf("got %d events, want 1", len(got))
	}
}

func TestStreamThrottlesScanProgressOnly(t *testing.T) {
	s := NewStream(1)

	sent := 0
	for i := 0; i < 50; i++ {
		if s.Send(ScanProgress{FilesFound: i}) {
			sent++
		}
	}
	for i := 0; i < 5; i++ {
		if !s.Send(Warning{Path: "/w"}) {
			t.Error("warnings must never be throttled")
		}
	}
	s.Close()

	if sent < 1 || sent > 2 {
		t.Errorf("%d scan events let through, want 1 or 2", sent)
	}
	if got := drain(s); len(got) != sent+5 {
		t.Errorf("got %d events, want %d", len(got), sent+5)
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		event Event
		want  bool
	}{
		{ScanProgress{}, false},
		{CleanProgress{}, false},
		{ShredProgress{}, false},
		{Warning{}, false},
		{Completed{}, true},
		{Failed{}, true},
	}
	for _, tt := range tests {
		if got := Terminal(tt.event); got != tt.want {
			t.Errorf("Terminal(%T) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1400 * time.Millisecond, "1s"},
		{61 * time.Second, "1m1s"},
		{3*time.Hour + 2*time.Minute + 5*time.Second, "3h2m5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{Operation: OperationShred, Completed: 1, Cancelled: 2, Bytes: 2048, Duration: time.Second}
	got := s.String()
	for _, want := range []string{"Shred complete", "1 done", "2 cancelled", "0 failed", "2.00 KB"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
	if s.Total() != 3 {
		t.Errorf("Total() = %d, want 3", s.Total())
	}

	dry := Summary{Operation: OperationClean, Completed: 2, DryRun: true}
	if !strings.Contains(dry.String(), "would be freed") {
		t.Errorf("dry run summary = %q", dry.String())
	}
}

func TestFormatEvents(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{ScanProgress{Category: "trash", CategoriesTotal: 3, FilesFound: 4}, "Scanning trash (1/3)"},
		{CleanProgress{Done: 1, Total: 4}, "1/4 (25%)"},
		{ShredProgress{Path: "/x", Pass: 2, Passes: 3, FilesTotal: 1}, "pass 2/3"},
		{Warning{Path: "/locked", Reason: cleaner.ErrorPermissionDenied}, "/locked"},
		{Warning{Message: "Grant Full Disk Access"}, "Full Disk Access"},
		{Failed{Summary: Summary{Operation: OperationScan}, Err: cleaner.ErrIO}, "failed"},
	}
	for _, tt := range tests {
		if got := Format(tt.event); !strings.Contains(got, tt.want) {
			t.Errorf("Format(%T) = %q, want it to contain %q", tt.event, got, tt.want)
		}
	}
}
