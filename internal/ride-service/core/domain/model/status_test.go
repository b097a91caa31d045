package model

import "testing"

func TestParseRideStatus(t *testing.T) {
	tests := []struct {
		in   string
		want RideStatus
		ok   bool
	}{
		{"completed", StatusCompleted, true},
		{"COMPLETED", StatusCompleted, true},
		{"  cAnCeLLed ", StatusCancelled, true},
		{"Pending", StatusPending, true},
		{"started", StatusStarted, true},
		{"done", "", false},
		{"", "", false},
		{"in progress", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRideStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRideStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLifecycleEdges(t *testing.T) {
	allowed := map[[2]RideStatus]bool{
		{StatusPending, StatusCancelled}:  true,
		{StatusAccepted, StatusStarted}:   true,
		{StatusAccepted, StatusCancelled}: true,
		{StatusStarted, StatusCompleted}:  true,
		{StatusStarted, StatusCancelled}:  true,
	}
	for _, from := range RideStatuses() {
		for _, to := range RideStatuses() {
			want := allowed[[2]RideStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalAndHolding(t *testing.T) {
	for _, st := range RideStatuses() {
		terminal := st == StatusCompleted || st == StatusCancelled
		if st.IsTerminal() != terminal {
			t.Errorf("%s.IsTerminal() = %v", st, st.IsTerminal())
		}
		holds := st == StatusAccepted || st == StatusStarted
		if st.HoldsDriver() != holds {
			t.Errorf("%s.HoldsDriver() = %v", st, st.HoldsDriver())
		}
	}
}
