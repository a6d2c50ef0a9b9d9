package billing

import (
	"testing"
	"time"
)

var base = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestHoursCeil(t *testing.T) {
	tests := []struct {
		name string
		dur  time.Duration
		want int64
	}{
		{"exact hours", 2 * time.Hour, 2},
		{"half hour rounds up", 2*time.Hour + 30*time.Minute, 3},
		{"one minute over", time.Hour + time.Minute, 2},
		{"one second over", time.Hour + time.Second, 2},
		{"under an hour", 10 * time.Minute, 1},
		{"zero", 0, 0},
		{"negative clamps to zero", -time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoursCeil(base, base.Add(tt.dur)); got != tt.want {
				t.Errorf("HoursCeil(%s) = %d, want %d", tt.dur, got, tt.want)
			}
		})
	}
}

func TestBookingAmount_PartialHoursRoundUp(t *testing.T) {
	end := time.Date(2024, 5, 1, 11, 30, 0, 0, time.UTC)
	got := BookingAmount(HoursCeil(base, end), 10)
	if got != 30 {
		t.Errorf("09:00-11:30 at rate 10 = %v, want 30", got)
	}
}

func TestComputePenalty(t *testing.T) {
	end := base.Add(2 * time.Hour)

	tests := []struct {
		name        string
		now         time.Time
		wantApplied bool
		wantHours   int64
		wantAmount  float64
	}{
		{"before end", end.Add(-time.Minute), false, 0, 0},
		{"exactly at end", end, false, 0, 0},
		{"one hour twenty over", end.Add(80 * time.Minute), true, 2, 70},
		{"one second over", end.Add(time.Second), true, 1, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePenalty(tt.now, end, 10, 50)
			if p.Applied != tt.wantApplied {
				t.Fatalf("Applied = %v, want %v", p.Applied, tt.wantApplied)
			}
			if p.ExceededHours != tt.wantHours {
				t.Errorf("ExceededHours = %d, want %d", p.ExceededHours, tt.wantHours)
			}
			if p.Amount != tt.wantAmount {
				t.Errorf("Amount = %v, want %v", p.Amount, tt.wantAmount)
			}
		})
	}
}

func TestTotalAmount(t *testing.T) {
	if got := TotalAmount(30, Penalty{}); got != 30 {
		t.Errorf("no penalty total = %v, want 30", got)
	}
	if got := TotalAmount(30, Penalty{Applied: true, Amount: 70}); got != 100 {
		t.Errorf("penalty total = %v, want 100", got)
	}
}
