package scoring

import "testing"

func TestQualifies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		score     float64
		threshold float64
		expect    bool
	}{
		{name: "exactly at threshold", score: 50, threshold: 50, expect: true},
		{name: "one below", score: 49, threshold: 50, expect: false},
		{name: "above range is not clamped", score: 101, threshold: 50, expect: true},
		{name: "negative score", score: -5, threshold: 0, expect: false},
		{name: "zero threshold accepts zero", score: 0, threshold: 0, expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Qualifies(tt.score, tt.threshold); got != tt.expect {
				t.Fatalf("Qualifies(%v, %v) = %v, want %v", tt.score, tt.threshold, got, tt.expect)
			}
		})
	}
}

func TestScoreInRange(t *testing.T) {
	t.Parallel()

	for score, expect := range map[float64]bool{0: true, 100: true, 55.5: true, -1: false, 101: false} {
		if got := ScoreInRange(score); got != expect {
			t.Fatalf("ScoreInRange(%v) = %v, want %v", score, got, expect)
		}
	}
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	for score, expect := range map[float64]ScoreBand{95: BandHigh, 80: BandHigh, 79.9: BandMedium, 50: BandMedium, 49: BandLow} {
		if got := BandFor(score); got != expect {
			t.Fatalf("BandFor(%v) = %v, want %v", score, got, expect)
		}
	}
}
