package scoring

import (
	"encoding/json"
	"math"
	"testing"
)

func TestStrategyTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strategy Strategy
		name     string
		display  string
		weights  Weights
	}{
		{SmartBalance, "smart_balance", "Smart Balance", Weights{0.4, 0.3, 0.2, 0.1}},
		{FastestWins, "fastest_wins", "Fastest Wins", Weights{0.2, 0.2, 0.5, 0.1}},
		{HighImpact, "high_impact", "High Impact", Weights{0.1, 0.6, 0.2, 0.1}},
		{DeadlineDriven, "deadline_driven", "Deadline Driven", Weights{0.7, 0.2, 0.05, 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.strategy.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.strategy.DisplayName(); got != tt.display {
				t.Errorf("DisplayName() = %q, want %q", got, tt.display)
			}
			if got := tt.strategy.Weights(); got != tt.weights {
				t.Errorf("Weights() = %+v, want %+v", got, tt.weights)
			}
			if sum := tt.strategy.Weights().Sum(); math.Abs(sum-1) > 1e-9 {
				t.Errorf("weights sum to %v, want 1", sum)
			}
		})
	}
}

func TestStrategies(t *testing.T) {
	t.Parallel()
	got := Strategies()
	want := []Strategy{SmartBalance, FastestWins, HighImpact, DeadlineDriven}
	if len(got) != len(want) {
		t.Fatalf("Strategies() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strategies()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLookupStrategy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   Strategy
		wantOK bool
	}{
		{"smart_balance", SmartBalance, true},
		{"fastest_wins", FastestWins, true},
		{"high_impact", HighImpact, true},
		{"deadline_driven", DeadlineDriven, true},
		{"", SmartBalance, false},
		{"unknown", SmartBalance, false},
		{"High_Impact", SmartBalance, false},
	}

	for _, tt := range tests {
		got, ok := LookupStrategy(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("LookupStrategy(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
		if p := ParseStrategy(tt.name); p != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, want %v", tt.name, p, tt.want)
		}
	}
}

func TestInvalidStrategyFallsBackToDefault(t *testing.T) {
	t.Parallel()
	s := Strategy(42)
	if s.Valid() {
		t.Fatal("Strategy(42).Valid() = true")
	}
	if s.String() != "smart_balance" {
		t.Errorf("String() = %q, want smart_balance", s.String())
	}
	if s.Weights() != SmartBalance.Weights() {
		t.Errorf("Weights() = %+v, want smart_balance weights", s.Weights())
	}
}

func TestStrategyJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(struct {
		S Strategy `json:"s"`
	}{HighImpact})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"s":"high_impact"}` {
		t.Errorf("Marshal = %s", data)
	}

	var out struct {
		S Strategy `json:"s"`
	}
	if err := json.Unmarshal([]byte(`{"s":"deadline_driven"}`), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.S != DeadlineDriven {
		t.Errorf("Unmarshal = %v, want deadline_driven", out.S)
	}

	if err := json.Unmarshal([]byte(`{"s":"bogus"}`), &out); err == nil {
		t.Error("Unmarshal of unknown strategy succeeded, want error")
	}
}
