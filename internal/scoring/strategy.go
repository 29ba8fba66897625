package scoring

import "fmt"

// Strategy selects the weight vector used to combine factor scores. The set
// of strategies is closed; there are no user-defined presets.
type Strategy int

// Built-in strategies. SmartBalance is the default.
const (
	SmartBalance Strategy = iota
	FastestWins
	HighImpact
	DeadlineDriven
)

// Weights is the contribution of each factor to the total score. The four
// weights of every built-in strategy sum to 1.
type Weights struct {
	Urgency      float64 `json:"urgency"`
	Importance   float64 `json:"importance"`
	Effort       float64 `json:"effort"`
	Dependencies float64 `json:"dependencies"`
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.Urgency + w.Importance + w.Effort + w.Dependencies
}

type preset struct {
	name    string
	display string
	weights Weights
}

var presets = [...]preset{
	SmartBalance: {
		name:    "smart_balance",
		display: "Smart Balance",
		weights: Weights{Urgency: 0.4, Importance: 0.3, Effort: 0.2, Dependencies: 0.1},
	},
	FastestWins: {
		name:    "fastest_wins",
		display: "Fastest Wins",
		weights: Weights{Urgency: 0.2, Importance: 0.2, Effort: 0.5, Dependencies: 0.1},
	},
	HighImpact: {
		name:    "high_impact",
		display: "High Impact",
		weights: Weights{Urgency: 0.1, Importance: 0.6, Effort: 0.2, Dependencies: 0.1},
	},
	DeadlineDriven: {
		name:    "deadline_driven",
		display: "Deadline Driven",
		weights: Weights{Urgency: 0.7, Importance: 0.2, Effort: 0.05, Dependencies: 0.05},
	},
}

// Strategies returns every built-in strategy, default first.
func Strategies() []Strategy {
	out := make([]Strategy, len(presets))
	for i := range presets {
		out[i] = Strategy(i)
	}
	return out
}

// LookupStrategy resolves a strategy by its wire name (e.g. "high_impact").
// The second result is false if the name is not a built-in strategy.
func LookupStrategy(name string) (Strategy, bool) {
	for i, p := range presets {
		if p.name == name {
			return Strategy(i), true
		}
	}
	return SmartBalance, false
}

// ParseStrategy resolves a strategy by name, falling back to SmartBalance
// for empty or unknown names.
func ParseStrategy(name string) Strategy {
	s, _ := LookupStrategy(name)
	return s
}

// Valid reports whether s is a built-in strategy.
func (s Strategy) Valid() bool {
	return s >= 0 && int(s) < len(presets)
}

func (s Strategy) preset() preset {
	if !s.Valid() {
		return presets[SmartBalance]
	}
	return presets[s]
}

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	return s.preset().name
}

// DisplayName returns the title-cased name used in explanations.
func (s Strategy) DisplayName() string {
	return s.preset().display
}

// Weights returns the strategy's weight vector.
func (s Strategy) Weights() Weights {
	return s.preset().weights
}

// MarshalText encodes the strategy as its wire name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a wire name. Unlike ParseStrategy it rejects
// unknown names.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, ok := LookupStrategy(string(text))
	if !ok {
		return fmt.Errorf("unknown strategy %q", text)
	}
	*s = v
	return nil
}
