package models

import "testing"

func TestStrategyValid(t *testing.T) {
	tests := []struct {
		strategy Strategy
		want     bool
	}{
		{StrategyEqual, true},
		{StrategyProportional, true},
		{Strategy(""), false},
		{Strategy("random"), false},
		{Strategy("Equal"), false},
	}

	for _, tt := range tests {
		if got := tt.strategy.Valid(); got != tt.want {
			t.Errorf("Strategy(%q).Valid() = %v, want %v", tt.strategy, got, tt.want)
		}
	}
}
