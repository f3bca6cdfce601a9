package parser

import "testing"

func TestExtractHeader(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want map[string]string
	}{
		{
			name: "header block wins",
			raw: map[string]any{
				"header":   map[string]any{"merchant": "Cafe Uno", "date": "2024-05-01"},
				"merchant": map[string]any{"name": "ignored"},
			},
			want: map[string]string{"merchant": "Cafe Uno", "date": "2024-05-01"},
		},
		{
			name: "first present candidate wins, no merging",
			raw: map[string]any{
				"restaurant": map[string]any{"name": "Warung"},
				"bill":       map[string]any{"number": "42"},
			},
			want: map[string]string{"name": "Warung"},
		},
		{
			name: "scalar match kept under its key",
			raw:  map[string]any{"date": "2024-05-01"},
			want: map[string]string{"date": "2024-05-01"},
		},
		{
			name: "numeric values stringified",
			raw: map[string]any{
				"receipt_info": map[string]any{"table": float64(7)},
			},
			want: map[string]string{"table": "7"},
		},
		{
			name: "no candidate present",
			raw:  map[string]any{"menu": []any{}},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHeader(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("header[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
