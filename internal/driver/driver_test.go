package driver

import (
	"errors"
	"testing"
)

func TestConstant(t *testing.T) {
	t.Parallel()
	src := Constant(12.5)
	for _, day := range []int{1, 2, 365} {
		got, err := src.Value(day)
		if err != nil {
			t.Fatalf("Value(%d): %v", day, err)
		}
		if got != 12.5 {
			t.Errorf("Value(%d) = %v, want 12.5", day, got)
		}
	}
}

func TestSeries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  []float64
		cycle   bool
		day     int
		want    float64
		wantErr error
	}{
		{name: "first day", values: []float64{3, 4, 5}, day: 1, want: 3},
		{name: "last day", values: []float64{3, 4, 5}, day: 3, want: 5},
		{name: "exhausted", values: []float64{3, 4, 5}, day: 4, wantErr: ErrExhausted},
		{name: "cycles", values: []float64{3, 4, 5}, cycle: true, day: 5, want: 4},
		{name: "empty series", values: nil, cycle: true, day: 1, wantErr: ErrExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewSeries(tt.values, tt.cycle).Value(tt.day)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Value(%d) error = %v, want %v", tt.day, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Value(%d): %v", tt.day, err)
			}
			if got != tt.want {
				t.Errorf("Value(%d) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestSeries_RejectsDayZero(t *testing.T) {
	t.Parallel()
	if _, err := NewSeries([]float64{1}, true).Value(0); err == nil {
		t.Fatal("expected error for day 0")
	}
}

func TestSeries_CopiesInput(t *testing.T) {
	t.Parallel()
	values := []float64{1, 2}
	s := NewSeries(values, false)
	values[0] = 99
	if got, _ := s.Value(1); got != 1 {
		t.Errorf("Value(1) = %v, series should not alias its input", got)
	}
}

func TestFunc(t *testing.T) {
	t.Parallel()
	src := Func(func(day int) (float64, error) { return float64(day) * 2, nil })
	if got, _ := src.Value(4); got != 8 {
		t.Errorf("Value(4) = %v, want 8", got)
	}
}
