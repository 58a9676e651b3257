package trilean

import "testing"

func TestNegate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    Value
		expected Value
	}{
		{"negate yes", Yes, No},
		{"negate no", No, Yes},
		{"negate maybe", Maybe, Maybe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.input.Negate(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inputs   []Value
		expected Value
	}{
		{"all yes", []Value{Yes, Yes, Yes}, Yes},
		{"single no dominates", []Value{Yes, No, Maybe}, No},
		{"maybe weakens yes", []Value{Yes, Maybe}, Maybe},
		{"single value yes", []Value{Yes}, Yes},
		{"single value maybe", []Value{Maybe}, Maybe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := And(tt.inputs...); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestOr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inputs   []Value
		expected Value
	}{
		{"all no", []Value{No, No}, No},
		{"single yes dominates", []Value{No, Yes, Maybe}, Yes},
		{"maybe weakens no", []Value{No, Maybe}, Maybe},
		{"single value no", []Value{No}, No},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Or(tt.inputs...); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUniform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inputs   []Value
		expected Value
	}{
		{"all yes is yes", []Value{Yes, Yes}, Yes},
		{"all no is no", []Value{No, No, No}, No},
		{"mixed yes no is maybe", []Value{Yes, No}, Maybe},
		{"no among yes does not force no", []Value{Yes, No, Yes}, Maybe},
		{"yes among no does not force yes", []Value{No, Yes, No}, Maybe},
		{"maybe breaks uniformity", []Value{Yes, Maybe, Yes}, Maybe},
		{"single yes", []Value{Yes}, Yes},
		{"single no", []Value{No}, No},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Uniform(tt.inputs...); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestReceiverCombinators(t *testing.T) {
	t.Parallel()

	if got := Yes.And(Maybe); got != Maybe {
		t.Errorf("expected maybe, got %v", got)
	}
	if got := No.Or(Yes); got != Yes {
		t.Errorf("expected yes, got %v", got)
	}
	if got := FromBool(true); got != Yes {
		t.Errorf("expected yes, got %v", got)
	}
	if got := FromBool(false); got != No {
		t.Errorf("expected no, got %v", got)
	}
}
