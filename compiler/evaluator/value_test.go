package evaluator

import "testing"

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", Str("Linux"), "Linux"},
		{"int", Int(8), "8"},
		{"float", Float(3.5), "3.5"},
		{"bool", Bool(true), "true"},
		{"list", List(Str("and"), Str("a"), Int(1)), "[and a 1]"},
		{"nested list", List(Str("or"), List(Str("="), Str("a"), Int(1))), "[or [= a 1]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueMarshalJSONKinds(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"string", Str("Linux"), `"Linux"`},
		{"int", Int(8), "8"},
		{"bool", Bool(false), "false"},
		{"list", List(Str("a"), Int(1)), `["a",1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.v.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", b, tt.want)
			}
		})
	}
}
