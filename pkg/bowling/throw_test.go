package bowling

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseThrow(t *testing.T) {
	tests := []struct {
		in   string
		want Throw
	}{
		{"X", Strike},
		{"x", Strike},
		{"/", Spare},
		{"-", Gutter},
		{"0", Gutter},
		{"7", Seven},
		{" 9 ", Nine},
		{"strike", Strike},
		{"Spare", Spare},
		{"GUTTER", Gutter},
		{"four", Four},
	}
	for _, tc := range tests {
		got, err := ParseThrow(tc.in)
		if err != nil {
			t.Errorf("ParseThrow(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseThrow(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseThrow_Invalid(t *testing.T) {
	for _, in := range []string{"", "10", "XX", "ten", "?"} {
		if _, err := ParseThrow(in); !errors.Is(err, ErrInvalidThrow) {
			t.Errorf("ParseThrow(%q): got %v, want ErrInvalidThrow", in, err)
		}
	}
}

func TestThrow_SymbolRoundTrip(t *testing.T) {
	for _, th := range ThrowValues {
		got, err := ParseThrow(th.Symbol())
		if err != nil {
			t.Fatalf("ParseThrow(%q): %v", th.Symbol(), err)
		}
		if got != th {
			t.Errorf("ParseThrow(%s.Symbol()) = %s", th, got)
		}
	}
}

func TestThrow_JSON(t *testing.T) {
	type payload struct {
		Throws []Throw `json:"throws"`
	}
	data, err := json.Marshal(payload{Throws: []Throw{Strike, Seven, Spare}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"throws":["X","7","/"]}` {
		t.Errorf("Marshal = %s", data)
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"throws":["x","-","Nine"]}`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Throw{Strike, Gutter, Nine}
	for i := range want {
		if p.Throws[i] != want[i] {
			t.Errorf("Throws[%d] = %s, want %s", i, p.Throws[i], want[i])
		}
	}
}

func TestThrow_String(t *testing.T) {
	if got := Strike.String(); got != "Strike" {
		t.Errorf("Strike.String() = %q", got)
	}
	if got := Throw(42).String(); got != "Throw(42)" {
		t.Errorf("Throw(42).String() = %q", got)
	}
	if got := Throw(42).Symbol(); got != "?" {
		t.Errorf("Throw(42).Symbol() = %q", got)
	}
}

func TestPinsOf(t *testing.T) {
	tests := []struct {
		in   Throw
		want int
	}{
		{Gutter, 0}, {Five, 5}, {Nine, 9}, {Strike, 10}, {Spare, -1},
	}
	for _, tc := range tests {
		if got := pinsOf(tc.in); got != tc.want {
			t.Errorf("pinsOf(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
