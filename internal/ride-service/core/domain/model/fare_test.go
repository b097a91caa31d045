package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseFare(t *testing.T) {
	tests := []struct {
		in   string
		want Fare
		err  error
	}{
		{"349", 34900, nil},
		{"349.5", 34950, nil},
		{"349.50", 34950, nil},
		{"0.99", 99, nil},
		{".75", 75, nil},
		{"007.10", 710, nil},
		{"99999999.99", MaxFare, nil},
		{"100000000", 0, ErrFareRange},
		{"-1", 0, ErrFareRange},
		{"1.999", 0, ErrFareSyntax},
		{"1.", 0, ErrFareSyntax},
		{"abc", 0, ErrFareSyntax},
		{"1e3", 100000, nil},
		{"3.49e2", 34900, nil},
		{"3.495E2", 34950, nil},
		{"1.000e1", 1000, nil},
		{"1.234e+1", 1234, nil},
		{"5e-2", 5, nil},
		{"4500e-2", 4500, nil},
		{"1e-3", 0, ErrFareSyntax},
		{"1e9", 0, ErrFareRange},
		{"1e99", 0, ErrFareRange},
		{"e2", 0, ErrFareSyntax},
		{"1e", 0, ErrFareSyntax},
		{"1.e2", 0, ErrFareSyntax},
		{"1e2.5", 0, ErrFareSyntax},
		{"", 0, ErrFareSyntax},
	}
	for _, tt := range tests {
		got, err := ParseFare(tt.in)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseFare(%q) error = %v, want %v", tt.in, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFare(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFareJSON(t *testing.T) {
	var body struct {
		Fare Fare `json:"fare"`
	}
	if err := json.Unmarshal([]byte(`{"fare": 349}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fare != 34900 {
		t.Fatalf("fare = %d", body.Fare)
	}
	if err := json.Unmarshal([]byte(`{"fare": "12.3"}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fare != 1230 {
		t.Fatalf("fare = %d", body.Fare)
	}
	if err := json.Unmarshal([]byte(`{"fare": 3.495e2}`), &body); err != nil {
		t.Fatal(err)
	}
	if body.Fare != 34950 {
		t.Fatalf("fare = %d", body.Fare)
	}

	out, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"fare":12.30}` {
		t.Errorf("marshal = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"fare": 1.234}`), &body); err == nil {
		t.Error("expected error for three fractional digits")
	}
}
