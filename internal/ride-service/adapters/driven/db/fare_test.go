package db

import (
	"math/big"
	"testing"

	"ride-booking/internal/ride-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNumericToFare(t *testing.T) {
	tests := []struct {
		name string
		in   pgtype.Numeric
		want model.Fare
	}{
		{"two decimals", pgtype.Numeric{Int: big.NewInt(34950), Exp: -2, Valid: true}, 34950},
		{"whole units", pgtype.Numeric{Int: big.NewInt(349), Exp: 0, Valid: true}, 34900},
		{"one decimal", pgtype.Numeric{Int: big.NewInt(3495), Exp: -1, Valid: true}, 34950},
		{"positive exponent", pgtype.Numeric{Int: big.NewInt(35), Exp: 1, Valid: true}, 35000},
		{"extra scale", pgtype.Numeric{Int: big.NewInt(349500), Exp: -3, Valid: true}, 34950},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := numericToFare(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := numericToFare(pgtype.Numeric{}); err == nil {
		t.Error("NULL numeric accepted")
	}
	if _, err := numericToFare(pgtype.Numeric{NaN: true, Valid: true}); err == nil {
		t.Error("NaN accepted")
	}
}

func TestFareToNumeric(t *testing.T) {
	n := fareToNumeric(model.Fare(34900))
	if !n.Valid || n.Exp != -2 || n.Int.Int64() != 34900 {
		t.Fatalf("numeric = %+v", n)
	}
	back, err := numericToFare(n)
	if err != nil || back != 34900 {
		t.Fatalf("round trip = %d, %v", back, err)
	}
}
