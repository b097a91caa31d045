package db

import (
	"fmt"
	"math/big"

	"ride-booking/internal/ride-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgtype"
)

func fareToNumeric(f model.Fare) pgtype.Numeric {
	return pgtype.Numeric{Int: big.NewInt(f.Cents()), Exp: -2, Valid: true}
}

// numericToFare converts a NUMERIC(10,2) value to cents without going
// through float64.
func numericToFare(n pgtype.Numeric) (model.Fare, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return 0, fmt.Errorf("fare is not a finite number")
	}

	cents := new(big.Int).Set(n.Int)
	shift := int64(n.Exp) + 2
	ten := big.NewInt(10)
	switch {
	case shift > 0:
		cents.Mul(cents, new(big.Int).Exp(ten, big.NewInt(shift), nil))
	case shift < 0:
		cents.Quo(cents, new(big.Int).Exp(ten, big.NewInt(-shift), nil))
	}
	if !cents.IsInt64() {
		return 0, fmt.Errorf("fare %s out of range", cents)
	}
	return model.Fare(cents.Int64()), nil
}
