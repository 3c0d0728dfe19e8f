package bhp

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
)

var errDivisionByZero = errors.New("bhp: division by zero while computing advice")

func init() {
	solver.RegisterHint(GetHints()...)
}

// GetHints returns the hints the BHP gadget needs at proving time.
func GetHints() []solver.Hint {
	return []solver.Hint{
		DivHint,
		MontgomeryXHint,
		MontgomeryYHint,
		ConditionalNegHint,
	}
}

// Advice computes a single value outside of the circuit from inputs that are
// already assigned. The result is NOT constrained: callers must bind it with
// an explicit assertion. When every input is a constant the hint is evaluated
// right away and a constant is returned.
func Advice(api frontend.API, hint solver.Hint, inputs ...frontend.Variable) (frontend.Variable, error) {
	values := make([]*big.Int, len(inputs))
	constant := true
	for i, in := range inputs {
		v, ok := api.Compiler().ConstantValue(in)
		if !ok {
			constant = false
			break
		}
		values[i] = v
	}

	if constant {
		out := []*big.Int{new(big.Int)}
		if err := hint(api.Compiler().Field(), values, out); err != nil {
			return nil, err
		}
		return out[0], nil
	}

	res, err := api.Compiler().NewHint(hint, 1, inputs...)
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// DivHint computes inputs[0] / inputs[1].
func DivHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	if len(inputs) != 2 || len(outputs) != 1 {
		return errors.New("DivHint expects 2 inputs and 1 output")
	}
	den := new(big.Int).Mod(inputs[1], field)
	if den.Sign() == 0 {
		return errDivisionByZero
	}
	den.ModInverse(den, field)
	outputs[0].Mul(inputs[0], den).Mod(outputs[0], field)
	return nil
}

// MontgomeryXHint computes B·λ² − A − x1 − x2 from inputs (λ, A, B, x1, x2).
func MontgomeryXHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	if len(inputs) != 5 || len(outputs) != 1 {
		return errors.New("MontgomeryXHint expects 5 inputs and 1 output")
	}
	lambda, a, b, x1, x2 := inputs[0], inputs[1], inputs[2], inputs[3], inputs[4]
	res := new(big.Int).Mul(lambda, lambda)
	res.Mul(res, b)
	res.Sub(res, a)
	res.Sub(res, x1)
	res.Sub(res, x2)
	outputs[0].Mod(res, field)
	return nil
}

// MontgomeryYHint computes −(y1 + λ·(sum_x − x1)) from inputs (λ, sum_x, x1, y1).
func MontgomeryYHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	if len(inputs) != 4 || len(outputs) != 1 {
		return errors.New("MontgomeryYHint expects 4 inputs and 1 output")
	}
	lambda, sumX, x1, y1 := inputs[0], inputs[1], inputs[2], inputs[3]
	res := new(big.Int).Sub(sumX, x1)
	res.Mul(res, lambda)
	res.Add(res, y1)
	res.Neg(res)
	outputs[0].Mod(res, field)
	return nil
}

// ConditionalNegHint returns −y when bit is set and y otherwise, from inputs (bit, y).
func ConditionalNegHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	if len(inputs) != 2 || len(outputs) != 1 {
		return errors.New("ConditionalNegHint expects 2 inputs and 1 output")
	}
	if inputs[0].Sign() != 0 {
		outputs[0].Neg(inputs[1])
	} else {
		outputs[0].Set(inputs[1])
	}
	outputs[0].Mod(outputs[0], field)
	return nil
}
