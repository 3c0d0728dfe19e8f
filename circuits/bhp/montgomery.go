package bhp

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// addIncomplete adds two Montgomery points with distinct x-coordinates. Each
// coordinate is computed as advice and then bound by one equation, so the
// addition costs three multiplications plus their assertions.
//
// Equal x-coordinates make the first advice fail with a division by zero.
func (h *Hasher) addIncomplete(x1, y1, x2, y2 frontend.Variable) (x3, y3 frontend.Variable, err error) {
	api := h.api
	dx := api.Sub(x2, x1)
	dy := api.Sub(y2, y1)

	// lambda := (y2 − y1) / (x2 − x1)
	lambda, err := Advice(api, DivHint, dy, dx)
	if err != nil {
		return nil, nil, err
	}
	api.AssertIsEqual(api.Mul(lambda, dx), dy)

	// x3 := B·λ² − A − x1 − x2
	x3, err = Advice(api, MontgomeryXHint, lambda, h.coeffA, h.coeffB, x1, x2)
	if err != nil {
		return nil, nil, err
	}
	api.AssertIsEqual(api.Mul(h.coeffB, lambda, lambda), api.Add(h.coeffA, x1, x2, x3))

	// y3 := −(y1 + λ·(x3 − x1))
	y3, err = Advice(api, MontgomeryYHint, lambda, x3, x1, y1)
	if err != nil {
		return nil, nil, err
	}
	api.AssertIsEqual(api.Mul(lambda, api.Sub(x1, x3)), api.Add(y1, y3))

	return x3, y3, nil
}

// toEdwards converts a Montgomery point to the twisted Edwards form and checks
// that the result lies on the curve.
func (h *Hasher) toEdwards(x, y frontend.Variable) twistededwards.Point {
	p := twistededwards.Point{
		X: h.api.Div(x, y),
		Y: h.api.Div(h.api.Sub(x, 1), h.api.Add(x, 1)),
	}
	h.curve.AssertIsOnCurve(p)
	return p
}
