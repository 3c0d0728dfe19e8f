package bhp

import (
	"math/big"

	"gnark-bhp/utils"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	tbls "github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/consensys/gnark/frontend"
)

// chunkPoint returns the Montgomery point ±(1 + b0 + 2·b1)·base selected by
// one chunk (b0, b1, b2), the sign being negative when b2 is set.
// The only multiplications are b0∧b1 and the sign binding.
func (h *Hasher) chunkPoint(chunk []frontend.Variable, base *tbls.PointAffine) (x, y frontend.Variable, err error) {
	xs, ys, err := utils.MontgomeryLadder(base)
	if err != nil {
		return nil, nil, err
	}

	b01 := h.api.And(chunk[0], chunk[1])

	x = Select4(h.api, chunk[0], chunk[1], b01, &xs)
	y, err = ConditionalNeg(h.api, chunk[2], Select4(h.api, chunk[0], chunk[1], b01, &ys))
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// Select4 picks c[b0 + 2·b1] from four constants without branching:
//
//	c0 + b0·(c1−c0) + b1·(c2−c0) + b01·(c3−c2−c1+c0)
//
// where b01 must be b0∧b1. Every term is a constant multiple of a bit, so the
// selection adds no constraints.
func Select4(api frontend.API, b0, b1, b01 frontend.Variable, c *[4]fr.Element) frontend.Variable {
	var d1, d2, d3 fr.Element
	d1.Sub(&c[1], &c[0])
	d2.Sub(&c[2], &c[0])
	d3.Sub(&c[3], &c[2])
	d3.Sub(&d3, &c[1])
	d3.Add(&d3, &c[0])

	return api.Add(
		c[0].BigInt(new(big.Int)),
		api.Mul(b0, d1.BigInt(new(big.Int))),
		api.Mul(b1, d2.BigInt(new(big.Int))),
		api.Mul(b01, d3.BigInt(new(big.Int))),
	)
}

// ConditionalNeg returns y when bit is 0 and −y when bit is 1, bound with a
// single multiplicative relation:
//
//	(bit − 1/2) · (−2·y) == result
func ConditionalNeg(api frontend.API, bit, y frontend.Variable) (frontend.Variable, error) {
	res, err := Advice(api, ConditionalNegHint, bit, y)
	if err != nil {
		return nil, err
	}
	api.AssertIsEqual(api.Mul(api.Sub(bit, oneHalf()), api.Mul(y, -2)), res)
	return res, nil
}

func oneHalf() *big.Int {
	var half fr.Element
	half.SetUint64(2)
	half.Inverse(&half)
	return half.BigInt(new(big.Int))
}
