package utils

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
)

var errExceptionalPoint = errors.New("point has no affine image under the Edwards/Montgomery map")

// MontgomeryCoefficients returns A and B of the Montgomery curve
// B·v² = u³ + A·u² + u birationally equivalent to the Edwards curve:
// A = 2(a+d)/(a−d), B = 4/(a−d).
func MontgomeryCoefficients() (A, B fr.Element) {
	var aMinusD, two, four fr.Element
	aMinusD.Sub(&curve.A, &curve.D)
	two.SetUint64(2)
	four.SetUint64(4)

	A.Add(&curve.A, &curve.D)
	A.Mul(&A, &two)
	A.Div(&A, &aMinusD)
	B.Div(&four, &aMinusD)
	return A, B
}

// EdwardsToMontgomery maps (x, y) to u = (1+y)/(1−y), v = u/x.
func EdwardsToMontgomery(p *twistededwards.PointAffine) (u, v fr.Element, err error) {
	var one, num, den fr.Element
	one.SetOne()
	num.Add(&one, &p.Y)
	den.Sub(&one, &p.Y)
	if den.IsZero() || p.X.IsZero() {
		return u, v, errExceptionalPoint
	}
	u.Div(&num, &den)
	v.Div(&u, &p.X)
	return u, v, nil
}

// MontgomeryToEdwards maps (u, v) to x = u/v, y = (u−1)/(u+1). Together with
// MontgomeryAddIncomplete it replays the circuit's window fold natively, which
// is how the Edwards-form reference hash is checked against it.
func MontgomeryToEdwards(u, v *fr.Element) (twistededwards.PointAffine, error) {
	var p twistededwards.PointAffine
	var one, num, den fr.Element
	one.SetOne()
	num.Sub(u, &one)
	den.Add(u, &one)
	if v.IsZero() || den.IsZero() {
		return p, errExceptionalPoint
	}
	p.X.Div(u, v)
	p.Y.Div(&num, &den)
	return p, nil
}

// MontgomeryAddIncomplete adds two Montgomery points with distinct
// u-coordinates using the chord rule.
func MontgomeryAddIncomplete(u1, v1, u2, v2 *fr.Element) (u3, v3 fr.Element, err error) {
	var dx, dy, lambda fr.Element
	dx.Sub(u2, u1)
	if dx.IsZero() {
		return u3, v3, errors.New("incomplete addition of points with equal u-coordinates")
	}
	dy.Sub(v2, v1)
	lambda.Div(&dy, &dx)

	A, B := MontgomeryCoefficients()
	// u3 = B·λ² − A − u1 − u2
	u3.Square(&lambda)
	u3.Mul(&u3, &B)
	u3.Sub(&u3, &A)
	u3.Sub(&u3, u1)
	u3.Sub(&u3, u2)
	// v3 = λ·(u1 − u3) − v1
	v3.Sub(u1, &u3)
	v3.Mul(&v3, &lambda)
	v3.Sub(&v3, v1)
	return u3, v3, nil
}

// MontgomeryLadder returns the Montgomery coordinates of base, 2·base, 3·base
// and 4·base, each obtained by adding base to the previous multiple.
func MontgomeryLadder(base *twistededwards.PointAffine) (us, vs [4]fr.Element, err error) {
	var acc twistededwards.PointAffine
	acc.Set(base)
	for k := 0; k < 4; k++ {
		us[k], vs[k], err = EdwardsToMontgomery(&acc)
		if err != nil {
			return us, vs, err
		}
		acc.Add(&acc, base)
	}
	return us, vs, nil
}
