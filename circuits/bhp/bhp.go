// Package bhp implements the Bowe-Hopwood-Pedersen hash as a gnark gadget over
// the Edwards BLS12-377 curve.
//
// The input is split into windows of WindowSize chunks of 3 bits. Every chunk
// selects one of four precomputed multiples of its base with a lookup-free
// multiplexer, the third bit flips its sign, and the chunk points of a window
// are folded together with incomplete Montgomery additions. Window sums are
// then mapped back to Edwards coordinates and added with the complete group law.
package bhp

import (
	"errors"
	"fmt"
	"math/big"

	"gnark-bhp/utils"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	tbls "github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	edwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
)

// ErrWrongField is returned by NewHasher outside the BLS12-377 scalar field.
var ErrWrongField = errors.New("bhp: circuit must be defined over the BLS12-377 scalar field")

// Hasher is a BHP gadget bound to one circuit and one parameter set.
type Hasher struct {
	api    frontend.API
	curve  twistededwards.Curve
	params *utils.BHPParams
	coeffA *big.Int
	coeffB *big.Int
}

// NewHasher returns a BHP gadget which can be used inside a circuit.
func NewHasher(api frontend.API, params *utils.BHPParams) (*Hasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if api.Compiler().Field().Cmp(fr.Modulus()) != 0 {
		return nil, ErrWrongField
	}
	curve, err := twistededwards.NewEdCurve(api, edwards.BLS12_377)
	if err != nil {
		return nil, err
	}

	a, b := utils.MontgomeryCoefficients()
	return &Hasher{
		api:    api,
		curve:  curve,
		params: params,
		coeffA: a.BigInt(new(big.Int)),
		coeffB: b.BigInt(new(big.Int)),
	}, nil
}

// Hash returns the x-coordinate of the BHP hash of input. Input bits are
// asserted to be boolean. Inputs shorter than one window or longer than the
// parameter set allows fail with a *utils.LengthError before any constraint
// is added.
func (h *Hasher) Hash(input []frontend.Variable) (frontend.Variable, error) {
	p, err := h.HashUncompressed(input)
	if err != nil {
		return nil, err
	}
	return p.X, nil
}

// HashUncompressed returns the BHP hash of input as a curve point.
func (h *Hasher) HashUncompressed(input []frontend.Variable) (twistededwards.Point, error) {
	params := h.params
	if err := utils.CheckLength(len(input), params.NumWindows, params.WindowSize); err != nil {
		return twistededwards.Point{}, err
	}

	bits := make([]frontend.Variable, len(input), len(input)+utils.ChunkSize)
	copy(bits, input)
	for _, b := range bits {
		h.api.AssertIsBoolean(b)
	}
	for i := utils.PaddingLen(len(input)); i > 0; i-- {
		bits = append(bits, 0)
	}

	windowBits := params.WindowSize * utils.ChunkSize
	sum := twistededwards.Point{X: 0, Y: 1}
	for w := 0; w*windowBits < len(bits); w++ {
		end := min((w+1)*windowBits, len(bits))
		point, err := h.window(bits[w*windowBits:end], params.Bases[w])
		if err != nil {
			return twistededwards.Point{}, fmt.Errorf("window %d: %w", w, err)
		}
		sum = h.curve.Add(sum, point)
	}
	return sum, nil
}

// Commit returns the x-coordinate of HashUncompressed(input) + randomizer·RandomBase.
func (h *Hasher) Commit(input []frontend.Variable, randomizer frontend.Variable) (frontend.Variable, error) {
	hashed, err := h.HashUncompressed(input)
	if err != nil {
		return nil, err
	}
	blind := h.curve.ScalarMul(outPointToInPoint(&h.params.RandomBase), randomizer)
	return h.curve.Add(hashed, blind).X, nil
}

// window folds the chunks of one window into a Montgomery sum, starting from
// (0, 0), and returns it in Edwards coordinates.
func (h *Hasher) window(bits []frontend.Variable, bases []tbls.PointAffine) (twistededwards.Point, error) {
	var sumX, sumY frontend.Variable = 0, 0
	for j := 0; j*utils.ChunkSize < len(bits); j++ {
		chunk := bits[j*utils.ChunkSize : (j+1)*utils.ChunkSize]
		x, y, err := h.chunkPoint(chunk, &bases[j])
		if err != nil {
			return twistededwards.Point{}, fmt.Errorf("chunk %d: %w", j, err)
		}
		sumX, sumY, err = h.addIncomplete(sumX, sumY, x, y)
		if err != nil {
			return twistededwards.Point{}, fmt.Errorf("chunk %d: %w", j, err)
		}
	}
	return h.toEdwards(sumX, sumY), nil
}

func outPointToInPoint(p *tbls.PointAffine) twistededwards.Point {
	return twistededwards.Point{
		X: p.X.BigInt(new(big.Int)),
		Y: p.Y.BigInt(new(big.Int)),
	}
}
