package utils

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"golang.org/x/crypto/blake2b"
)

// DefaultDomain is the setup label used when callers do not pick their own.
const DefaultDomain = "BHPCircuit0"

var curve = twistededwards.GetEdwardsCurve()

// BHPParams holds the precomputed window bases of a BHP hash over the
// Edwards BLS12-377 curve. It is read-only once SetupBHP returns.
type BHPParams struct {
	Domain     string
	NumWindows int
	WindowSize int
	Bases      [][]twistededwards.PointAffine
	RandomBase twistededwards.PointAffine
}

// SetupBHP derives the bases for numWindows windows of windowSize chunks each.
// Window i starts at a point hashed from "domain.i"; every following chunk
// base is the previous one multiplied by 16.
func SetupBHP(domain string, numWindows, windowSize int) (*BHPParams, error) {
	if numWindows <= 0 || windowSize <= 0 {
		return nil, fmt.Errorf("%w: windows=%d, window size=%d", ErrInvalidParams, numWindows, windowSize)
	}
	if MaxWindowScalar(windowSize).Cmp(&curve.Order) >= 0 {
		return nil, fmt.Errorf("%w: window size %d overflows the subgroup order", ErrInvalidParams, windowSize)
	}

	params := &BHPParams{
		Domain:     domain,
		NumWindows: numWindows,
		WindowSize: windowSize,
		Bases:      make([][]twistededwards.PointAffine, numWindows),
	}

	for i := 0; i < numWindows; i++ {
		base, _, err := HashToCurve([]byte(domain + "." + strconv.Itoa(i)))
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		row := make([]twistededwards.PointAffine, windowSize)
		for j := 0; j < windowSize; j++ {
			row[j].Set(base)
			for k := 0; k < 4; k++ {
				base.Double(base)
			}
		}
		params.Bases[i] = row
	}

	randomBase, _, err := HashToCurve([]byte(domain + ".RandomBase"))
	if err != nil {
		return nil, fmt.Errorf("random base: %w", err)
	}
	params.RandomBase = *randomBase

	return params, nil
}

// Validate checks the shape of the parameter set and that every base is a
// non-identity curve point.
func (p *BHPParams) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil parameters", ErrInvalidParams)
	}
	if p.NumWindows <= 0 || p.WindowSize <= 0 {
		return fmt.Errorf("%w: windows=%d, window size=%d", ErrInvalidParams, p.NumWindows, p.WindowSize)
	}
	if len(p.Bases) != p.NumWindows {
		return fmt.Errorf("%w: expected %d windows, have %d", ErrInvalidParams, p.NumWindows, len(p.Bases))
	}
	for i, row := range p.Bases {
		if len(row) < p.WindowSize {
			return fmt.Errorf("%w: window %d has %d bases, need %d", ErrInvalidParams, i, len(row), p.WindowSize)
		}
		for j := 0; j < p.WindowSize; j++ {
			if !row[j].IsOnCurve() || isIdentity(&row[j]) {
				return fmt.Errorf("%w: base %d of window %d is not a valid point", ErrInvalidParams, j, i)
			}
		}
	}
	if !p.RandomBase.IsOnCurve() || isIdentity(&p.RandomBase) {
		return fmt.Errorf("%w: invalid random base", ErrInvalidParams)
	}
	return nil
}

// MaxBits is the largest input length accepted by the parameter set.
func (p *BHPParams) MaxBits() int {
	return p.NumWindows * p.WindowSize * ChunkSize
}

// MinBits is the smallest input length accepted by the parameter set.
func (p *BHPParams) MinBits() int {
	return p.WindowSize*ChunkSize + 1
}

// HashUncompressed computes the BHP hash of bits as a curve point.
//
// Each processed window contributes Σ_j (1 + b0 + 2·b1)·(−1)^b2 · Bases[w][j]
// plus the order-2 point (0, −1), matching the circuit which starts every
// window's Montgomery accumulator at (0, 0).
func (p *BHPParams) HashUncompressed(bits []bool) (twistededwards.PointAffine, error) {
	var sum twistededwards.PointAffine
	setIdentity(&sum)

	if err := CheckLength(len(bits), p.NumWindows, p.WindowSize); err != nil {
		return sum, err
	}

	input := make([]bool, len(bits), len(bits)+ChunkSize)
	copy(input, bits)
	input = append(input, make([]bool, PaddingLen(len(bits)))...)

	torsion := twoTorsion()
	windowBits := p.WindowSize * ChunkSize
	for w := 0; w*windowBits < len(input); w++ {
		end := min((w+1)*windowBits, len(input))
		var acc twistededwards.PointAffine
		setIdentity(&acc)
		for j, off := 0, w*windowBits; off < end; j, off = j+1, off+ChunkSize {
			var term twistededwards.PointAffine
			term.ScalarMultiplication(&p.Bases[w][j], big.NewInt(chunkScalar(input[off], input[off+1])))
			if input[off+2] {
				term.Neg(&term)
			}
			acc.Add(&acc, &term)
		}
		acc.Add(&acc, &torsion)
		sum.Add(&sum, &acc)
	}
	return sum, nil
}

// Hash returns the x-coordinate of HashUncompressed.
func (p *BHPParams) Hash(bits []bool) (fr.Element, error) {
	point, err := p.HashUncompressed(bits)
	if err != nil {
		return fr.Element{}, err
	}
	return point.X, nil
}

// Commit returns the x-coordinate of HashUncompressed(bits) + randomizer·RandomBase.
func (p *BHPParams) Commit(bits []bool, randomizer *big.Int) (fr.Element, error) {
	point, err := p.HashUncompressed(bits)
	if err != nil {
		return fr.Element{}, err
	}
	var blind twistededwards.PointAffine
	blind.ScalarMultiplication(&p.RandomBase, randomizer)
	point.Add(&point, &blind)
	return point.X, nil
}

// HashToCurve maps data to a prime-order point by try-and-increment on the
// y-coordinate. It also returns the counter that produced the point.
func HashToCurve(data []byte) (*twistededwards.PointAffine, int, error) {
	var one fr.Element
	one.SetOne()

	for counter := 0; counter <= 255; counter++ {
		digest := blake2b.Sum512(append(append([]byte{}, data...), byte(counter)))
		var y fr.Element
		y.SetBytes(digest[:])

		var y2, num, denom, x2 fr.Element
		y2.Square(&y)
		num.Sub(&one, &y2)
		denom.Mul(&curve.D, &y2)
		denom.Sub(&curve.A, &denom)
		if denom.IsZero() {
			continue
		}
		x2.Div(&num, &denom)

		var x fr.Element
		if x.Sqrt(&x2) == nil {
			continue
		}
		point := twistededwards.PointAffine{X: x, Y: y}
		if !point.IsOnCurve() {
			continue
		}
		point.ScalarMultiplication(&point, curve.Cofactor.BigInt(new(big.Int)))
		if isIdentity(&point) {
			continue
		}
		return &point, counter, nil
	}

	return nil, 0, fmt.Errorf("failed to find valid point after 256 attempts")
}

// MaxWindowScalar is the largest absolute scalar a single window can apply to
// its first base: Σ_j 4·16^j.
func MaxWindowScalar(windowSize int) *big.Int {
	bound := new(big.Int).Lsh(big.NewInt(1), uint(4*windowSize))
	bound.Sub(bound, big.NewInt(1))
	bound.Mul(bound, big.NewInt(4))
	return bound.Div(bound, big.NewInt(15))
}

func chunkScalar(b0, b1 bool) int64 {
	k := int64(1)
	if b0 {
		k++
	}
	if b1 {
		k += 2
	}
	return k
}

func twoTorsion() twistededwards.PointAffine {
	var t twistededwards.PointAffine
	t.X.SetZero()
	t.Y.SetOne()
	t.Y.Neg(&t.Y)
	return t
}

func setIdentity(p *twistededwards.PointAffine) {
	p.X.SetZero()
	p.Y.SetOne()
}

func isIdentity(p *twistededwards.PointAffine) bool {
	return p.X.IsZero() && p.Y.IsOne()
}
