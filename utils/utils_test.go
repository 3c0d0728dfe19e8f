package utils

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallParams(t *testing.T) *BHPParams {
	t.Helper()
	params, err := SetupBHP("BHPUtilsTest", 5, 6)
	require.NoError(t, err)
	return params
}

func TestSetupBHP(t *testing.T) {
	params := smallParams(t)
	require.NoError(t, params.Validate())
	assert.Equal(t, 5*6*ChunkSize, params.MaxBits())
	assert.Equal(t, 6*ChunkSize+1, params.MinBits())

	again := smallParams(t)
	for i := range params.Bases {
		for j := range params.Bases[i] {
			assert.True(t, params.Bases[i][j].Equal(&again.Bases[i][j]))
		}
	}

	sixteen := big.NewInt(16)
	for i, row := range params.Bases {
		for j := 1; j < len(row); j++ {
			var expected twistededwards.PointAffine
			expected.ScalarMultiplication(&row[j-1], sixteen)
			assert.True(t, expected.Equal(&row[j]), "window %d base %d", i, j)
		}
	}

	other, err := SetupBHP("BHPUtilsOther", 5, 6)
	require.NoError(t, err)
	assert.False(t, other.Bases[0][0].Equal(&params.Bases[0][0]))
	assert.False(t, params.Bases[0][0].Equal(&params.Bases[1][0]))
}

func TestFingerprint(t *testing.T) {
	params := smallParams(t)
	assert.Equal(t, params.Fingerprint(), smallParams(t).Fingerprint())

	other, err := SetupBHP("BHPUtilsOther", 5, 6)
	require.NoError(t, err)
	assert.NotEqual(t, params.Fingerprint(), other.Fingerprint())

	shorter, err := SetupBHP("BHPUtilsTest", 4, 6)
	require.NoError(t, err)
	assert.NotEqual(t, params.Fingerprint(), shorter.Fingerprint())
}

func TestSetupBHPInvalid(t *testing.T) {
	_, err := SetupBHP(DefaultDomain, 0, 4)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = SetupBHP(DefaultDomain, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = SetupBHP(DefaultDomain, 1, 100)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestValidate(t *testing.T) {
	var nilParams *BHPParams
	assert.ErrorIs(t, nilParams.Validate(), ErrInvalidParams)

	params := smallParams(t)
	truncated := *params
	truncated.Bases = params.Bases[:2]
	assert.ErrorIs(t, truncated.Validate(), ErrInvalidParams)

	identity := *params
	identity.Bases = make([][]twistededwards.PointAffine, len(params.Bases))
	copy(identity.Bases, params.Bases)
	identity.Bases[3] = append([]twistededwards.PointAffine{}, params.Bases[3]...)
	setIdentity(&identity.Bases[3][2])
	assert.ErrorIs(t, identity.Validate(), ErrInvalidParams)
	assert.NoError(t, params.Validate())
}

func TestHashToCurve(t *testing.T) {
	p, counter, err := HashToCurve([]byte("BHPUtilsTest.0"))
	require.NoError(t, err)
	assert.True(t, p.IsOnCurve())
	assert.False(t, isIdentity(p))
	assert.GreaterOrEqual(t, counter, 0)

	var check twistededwards.PointAffine
	check.ScalarMultiplication(p, &curve.Order)
	assert.True(t, isIdentity(&check), "point must lie in the prime-order subgroup")

	q, qCounter, err := HashToCurve([]byte("BHPUtilsTest.0"))
	require.NoError(t, err)
	assert.Equal(t, counter, qCounter)
	assert.True(t, p.Equal(q))
}

func TestMontgomeryRoundTrip(t *testing.T) {
	params := smallParams(t)
	A, B := MontgomeryCoefficients()

	for _, p := range params.Bases[0] {
		u, v, err := EdwardsToMontgomery(&p)
		require.NoError(t, err)

		// B·v² == u³ + A·u² + u
		var lhs, rhs, u2 fr.Element
		lhs.Square(&v).Mul(&lhs, &B)
		u2.Square(&u)
		rhs.Mul(&u2, &u)
		u2.Mul(&u2, &A)
		rhs.Add(&rhs, &u2).Add(&rhs, &u)
		assert.True(t, lhs.Equal(&rhs))

		back, err := MontgomeryToEdwards(&u, &v)
		require.NoError(t, err)
		assert.True(t, back.Equal(&p))
	}

	var identity twistededwards.PointAffine
	setIdentity(&identity)
	_, _, err := EdwardsToMontgomery(&identity)
	assert.Error(t, err)
}

func TestMontgomeryLadder(t *testing.T) {
	params := smallParams(t)
	base := &params.Bases[2][3]
	us, vs, err := MontgomeryLadder(base)
	require.NoError(t, err)

	for k := 0; k < 4; k++ {
		var multiple twistededwards.PointAffine
		multiple.ScalarMultiplication(base, big.NewInt(int64(k+1)))
		u, v, err := EdwardsToMontgomery(&multiple)
		require.NoError(t, err)
		assert.True(t, u.Equal(&us[k]), "multiple %d", k+1)
		assert.True(t, v.Equal(&vs[k]), "multiple %d", k+1)
	}
}

// montgomeryFold hashes bits the way the circuit does: each window folds its
// chunk points with incomplete additions starting at (0, 0).
func montgomeryFold(t *testing.T, p *BHPParams, bits []bool) twistededwards.PointAffine {
	t.Helper()
	input := append(append([]bool{}, bits...), make([]bool, PaddingLen(len(bits)))...)

	var sum twistededwards.PointAffine
	setIdentity(&sum)
	windowBits := p.WindowSize * ChunkSize
	for w := 0; w*windowBits < len(input); w++ {
		end := min((w+1)*windowBits, len(input))
		var accU, accV fr.Element
		for j, off := 0, w*windowBits; off < end; j, off = j+1, off+ChunkSize {
			us, vs, err := MontgomeryLadder(&p.Bases[w][j])
			require.NoError(t, err)
			k := chunkScalar(input[off], input[off+1]) - 1
			u, v := us[k], vs[k]
			if input[off+2] {
				v.Neg(&v)
			}
			accU, accV, err = MontgomeryAddIncomplete(&accU, &accV, &u, &v)
			require.NoError(t, err)
		}
		point, err := MontgomeryToEdwards(&accU, &accV)
		require.NoError(t, err)
		sum.Add(&sum, &point)
	}
	return sum
}

// plainSum is the window sum without the per-window torsion offset.
func plainSum(p *BHPParams, bits []bool) twistededwards.PointAffine {
	input := append(append([]bool{}, bits...), make([]bool, PaddingLen(len(bits)))...)
	var sum twistededwards.PointAffine
	setIdentity(&sum)
	windowBits := p.WindowSize * ChunkSize
	for i := 0; i < len(input); i += ChunkSize {
		w, j := i/windowBits, (i%windowBits)/ChunkSize
		var term twistededwards.PointAffine
		term.ScalarMultiplication(&p.Bases[w][j], big.NewInt(chunkScalar(input[i], input[i+1])))
		if input[i+2] {
			term.Neg(&term)
		}
		sum.Add(&sum, &term)
	}
	return sum
}

func TestHashMatchesMontgomeryFold(t *testing.T) {
	params := smallParams(t)
	for _, n := range []int{19, 20, 36, 37, 55, 90} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = (i*7+n)%3 == 0
		}
		expected, err := params.HashUncompressed(bits)
		require.NoError(t, err)
		actual := montgomeryFold(t, params, bits)
		assert.True(t, expected.Equal(&actual), "length %d", n)
	}
}

func TestTorsionOffset(t *testing.T) {
	params := smallParams(t)
	windowBits := params.WindowSize * ChunkSize

	for _, n := range []int{windowBits + 1, 2 * windowBits, 2*windowBits + 1, 3 * windowBits, 5 * windowBits} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = i%5 == 1
		}
		hashed, err := params.Hash(bits)
		require.NoError(t, err)
		plain := plainSum(params, bits)

		// every window adds (0, −1), which negates both coordinates
		processed := (n + windowBits - 1) / windowBits
		var expected fr.Element
		if processed%2 == 0 {
			expected.Set(&plain.X)
		} else {
			expected.Neg(&plain.X)
		}
		assert.True(t, expected.Equal(&hashed), "%d windows", processed)
	}
}

func TestHashProperties(t *testing.T) {
	params := smallParams(t)

	zeros := make([]bool, 40)
	first, err := params.Hash(zeros)
	require.NoError(t, err)
	second, err := params.Hash(zeros)
	require.NoError(t, err)
	assert.True(t, first.Equal(&second))

	flipped := append([]bool{}, zeros...)
	flipped[33] = true
	other, err := params.Hash(flipped)
	require.NoError(t, err)
	assert.False(t, first.Equal(&other))

	padded := append(append([]bool{}, flipped...), false, false)
	paddedHash, err := params.Hash(padded)
	require.NoError(t, err)
	assert.True(t, other.Equal(&paddedHash))

	commitment, err := params.Commit(flipped, big.NewInt(0))
	require.NoError(t, err)
	assert.True(t, other.Equal(&commitment))

	blinded, err := params.Commit(flipped, big.NewInt(12345))
	require.NoError(t, err)
	assert.False(t, other.Equal(&blinded))
}

func TestCheckLength(t *testing.T) {
	err := CheckLength(18, 5, 6)
	require.ErrorIs(t, err, ErrInputTooShort)
	assert.EqualError(t, err, "inputs to this BHP variant must be greater than 18 bits, got 18")

	err = CheckLength(91, 5, 6)
	require.ErrorIs(t, err, ErrInputTooLong)
	assert.EqualError(t, err, "inputs to this BHP variant cannot exceed 90 bits, got 91")

	assert.NoError(t, CheckLength(19, 5, 6))
	assert.NoError(t, CheckLength(90, 5, 6))

	_, err = smallParams(t).Hash(make([]bool, 3))
	var lengthErr *LengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, 3, lengthErr.Len)
	assert.Equal(t, 18, lengthErr.Bound)
}

func TestPaddingLen(t *testing.T) {
	assert.Equal(t, 0, PaddingLen(0))
	assert.Equal(t, 2, PaddingLen(1))
	assert.Equal(t, 1, PaddingLen(2))
	assert.Equal(t, 0, PaddingLen(3))
	assert.Equal(t, 2, PaddingLen(1024))
}

func TestBytesToBitsLE(t *testing.T) {
	bits := BytesToBitsLE([]byte{0x01, 0x80})
	require.Len(t, bits, 16)
	assert.True(t, bits[0])
	assert.True(t, bits[15])
	for i := 1; i < 15; i++ {
		assert.False(t, bits[i], "bit %d", i)
	}

	vars := BitsToVariables(bits[:2])
	assert.Equal(t, 1, vars[0])
	assert.Equal(t, 0, vars[1])
}

func TestVariants(t *testing.T) {
	for _, v := range Variants {
		params, err := SetupVariant(v.Name, DefaultDomain)
		require.NoError(t, err, v.Name)
		assert.NoError(t, CheckLength(v.InputBits, params.NumWindows, params.WindowSize), v.Name)
	}
	_, ok := LookupVariant("bhp128")
	assert.False(t, ok)
	_, err := SetupVariant("bhp128", DefaultDomain)
	assert.Error(t, err)
}
