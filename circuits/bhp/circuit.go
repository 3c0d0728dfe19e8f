package bhp

import (
	"gnark-bhp/utils"

	"github.com/consensys/gnark/frontend"
)

// Circuit proves knowledge of a private bit string hashing to Out.
type Circuit struct {
	In     []frontend.Variable
	Out    frontend.Variable `gnark:",public"`
	Params *utils.BHPParams  `gnark:"-"`
}

func (c *Circuit) Define(api frontend.API) error {
	return defineHash(api, c.Params, c.In, c.Out)
}

// PublicCircuit checks the hash of a public bit string.
type PublicCircuit struct {
	In     []frontend.Variable `gnark:",public"`
	Out    frontend.Variable   `gnark:",public"`
	Params *utils.BHPParams    `gnark:"-"`
}

func (c *PublicCircuit) Define(api frontend.API) error {
	return defineHash(api, c.Params, c.In, c.Out)
}

// ConstantCircuit hashes a bit string fixed at compile time.
type ConstantCircuit struct {
	Bits   []bool            `gnark:"-"`
	Out    frontend.Variable `gnark:",public"`
	Params *utils.BHPParams  `gnark:"-"`
}

func (c *ConstantCircuit) Define(api frontend.API) error {
	return defineHash(api, c.Params, utils.BitsToVariables(c.Bits), c.Out)
}

// CommitCircuit proves that Out commits to In under a private randomizer.
type CommitCircuit struct {
	In         []frontend.Variable
	Randomizer frontend.Variable
	Out        frontend.Variable `gnark:",public"`
	Params     *utils.BHPParams  `gnark:"-"`
}

func (c *CommitCircuit) Define(api frontend.API) error {
	h, err := NewHasher(api, c.Params)
	if err != nil {
		return err
	}
	out, err := h.Commit(c.In, c.Randomizer)
	if err != nil {
		return err
	}
	api.AssertIsEqual(c.Out, out)
	return nil
}

func defineHash(api frontend.API, params *utils.BHPParams, in []frontend.Variable, expected frontend.Variable) error {
	h, err := NewHasher(api, params)
	if err != nil {
		return err
	}
	out, err := h.Hash(in)
	if err != nil {
		return err
	}
	api.AssertIsEqual(expected, out)
	return nil
}

// NewCircuit returns a private-input circuit definition for nbBits input bits.
func NewCircuit(params *utils.BHPParams, nbBits int) *Circuit {
	return &Circuit{
		In:     make([]frontend.Variable, nbBits),
		Params: params,
	}
}

// NewAssignment returns a full witness assignment for bits hashing to out.
func NewAssignment(bits []bool, out frontend.Variable) *Circuit {
	return &Circuit{
		In:  utils.BitsToVariables(bits),
		Out: out,
	}
}
