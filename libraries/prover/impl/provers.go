package impl

import (
	"bytes"
	"log"
	"math/big"

	"gnark-bhp/circuits/bhp"
	"gnark-bhp/utils"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

type InputParams struct {
	Algorithm string  `json:"algorithm"`
	Input     []uint8 `json:"input"` // bits are taken least significant first
}

type Prover interface {
	Setup(variant utils.Variant, domain string) error
	Prove(params *InputParams) (proof []byte, output []uint8)
	VerifyingKey() groth16.VerifyingKey
	NbConstraints() int
}

type BHPProver struct {
	variant utils.Variant
	params  *utils.BHPParams
	r1cs    constraint.ConstraintSystem
	pk      groth16.ProvingKey
	vk      groth16.VerifyingKey
}

func (bp *BHPProver) Setup(variant utils.Variant, domain string) error {
	params, err := utils.SetupBHP(domain, variant.NumWindows, variant.WindowSize)
	if err != nil {
		return err
	}
	cs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, bhp.NewCircuit(params, variant.InputBits))
	if err != nil {
		return err
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return err
	}

	bp.variant = variant
	bp.params = params
	bp.r1cs = cs
	bp.pk = pk
	bp.vk = vk
	return nil
}

func (bp *BHPProver) Prove(params *InputParams) (proof []byte, output []uint8) {
	input := params.Input
	if len(input)*8 != bp.variant.InputBits {
		log.Panicf("input length must be %d bytes: %d", bp.variant.InputBits/8, len(input))
	}

	bits := utils.BytesToBitsLE(input)
	hash, err := bp.params.Hash(bits)
	if err != nil {
		panic(err)
	}

	witness := bhp.NewAssignment(bits, hash.BigInt(new(big.Int)))
	wtns, err := frontend.NewWitness(witness, ecc.BLS12_377.ScalarField())
	if err != nil {
		panic(err)
	}
	gProof, err := groth16.Prove(bp.r1cs, bp.pk, wtns)
	if err != nil {
		panic(err)
	}
	buf := &bytes.Buffer{}
	_, err = gProof.WriteTo(buf)
	if err != nil {
		panic(err)
	}

	out := hash.Bytes()
	return buf.Bytes(), out[:]
}

func (bp *BHPProver) VerifyingKey() groth16.VerifyingKey {
	return bp.vk
}

func (bp *BHPProver) NbConstraints() int {
	return bp.r1cs.GetNbConstraints()
}
