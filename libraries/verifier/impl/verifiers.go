package impl

import (
	"bytes"
	"fmt"
	"math/big"

	"gnark-bhp/circuits/bhp"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
)

type Verifier interface {
	Verify(proof []byte, publicSignals []byte) bool
}

type BHPVerifier struct {
	vk     groth16.VerifyingKey
	nbBits int
}

func (bv *BHPVerifier) Verify(proof []byte, publicSignals []byte) bool {
	if len(publicSignals) != fr.Bytes {
		fmt.Printf("public signals must be %d bytes, not %d\n", fr.Bytes, len(publicSignals))
		return false
	}
	out := new(big.Int).SetBytes(publicSignals)
	if out.Cmp(fr.Modulus()) >= 0 {
		fmt.Println("public signals are not a canonical field element")
		return false
	}

	witness := &bhp.Circuit{
		In:  make([]frontend.Variable, bv.nbBits),
		Out: out,
	}
	for i := range witness.In {
		witness.In[i] = 0
	}
	wtns, err := frontend.NewWitness(witness, ecc.BLS12_377.ScalarField(), frontend.PublicOnly())
	if err != nil {
		fmt.Println(err)
		return false
	}

	gProof := groth16.NewProof(ecc.BLS12_377)
	_, err = gProof.ReadFrom(bytes.NewBuffer(proof))
	if err != nil {
		fmt.Println(err)
		return false
	}
	err = groth16.Verify(gProof, bv.vk, wtns)
	if err != nil {
		fmt.Println(err)
	}
	return err == nil
}
