package impl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"gnark-bhp/utils"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/logger"
)

type InputVerifyParams struct {
	Algorithm     string  `json:"algorithm"`
	Proof         []uint8 `json:"proof"`
	PublicSignals []uint8 `json:"publicSignals"`
}

var (
	verifiers     = make(map[string]Verifier)
	verifiersLock sync.RWMutex
)

func init() {
	logger.Disable()
}

// InitVerifier registers the verifying key of a named algorithm, replacing
// any key registered before.
func InitVerifier(algorithm string, vkData []byte) error {
	variant, ok := utils.LookupVariant(algorithm)
	if !ok {
		return fmt.Errorf("unknown algorithm %s", algorithm)
	}

	vk := groth16.NewVerifyingKey(ecc.BLS12_377)
	_, err := vk.ReadFrom(bytes.NewBuffer(vkData))
	if err != nil {
		return fmt.Errorf("error reading verifying key: %w", err)
	}

	verifiersLock.Lock()
	defer verifiersLock.Unlock()
	verifiers[algorithm] = &BHPVerifier{vk: vk, nbBits: variant.InputBits}

	log := logger.Logger()
	log.Info().Str("algorithm", algorithm).Msg("verifier initialized")
	return nil
}

func Verify(params []byte) (res bool) {

	defer func() {
		if err := recover(); err != nil {
			fmt.Println(err)
			res = false
		}
	}()

	var inputParams *InputVerifyParams
	err := json.Unmarshal(params, &inputParams)
	if err != nil {
		fmt.Println(err)
		return false
	}
	if inputParams == nil {
		return false
	}

	verifiersLock.RLock()
	verifier, ok := verifiers[inputParams.Algorithm]
	verifiersLock.RUnlock()
	if ok {
		return verifier.Verify(inputParams.Proof, inputParams.PublicSignals)
	}
	return false
}

// VerifyBHP checks a proof that some input hashes to output.
func VerifyBHP(algorithm string, proof []byte, output []byte) bool {
	inParams := &InputVerifyParams{
		Algorithm:     algorithm,
		Proof:         proof,
		PublicSignals: output,
	}

	buf, err := json.Marshal(inParams)
	if err != nil {
		return false
	}

	return Verify(buf)
}
