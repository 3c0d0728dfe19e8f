package impl

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"gnark-bhp/utils"

	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/std"
	sha256simd "github.com/minio/sha256-simd"
)

const (
	BHP256   = 0
	BHP512   = 1
	BHP768   = 2
	BHP1024  = 3
	BHP32x48 = 4
)

var algorithmNames = map[uint8]string{
	BHP256:   "bhp256",
	BHP512:   "bhp512",
	BHP768:   "bhp768",
	BHP1024:  "bhp1024",
	BHP32x48: "bhp-32x48",
}

var provers = map[string]*ProverParams{
	"bhp256":    {Prover: &BHPProver{}},
	"bhp512":    {Prover: &BHPProver{}},
	"bhp768":    {Prover: &BHPProver{}},
	"bhp1024":   {Prover: &BHPProver{}},
	"bhp-32x48": {Prover: &BHPProver{}},
}

var (
	domain     = utils.DefaultDomain
	domainLock sync.RWMutex
)

type OutputParams struct {
	Proof         []uint8 `json:"proof"`
	PublicSignals []uint8 `json:"publicSignals"`
}

type ProverParams struct {
	Prover
	initDone bool
	initLock sync.Mutex
}

func init() {
	logger.Disable()
	std.RegisterHints()
}

// SetDomain changes the setup label used by algorithms initialized afterwards.
func SetDomain(d string) {
	domainLock.Lock()
	defer domainLock.Unlock()
	domain = d
}

func currentDomain() string {
	domainLock.RLock()
	defer domainLock.RUnlock()
	return domain
}

// AlgorithmID returns the numeric id of a named algorithm.
func AlgorithmID(name string) (uint8, bool) {
	for id, n := range algorithmNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// InitAlgorithm compiles the circuit of an algorithm and runs the groth16
// setup in memory. Repeated calls are no-ops.
func InitAlgorithm(algorithmID uint8) (res bool) {
	defer func() {
		if err := recover(); err != nil {
			fmt.Println(err)
			res = false
		}
	}()
	alg, ok := algorithmNames[algorithmID]
	if !ok {
		return false
	}
	variant, ok := utils.LookupVariant(alg)
	if !ok {
		return false
	}

	proverParams := provers[alg]
	proverParams.initLock.Lock()
	defer proverParams.initLock.Unlock()
	if proverParams.initDone {
		return true
	}

	if err := proverParams.Setup(variant, currentDomain()); err != nil {
		fmt.Println(fmt.Errorf("error setting up %s: %w", alg, err))
		return false
	}
	proverParams.initDone = true

	log := logger.Logger()
	log.Info().Str("algorithm", alg).Int("constraints", proverParams.NbConstraints()).Msg("initialized")
	return true
}

// KeyHash returns the hex sha256 of the serialized verifying key.
func KeyHash(algorithmID uint8) (string, error) {
	vk, err := VerifyingKey(algorithmID)
	if err != nil {
		return "", err
	}
	sum := sha256simd.Sum256(vk)
	return hex.EncodeToString(sum[:]), nil
}

// IsInitialized reports whether InitAlgorithm succeeded for the algorithm.
func IsInitialized(algorithmID uint8) bool {
	alg, ok := algorithmNames[algorithmID]
	if !ok {
		return false
	}
	p := provers[alg]
	p.initLock.Lock()
	defer p.initLock.Unlock()
	return p.initDone
}

func Prove(params []byte) []byte {
	var inputParams *InputParams
	err := json.Unmarshal(params, &inputParams)
	if err != nil {
		panic(err)
	}
	if inputParams == nil {
		panic("empty prove request")
	}

	prover, ok := provers[inputParams.Algorithm]
	if !ok {
		panic("could not find prover for " + inputParams.Algorithm)
	}
	prover.initLock.Lock()
	initDone := prover.initDone
	prover.initLock.Unlock()
	if !initDone {
		panic(fmt.Sprintf("proving params are not initialized for algorithm: %s", inputParams.Algorithm))
	}

	proof, output := prover.Prove(inputParams)
	res, er := json.Marshal(&OutputParams{
		Proof:         proof,
		PublicSignals: output,
	})
	if er != nil {
		panic(er)
	}
	return res
}

// ProveBHP proves knowledge of input hashing under the named algorithm.
func ProveBHP(algorithm string, input []byte) []byte {
	inputParams := &InputParams{
		Algorithm: algorithm,
		Input:     input,
	}

	buf, err := json.Marshal(inputParams)
	if err != nil {
		panic(err)
	}

	return Prove(buf)
}

// VerifyingKey serializes the verifying key produced by InitAlgorithm.
func VerifyingKey(algorithmID uint8) ([]byte, error) {
	alg, ok := algorithmNames[algorithmID]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm id %d", algorithmID)
	}
	p := provers[alg]
	p.initLock.Lock()
	defer p.initLock.Unlock()
	if !p.initDone {
		return nil, fmt.Errorf("algorithm %s is not initialized", alg)
	}

	buf := &bytes.Buffer{}
	if _, err := p.VerifyingKey().WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
