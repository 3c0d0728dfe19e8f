package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gnark-bhp/circuits/bhp"
	prover "gnark-bhp/libraries/prover/impl"
	verifier "gnark-bhp/libraries/verifier/impl"
	"gnark-bhp/utils"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var (
	variantFlag = &cli.StringFlag{
		Name:  "variant",
		Usage: "BHP variant (bhp256, bhp512, bhp768, bhp1024, bhp-32x48)",
		Value: "bhp256",
	}
	domainFlag = &cli.StringFlag{
		Name:  "domain",
		Usage: "Setup label the bases are derived from",
		Value: utils.DefaultDomain,
	}
	hexFlag = &cli.StringFlag{
		Name:  "hex",
		Usage: "Hex encoded input, bits taken least significant first",
	}
)

func main() {
	logger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger())

	app := &cli.App{
		Name:  "bhp",
		Usage: "Bowe-Hopwood-Pedersen hash circuit tooling",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Compiles a hash circuit and prints its size",
				Flags: []cli.Flag{
					variantFlag,
					domainFlag,
					&cli.IntFlag{
						Name:  "bits",
						Usage: "Input length in bits (defaults to the variant's input length)",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Input visibility: private, public or constant",
						Value: "private",
					},
				},
				Action: stats,
			},
			{
				Name:   "hash",
				Usage:  "Hashes an input natively",
				Flags:  []cli.Flag{variantFlag, domainFlag, hexFlag},
				Action: hash,
			},
			{
				Name:   "prove",
				Usage:  "Sets up, proves and verifies a hash in memory",
				Flags:  []cli.Flag{variantFlag, domainFlag, hexFlag},
				Action: prove,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log := logger.Logger()
		log.Fatal().Err(err).Msg("bhp")
	}
}

func stats(c *cli.Context) error {
	variant, ok := utils.LookupVariant(c.String("variant"))
	if !ok {
		return fmt.Errorf("unknown BHP variant: %s", c.String("variant"))
	}
	params, err := utils.SetupBHP(c.String("domain"), variant.NumWindows, variant.WindowSize)
	if err != nil {
		return err
	}
	nbBits := c.Int("bits")
	if nbBits == 0 {
		nbBits = variant.InputBits
	}

	var circuit frontend.Circuit
	switch mode := c.String("mode"); mode {
	case "private":
		circuit = bhp.NewCircuit(params, nbBits)
	case "public":
		circuit = &bhp.PublicCircuit{In: make([]frontend.Variable, nbBits), Params: params}
	case "constant":
		circuit = &bhp.ConstantCircuit{Bits: make([]bool, nbBits), Params: params}
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	cs, err := frontend.Compile(ecc.BLS12_377.ScalarField(), r1cs.NewBuilder, circuit)
	if err != nil {
		return err
	}
	fingerprint := params.Fingerprint()
	fmt.Printf("variant:     %s (%d windows x %d chunks)\n", variant.Name, variant.NumWindows, variant.WindowSize)
	fmt.Printf("bases:       %s\n", hex.EncodeToString(fingerprint[:]))
	fmt.Printf("mode:        %s, %d bits\n", c.String("mode"), nbBits)
	fmt.Printf("constraints: %d\n", cs.GetNbConstraints())
	fmt.Printf("public:      %d\n", cs.GetNbPublicVariables())
	fmt.Printf("secret:      %d\n", cs.GetNbSecretVariables())
	fmt.Printf("internal:    %d\n", cs.GetNbInternalVariables())
	return nil
}

func hash(c *cli.Context) error {
	params, err := utils.SetupVariant(c.String("variant"), c.String("domain"))
	if err != nil {
		return err
	}
	input, err := hex.DecodeString(c.String("hex"))
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}
	out, err := params.Hash(utils.BytesToBitsLE(input))
	if err != nil {
		return err
	}
	outBytes := out.Bytes()
	fmt.Println(hex.EncodeToString(outBytes[:]))
	return nil
}

func prove(c *cli.Context) error {
	name := c.String("variant")
	id, ok := prover.AlgorithmID(name)
	if !ok {
		return fmt.Errorf("unknown BHP variant: %s", name)
	}
	input, err := hex.DecodeString(c.String("hex"))
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}

	log := logger.Logger()
	prover.SetDomain(c.String("domain"))
	start := time.Now()
	if !prover.InitAlgorithm(id) {
		return fmt.Errorf("failed to set up %s", name)
	}
	keyHash, err := prover.KeyHash(id)
	if err != nil {
		return err
	}
	log.Info().Dur("took", time.Since(start)).Str("vk", keyHash).Msg("setup done")

	vk, err := prover.VerifyingKey(id)
	if err != nil {
		return err
	}
	if err = verifier.InitVerifier(name, vk); err != nil {
		return err
	}

	var out prover.OutputParams
	if err = recoverPanic(func() error {
		return json.Unmarshal(prover.ProveBHP(name, input), &out)
	}); err != nil {
		return err
	}
	if !verifier.VerifyBHP(name, out.Proof, out.PublicSignals) {
		return fmt.Errorf("proof did not verify")
	}

	fmt.Printf("hash:  %s\n", hex.EncodeToString(out.PublicSignals))
	fmt.Printf("proof: %s\n", hex.EncodeToString(out.Proof))
	return nil
}

func recoverPanic(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return f()
}
