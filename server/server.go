// Package server exposes native BHP hashing and groth16 proving over HTTP.
package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	prover "gnark-bhp/libraries/prover/impl"
	verifier "gnark-bhp/libraries/verifier/impl"
	"gnark-bhp/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// BodyLimit caps request bodies; the largest variant input is 576 bytes.
const BodyLimit = "64K"

type BHPResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type VariantInfo struct {
	Name        string `json:"name"`
	NumWindows  int    `json:"num_windows"`
	WindowSize  int    `json:"window_size"`
	MinBits     int    `json:"min_bits"`
	MaxBits     int    `json:"max_bits"`
	InputBits   int    `json:"input_bits"`
	Fingerprint string `json:"fingerprint"`
	Proving     bool   `json:"proving"`
	KeyHash     string `json:"key_hash,omitempty"`
}

type HashRequest struct {
	Variant string `json:"variant"`
	Input   string `json:"input"`          // hex
	Bits    int    `json:"bits,omitempty"` // optional truncation of the expanded input
}

type HashResponse struct {
	Variant string `json:"variant"`
	Bits    int    `json:"bits"`
	Hash    string `json:"hash"`
}

type ProveResponse struct {
	Proof         []byte `json:"proof"`
	PublicSignals []byte `json:"publicSignals"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

type Server struct {
	Domain string
	params map[string]*utils.BHPParams
	sync.Mutex
}

func NewServer(domain string) *Server {
	if domain == "" {
		domain = utils.DefaultDomain
	}
	return &Server{
		Domain: domain,
		params: make(map[string]*utils.BHPParams),
	}
}

// SetupProving compiles and sets up the named variants for proving and
// registers their verifying keys.
func (s *Server) SetupProving(names []string) error {
	prover.SetDomain(s.Domain)
	for _, name := range names {
		id, ok := prover.AlgorithmID(name)
		if !ok {
			return fmt.Errorf("unknown BHP variant: %s", name)
		}
		if !prover.InitAlgorithm(id) {
			return fmt.Errorf("failed to initialize %s", name)
		}
		vk, err := prover.VerifyingKey(id)
		if err != nil {
			return err
		}
		if err = verifier.InitVerifier(name, vk); err != nil {
			return err
		}
		log.Infof("Variant %s ready for proving", name)
	}
	return nil
}

// Echo returns an echo instance with all routes registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.BodyLimit(BodyLimit))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/health", s.health)
	e.GET("/bhp/variants", s.variants)
	e.POST("/bhp/hash", s.hash)
	e.POST("/bhp/prove", s.prove)
	e.POST("/bhp/verify", s.verify)
	return e
}

func (s *Server) paramsFor(name string) (*utils.BHPParams, error) {
	s.Lock()
	defer s.Unlock()
	if p, ok := s.params[name]; ok {
		return p, nil
	}
	p, err := utils.SetupVariant(name, s.Domain)
	if err != nil {
		return nil, err
	}
	s.params[name] = p
	return p, nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, BHPResponse{Status: "success", Message: "Server is up"})
}

func (s *Server) variants(c echo.Context) error {
	infos := make([]VariantInfo, 0, len(utils.Variants))
	for _, v := range utils.Variants {
		params, err := s.paramsFor(v.Name)
		if err != nil {
			log.Errorf("Failed to set up %s: %v", v.Name, err)
			return c.JSON(http.StatusInternalServerError, BHPResponse{Status: "error", Message: "Internal server error"})
		}
		fingerprint := params.Fingerprint()
		info := VariantInfo{
			Name:        v.Name,
			NumWindows:  v.NumWindows,
			WindowSize:  v.WindowSize,
			MinBits:     params.MinBits(),
			MaxBits:     params.MaxBits(),
			InputBits:   v.InputBits,
			Fingerprint: hex.EncodeToString(fingerprint[:]),
		}
		id, _ := prover.AlgorithmID(v.Name)
		if prover.IsInitialized(id) {
			info.Proving = true
			info.KeyHash, _ = prover.KeyHash(id)
		}
		infos = append(infos, info)
	}
	return c.JSON(http.StatusOK, BHPResponse{Status: "success", Data: infos})
}

func (s *Server) hash(c echo.Context) error {
	var req HashRequest
	if err := c.Bind(&req); err != nil {
		log.Errorf("Failed to bind request: %v", err)
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Invalid request format"})
	}
	if _, ok := utils.LookupVariant(req.Variant); !ok {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Unknown variant"})
	}
	input, err := hex.DecodeString(req.Input)
	if err != nil {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Input must be hex encoded"})
	}

	bits := utils.BytesToBitsLE(input)
	if req.Bits < 0 || req.Bits > len(bits) {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: fmt.Sprintf("bits must be between 0 and %d", len(bits))})
	}
	if req.Bits > 0 {
		bits = bits[:req.Bits]
	}

	params, err := s.paramsFor(req.Variant)
	if err != nil {
		log.Errorf("Failed to set up %s: %v", req.Variant, err)
		return c.JSON(http.StatusInternalServerError, BHPResponse{Status: "error", Message: "Internal server error"})
	}
	out, err := params.Hash(bits)
	if err != nil {
		var lengthErr *utils.LengthError
		if errors.As(err, &lengthErr) {
			return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: lengthErr.Error()})
		}
		log.Errorf("Failed to hash: %v", err)
		return c.JSON(http.StatusInternalServerError, BHPResponse{Status: "error", Message: "Internal server error"})
	}

	outBytes := out.Bytes()
	return c.JSON(http.StatusOK, BHPResponse{Status: "success", Data: HashResponse{
		Variant: req.Variant,
		Bits:    len(bits),
		Hash:    hex.EncodeToString(outBytes[:]),
	}})
}

func (s *Server) prove(c echo.Context) error {
	var req prover.InputParams
	if err := c.Bind(&req); err != nil {
		log.Errorf("Failed to bind request: %v", err)
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Invalid request format"})
	}
	v, ok := utils.LookupVariant(req.Algorithm)
	if !ok {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Unknown variant"})
	}
	id, _ := prover.AlgorithmID(req.Algorithm)
	if !prover.IsInitialized(id) {
		return c.JSON(http.StatusServiceUnavailable, BHPResponse{Status: "error", Message: "Variant is not set up for proving"})
	}
	if len(req.Input)*8 != v.InputBits {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: fmt.Sprintf("input must be %d bytes, got %d", v.InputBits/8, len(req.Input))})
	}

	out, err := safeProve(req.Algorithm, req.Input)
	if err != nil {
		log.Errorf("Failed to prove %s: %v", req.Algorithm, err)
		return c.JSON(http.StatusInternalServerError, BHPResponse{Status: "error", Message: "Proving failed"})
	}
	log.Infof("Proved %s for request %s", req.Algorithm, c.Response().Header().Get(echo.HeaderXRequestID))
	return c.JSON(http.StatusOK, BHPResponse{Status: "success", Data: out})
}

func (s *Server) verify(c echo.Context) error {
	var req verifier.InputVerifyParams
	if err := c.Bind(&req); err != nil {
		log.Errorf("Failed to bind request: %v", err)
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Invalid request format"})
	}
	if _, ok := utils.LookupVariant(req.Algorithm); !ok {
		return c.JSON(http.StatusBadRequest, BHPResponse{Status: "error", Message: "Unknown variant"})
	}
	valid := verifier.VerifyBHP(req.Algorithm, req.Proof, req.PublicSignals)
	return c.JSON(http.StatusOK, BHPResponse{Status: "success", Data: VerifyResponse{Valid: valid}})
}

func safeProve(algorithm string, input []byte) (out *ProveResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	var res prover.OutputParams
	if err = json.Unmarshal(prover.ProveBHP(algorithm, input), &res); err != nil {
		return nil, err
	}
	return &ProveResponse{Proof: res.Proof, PublicSignals: res.PublicSignals}, nil
}
