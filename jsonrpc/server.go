package jsonrpc

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/holiman/uint256"

	"github.com/mosaicmint/mosaic/assembler"
	"github.com/mosaicmint/mosaic/claim"
	"github.com/mosaicmint/mosaic/errors"
	"github.com/mosaicmint/mosaic/exception"
	"github.com/mosaicmint/mosaic/interfaces"
	"github.com/mosaicmint/mosaic/jsonx"
	"github.com/mosaicmint/mosaic/logx"
	"github.com/mosaicmint/mosaic/monitoring"
	"github.com/mosaicmint/mosaic/registry"
)

// --- Error type used by handlers ---

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func toJRPC2Error(e *rpcError) error {
	if e == nil {
		return nil
	}
	var mintError errors.MintError
	err := jsonx.Unmarshal([]byte(e.Message), &mintError)
	if err == nil && mintError.Code != "" {
		return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", mintError.Message).WithData(mintError)
	}
	return jrpc2.Errorf(jrpc2.Code(e.Code), "%s", e.Message)
}

const (
	codeInvalidParams = -32602
	codeBusiness      = -32000
)

func businessError(err error) *rpcError {
	return &rpcError{Code: codeBusiness, Message: err.Error()}
}

func paramError(msg string) *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: msg}
}

// --- Params/Results ---

type claimParams struct {
	Claimer   string `json:"claimer"`
	Payload   string `json:"payload"` // base64
	Value     string `json:"value"`
	UnitPrice string `json:"unit_price"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature"`
}

type claimResponse struct {
	Index        uint32 `json:"index"`
	RequiredCost uint64 `json:"required_cost"`
	Fee          string `json:"fee"`
	Refund       string `json:"refund"`
	Phase        string `json:"phase"`
}

type indexParams struct {
	Index uint32 `json:"index"`
}

type expectedHashResponse struct {
	Index uint32 `json:"index"`
	Hash  string `json:"hash"`
}

type phaseResponse struct {
	Index uint32 `json:"index"`
	Phase string `json:"phase"`
}

type assembleParams struct {
	UpToIndex uint32 `json:"up_to_index"`
}

type assembleResponse struct {
	Data   string `json:"data"` // base64
	SizeKB uint64 `json:"size_kb"`
	Phase  string `json:"phase"`
}

type hasClaimedParams struct {
	Address string `json:"address"`
}

type hasClaimedResponse struct {
	Address    string `json:"address"`
	HasClaimed bool   `json:"has_claimed"`
}

type nextIndexResponse struct {
	NextIndex uint32 `json:"next_index"`
	Complete  bool   `json:"complete"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type withdrawParams struct {
	Owner     string `json:"owner"`
	Timestamp uint64 `json:"timestamp"`
	Signature string `json:"signature"`
}

type withdrawResponse struct {
	Amount string `json:"amount"`
}

type ownerOfParams struct {
	TokenID uint32 `json:"token_id"`
}

type ownerOfResponse struct {
	TokenID uint32 `json:"token_id"`
	Owner   string `json:"owner"`
}

type approveParams struct {
	Caller   string `json:"caller"`
	TokenID  uint32 `json:"token_id"`
	Delegate string `json:"delegate"`
}

type transferParams struct {
	Caller  string `json:"caller"`
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID uint32 `json:"token_id"`
}

type okResponse struct {
	Ok bool `json:"ok"`
}

type healthResponse struct {
	Ok        bool   `json:"ok"`
	NextIndex uint32 `json:"next_index"`
}

// --- Server ---

type Server struct {
	addr       string
	minter     interfaces.Minter
	tokens     interfaces.TokenLedger
	assembler  interfaces.Assembler
	registry   *registry.ChunkRegistry
	corsConfig CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, minter interfaces.Minter, tokens interfaces.TokenLedger,
	asm interfaces.Assembler, reg *registry.ChunkRegistry) *Server {
	return &Server{
		addr:      addr,
		minter:    minter,
		tokens:    tokens,
		assembler: asm,
		registry:  reg,
		corsConfig: CORSConfig{
			AllowedOrigins: []string{},
			AllowedMethods: []string{},
			AllowedHeaders: []string{},
			MaxAge:         0,
		},
	}
}

// Handler returns the HTTP handler bridging JSON-RPC over POST
func (s *Server) Handler() http.Handler {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		jh.ServeHTTP(w, r)
	})
}

func (s *Server) Start() {
	http.Handle("/", s.Handler())
	exception.SafeGo("jsonrpc-server", func() {
		if err := http.ListenAndServe(s.addr, nil); err != nil {
			logx.Error("JSONRPC", "Server stopped:", err.Error())
		}
	})
	logx.Info("JSONRPC", "Serving JSON-RPC on ", s.addr)
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) == 0 {
		return
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.corsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			break
		}
	}
	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"mint.claim": handler.New(func(ctx context.Context, p claimParams) (*claimResponse, error) {
			res, err := s.rpcClaim(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"mint.expectedhash": handler.New(func(ctx context.Context, p indexParams) (*expectedHashResponse, error) {
			res, err := s.rpcExpectedHash(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"mint.phase": handler.New(func(ctx context.Context, p indexParams) (*phaseResponse, error) {
			res, err := s.rpcPhase(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"mint.assemble": handler.New(func(ctx context.Context, p assembleParams) (*assembleResponse, error) {
			res, err := s.rpcAssemble(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"mint.hasclaimed": handler.New(func(ctx context.Context, p hasClaimedParams) (*hasClaimedResponse, error) {
			res, err := s.rpcHasClaimed(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"mint.nextindex": handler.New(func(ctx context.Context) (*nextIndexResponse, error) {
			return s.rpcNextIndex(), nil
		}),
		"mint.balance": handler.New(func(ctx context.Context) (*balanceResponse, error) {
			return &balanceResponse{Balance: s.minter.Balance().Dec()}, nil
		}),
		"mint.withdraw": handler.New(func(ctx context.Context, p withdrawParams) (*withdrawResponse, error) {
			res, err := s.rpcWithdraw(p)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		"token.ownerof": handler.New(func(ctx context.Context, p ownerOfParams) (*ownerOfResponse, error) {
			owner, err := s.tokens.OwnerOf(p.TokenID)
			if err != nil {
				return nil, toJRPC2Error(businessError(err))
			}
			return &ownerOfResponse{TokenID: p.TokenID, Owner: owner}, nil
		}),
		"token.approve": handler.New(func(ctx context.Context, p approveParams) (*okResponse, error) {
			if err := s.tokens.Approve(p.Caller, p.TokenID, p.Delegate); err != nil {
				return nil, toJRPC2Error(businessError(err))
			}
			return &okResponse{Ok: true}, nil
		}),
		"token.transfer": handler.New(func(ctx context.Context, p transferParams) (*okResponse, error) {
			if err := s.tokens.Transfer(p.Caller, p.From, p.To, p.TokenID); err != nil {
				return nil, toJRPC2Error(businessError(err))
			}
			return &okResponse{Ok: true}, nil
		}),
		"health.check": handler.New(func(ctx context.Context) (*healthResponse, error) {
			return &healthResponse{Ok: true, NextIndex: s.minter.NextIndex()}, nil
		}),
	}
}

func (s *Server) rpcClaim(p claimParams) (*claimResponse, *rpcError) {
	payload, err := base64.StdEncoding.DecodeString(p.Payload)
	if err != nil {
		return nil, paramError("payload is not valid base64")
	}
	value, err := uint256.FromDecimal(p.Value)
	if err != nil {
		return nil, paramError("value is not a valid decimal amount")
	}
	unitPrice, err := uint256.FromDecimal(p.UnitPrice)
	if err != nil {
		return nil, paramError("unit_price is not a valid decimal amount")
	}

	req := &claim.Request{
		Claimer:   p.Claimer,
		Payload:   payload,
		Value:     value,
		UnitPrice: unitPrice,
		Timestamp: p.Timestamp,
		Signature: p.Signature,
	}
	if !req.Verify() {
		monitoring.RecordRejectedClaim(monitoring.ClaimInvalidSignature)
		return nil, businessError(errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature))
	}

	receipt, err := s.minter.Claim(req)
	if err != nil {
		return nil, businessError(err)
	}
	return &claimResponse{
		Index:        receipt.Index,
		RequiredCost: receipt.RequiredCost,
		Fee:          receipt.Fee.Dec(),
		Refund:       receipt.Refund.Dec(),
		Phase:        receipt.Phase,
	}, nil
}

func (s *Server) rpcExpectedHash(p indexParams) (*expectedHashResponse, *rpcError) {
	digest, err := s.registry.ExpectedHash(p.Index)
	if err != nil {
		return nil, businessError(err)
	}
	return &expectedHashResponse{Index: p.Index, Hash: hex.EncodeToString(digest[:])}, nil
}

func (s *Server) rpcPhase(p indexParams) (*phaseResponse, *rpcError) {
	phase, err := assembler.Phase(p.Index)
	if err != nil {
		return nil, businessError(err)
	}
	return &phaseResponse{Index: p.Index, Phase: phase}, nil
}

func (s *Server) rpcAssemble(p assembleParams) (*assembleResponse, *rpcError) {
	artifact, err := s.assembler.Assemble(p.UpToIndex)
	if err != nil {
		return nil, businessError(err)
	}
	return &assembleResponse{
		Data:   base64.StdEncoding.EncodeToString(artifact.Data),
		SizeKB: artifact.SizeKB,
		Phase:  artifact.Phase,
	}, nil
}

func (s *Server) rpcHasClaimed(p hasClaimedParams) (*hasClaimedResponse, *rpcError) {
	claimed, err := s.minter.HasClaimed(p.Address)
	if err != nil {
		return nil, businessError(err)
	}
	return &hasClaimedResponse{Address: p.Address, HasClaimed: claimed}, nil
}

func (s *Server) rpcNextIndex() *nextIndexResponse {
	next := s.minter.NextIndex()
	return &nextIndexResponse{NextIndex: next, Complete: next >= registry.ChunkCount}
}

func (s *Server) rpcWithdraw(p withdrawParams) (*withdrawResponse, *rpcError) {
	req := &claim.WithdrawRequest{
		Owner:     p.Owner,
		Timestamp: p.Timestamp,
		Signature: p.Signature,
	}
	if !req.Verify() {
		return nil, businessError(errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature))
	}

	amount, err := s.minter.Withdraw(p.Owner)
	if err != nil {
		return nil, businessError(err)
	}
	return &withdrawResponse{Amount: amount.Dec()}, nil
}
