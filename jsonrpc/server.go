package jsonrpc

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"strconv"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"tokend/errors"
	"tokend/interfaces"
	"tokend/logx"
	"tokend/types"
	"tokend/utils"
)

// --- Params/Results ---

// The sender field names the caller identity for the operation. The node
// trusts the hosting environment to have authenticated it; this surface
// only enforces the ledger's own authorization policy.

type transferParams struct {
	Sender string `json:"sender"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type approveParams struct {
	Sender  string `json:"sender"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

type mintParams struct {
	Sender  string `json:"sender"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type burnParams struct {
	Sender  string `json:"sender"`
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type setAdministratorParams struct {
	Sender           string `json:"sender"`
	NewAdministrator string `json:"new_administrator"`
}

type setPauseParams struct {
	Sender string `json:"sender"`
	Paused bool   `json:"paused"`
}

type updateMetadataParams struct {
	Sender string `json:"sender"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

type getBalanceRequest struct {
	Address string `json:"address"`
}

type getAllowanceRequest struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

type ackResponse struct {
	Ok bool `json:"ok"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type allowanceResponse struct {
	Owner     string `json:"owner"`
	Spender   string `json:"spender"`
	Allowance string `json:"allowance"`
}

type totalSupplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

type administratorResponse struct {
	Administrator string `json:"administrator"`
	Paused        bool   `json:"paused"`
}

type metadataResponse struct {
	Token    *types.TokenMetadata   `json:"token"`
	Contract types.ContractMetadata `json:"contract,omitempty"`
}

// --- Server ---

type Server struct {
	addr       string
	token      interfaces.TokenService
	corsConfig CORSConfig
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, token interfaces.TokenService) *Server {
	return &Server{
		addr:  addr,
		token: token,
		corsConfig: CORSConfig{
			AllowedOrigins: []string{},
			AllowedMethods: []string{},
			AllowedHeaders: []string{},
			MaxAge:         0,
		},
	}
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		jh.ServeHTTP(w, r)
	})

	http.Handle("/", h)
	logx.Info("JSONRPC", "Serving JSON-RPC at ", s.addr)
	go http.ListenAndServe(s.addr, nil)
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		"token.transfer": handler.New(func(ctx context.Context, p transferParams) (*ackResponse, error) {
			amount, err := parseAmountParam(p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			if err := s.token.Transfer(p.Sender, p.From, p.To, amount); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.approve": handler.New(func(ctx context.Context, p approveParams) (*ackResponse, error) {
			amount, err := parseAmountParam(p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			if err := s.token.Approve(p.Sender, p.Spender, amount); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.mint": handler.New(func(ctx context.Context, p mintParams) (*ackResponse, error) {
			amount, err := parseAmountParam(p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			if err := s.token.Mint(p.Sender, p.Address, amount); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.burn": handler.New(func(ctx context.Context, p burnParams) (*ackResponse, error) {
			amount, err := parseAmountParam(p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			if err := s.token.Burn(p.Sender, p.Address, amount); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.setadministrator": handler.New(func(ctx context.Context, p setAdministratorParams) (*ackResponse, error) {
			if err := s.token.SetAdministrator(p.Sender, p.NewAdministrator); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.setpause": handler.New(func(ctx context.Context, p setPauseParams) (*ackResponse, error) {
			if err := s.token.SetPause(p.Sender, p.Paused); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.updatemetadata": handler.New(func(ctx context.Context, p updateMetadataParams) (*ackResponse, error) {
			if err := s.token.UpdateMetadata(p.Sender, p.Key, p.Value); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &ackResponse{Ok: true}, nil
		}),
		"token.getbalance": handler.New(func(ctx context.Context, p getBalanceRequest) (*balanceResponse, error) {
			balance, err := s.token.Balance(p.Address)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &balanceResponse{
				Address: p.Address,
				Balance: utils.AmountToString(balance),
			}, nil
		}),
		"token.getallowance": handler.New(func(ctx context.Context, p getAllowanceRequest) (*allowanceResponse, error) {
			allowance, err := s.token.Allowance(p.Owner, p.Spender)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &allowanceResponse{
				Owner:     p.Owner,
				Spender:   p.Spender,
				Allowance: utils.AmountToString(allowance),
			}, nil
		}),
		"token.gettotalsupply": handler.New(func(ctx context.Context) (*totalSupplyResponse, error) {
			return &totalSupplyResponse{TotalSupply: utils.AmountToString(s.token.TotalSupply())}, nil
		}),
		"token.getadministrator": handler.New(func(ctx context.Context) (*administratorResponse, error) {
			return &administratorResponse{
				Administrator: s.token.Administrator(),
				Paused:        s.token.Paused(),
			}, nil
		}),
		"token.getmetadata": handler.New(func(ctx context.Context) (*metadataResponse, error) {
			tokenMD, err := s.token.TokenMetadata()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			contractMD, err := s.token.ContractMetadata()
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &metadataResponse{Token: tokenMD, Contract: contractMD}, nil
		}),
	}
}

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	for _, allowed := range s.corsConfig.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			break
		}
	}
	for _, method := range s.corsConfig.AllowedMethods {
		w.Header().Add("Access-Control-Allow-Methods", method)
	}
	for _, header := range s.corsConfig.AllowedHeaders {
		w.Header().Add("Access-Control-Allow-Headers", header)
	}
	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(s.corsConfig.MaxAge))
	}
}

// --- Error mapping ---

// JSON-RPC application error codes per ledger error kind.
var rpcErrorCodes = map[errors.LedgerErrorCode]jrpc2.Code{
	errors.ErrCodeInternal:              -32000,
	errors.ErrCodeNotAdmin:              -32001,
	errors.ErrCodeInsufficientBalance:   -32002,
	errors.ErrCodeUnsafeAllowanceChange: -32003,
	errors.ErrCodePaused:                -32004,
	errors.ErrCodeNotAllowed:            -32005,
	errors.ErrCodeInvalidRequest:        -32602,
	errors.ErrCodeInvalidAddress:        -32602,
	errors.ErrCodeInvalidAmount:         -32602,
}

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	code := errors.CodeOf(err)
	rpcCode, ok := rpcErrorCodes[code]
	if !ok {
		rpcCode = -32000
	}
	return jrpc2.Errorf(rpcCode, "%s", code).WithData(errors.NewLedgerError(code, messageOf(err)))
}
