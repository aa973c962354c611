package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"tokend/jsonx"
)

// Thin JSON-RPC 2.0 client for the CLI commands that talk to a running
// node. Request signing is out of scope here; the sender field is passed
// through as-is.

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponseError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data,omitempty"`
}

type rpcResponse struct {
	Result jsoniter.RawMessage `json:"result,omitempty"`
	Error  *rpcResponseError   `json:"error,omitempty"`
}

type rpcClient struct {
	http    *resty.Client
	baseURL string
}

func newRPCClient(nodeURL string) *rpcClient {
	if !strings.HasPrefix(nodeURL, "http://") && !strings.HasPrefix(nodeURL, "https://") {
		nodeURL = "http://" + nodeURL
	}
	return &rpcClient{
		http:    resty.New().SetTimeout(10 * time.Second),
		baseURL: nodeURL,
	}
}

// call performs a single JSON-RPC request, decoding the result into out
// when out is non-nil.
func (c *rpcClient) call(method string, params, out interface{}) error {
	body, err := jsonx.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.baseURL)
	if err != nil {
		return fmt.Errorf("rpc request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("rpc request failed: http %d", resp.StatusCode())
	}

	var rpcResp rpcResponse
	if err := jsonx.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return fmt.Errorf("could not decode rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		if len(rpcResp.Error.Data) > 0 {
			return fmt.Errorf("%s: %s", rpcResp.Error.Message, string(rpcResp.Error.Data))
		}
		return fmt.Errorf("%s", rpcResp.Error.Message)
	}
	if out != nil {
		if err := jsonx.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("could not decode rpc result: %w", err)
		}
	}
	return nil
}
