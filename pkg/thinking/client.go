// Package thinking talks to an optional sequential-reasoning sidecar. The
// planner works without it; when configured, each user request is walked
// through a bounded chain of reasoning steps before the model answers.
package thinking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

const toolName = "sequentialthinking"

type Client struct {
	BaseURL  string
	MaxSteps int
	client   *http.Client
	nextId   atomic.Int64
}

func NewClient(baseURL string, maxSteps int) *Client {
	if maxSteps <= 0 {
		maxSteps = 8
	}
	return &Client{
		BaseURL:  baseURL,
		MaxSteps: maxSteps,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Id      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type stepArguments struct {
	Thought           string `json:"thought"`
	ThoughtNumber     int    `json:"thoughtNumber"`
	TotalThoughts     int    `json:"totalThoughts"`
	NextThoughtNeeded bool   `json:"nextThoughtNeeded"`
}

// Step runs one reasoning step. stepNumber starts at 1; nextNeeded tells
// the sidecar whether the chain continues.
func (c *Client) Step(ctx context.Context, thought string, stepNumber int, nextNeeded bool) (string, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		Id:      c.nextId.Add(1),
		Method:  "tools/call",
		Params: map[string]interface{}{
			"name": toolName,
			"arguments": stepArguments{
				Thought:           thought,
				ThoughtNumber:     stepNumber,
				TotalThoughts:     c.MaxSteps,
				NextThoughtNeeded: nextNeeded,
			},
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("thinking request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thinking error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("thinking error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if len(rpcResp.Result.Content) == 0 {
		return "", nil
	}
	return rpcResp.Result.Content[0].Text, nil
}
