// FILE: chesscore/internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"chesscore/internal/client/display"
	"chesscore/internal/server/core"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(url string) {
	c.BaseURL = strings.TrimRight(url, "/")
}

// doRequest sends one request; token, when set, is the seat token for the side acting
func (c *Client) doRequest(method, path, token string, body any, result any) error {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	fmt.Fprintf(c.Out, "\n%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if bodyStr != "" {
		if c.Verbose {
			fmt.Fprintf(c.Out, "%sRequest Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, json.RawMessage(bodyStr))
		} else {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, bodyStr, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.Out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		if json.Valid(respBody) {
			fmt.Fprintf(c.Out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, json.RawMessage(respBody))
		} else {
			fmt.Fprintf(c.Out, "%sResponse:%s\n%s\n", display.Cyan, display.Reset, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		var errResp core.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Error
			apiErr.Details = errResp.Details
			if !c.Verbose {
				fmt.Fprintf(c.Out, "%sError: %s%s\n", display.Red, errResp.Error, display.Reset)
				if errResp.Details != "" {
					fmt.Fprintf(c.Out, "%sDetails: %s%s\n", display.Red, errResp.Details, display.Reset)
				}
			}
		} else if !c.Verbose {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Red, string(respBody), display.Reset)
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Fprintf(c.Out, "%sResponse parse error: %s%s\n", display.Red, err.Error(), display.Reset)
			fmt.Fprintf(c.Out, "%sRaw response: %s%s\n", display.Green, string(respBody), display.Reset)
			return err
		}
	}

	return nil
}

// ErrorCode returns the server error code carried by err, if any
func ErrorCode(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func gamePath(gameID string, parts ...string) string {
	p := "/api/v1/games/" + url.PathEscape(gameID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

// API Methods

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", "", nil, &resp)
	return &resp, err
}

func (c *Client) CreateGame(req *CreateGameRequest) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", "", req, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID), "", nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks server side until the game moves past moveCount or the wait expires
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*GameResponse, error) {
	var resp GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.doRequest(http.MethodGet, path, "", nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, gamePath(gameID), "", nil, nil)
}

func (c *Client) GetBoard(gameID string) (*BoardResponse, error) {
	var resp BoardResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "board"), "", nil, &resp)
	return &resp, err
}

func (c *Client) GetCheck(gameID string) (*CheckResponse, error) {
	var resp CheckResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "check"), "", nil, &resp)
	return &resp, err
}

func (c *Client) GetSquare(gameID, square string) (*SquareResponse, error) {
	var resp SquareResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "squares", square), "", nil, &resp)
	return &resp, err
}

func (c *Client) GetDestinations(gameID, square string) (*DestinationsResponse, error) {
	var resp DestinationsResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID, "squares", square, "destinations"), "", nil, &resp)
	return &resp, err
}

func (c *Client) Select(gameID, token, square string) (*SelectResponse, error) {
	var resp SelectResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "select"), token, &core.SquareRequest{Square: square}, &resp)
	return &resp, err
}

func (c *Client) Target(gameID, token, square string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "target"), token, &core.SquareRequest{Square: square}, &resp)
	return &resp, err
}

// Click feeds a square through the server's select/target state machine
func (c *Client) Click(gameID, token, square string) (*SelectResponse, error) {
	var resp SelectResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "click"), token, &core.SquareRequest{Square: square}, &resp)
	return &resp, err
}

func (c *Client) Deselect(gameID, token string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "deselect"), token, nil, &resp)
	return &resp, err
}

func (c *Client) MakeMove(gameID, token, from, to string) (*GameResponse, error) {
	var resp GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID, "moves"), token, &core.MoveRequest{From: from, To: to}, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path, token, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Try as raw string
			bodyData = body
		}
	}

	return c.doRequest(method, path, token, bodyData, nil)
}
