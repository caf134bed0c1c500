/* Copyright 2025 Giftwise Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package client provides interfaces for interacting with the Giftwise API
// and the data structures for responses
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/giftwise/giftwise/pkg/cli/context"
	"github.com/giftwise/giftwise/pkg/cli/log"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrContentTypeMismatch is an error for a response that is not JSON
var ErrContentTypeMismatch = errors.New("content type mismatch")

// ErrNoSession is an error for an authorized request made without a session
var ErrNoSession = errors.New("no session key found")

// HTTPError represents an error response from the server
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf(`response %d %s "%s"`, e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf(`response %d "%s"`, e.StatusCode, e.Message)
}

// IsConflict returns true if the error is a 409 Conflict error
func (e *HTTPError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsNotFound returns true if the error is a 404 Not Found error
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

var contentTypeApplicationJSON = "application/json"

const (
	// clientRateLimitPerSecond is the max requests per second the client will make
	clientRateLimitPerSecond = 50
	// clientRateLimitBurst is the burst capacity for rate limiting
	clientRateLimitBurst = 100
)

// rateLimitedTransport wraps an http.RoundTripper with rate limiting
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.transport.RoundTrip(req)
}

// NewRateLimitedHTTPClient creates an HTTP client with rate limiting. Every
// request made with it is bounded by the given timeout.
func NewRateLimitedHTTPClient(timeout time.Duration) *http.Client {
	interval := time.Second / time.Duration(clientRateLimitPerSecond)

	transport := &rateLimitedTransport{
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Every(interval), clientRateLimitBurst),
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// envelope is the shape of every API response
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

func getHTTPClient(ctx context.GiftCtx) *http.Client {
	if ctx.HTTPClient != nil {
		return ctx.HTTPClient
	}

	return &http.Client{Timeout: ctx.RequestTimeout}
}

func getReq(ctx context.GiftCtx, method, path string, body []byte) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", ctx.APIEndpoint, path)

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, endpoint, r)
	if err != nil {
		return nil, errors.Wrap(err, "constructing http request")
	}

	req.Header.Set("Giftwise-Version", ctx.Version)
	req.Header.Set("Accept", contentTypeApplicationJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeApplicationJSON)
	}

	if ctx.SessionKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", ctx.SessionKey))
	}

	return req, nil
}

func checkContentType(res *http.Response) error {
	got := res.Header.Get("Content-Type")
	if !strings.HasPrefix(got, contentTypeApplicationJSON) {
		return errors.Wrapf(ErrContentTypeMismatch, "got: '%s' want: '%s'. Did you configure your endpoint correctly?", got, contentTypeApplicationJSON)
	}

	return nil
}

// decodeResponse reads the envelope and returns its data. A non-2xx status
// or an unsuccessful envelope is returned as an *HTTPError.
func decodeResponse(res *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "server responded with %d but client could not read the response body", res.StatusCode)
	}

	var env envelope
	jsonErr := checkContentType(res)
	if jsonErr == nil {
		jsonErr = json.Unmarshal(body, &env)
	}

	if res.StatusCode >= 300 || (jsonErr == nil && !env.Success) {
		httpErr := &HTTPError{StatusCode: res.StatusCode}
		if jsonErr == nil && env.Error != nil {
			httpErr.Code = env.Error.Code
			httpErr.Message = env.Error.Message
		} else {
			httpErr.Message = strings.TrimRight(string(body), "\n")
		}

		return nil, httpErr
	}
	if jsonErr != nil {
		return nil, errors.Wrap(jsonErr, "decoding the response")
	}

	return env.Data, nil
}

// doReq does a http request to the given path in the api endpoint and
// decodes the data of the response into dest, if dest is not nil
func doReq(ctx context.GiftCtx, method, path string, payload, dest interface{}) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "marshaling payload")
		}
		body = b
	}

	req, err := getReq(ctx, method, path, body)
	if err != nil {
		return errors.Wrap(err, "getting request")
	}

	log.Debug("HTTP %s %s\n", method, path)

	res, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return errors.Wrap(err, "making http request")
	}
	defer res.Body.Close()

	log.Debug("HTTP %d %s\n", res.StatusCode, res.Status)

	data, err := decodeResponse(res)
	if err != nil {
		return errors.Wrap(err, "server responded with an error")
	}

	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, "unmarshalling the payload")
	}

	return nil
}

// doAuthorizedReq does a http request as a user
func doAuthorizedReq(ctx context.GiftCtx, method, path string, payload, dest interface{}) error {
	if ctx.SessionKey == "" {
		return ErrNoSession
	}

	return doReq(ctx, method, path, payload, dest)
}

// CheckHealth reports whether the API is reachable
func CheckHealth(ctx context.GiftCtx) error {
	return doReq(ctx, http.MethodGet, "/health", nil, nil)
}

// SessionInfo describes the account a session key belongs to
type SessionInfo struct {
	OwnerID string `json:"ownerId"`
}

// GetSession returns the account of the current session key
func GetSession(ctx context.GiftCtx) (SessionInfo, error) {
	var ret SessionInfo
	if err := doAuthorizedReq(ctx, http.MethodGet, "/v1/session", nil, &ret); err != nil {
		return ret, errors.Wrap(err, "getting the session")
	}

	return ret, nil
}
