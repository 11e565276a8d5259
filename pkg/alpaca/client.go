/*
 * Copyright 2025 Carver Automation Corporation.
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

package alpaca

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/carverauto/alpaca-exporter/pkg/version"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:11111/api/v1"
	DefaultRequestTimeout = 10 * time.Second

	managementPath = "/management/v1/configureddevices"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the attribute API root, e.g. http://host:11111/api/v1.
	BaseURL string
	// Timeout bounds every request. Zero means DefaultRequestTimeout.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client issues attribute reads and discovery queries against one Alpaca server.
// Calls are plain GETs; nothing is retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a client for cfg.BaseURL with any trailing slash stripped.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// BaseURL returns the normalized attribute API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ManagementURL derives the configured-devices endpoint from the base URL by
// dropping everything from the last "/api/" segment.
func (c *Client) ManagementURL() string {
	base := c.baseURL
	if i := strings.LastIndex(base, "/api/"); i >= 0 {
		base = base[:i]
	}

	return base + managementPath
}

// AttributeURL builds GET {base}/{type}/{number}/{attribute}?{query}.
func (c *Client) AttributeURL(device DeviceID, attribute, query string) string {
	u := fmt.Sprintf("%s/%s/%d/%s", c.baseURL, device.Type, device.Number, attribute)
	if query != "" {
		u += "?" + query
	}

	return u
}

// Get reads a single attribute. The returned error wraps ErrTransport,
// ErrNotImplemented or ErrProtocol.
func (c *Client) Get(ctx context.Context, device DeviceID, attribute, query string) (Value, error) {
	var buf bytes.Buffer

	u := c.AttributeURL(device, attribute, query)

	err := requests.URL(u).
		Client(c.httpClient).
		UserAgent(version.UserAgent()).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return Absent, fmt.Errorf("%w: %s: %w", ErrTransport, u, err)
	}

	return decodeAttribute(buf.Bytes())
}

func decodeAttribute(body []byte) (Value, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Absent, fmt.Errorf("%w: empty body", ErrTransport)
	}

	if !gjson.ValidBytes(body) {
		return Absent, fmt.Errorf("%w: body is not JSON", ErrTransport)
	}

	res := gjson.ParseBytes(body)

	if n := res.Get("ErrorNumber").Int(); n != 0 {
		if n == NotImplementedErrorNumber {
			return Absent, ErrNotImplemented
		}

		return Absent, &ProtocolError{Number: n, Message: res.Get("ErrorMessage").String()}
	}

	return valueFromJSON(res.Get("Value")), nil
}

func valueFromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Absent
	case gjson.True:
		return ValueOf(true)
	case gjson.False:
		return ValueOf(false)
	case gjson.Number:
		return ValueOf(r.Float())
	case gjson.String:
		return ValueOf(r.String())
	case gjson.JSON:
		return ValueOf(r.Raw)
	default:
		return Absent
	}
}
