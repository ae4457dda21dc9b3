// internal/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/javajoker/taxonomy-admin/internal/models"
)

// maxBody caps how much of a response body is read.
const maxBody = 8 << 20

// Client talks to the product catalogue REST API that persists product types
// and their field definitions.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPError is a non-2xx answer from the catalogue API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("apiclient: missing base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("apiclient: invalid base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("apiclient: invalid base url scheme")
	}
	if u.Host == "" {
		return nil, errors.New("apiclient: invalid base url host")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ListProductTypes returns the product types of a category.
func (c *Client) ListProductTypes(ctx context.Context, categoryID string) ([]models.ProductType, error) {
	body, err := c.do(ctx, http.MethodGet, "/products/categories/"+url.PathEscape(categoryID)+"/types", nil)
	if err != nil {
		return nil, err
	}
	return models.DecodeProductTypes(body)
}

// CreateProductType posts a new product type and returns the identifier the
// API assigned to it.
func (c *Client) CreateProductType(ctx context.Context, categoryID string, payload models.ProductTypePayload) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/products/categories/"+url.PathEscape(categoryID)+"/types", payload)
	if err != nil {
		return "", err
	}
	id := models.ExtractID(body)
	if id == "" {
		return "", errors.New("apiclient: create response carried no product type id")
	}
	return id, nil
}

func (c *Client) UpdateProductType(ctx context.Context, categoryID, typeID string, payload models.ProductTypePayload) error {
	path := "/products/categories/" + url.PathEscape(categoryID) + "/types/" + url.PathEscape(typeID)
	_, err := c.do(ctx, http.MethodPut, path, payload)
	return err
}

// GetFieldDefinitions loads and normalizes the stored fields of a type.
func (c *Client) GetFieldDefinitions(ctx context.Context, typeID string) ([]models.FieldDefinition, error) {
	body, err := c.do(ctx, http.MethodGet, "/products/types/"+url.PathEscape(typeID)+"/fields", nil)
	if err != nil {
		return nil, err
	}
	return models.DecodeFieldDefinitions(unwrapData(body))
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("apiclient: read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, readHTTPError(resp.StatusCode, body)
	}
	return body, nil
}

// readHTTPError takes the message from a message or Message body attribute,
// falling back to the status code.
func readHTTPError(status int, body []byte) error {
	var out map[string]any
	_ = json.Unmarshal(body, &out)

	msg := ""
	for _, key := range []string{"message", "Message"} {
		if s, ok := out[key].(string); ok && strings.TrimSpace(s) != "" {
			msg = strings.TrimSpace(s)
			break
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed: %d", status)
	}
	return &HTTPError{StatusCode: status, Message: msg}
}

// unwrapData returns the data member of an enveloped response, or body.
func unwrapData(body []byte) []byte {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	for _, key := range []string{"data", "Data"} {
		if data, ok := envelope[key]; ok {
			return data
		}
	}
	return body
}
