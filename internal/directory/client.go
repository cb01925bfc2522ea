// Package directory implements the envelope protocol client for the legacy
// directory service holding customer business records.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/sitefind/sitefind/internal/apperr"
)

// updateSuccessMarker must appear (case-insensitively) in the persist
// response body for the update to count as applied.
const updateSuccessMarker = "successfully updated"

// requestTimeout bounds one exchange. Expiry fails the record, not the run.
const requestTimeout = 15 * time.Second

// Record is a customer business record decoded from a lookup response.
// Fields the response did not carry are empty strings. A Record is not
// mutated after decoding.
type Record struct {
	ID      string
	Code    string
	Name    string
	City    string
	State   string
	Phone   string
	Website string
}

// Credentials authenticate every request against the directory service.
type Credentials struct {
	User      string
	Password  string
	CompanyID string
}

// Validate reports whether all credential fields are present.
func (c Credentials) Validate() error {
	if c.User == "" || c.Password == "" || c.CompanyID == "" {
		return fmt.Errorf("%w: directory user, password, and company id are all required", apperr.ErrMissingCredentials)
	}
	return nil
}

// Client issues envelope exchanges against the directory service. Each call
// is a single request/response; failed calls are not retried.
type Client struct {
	client   *req.Client
	endpoint string
	creds    Credentials
	logger   *slog.Logger
}

// NewClient creates a directory client for the given endpoint and credentials.
func NewClient(client *req.Client, endpoint string, creds Credentials, logger *slog.Logger) *Client {
	return &Client{client: client, endpoint: endpoint, creds: creds, logger: logger}
}

func (c *Client) auth() authentication {
	return authentication{
		User:      c.creds.User,
		Password:  c.creds.Password,
		CompanyID: c.creds.CompanyID,
		Version:   protocolVersion,
	}
}

// exchange posts an encoded method payload and returns the raw response body.
// A transport error or a non-2xx status is a hard failure for the call.
func (c *Client) exchange(ctx context.Context, method string, payload any) ([]byte, error) {
	encoded, err := encodeEnvelope(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.client.R().
		SetContext(ctx).
		SetContentType("text/xml; charset=utf-8").
		SetHeader("SOAPAction", method).
		SetBody(encoded).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperr.ErrRequestFailed, method, err)
	}

	respBody := resp.Bytes()
	if !resp.IsSuccessState() {
		snippet := string(respBody)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", apperr.ErrRequestFailed, resp.StatusCode, snippet)
	}

	c.logger.Debug("directory exchange", "method", method, "status", resp.StatusCode, "bytes", len(respBody))
	return respBody, nil
}

// FetchRecord looks up a customer by business code. The lookup payload sends
// a zero identifier marked invalid and the code marked valid. Decoding never
// fails: tags missing from the response decode to empty fields.
func (c *Client) FetchRecord(ctx context.Context, code string) (*Record, error) {
	payload := getCustomer{
		Auth: c.auth(),
		ID:   customerID{ID: "0", IsValid: false},
		Code: customerCode{Code: code, IsValid: true},
	}
	respBody, err := c.exchange(ctx, "GetCustomer", payload)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:      fieldText(respBody, "CustomerID"),
		Code:    fieldText(respBody, "CustomerCode"),
		Name:    fieldText(respBody, "Name"),
		City:    fieldText(respBody, "City"),
		State:   fieldText(respBody, "State"),
		Phone:   fieldText(respBody, "Phone"),
		Website: fieldText(respBody, "Website"),
	}
	return rec, nil
}

// PersistWebsite writes website onto the customer identified by id and code.
// The service requires both reference fields to be non-empty: a blank id is
// sent as "0" and a blank code falls back to lookupCode, the code used for
// the original fetch. The update is applied only when the response body
// carries the success marker; its absence is a normal false, not an error.
func (c *Client) PersistWebsite(ctx context.Context, id, code, lookupCode, website string) (bool, error) {
	if id = strings.TrimSpace(id); id == "" {
		id = "0"
	}
	if code = strings.TrimSpace(code); code == "" {
		code = lookupCode
	}

	payload := updateCustomerWebsite{
		Auth:    c.auth(),
		ID:      customerID{ID: id, IsValid: id != "0"},
		Code:    customerCode{Code: code, IsValid: code != ""},
		Website: website,
	}
	respBody, err := c.exchange(ctx, "UpdateCustomerWebsite", payload)
	if err != nil {
		return false, err
	}

	ok := strings.Contains(strings.ToLower(string(respBody)), updateSuccessMarker)
	if !ok {
		c.logger.Debug("directory update not acknowledged", "code", code)
	}
	return ok, nil
}
