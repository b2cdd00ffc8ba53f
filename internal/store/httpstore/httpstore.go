// Package httpstore is the remote Backend: a client for the REST surface
// exposed by internal/server, used when the configuration file names an
// "http" storage provider instead of embedded sqlite.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/canac/mailbox/internal/mailerr"
	"github.com/canac/mailbox/internal/store"
)

// Store is the HTTP client Backend. The zero value is not usable; build
// one with New.
type Store struct {
	baseURL string
	token   string
	client  *http.Client
}

// New builds a Store that talks to baseURL. token, if non-empty, is sent
// as "Authorization: Bearer <token>" on every request.
func New(baseURL, token string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// responseError carries the context the HTTP backend promises on a non-2xx
// response: the request URL, status, and body.
type responseError struct {
	URL    string
	Status int
	Body   string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.Status, e.Body)
}

func (s *Store) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return mailerr.Wrapf(mailerr.KindTransport, err, "encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return mailerr.Wrapf(mailerr.KindTransport, err, "build request")
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return mailerr.Wrapf(mailerr.KindTransport, err, "request to %s", u)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return mailerr.Wrapf(mailerr.KindTransport, err, "read response body from %s", u)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mailerr.Wrap(mailerr.KindTransport, &responseError{
			URL:    u,
			Status: resp.StatusCode,
			Body:   string(respBody),
		})
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return mailerr.Wrapf(mailerr.KindTransport, err, "decode response from %s", u)
	}
	return nil
}

// AddMessages implements store.Backend.
func (s *Store) AddMessages(ctx context.Context, messages []store.NewMessage) ([]store.Message, error) {
	if len(messages) == 0 {
		return []store.Message{}, nil
	}
	var out []store.Message
	var body any = messages
	if len(messages) == 1 {
		body = messages[0]
	}
	if err := s.do(ctx, http.MethodPost, "/messages", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadMessages implements store.Backend.
func (s *Store) LoadMessages(ctx context.Context, filter store.Filter) ([]store.Message, error) {
	var out []store.Message
	if err := s.do(ctx, http.MethodGet, "/messages", filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeState implements store.Backend.
func (s *Store) ChangeState(ctx context.Context, filter store.Filter, newState store.State) ([]store.Message, error) {
	var out []store.Message
	payload := struct {
		NewState store.State `json:"new_state"`
	}{NewState: newState}
	if err := s.do(ctx, http.MethodPut, "/messages", filterQuery(filter), payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMessages implements store.Backend.
func (s *Store) DeleteMessages(ctx context.Context, filter store.Filter) ([]store.Message, error) {
	var out []store.Message
	if err := s.do(ctx, http.MethodDelete, "/messages", filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadMailboxes implements store.Backend.
func (s *Store) LoadMailboxes(ctx context.Context, filter store.Filter) ([]store.MailboxInfo, error) {
	var out []store.MailboxInfo
	if err := s.do(ctx, http.MethodGet, "/mailboxes", filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func filterQuery(filter store.Filter) url.Values {
	values, _ := url.ParseQuery(filter.Encode())
	return values
}

var _ store.Backend = (*Store)(nil)
