// Package dialecttest provides an in-memory dialect.Client that records every
// call it receives, for asserting statement order in tests.
package dialecttest

import (
	"context"
	"sync"

	"db-tables/internal/dialect"
)

// Client records calls and serves canned envelopes.
type Client struct {
	Tag string

	mu      sync.Mutex
	calls   []string
	results map[string]dialect.Envelope
	fail    map[string]error

	// OnExec, when set, runs before every Exec. Tests use it to cancel contexts mid-sequence.
	OnExec func(query string)
}

// New returns a Client reporting tag as its dialect.
func New(tag string) *Client {
	return &Client{
		Tag:     tag,
		results: make(map[string]dialect.Envelope),
		fail:    make(map[string]error),
	}
}

// Returns registers the envelope served for query.
func (c *Client) Returns(query string, env dialect.Envelope) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[query] = env
	return c
}

// FailOn makes query (or a call marker such as "begin" or "commit") fail with err.
func (c *Client) FailOn(query string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail[query] = err
	return c
}

// Calls returns the recorded calls, e.g. "exec: DROP TABLE `a`", "begin", "commit".
func (c *Client) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *Client) record(entry, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, entry)
	return c.fail[key]
}

func (c *Client) Dialect() string { return c.Tag }

func (c *Client) Query(ctx context.Context, query string) (dialect.Envelope, error) {
	if err := c.record("query: "+query, query); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if env, ok := c.results[query]; ok {
		return env, nil
	}
	return &dialect.ResultSet{}, nil
}

func (c *Client) Exec(ctx context.Context, query string) error {
	if c.OnExec != nil {
		c.OnExec(query)
	}
	if err := c.record("exec: "+query, query); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Client) Session(ctx context.Context) (dialect.Session, error) {
	if err := c.record("session", "session"); err != nil {
		return nil, err
	}
	return &session{c}, nil
}

type session struct{ *Client }

func (s *session) Begin(ctx context.Context) (dialect.Tx, error) {
	if err := s.record("begin", "begin"); err != nil {
		return nil, err
	}
	return &tx{s.Client}, nil
}

func (s *session) Close() error {
	return s.record("close", "close")
}

type tx struct{ *Client }

func (t *tx) Commit() error   { return t.record("commit", "commit") }
func (t *tx) Rollback() error { return t.record("rollback", "rollback") }
