package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/JDeepLearn/faq-data-loader/core"
	"golang.org/x/sync/singleflight"
)

// ErrBaseURLRequired is returned when a Provisioner is created without a base URL.
var ErrBaseURLRequired = errors.New("search service base URL is required")

// defaultRequestTimeout bounds each admin request.
const defaultRequestTimeout = 30 * time.Second

// maxBodyBytes caps how much of an admin response is read.
const maxBodyBytes = 4 << 20

// State is the provisioning state of an index.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateExists
	StateCreating
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateExists:
		return "exists"
	case StateCreating:
		return "creating"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Provisioner ensures vector indexes exist on a search service.
// It is safe for concurrent use.
type Provisioner struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	states map[string]State
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithBasicAuth sets the admin credentials.
func WithBasicAuth(username, password string) Option {
	return func(p *Provisioner) {
		p.username = username
		p.password = password
	}
}

// WithHTTPClient sets the HTTP client.
// Default is a client with a 30 second timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provisioner) {
		p.httpClient = client
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provisioner) {
		p.logger = logger
	}
}

// NewProvisioner creates a Provisioner for the search service at baseURL,
// e.g. "http://localhost:8094".
func NewProvisioner(baseURL string, opts ...Option) (*Provisioner, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid search service URL: %w", err)
	}

	p := &Provisioner{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		logger:     slog.Default(),
		states:     make(map[string]State),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "index-provisioner")
	return p, nil
}

// State returns the last known state of the named index.
func (p *Provisioner) State(name string) State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.states[name]
}

// Ensure makes sure the index described by def exists and returns
// StateReady on success. Failures wrap core.ErrProvision and are not
// retried. Concurrent calls for the same name share one attempt.
func (p *Provisioner) Ensure(ctx context.Context, def Definition) (State, error) {
	def = def.WithDefaults()
	if err := def.Validate(); err != nil {
		return StateFailed, fmt.Errorf("%w: %w", core.ErrProvision, err)
	}

	// The shared attempt must outlive any single caller's cancellation.
	ch := p.group.DoChan(def.Name, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.flightTimeout())
		defer cancel()
		return p.ensure(flightCtx, def)
	})

	select {
	case res := <-ch:
		return res.Val.(State), res.Err
	case <-ctx.Done():
		return p.State(def.Name), fmt.Errorf("%w: index %s: %w", core.ErrProvision, def.Name, context.Cause(ctx))
	}
}

// flightTimeout bounds one shared attempt: a listing and a create request.
func (p *Provisioner) flightTimeout() time.Duration {
	timeout := p.httpClient.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return 2 * timeout
}

func (p *Provisioner) ensure(ctx context.Context, def Definition) (State, error) {
	logger := p.logger.With("index", def.Name)

	p.setState(def.Name, StateChecking)
	exists, err := p.exists(ctx, def.Name)
	if err != nil {
		// Creation still converges: an existing index is reported as such.
		logger.WarnContext(ctx, "unable to determine whether index exists", "err", err)
	}
	if exists {
		p.setState(def.Name, StateExists)
		logger.InfoContext(ctx, "search index already exists")
		p.setState(def.Name, StateReady)
		return StateReady, nil
	}

	p.setState(def.Name, StateCreating)
	logger.InfoContext(ctx, "creating search index",
		"bucket", def.Bucket, "keyspace", def.Scope+"."+def.Collection,
		"dims", def.Dims, "similarity", def.Similarity)

	created, err := p.create(ctx, def)
	if err != nil {
		p.setState(def.Name, StateFailed)
		logger.ErrorContext(ctx, "search index provisioning failed", "err", err)
		return StateFailed, fmt.Errorf("%w: index %s: %w", core.ErrProvision, def.Name, err)
	}
	if created {
		logger.InfoContext(ctx, "search index created")
	} else {
		logger.InfoContext(ctx, "search index already exists")
	}
	p.setState(def.Name, StateReady)
	return StateReady, nil
}

// exists lists index definitions and reports whether name is among them.
func (p *Provisioner) exists(ctx context.Context, name string) (bool, error) {
	status, body, err := p.do(ctx, http.MethodGet, "/api/index", nil)
	if err != nil {
		return false, err
	}
	if status < 200 || status > 299 {
		return false, fmt.Errorf("list indexes returned %d: %s", status, snippet(body))
	}

	var listing struct {
		IndexDefs map[string]json.RawMessage `json:"indexDefs"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return false, fmt.Errorf("decode index listing: %w", err)
	}

	// The service nests the name map: {"indexDefs": {"uuid": ..., "indexDefs": {name: ...}}}.
	if nested, ok := listing.IndexDefs["indexDefs"]; ok {
		var defs map[string]json.RawMessage
		if err := json.Unmarshal(nested, &defs); err == nil {
			if _, ok := defs[name]; ok {
				return true, nil
			}
		}
	}
	_, ok := listing.IndexDefs[name]
	return ok, nil
}

// create puts the index definition. It returns false when the service
// reports the index already exists.
func (p *Provisioner) create(ctx context.Context, def Definition) (bool, error) {
	payload, err := json.Marshal(def.payload())
	if err != nil {
		return false, err
	}

	status, body, err := p.do(ctx, http.MethodPut, "/api/index/"+url.PathEscape(def.Name), payload)
	if err != nil {
		return false, err
	}
	switch {
	case status >= 200 && status <= 299:
		return true, nil
	case status >= 400 && status <= 499 && strings.Contains(strings.ToLower(string(body)), "already exists"):
		return false, nil
	default:
		return false, fmt.Errorf("create index returned %d: %s", status, snippet(body))
	}
}

func (p *Provisioner) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.username != "" {
		req.SetBasicAuth(p.username, p.password)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (p *Provisioner) setState(name string, state State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[name] = state
}

func snippet(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
