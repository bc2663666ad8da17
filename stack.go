package eskit

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/thalesfsp/customerror"
)

//////
// Const, vars, and types.
//////

// StackOptions defines the options for a Stack handle.
//
// NOTE: Use NewStack() to create a new Stack!
type StackOptions struct {
	// Host to reach Elasticsearch on.
	Host string `default:"localhost" json:"host" validate:"required"`

	// ElasticPort Elasticsearch listens on.
	ElasticPort int `default:"9200" json:"elasticPort" validate:"gt=0"`

	// KibanaPort Kibana listens on.
	KibanaPort int `default:"5601" json:"kibanaPort" validate:"gt=0"`

	// KibanaHost, when empty, falls back to Host.
	KibanaHost string `json:"kibanaHost"`

	// Protocol to use, http or https.
	Protocol string `default:"http" json:"protocol" validate:"oneof=http https"`

	// KibanaProtocol, when empty, falls back to Protocol.
	KibanaProtocol string `json:"kibanaProtocol"`

	// VerifyCerts controls TLS certificate verification.
	VerifyCerts bool `json:"verifyCerts"`

	// MaxRetries for the underlying client's transient-failure retry policy.
	MaxRetries int `default:"3" json:"maxRetries" validate:"gte=0"`

	// Username and Password for basic auth, optional.
	Username string `json:"username"`
	Password string `json:"-"`

	// APIKey for key-based auth, optional.
	APIKey string `json:"-"`

	// SkipDefaultRegistration keeps the new stack from becoming the
	// process-wide default.
	SkipDefaultRegistration bool `json:"skipDefaultRegistration"`
}

// Stack represents a located Elasticsearch + Kibana deployment. The underlying
// client is created lazily on first use and reused for the lifetime of the
// handle. A Stack is not safe for concurrent use.
type Stack struct {
	// Host Elasticsearch is reached on.
	Host string `json:"host"`

	// ElasticPort Elasticsearch listens on.
	ElasticPort int `json:"elasticPort"`

	// Protocol in use, http or https.
	Protocol string `json:"protocol"`

	// VerifyCerts controls TLS certificate verification.
	VerifyCerts bool `json:"verifyCerts"`

	// Kibana is the dashboard collaborator.
	Kibana *Kibana `json:"kibana"`

	username string
	password string
	apiKey   string

	// maxRetries is the client retry policy. Alive() temporarily zeroes it
	// so probing fails fast, and restores it afterwards.
	maxRetries int

	client *elasticsearch.Client
}

//////
// Default-stack registry.
//////

// Registry holds the process-wide default stack with an explicit lifecycle.
type Registry struct {
	mu    sync.Mutex
	stack *Stack
}

// Set stores the given stack as the default.
func (r *Registry) Set(s *Stack) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack = s
}

// Get returns the default stack, or nil when none is set.
func (r *Registry) Get() *Stack {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stack
}

// Reset clears the default stack.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack = nil
}

// defaultRegistry backs the package-level default-stack accessors.
var defaultRegistry = &Registry{}

// DefaultStack returns the process-wide default stack, or nil when none has
// been registered.
func DefaultStack() *Stack {
	return defaultRegistry.Get()
}

// SetDefaultStack registers the given stack as the process-wide default.
func SetDefaultStack(s *Stack) {
	defaultRegistry.Set(s)
}

// ResetDefaultStack clears the process-wide default stack.
func ResetDefaultStack() {
	defaultRegistry.Reset()
}

//////
// Methods.
//////

// URL returns the Elasticsearch base URL.
func (s *Stack) URL() string {
	return fmt.Sprintf("%s://%s:%d", s.Protocol, s.Host, s.ElasticPort)
}

// String implements fmt.Stringer.
func (s *Stack) String() string {
	return fmt.Sprintf("Elasticsearch on %s\n%s", s.URL(), s.Kibana)
}

// clientConfig builds the client configuration for the current retry policy.
func (s *Stack) clientConfig() elasticsearch.Config {
	retryBackoff := backoff.NewExponentialBackOff()

	cfg := elasticsearch.Config{
		Addresses: []string{s.URL()},

		Username: s.username,
		Password: s.password,
		APIKey:   s.apiKey,

		// Retry on 429 TooManyRequests, and on gateway failures.
		RetryOnStatus: []int{502, 503, 504, 429},

		MaxRetries:   s.maxRetries,
		DisableRetry: s.maxRetries == 0,

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}

			return retryBackoff.NextBackOff()
		},
	}

	if !s.VerifyCerts {
		cfg.Transport = &http.Transport{
			//nolint:gosec
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return cfg
}

// ES returns the underlying Elasticsearch client, creating it on first use.
func (s *Stack) ES() (*elasticsearch.Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	client, err := elasticsearch.NewClient(s.clientConfig())
	if err != nil {
		return nil, ErrorCatalog.
			MustGet(ErrFailedToCreateClient).
			NewFailedToError(customerror.WithError(err))
	}

	s.client = client

	return s.client, nil
}

// Alive reports whether both Elasticsearch and Kibana answer. The probe runs
// with retries disabled so it fails fast; the prior retry policy is restored
// regardless of the outcome. Alive never returns an error, failures are
// logged at debug level.
func (s *Stack) Alive(ctx context.Context) bool {
	origMaxRetries := s.maxRetries

	// Probe with a fresh zero-retry client, then drop it so the next call
	// rebuilds one with the restored policy.
	s.maxRetries = 0
	s.client = nil

	defer func() {
		s.maxRetries = origMaxRetries
		s.client = nil
	}()

	client, err := s.ES()
	if err != nil {
		logger.Debuglnf("alive: %s", err)

		return false
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		logger.Debuglnf("alive: ping %s: %s", s.URL(), err)

		return false
	}

	defer res.Body.Close()

	if res.IsError() {
		logger.Debuglnf("alive: ping %s: %s", s.URL(), res.Status())

		return false
	}

	return s.Kibana.Alive(ctx)
}

// WaitFor polls Alive every interval until it succeeds or timeout elapses. A
// non-positive timeout polls until the context is done. Returns whether the
// stack came alive; when failOnTimeout is set, an unsuccessful wait is also
// returned as an error.
func (s *Stack) WaitFor(
	ctx context.Context,
	timeout time.Duration,
	interval time.Duration,
	failOnTimeout bool,
) (bool, error) {
	deadline := time.Now().Add(timeout)

	for timeout <= 0 || time.Now().Before(deadline) {
		if s.Alive(ctx) {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return s.waitForFailed(failOnTimeout, ctx.Err())
		case <-time.After(interval):
		}
	}

	return s.waitForFailed(failOnTimeout, nil)
}

func (s *Stack) waitForFailed(failOnTimeout bool, cause error) (bool, error) {
	if !failOnTimeout {
		return false, nil
	}

	opts := []customerror.Option{customerror.WithField("address", s.URL())}

	if cause != nil {
		opts = append(opts, customerror.WithError(cause))
	}

	return false, ErrorCatalog.MustGet(ErrWaitForTimedOut).NewFailedToError(opts...)
}

//////
// Factory.
//////

// NewStack creates a Stack handle for a (presumed) deployment. Unless
// suppressed, the new stack becomes the process-wide default.
func NewStack(opts *StackOptions) (*Stack, error) {
	if opts == nil {
		opts = &StackOptions{}
	}

	if opts.Host == "" {
		opts.Host = "localhost"
	}

	if opts.ElasticPort == 0 {
		opts.ElasticPort = 9200
	}

	if opts.KibanaPort == 0 {
		opts.KibanaPort = 5601
	}

	if opts.Protocol == "" {
		opts.Protocol = "http"
	}

	if opts.KibanaHost == "" {
		opts.KibanaHost = opts.Host
	}

	if opts.KibanaProtocol == "" {
		opts.KibanaProtocol = opts.Protocol
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	if err := process(opts); err != nil {
		return nil, customerror.NewInvalidError("stack options", customerror.WithError(err))
	}

	s := &Stack{
		Host:        opts.Host,
		ElasticPort: opts.ElasticPort,
		Protocol:    opts.Protocol,
		VerifyCerts: opts.VerifyCerts,

		Kibana: NewKibana(
			opts.KibanaHost,
			opts.KibanaPort,
			opts.KibanaProtocol,
			opts.VerifyCerts,
		),

		username: opts.Username,
		password: opts.Password,
		apiKey:   opts.APIKey,

		maxRetries: opts.MaxRetries,
	}

	if !opts.SkipDefaultRegistration {
		SetDefaultStack(s)
	}

	return s, nil
}
