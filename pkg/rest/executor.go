// Package rest executes the ordered REST snippets of a manifest against a
// target host.
//
// Snippets run strictly in order. The first non-200 response or transport
// failure stops the sequence; results of the snippets before it are kept in
// the returned Envelope. Template and XML/base64 output errors are returned
// as errors instead, since they point at a broken manifest or target.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/systemstart/skillet-runner/pkg/api"
	"github.com/systemstart/skillet-runner/pkg/extract"
	"github.com/systemstart/skillet-runner/pkg/metrics"
	"github.com/systemstart/skillet-runner/pkg/render"
)

const (
	// TargetHostVar is the context variable holding the base URL of the
	// target.
	TargetHostVar = "TARGET_IP"

	// The misspelling is what targets have always received.
	acceptsTypeHeader = "Accetps-Type"

	maxResponseBody = 10 * 1024 * 1024
)

// Executor runs REST snippet sequences.
type Executor struct {
	client   *http.Client
	renderer *render.Renderer
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.client = c }
}

// WithRenderer replaces the default renderer, e.g. to add filters.
func WithRenderer(r *render.Renderer) Option {
	return func(e *Executor) { e.renderer = r }
}

// NewExecutor creates an Executor. The default client does not verify TLS
// certificates: targets are devices that usually serve self-signed ones.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		client:   newInsecureClient(),
		renderer: render.NewRenderer(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newInsecureClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		},
	}
}

// Execute runs the manifest's snippets in order against
// vars["TARGET_IP"]. Payload files are read from payloadDir. vars is never
// modified and snippet outputs are not fed back into it.
func (e *Executor) Execute(ctx context.Context, m *api.Manifest, payloadDir string, vars render.Context) (*Envelope, error) {
	env := newEnvelope()

	for i := range m.Snippets {
		s := &m.Snippets[i]

		if err := ctx.Err(); err != nil {
			env.fail(err.Error())
			return env, nil
		}

		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("snippet %d (%q): %w", i, s.Name, err)
		}

		req, err := e.buildRequest(ctx, s, payloadDir, vars)
		if err != nil {
			return nil, fmt.Errorf("snippet %q: %w", s.Name, err)
		}

		op := operation(s)
		slog.Info("performing rest call", "snippet", s.Name, "operation", op, "host", req.URL.Host)
		slog.Debug("rest call url", "snippet", s.Name, "url", req.URL.String())

		start := time.Now()
		text, err := e.do(req)
		if err != nil {
			metrics.ObserveRESTStep(op, StatusError, time.Since(start))
			slog.Error("rest call failed", "snippet", s.Name, "error", err)
			if errors.Is(err, ErrUnexpectedStatus) {
				env.abort(i, s.Name, text, err.Error())
			} else {
				env.abort(i, s.Name, err.Error(), err.Error())
			}
			return env, nil
		}
		metrics.ObserveRESTStep(op, StatusSuccess, time.Since(start))

		outputs := extract.Outputs{}
		if len(s.Outputs) > 0 {
			outputs, err = extract.Parse(m, s, text)
			if err != nil {
				return nil, err
			}
		}
		env.record(s.Name, text, outputs)
	}

	env.complete()
	return env, nil
}

func operation(s *api.Snippet) string {
	if s.Operation == "" {
		return api.OperationGet
	}
	return s.Operation
}

func (e *Executor) buildRequest(ctx context.Context, s *api.Snippet, payloadDir string, vars render.Context) (*http.Request, error) {
	path, err := e.renderer.Render(s.Path, vars)
	if err != nil {
		return nil, fmt.Errorf("rendering path: %w", err)
	}
	url := joinURL(vars[TargetHostVar], path)

	method := http.MethodGet
	var body io.Reader
	if operation(s) == api.OperationPost {
		method = http.MethodPost
		payload := ""
		if s.Payload != "" {
			payload, err = e.renderer.RenderFile(filepath.Join(payloadDir, s.Payload), vars)
			if err != nil {
				return nil, fmt.Errorf("rendering payload: %w", err)
			}
		}
		body = strings.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: snippet %q: building request: %v", api.ErrMalformedSpec, s.Name, err)
	}
	if s.ContentType != "" {
		req.Header.Set("Content-Type", s.ContentType)
	}
	if s.AcceptsType != "" {
		req.Header.Set(acceptsTypeHeader, s.AcceptsType)
	}
	return req, nil
}

// do performs req. A non-200 response returns the body text together with
// an ErrUnexpectedStatus error. A body over maxResponseBody is an
// ErrResponseTooLarge error and is never handed to an extractor.
func (e *Executor) do(req *http.Request) (string, error) {
	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxResponseBody+1)); err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if buf.Len() > maxResponseBody {
		return "", fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseBody)
	}

	text := buf.String()
	if resp.StatusCode != http.StatusOK {
		return text, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return text, nil
}

// joinURL inserts a single "/" between host and path when neither side
// provides one.
func joinURL(host, path string) string {
	if !strings.HasSuffix(host, "/") && !strings.HasPrefix(path, "/") {
		host += "/"
	}
	return host + path
}
