package http

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/faults"
	"github.com/crmarques/contentdesk/internal/providers/shared/tlsconfig"
	"github.com/crmarques/contentdesk/server"
)

const defaultMediaType = "application/json"

var _ server.ContentStore = (*ContentGateway)(nil)

// ContentGateway talks to the site content API. Every resource lives at its
// own API path below the configured base URL.
type ContentGateway struct {
	baseURL        *url.URL
	defaultHeaders map[string]string
	auth           authConfig
	client         *http.Client
	tlsDebug       tlsDebugInfo
	maxBodyBytes   int64
}

type GatewayOption func(*ContentGateway)

// WithMaxResponseBytes caps how much of a response body is read. Larger
// bodies fail with a transport fault. Non-positive limits are ignored.
func WithMaxResponseBytes(limit int64) GatewayOption {
	return func(g *ContentGateway) {
		if g != nil && limit > 0 {
			g.maxBodyBytes = limit
		}
	}
}

// WithHTTPClient replaces the client built from the API settings. The
// configured timeout is applied when the client has none.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *ContentGateway) {
		if g == nil || client == nil {
			return
		}
		copied := *client
		if copied.Timeout == 0 {
			copied.Timeout = g.client.Timeout
		}
		g.client = &copied
	}
}

func NewContentGateway(cfg config.API, opts ...GatewayOption) (*ContentGateway, error) {
	baseURL, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, validationError("api.timeout is not a valid duration", err)
	}
	if timeout <= 0 {
		return nil, validationError("api.timeout must be positive", nil)
	}

	tlsConfig, err := buildTLSConfig(cfg.TLS)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	gateway := &ContentGateway{
		baseURL:        baseURL,
		defaultHeaders: cloneStringMap(cfg.DefaultHeaders),
		auth:           auth,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		tlsDebug:     newTLSDebugInfo(cfg.TLS),
		maxBodyBytes: maxResponseBytes,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}
	return gateway, nil
}

// Fetch reads the record stored at apiPath. A 404 response, an empty body and
// a JSON null all report found == false.
func (g *ContentGateway) Fetch(ctx context.Context, apiPath string) (server.Record, bool, error) {
	body, err := g.execute(ctx, "fetch", requestSpec{method: http.MethodGet, path: apiPath})
	if err != nil {
		if faults.IsCategory(err, faults.NotFoundError) {
			return server.Record{}, false, nil
		}
		return server.Record{}, false, err
	}

	record, found, err := decodeEnvelope(body)
	if err != nil {
		return server.Record{}, false, err
	}
	return record, found, nil
}

// Create posts a new record. The returned record is the server echo, which may
// be empty.
func (g *ContentGateway) Create(ctx context.Context, apiPath string, request server.SaveRequest) (server.Record, error) {
	return g.save(ctx, http.MethodPost, apiPath, request, false)
}

// Replace updates the record identified by request.ID.
func (g *ContentGateway) Replace(ctx context.Context, apiPath string, request server.SaveRequest) (server.Record, error) {
	if strings.TrimSpace(request.ID) == "" {
		return server.Record{}, validationError("record id is required to replace content", nil)
	}
	return g.save(ctx, http.MethodPut, apiPath, request, true)
}

func (g *ContentGateway) Delete(ctx context.Context, apiPath string, request server.DeleteRequest) error {
	spec := requestSpec{method: http.MethodDelete, path: apiPath}
	if request.IncludeIDInBody {
		if strings.TrimSpace(request.ID) == "" {
			return validationError("record id is required in the delete body", nil)
		}
		encoded, err := encodeDeleteBody(request.ID)
		if err != nil {
			return err
		}
		spec.body = encoded
		spec.contentType = defaultMediaType
	}

	_, err := g.execute(ctx, "delete", spec)
	return err
}

func (g *ContentGateway) save(
	ctx context.Context,
	method string,
	apiPath string,
	request server.SaveRequest,
	includeID bool,
) (server.Record, error) {
	body, contentType, err := encodeSaveBody(request, includeID)
	if err != nil {
		return server.Record{}, err
	}

	responseBody, err := g.execute(ctx, "save", requestSpec{
		method:      method,
		path:        apiPath,
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return server.Record{}, err
	}

	record, _, err := decodeEnvelope(responseBody)
	if err != nil {
		return server.Record{}, err
	}
	return record, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, validationError("api.base-url is required", nil)
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return nil, validationError("api.base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("api.base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return nil, validationError("api.base-url host is required", nil)
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed, nil
}

func buildTLSConfig(tlsSettings *config.TLS) (*tls.Config, error) {
	return tlsconfig.BuildTLSConfig(tlsSettings, "api")
}

func cloneStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}

	cloned := make(map[string]string, len(values))
	for key, value := range values {
		cloned[key] = value
	}
	return cloned
}
