package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
)

const maxResponseBytes = 4 << 20

type requestSpec struct {
	method      string
	path        string
	body        []byte
	contentType string
}

func (g *ContentGateway) execute(ctx context.Context, purpose string, spec requestSpec) ([]byte, error) {
	request, err := g.newRequest(ctx, spec)
	if err != nil {
		return nil, err
	}

	response, err := g.doRequest(ctx, purpose, request)
	if err != nil {
		return nil, transportError("remote request failed", err)
	}
	defer response.Body.Close()

	body, err := g.readBody(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatusError(response.StatusCode, body)
	}

	return body, nil
}

// readBody reads at most the configured limit. One extra byte is requested
// so an oversized body is reported instead of decoded truncated.
func (g *ContentGateway) readBody(body io.Reader) ([]byte, error) {
	limit := g.maxBodyBytes
	if limit <= 0 {
		limit = maxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, transportError("failed to read remote response body", err)
	}
	if int64(len(data)) > limit {
		return nil, transportError(fmt.Sprintf("remote response exceeds the %d byte limit", limit), nil)
	}
	return data, nil
}

func (g *ContentGateway) newRequest(ctx context.Context, spec requestSpec) (*http.Request, error) {
	targetURL, err := g.resolveRequestURL(spec.path)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if len(spec.body) > 0 {
		bodyReader = bytes.NewReader(spec.body)
	}

	request, err := http.NewRequestWithContext(ctx, spec.method, targetURL, bodyReader)
	if err != nil {
		return nil, internalError("failed to create remote request", err)
	}

	request.Header.Set("Accept", defaultMediaType)
	if len(spec.body) > 0 && spec.contentType != "" {
		request.Header.Set("Content-Type", spec.contentType)
	}

	keys := make([]string, 0, len(g.defaultHeaders))
	for key := range g.defaultHeaders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		request.Header.Set(key, g.defaultHeaders[key])
	}

	g.auth.apply(request)
	return request, nil
}

func (g *ContentGateway) resolveRequestURL(apiPath string) (string, error) {
	trimmed := strings.TrimSpace(apiPath)
	if trimmed == "" {
		return "", validationError("api path is required", nil)
	}
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		return "", validationError("api path must be relative to api.base-url", nil)
	}

	target := *g.baseURL
	target.Path = joinBaseAndRequestPath(g.baseURL.Path, trimmed)
	target.RawPath = ""
	return target.String(), nil
}

func joinBaseAndRequestPath(basePath string, requestPath string) string {
	normalizedBase := normalizeRequestPath(basePath)
	if normalizedBase == "" {
		normalizedBase = "/"
	}

	normalizedRequest := normalizeRequestPath(requestPath)
	if normalizedRequest == "" || normalizedRequest == "/" {
		return normalizedBase
	}

	joined := path.Join(normalizedBase, strings.TrimPrefix(normalizedRequest, "/"))
	if !strings.HasPrefix(joined, "/") {
		return "/" + joined
	}
	return joined
}

func normalizeRequestPath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if trimmed != "/" {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	return trimmed
}
