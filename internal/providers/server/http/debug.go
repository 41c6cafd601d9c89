package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/debugctx"
)

type tlsDebugInfo struct {
	enabled            bool
	insecureSkipVerify bool
	caCertFile         string
	clientCertFile     string
}

func newTLSDebugInfo(tlsSettings *config.TLS) tlsDebugInfo {
	if tlsSettings == nil {
		return tlsDebugInfo{}
	}

	return tlsDebugInfo{
		enabled:            true,
		insecureSkipVerify: tlsSettings.InsecureSkipVerify,
		caCertFile:         strings.TrimSpace(tlsSettings.CACertFile),
		clientCertFile:     strings.TrimSpace(tlsSettings.ClientCertFile),
	}
}

func (g *ContentGateway) doRequest(ctx context.Context, purpose string, request *http.Request) (*http.Response, error) {
	target := redactURLForDebug(request.URL)
	debugctx.Event(
		ctx,
		"http request",
		"purpose", purpose,
		"method", request.Method,
		"url", target,
		"auth", g.auth.mode.String(),
		"tls", g.tlsDebug.enabled,
		"mtls", g.tlsDebug.clientCertFile != "",
		"tls_insecure_skip_verify", g.tlsDebug.insecureSkipVerify,
	)

	started := time.Now()
	response, err := g.client.Do(request)
	if err != nil {
		debugctx.Event(ctx, "http request failed", "purpose", purpose, "method", request.Method, "url", target, "error", err.Error())
		return nil, err
	}

	debugctx.Event(
		ctx,
		"http response",
		"purpose", purpose,
		"method", request.Method,
		"url", target,
		"status", response.StatusCode,
		"elapsed", time.Since(started).Round(time.Millisecond).String(),
	)
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}

	return cloned.String()
}
