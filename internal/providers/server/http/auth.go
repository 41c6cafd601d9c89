package http

import (
	"net/http"
	"strings"

	"github.com/crmarques/contentdesk/config"
)

type authMode int

const (
	authModeNone authMode = iota
	authModeBasic
	authModeBearer
	authModeCustomHeader
)

func (m authMode) String() string {
	switch m {
	case authModeBasic:
		return "basic"
	case authModeBearer:
		return "bearer"
	case authModeCustomHeader:
		return "custom-header"
	default:
		return "none"
	}
}

type authConfig struct {
	mode         authMode
	basicAuth    config.BasicAuth
	bearerToken  config.BearerTokenAuth
	customHeader config.HeaderTokenAuth
}

// buildAuthConfig accepts a nil block as "no credentials"; local development
// APIs usually run without a session token.
func buildAuthConfig(cfg *config.HTTPAuth) (authConfig, error) {
	if cfg == nil {
		return authConfig{mode: authModeNone}, nil
	}

	setCount := 0
	for _, set := range []bool{cfg.BasicAuth != nil, cfg.BearerToken != nil, cfg.CustomHeader != nil} {
		if set {
			setCount++
		}
	}
	if setCount != 1 {
		return authConfig{}, validationError("api.auth must define exactly one auth mode", nil)
	}

	switch {
	case cfg.BasicAuth != nil:
		basic := *cfg.BasicAuth
		if basic.Username == "" || basic.Password == "" {
			return authConfig{}, validationError("api.auth.basic-auth requires username and password", nil)
		}
		return authConfig{mode: authModeBasic, basicAuth: basic}, nil
	case cfg.BearerToken != nil:
		bearer := *cfg.BearerToken
		if strings.TrimSpace(bearer.Token) == "" {
			return authConfig{}, validationError("api.auth.bearer-token.token is required", nil)
		}
		return authConfig{mode: authModeBearer, bearerToken: bearer}, nil
	default:
		custom := *cfg.CustomHeader
		if strings.TrimSpace(custom.Header) == "" || custom.Token == "" {
			return authConfig{}, validationError("api.auth.custom-header requires header and token", nil)
		}
		return authConfig{mode: authModeCustomHeader, customHeader: custom}, nil
	}
}

func (a authConfig) apply(request *http.Request) {
	switch a.mode {
	case authModeBasic:
		request.SetBasicAuth(a.basicAuth.Username, a.basicAuth.Password)
	case authModeBearer:
		request.Header.Set("Authorization", "Bearer "+a.bearerToken.Token)
	case authModeCustomHeader:
		request.Header.Set(a.customHeader.Header, a.customHeader.Token)
	}
}
