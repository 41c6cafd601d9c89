package config

import (
	"strings"
	"time"
)

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "CONTENTDESK_CONTEXTS_FILE"
	DefaultContextCatalogPath = "~/.contentdesk/contexts.yaml"
	DefaultDraftsBaseDir      = "~/.contentdesk/drafts"
	DefaultAPITimeout         = 30 * time.Second
	DefaultSitePlan           = "basic"
)

type ContextCatalog struct {
	Contexts   []Context `yaml:"contexts"`
	CurrentCtx string    `yaml:"current-ctx"`
}

type Context struct {
	Name     string   `yaml:"name"`
	API      API      `yaml:"api"`
	Site     Site     `yaml:"site,omitempty"`
	Drafts   Drafts   `yaml:"drafts,omitempty"`
	Metadata Metadata `yaml:"metadata,omitempty"`
}

// API describes the remote content endpoint. Timeout uses Go duration syntax.
type API struct {
	BaseURL        string            `yaml:"base-url"`
	Timeout        string            `yaml:"timeout,omitempty"`
	DefaultHeaders map[string]string `yaml:"default-headers,omitempty"`
	Auth           *HTTPAuth         `yaml:"auth,omitempty"`
	TLS            *TLS              `yaml:"tls,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to DefaultAPITimeout when unset.
func (a API) TimeoutDuration() (time.Duration, error) {
	raw := strings.TrimSpace(a.Timeout)
	if raw == "" {
		return DefaultAPITimeout, nil
	}
	return time.ParseDuration(raw)
}

type HTTPAuth struct {
	BasicAuth    *BasicAuth       `yaml:"basic-auth,omitempty"`
	BearerToken  *BearerTokenAuth `yaml:"bearer-token,omitempty"`
	CustomHeader *HeaderTokenAuth `yaml:"custom-header,omitempty"`
}

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type BearerTokenAuth struct {
	Token string `yaml:"token"`
}

type HeaderTokenAuth struct {
	Header string `yaml:"header"`
	Token  string `yaml:"token"`
}

type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}

// Site carries the caller-owned site settings that gate editing, such as the
// plan whose list limits apply.
type Site struct {
	Plan string `yaml:"plan,omitempty"`
}

func (s Site) EffectivePlan() string {
	plan := strings.ToLower(strings.TrimSpace(s.Plan))
	if plan == "" {
		return DefaultSitePlan
	}
	return plan
}

// Drafts points at the directory holding working copies between invocations.
// Format is json or yaml.
type Drafts struct {
	BaseDir string `yaml:"base-dir,omitempty"`
	Format  string `yaml:"format,omitempty"`
}

// Metadata points at a directory of resource YAML files overlaying the
// built-in resource types.
type Metadata struct {
	BaseDir string `yaml:"base-dir,omitempty"`
}
