package file

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/drafts"
)

var supportedOverrideKeys = []string{
	"api.base-url",
	"api.timeout",
	"drafts.base-dir",
	"drafts.format",
	"metadata.base-dir",
	"site.plan",
}

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}
	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}
	if err := validateAPI(cfg.Name, cfg.API); err != nil {
		return err
	}
	if _, err := drafts.ParseFormat(cfg.Drafts.Format); err != nil {
		return validationError(fmt.Sprintf("context %q drafts.format is invalid", cfg.Name), err)
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	cfg.Site.Plan = strings.ToLower(strings.TrimSpace(cfg.Site.Plan))
	cfg.Drafts.Format = strings.ToLower(strings.TrimSpace(cfg.Drafts.Format))
	return cfg
}

// applyConfigDefaults fills values a resolved context always carries. Stored
// contexts keep them empty so the defaults can change between releases.
func applyConfigDefaults(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Site.Plan == "" {
		cfg.Site.Plan = config.DefaultSitePlan
	}
	if strings.TrimSpace(cfg.Drafts.BaseDir) == "" {
		cfg.Drafts.BaseDir = config.DefaultDraftsBaseDir + "/" + cfg.Name
	}
	if cfg.Drafts.Format == "" {
		cfg.Drafts.Format = string(drafts.FormatJSON)
	}
	if strings.TrimSpace(cfg.API.Timeout) == "" {
		cfg.API.Timeout = config.DefaultAPITimeout.String()
	}
	return cfg
}

func validateAPI(contextName string, api config.API) error {
	scope := fmt.Sprintf("context %q api", contextName)

	if api.BaseURL == "" {
		return validationError(scope+".base-url is required", nil)
	}
	parsed, err := url.Parse(api.BaseURL)
	if err != nil {
		return validationError(scope+".base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validationError(scope+".base-url must use http or https", nil)
	}
	if parsed.Host == "" {
		return validationError(scope+".base-url host is required", nil)
	}

	timeout, err := api.TimeoutDuration()
	if err != nil {
		return validationError(scope+".timeout is not a valid duration", err)
	}
	if timeout <= 0 {
		return validationError(scope+".timeout must be positive", nil)
	}

	if api.Auth != nil {
		if countSet(api.Auth.BasicAuth != nil, api.Auth.BearerToken != nil, api.Auth.CustomHeader != nil) != 1 {
			return validationError(scope+".auth must define exactly one of basic-auth, bearer-token, custom-header", nil)
		}
		if basic := api.Auth.BasicAuth; basic != nil && (basic.Username == "" || basic.Password == "") {
			return validationError(scope+".auth.basic-auth requires username and password", nil)
		}
		if bearer := api.Auth.BearerToken; bearer != nil && bearer.Token == "" {
			return validationError(scope+".auth.bearer-token.token is required", nil)
		}
		if custom := api.Auth.CustomHeader; custom != nil && (custom.Header == "" || custom.Token == "") {
			return validationError(scope+".auth.custom-header requires header and token", nil)
		}
	}

	if tls := api.TLS; tls != nil {
		if (strings.TrimSpace(tls.ClientCertFile) == "") != (strings.TrimSpace(tls.ClientKeyFile) == "") {
			return validationError(scope+".tls requires both client-cert-file and client-key-file", nil)
		}
	}

	return nil
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case "api.base-url":
			cfg.API.BaseURL = value
		case "api.timeout":
			cfg.API.Timeout = value
		case "drafts.base-dir":
			cfg.Drafts.BaseDir = value
		case "drafts.format":
			cfg.Drafts.Format = value
		case "metadata.base-dir":
			cfg.Metadata.BaseDir = value
		case "site.plan":
			cfg.Site.Plan = value
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}
