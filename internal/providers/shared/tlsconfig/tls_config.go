package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"github.com/crmarques/contentdesk/config"
	"github.com/crmarques/contentdesk/faults"
)

// BuildTLSConfig turns context TLS settings into a client tls.Config. Nil
// settings return a nil config so the transport keeps its defaults. scope
// prefixes error messages, for example "api".
func BuildTLSConfig(tlsSettings *config.TLS, scope string) (*tls.Config, error) {
	if tlsSettings == nil {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: tlsSettings.InsecureSkipVerify,
	}

	rootCAs, err := loadRootCAs(strings.TrimSpace(tlsSettings.CACertFile), scope)
	if err != nil {
		return nil, err
	}
	tlsConfig.RootCAs = rootCAs

	certificates, err := loadClientCertificates(
		strings.TrimSpace(tlsSettings.ClientCertFile),
		strings.TrimSpace(tlsSettings.ClientKeyFile),
		scope,
	)
	if err != nil {
		return nil, err
	}
	tlsConfig.Certificates = certificates

	return tlsConfig, nil
}

func loadRootCAs(caCertFile string, scope string) (*x509.CertPool, error) {
	if caCertFile == "" {
		return nil, nil
	}

	caBytes, err := os.ReadFile(caCertFile)
	if err != nil {
		return nil, validationError(fmt.Sprintf("%s.tls.ca-cert-file could not be read", scope), err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, validationError(fmt.Sprintf("%s.tls.ca-cert-file is not valid PEM", scope), nil)
	}
	return pool, nil
}

func loadClientCertificates(certFile string, keyFile string, scope string) ([]tls.Certificate, error) {
	if certFile == "" && keyFile == "" {
		return nil, nil
	}
	if certFile == "" || keyFile == "" {
		return nil, validationError(fmt.Sprintf("%s.tls requires both client-cert-file and client-key-file", scope), nil)
	}

	certificate, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, validationError(fmt.Sprintf("%s.tls client certificate pair is invalid", scope), err)
	}
	return []tls.Certificate{certificate}, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
