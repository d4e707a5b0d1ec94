// SPDX-License-Identifier: MIT
package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/caddyserver/certmagic"
	"github.com/rs/zerolog"
)

// Manager handles certificate provisioning and management
type Manager struct {
	cfg       *Config
	log       zerolog.Logger
	certmagic *certmagic.Config
}

// NewManager creates a new TLS manager. Certificates are not requested
// until Manage is called.
func NewManager(cfg *Config, log zerolog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if len(cfg.AllDomains()) == 0 {
		return nil, fmt.Errorf("at least one domain is required")
	}

	var magicCfg *certmagic.Config
	cache := certmagic.NewCache(certmagic.CacheOptions{
		GetConfigForCert: func(certmagic.Certificate) (*certmagic.Config, error) {
			return magicCfg, nil
		},
	})

	magicCfg = certmagic.New(cache, certmagic.Config{
		Storage: &certmagic.FileStorage{Path: cfg.CertDir},
	})

	ca := certmagic.LetsEncryptProductionCA
	if cfg.Staging {
		ca = certmagic.LetsEncryptStagingCA
	}
	magicCfg.Issuers = []certmagic.Issuer{
		certmagic.NewACMEIssuer(magicCfg, certmagic.ACMEIssuer{
			CA:     ca,
			Email:  cfg.Email,
			Agreed: true,
		}),
	}

	return &Manager{
		cfg:       cfg,
		log:       log,
		certmagic: magicCfg,
	}, nil
}

// Domains returns the names certificates are managed for
func (m *Manager) Domains() []string {
	return m.cfg.AllDomains()
}

// Manage starts obtaining and renewing certificates in the background
func (m *Manager) Manage(ctx context.Context) error {
	domains := m.Domains()

	m.log.Info().Int("count", len(domains)).Strs("domains", domains).Bool("staging", m.cfg.Staging).
		Msg("managing TLS certificates")

	if err := m.certmagic.ManageAsync(ctx, domains); err != nil {
		return fmt.Errorf("failed to manage domains: %w", err)
	}

	return nil
}

// GetTLSConfig returns TLS config for HTTPS server
func (m *Manager) GetTLSConfig() *tls.Config {
	return m.certmagic.TLSConfig()
}

// HTTPChallengeHandler answers ACME HTTP-01 challenges and passes every
// other request to next
func (m *Manager) HTTPChallengeHandler(next http.Handler) http.Handler {
	for _, issuer := range m.certmagic.Issuers {
		if acme, ok := issuer.(*certmagic.ACMEIssuer); ok {
			return acme.HTTPChallengeHandler(next)
		}
	}
	return next
}
