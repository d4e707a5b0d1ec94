// SPDX-License-Identifier: MIT
package tls

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Directories certmagic stores certificates under, one per ACME CA
var caStorageDirs = []string{
	"acme-v02.api.letsencrypt.org-directory",
	"acme-staging-v02.api.letsencrypt.org-directory",
}

// CertificateStatus represents the status of a managed certificate
type CertificateStatus struct {
	Domain          string
	Issuer          string
	NotBefore       time.Time
	NotAfter        time.Time
	DaysUntilExpiry int
	Found           bool
}

// GetCertificateStatus returns one entry per configured domain. Domains
// without a stored certificate are reported with Found false.
func GetCertificateStatus(cfg *Config, now time.Time) ([]CertificateStatus, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var statuses []CertificateStatus
	for _, domain := range cfg.AllDomains() {
		status := CertificateStatus{Domain: domain}

		cert, err := findCertificate(cfg.CertDir, domain)
		if err != nil {
			return nil, err
		}
		if cert != nil {
			status.Found = true
			status.Issuer = cert.Issuer.CommonName
			status.NotBefore = cert.NotBefore
			status.NotAfter = cert.NotAfter
			status.DaysUntilExpiry = int(cert.NotAfter.Sub(now).Hours() / 24)
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// GetCertificateStatus reports the certificates of the managed domains
func (m *Manager) GetCertificateStatus() ([]CertificateStatus, error) {
	return GetCertificateStatus(m.cfg, time.Now())
}

// findCertificate looks in {certDir}/certificates/{ca}/{domain}/{domain}.crt,
// production CA first. A missing or unreadable file is not an error.
func findCertificate(certDir, domain string) (*x509.Certificate, error) {
	for _, ca := range caStorageDirs {
		path := filepath.Join(certDir, "certificates", ca, domain, domain+".crt")
		certPEM, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		block, _ := pem.Decode(certPEM)
		if block == nil {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate for %s: %w", domain, err)
		}
		return cert, nil
	}
	return nil, nil
}
