package utils

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// TLSFiles are PEM files on disk. All are optional.
type TLSFiles struct {
	CACert string `long:"tls-ca-cert" env:"TLS_CA_CERT" description:"CA cert used to verify the remote end"`
	Cert   string `long:"tls-cert" env:"TLS_CERT" description:"client certificate"`
	Key    string `long:"tls-key" env:"TLS_KEY" description:"client certificate key"`
}

// Config builds a client tls.Config, or nil if no files are set.
func (f *TLSFiles) Config() (*tls.Config, error) {
	if f == nil || (f.CACert == "" && f.Cert == "" && f.Key == "") {
		return nil, nil
	}
	if (f.Cert == "") != (f.Key == "") {
		return nil, fmt.Errorf("tls cert and key must be given together")
	}

	cfg := &tls.Config{}
	setDefaults(cfg)

	if f.Cert != "" {
		pair, err := tls.LoadX509KeyPair(f.Cert, f.Key)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	if f.CACert != "" {
		pem, err := os.ReadFile(f.CACert)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", f.CACert)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}

func setDefaults(cfg *tls.Config) {
	cfg.MinVersion = tls.VersionTLS12
	cfg.CurvePreferences = []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256}
	cfg.CipherSuites = []uint16{
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	}
}
