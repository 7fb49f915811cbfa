package utils

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTLSFilesConfig(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.pem")
	assert.Nil(t, os.WriteFile(empty, []byte("not a cert"), 0600))

	cases := []struct {
		Name     string
		Given    *TLSFiles
		ExpectOK bool
	}{
		{"Nil", nil, true},
		{"Unset", &TLSFiles{}, true},
		{"CertWithoutKey", &TLSFiles{Cert: "a.pem"}, false},
		{"MissingCA", &TLSFiles{CACert: filepath.Join(dir, "nope.pem")}, false},
		{"CAWithoutCerts", &TLSFiles{CACert: empty}, false},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			cfg, err := c.Given.Config()
			if c.ExpectOK {
				assert.Nil(t, err)
				assert.Nil(t, cfg)
			} else {
				assert.NotNil(t, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	cfg := &tls.Config{}
	setDefaults(cfg)

	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.NotEmpty(t, cfg.CipherSuites)
}
