package tlsroots

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoCertsFound is returned when no certificates are found in a PEM source.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found")
)

// LoadCAPool reads CA certificates from a PEM file or from every .pem,
// .crt and .cer file in a directory.
func LoadCAPool(path string) (*x509.CertPool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: stat %s: %w", path, err)
	}

	pool := x509.NewCertPool()
	files := []string{path}
	if info.IsDir() {
		files, err = certFiles(path)
		if err != nil {
			return nil, err
		}
	}

	var added int
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: read %s: %w", f, err)
		}
		n, err := appendPEM(pool, data)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: %s: %w", f, err)
		}
		added += n
	}

	if added == 0 {
		return nil, ErrNoCertsFound
	}
	return pool, nil
}

func certFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pem", ".crt", ".cer":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// appendPEM adds every CERTIFICATE block in data to pool.
func appendPEM(pool *x509.CertPool, data []byte) (int, error) {
	var n int
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return n, fmt.Errorf("parse certificate: %w", err)
		}
		pool.AddCert(cert)
		n++
	}
	return n, nil
}
