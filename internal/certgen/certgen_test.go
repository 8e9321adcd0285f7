package certgen

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSelfSigned(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	creds, err := SelfSigned([]string{"localhost", "127.0.0.1"}, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("SelfSigned: %v", err)
	}

	cert, err := creds.ParseCertificate()
	if err != nil {
		t.Fatalf("ParseCertificate: %v", err)
	}
	if cert.Subject.CommonName != "localhost" {
		t.Errorf("CN = %q; want localhost", cert.Subject.CommonName)
	}
	if len(cert.DNSNames) != 1 || cert.DNSNames[0] != "localhost" {
		t.Errorf("DNSNames = %v", cert.DNSNames)
	}
	if len(cert.IPAddresses) != 1 || cert.IPAddresses[0].String() != "127.0.0.1" {
		t.Errorf("IPAddresses = %v", cert.IPAddresses)
	}
	if !cert.NotAfter.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("NotAfter = %v", cert.NotAfter)
	}
	if err := cert.VerifyHostname("localhost"); err != nil {
		t.Errorf("VerifyHostname: %v", err)
	}

	if _, err := tls.X509KeyPair(creds.CertPEM, creds.KeyPEM); err != nil {
		t.Errorf("cert and key do not form a pair: %v", err)
	}
}

func TestSelfSigned_InvalidArgs(t *testing.T) {
	if _, err := SelfSigned(nil, time.Hour, time.Now()); err == nil {
		t.Error("expected error for empty hosts")
	}
	if _, err := SelfSigned([]string{"localhost"}, 0, time.Now()); err == nil {
		t.Error("expected error for zero validity")
	}
}

func TestCredentials_Write(t *testing.T) {
	dir := t.TempDir()
	creds, err := SelfSigned([]string{"localhost"}, time.Hour, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	certPath := filepath.Join(dir, "certs", "server.crt")
	keyPath := filepath.Join(dir, "certs", "server.key")

	if err := creds.Write(certPath, keyPath); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := tls.LoadX509KeyPair(certPath, keyPath); err != nil {
		t.Errorf("LoadX509KeyPair: %v", err)
	}
	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key perm = %o; want 600", perm)
	}
}

func TestParseCertificate_Invalid(t *testing.T) {
	if _, err := (Credentials{CertPEM: []byte("junk")}).ParseCertificate(); err == nil {
		t.Error("expected error for invalid PEM")
	}
}
