// Package main writes a self-signed server certificate and key for running
// the ImpactMatch server with -tls-cert and -tls-key.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/ImpactMatch/internal/certgen"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated DNS names and IPs")
	validFor := fs.Duration("valid", 365*24*time.Hour, "certificate lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var list []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			list = append(list, h)
		}
	}

	creds, err := certgen.SelfSigned(list, *validFor, time.Now())
	if err != nil {
		return err
	}
	certPath := filepath.Join(*dir, "server.crt")
	keyPath := filepath.Join(*dir, "server.key")
	if err := creds.Write(certPath, keyPath); err != nil {
		return err
	}

	fmt.Printf("Certificate written to %s and %s\n", certPath, keyPath)
	return nil
}
