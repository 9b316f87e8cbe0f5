package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/scan"
	"github.com/mmynk/billsplit/internal/tui"
	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	host := flag.String("host", cfg.Scan.Host, "base URL of the bill scanning service (empty disables scanning)")
	timeout := flag.Duration("timeout", cfg.Scan.Timeout, "how long to wait for a scan")
	people := flag.String("people", "", "comma-separated participants to start with")
	logFile := flag.String("log", "", "write logs to this file")
	logLevel := flag.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	// The terminal belongs to the UI; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(logging.New(*logLevel, logOut))

	session := bill.NewSession()
	for _, name := range strings.Split(*people, ",") {
		session.AddParticipant(name)
	}

	var scanner *scan.Scanner
	if *host != "" {
		scanner = scan.NewScanner(scan.NewClient(*host, &http.Client{}), *timeout)
		slog.Info("Scanning enabled", "host", *host, "timeout", *timeout)
	}

	if err := tui.Run(session, scanner, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
