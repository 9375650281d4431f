// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xache-protocol/xache-go/pkg/did"
)

type Config struct {
	APIURL      string
	DID         string
	PrivateKey  string
	HTTPTimeout time.Duration
	ProbeDB     string
	ListenAddr  string
}

// Load reads configuration from the environment. Files are loaded first with
// godotenv; variables already set win. With no files, a local .env is tried.
func Load(files ...string) (Config, error) {
	// Optional: load local .env for development. Missing file is fine.
	_ = godotenv.Load(files...)

	timeoutSeconds := getenvIntDefault("XACHE_HTTP_TIMEOUT_SECONDS", 30)
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}

	cfg := Config{
		APIURL:      strings.TrimRight(getenvDefault("XACHE_API_URL", "http://localhost:8080"), "/"),
		DID:         strings.TrimSpace(os.Getenv("XACHE_DID")),
		PrivateKey:  strings.TrimSpace(os.Getenv("XACHE_PRIVATE_KEY")),
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,
		ProbeDB:     getenvDefault("XACHE_PROBE_DB", ":memory:"),
		ListenAddr:  getenvDefault("XACHE_LISTEN_ADDR", ":8080"),
	}
	return cfg, nil
}

// Validate checks what signing needs: a well-formed DID and a key.
func (c Config) Validate() error {
	if c.DID == "" {
		return errors.New("XACHE_DID is required")
	}
	if _, err := did.Parse(c.DID); err != nil {
		return fmt.Errorf("XACHE_DID: %w", err)
	}
	if c.PrivateKey == "" {
		return errors.New("XACHE_PRIVATE_KEY is required")
	}
	return nil
}

// HTTPClient returns a client using the configured timeout.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}

func getenvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
