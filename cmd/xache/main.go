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

// Command xache signs requests and derives agent identifiers from the
// command line. Identity flags default to XACHE_DID and XACHE_PRIVATE_KEY.
//
//	xache did -chain evm -key 0x...
//	xache sign -method POST -path /v1/memory/store -body '{"content":"hi"}'
//	xache headers -method POST -path /v1/memory/store -body-file req.json
//	xache verify -sig ... -ts ... -method POST -path /v1/memory/store
//	xache subject -id user-123
//	xache entity -name "Alice Chen"
//	xache fingerprint -content "Alice prefers dark mode"
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/config"
	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/fingerprint"
	"github.com/xache-protocol/xache-go/pkg/keys"
	"github.com/xache-protocol/xache-go/pkg/signer"
	"github.com/xache-protocol/xache-go/pkg/subject"
	"github.com/xache-protocol/xache-go/pkg/verifier"
	"github.com/xache-protocol/xache-go/pkg/version"
)

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, args []string, stdout io.Writer) error
}

var commands = []command{
	{"did", "derive the DID for a private key", runDID},
	{"sign", "print the X-Sig value for a request", runSign},
	{"headers", "print every authentication header for a request", runHeaders},
	{"verify", "check a request signature", runVerify},
	{"subject", "derive a subject id", runSubject},
	{"entity", "derive an entity key", runEntity},
	{"fingerprint", "generate a cognitive fingerprint", runFingerprint},
	{"version", "print version information", runVersion},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		if err := c.run(cfg, args[1:], stdout); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 2
			}
			fmt.Fprintf(stderr, "%s: %v\n", c.name, err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: xache <command> [flags]")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %s\n", c.name, c.usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// identityFlags registers -did and -key, defaulting to the loaded config.
func identityFlags(fs *flag.FlagSet, cfg config.Config) (*string, *string) {
	agentDID := fs.String("did", cfg.DID, "agent DID (XACHE_DID)")
	key := fs.String("key", cfg.PrivateKey, "hex private key (XACHE_PRIVATE_KEY)")
	return agentDID, key
}

// requestFlags registers the flags that describe the request being signed.
type requestFlags struct {
	method   *string
	path     *string
	body     *string
	bodyFile *string
}

func newRequestFlags(fs *flag.FlagSet) requestFlags {
	return requestFlags{
		method:   fs.String("method", "GET", "HTTP method"),
		path:     fs.String("path", "", "request path with query, exactly as sent"),
		body:     fs.String("body", "", "request body"),
		bodyFile: fs.String("body-file", "", "read the request body from a file ('-' for stdin)"),
	}
}

func (f requestFlags) load() (method, path, body string, err error) {
	if strings.TrimSpace(*f.path) == "" {
		return "", "", "", errors.New("missing -path")
	}
	body = *f.body
	if *f.bodyFile != "" {
		var b []byte
		if *f.bodyFile == "-" {
			b, err = io.ReadAll(os.Stdin)
		} else {
			b, err = os.ReadFile(*f.bodyFile)
		}
		if err != nil {
			return "", "", "", fmt.Errorf("read body: %w", err)
		}
		body = string(b)
	}
	return strings.ToUpper(*f.method), *f.path, body, nil
}

func runDID(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("did")
	chain := fs.String("chain", string(did.ChainEVM), "chain: evm or sol")
	key := fs.String("key", cfg.PrivateKey, "hex private key (XACHE_PRIVATE_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := signer.NewPrivateKeySigner(did.Chain(*chain), *key)
	if err != nil {
		return err
	}
	defer s.Zero()

	address, err := s.GetAddress(context.Background())
	if err != nil {
		return err
	}
	agentDID, err := did.New(s.Chain(), address)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, agentDID)
	return nil
}

func runSign(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("sign")
	agentDID, key := identityFlags(fs, cfg)
	req := newRequestFlags(fs)
	ts := fs.Int64("ts", 0, "timestamp in milliseconds (default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	method, path, body, err := req.load()
	if err != nil {
		return err
	}
	if *ts == 0 {
		*ts = signer.NowMillis()
	}

	sig, err := signer.SignRequest(method, path, body, *ts, *agentDID, *key)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, sig)
	return nil
}

func runHeaders(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("headers")
	agentDID, key := identityFlags(fs, cfg)
	req := newRequestFlags(fs)
	idempotency := fs.String("idempotency-key", "", "Idempotency-Key value ('auto' for a fresh one)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	method, path, body, err := req.load()
	if err != nil {
		return err
	}

	a, err := auth.NewAssemblerFromPrivateKey(*agentDID, *key)
	if err != nil {
		return err
	}
	defer a.Zero()

	var opts []auth.HeaderOption
	switch *idempotency {
	case "":
	case "auto":
		opts = append(opts, auth.WithIdempotencyKey(auth.NewIdempotencyKey()))
	default:
		opts = append(opts, auth.WithIdempotencyKey(*idempotency))
	}

	h, err := a.Headers(context.Background(), method, path, body, opts...)
	if err != nil {
		return err
	}
	return printJSON(stdout, h.Map())
}

func runVerify(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("verify")
	agentDID := fs.String("did", cfg.DID, "agent DID (XACHE_DID)")
	sig := fs.String("sig", "", "X-Sig value")
	ts := fs.Int64("ts", 0, "X-Ts value")
	req := newRequestFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sig == "" || *ts == 0 {
		return errors.New("missing -sig or -ts")
	}
	method, path, body, err := req.load()
	if err != nil {
		return err
	}

	env := &verifier.Envelope{AgentDID: *agentDID, Signature: *sig, Timestamp: *ts}
	if err := verifier.NewDefaultDIDVerifier(nil, nil).Verify(context.Background(), env, method, path, body); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "OK")
	return nil
}

func runSubject(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("subject")
	agentDID, key := identityFlags(fs, cfg)
	agentKeyHex := fs.String("agent-key", "", "hex agent key (overrides -did/-key)")
	raw := fs.String("id", "", "raw subject id")
	tenant := fs.String("tenant", "", "tenant id (prints a subject context)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	agentKey, err := resolveAgentKey(*agentKeyHex, *agentDID, *key)
	if err != nil {
		return err
	}
	defer clear(agentKey)

	if *tenant != "" {
		c, err := subject.NewSubjectContext(agentKey, *raw, *tenant)
		if err != nil {
			return err
		}
		return printJSON(stdout, c)
	}
	id, err := subject.DeriveSubjectID(agentKey, *raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, id)
	return nil
}

func runEntity(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("entity")
	agentDID, key := identityFlags(fs, cfg)
	agentKeyHex := fs.String("agent-key", "", "hex agent key (overrides -did/-key)")
	name := fs.String("name", "", "entity name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	agentKey, err := resolveAgentKey(*agentKeyHex, *agentDID, *key)
	if err != nil {
		return err
	}
	defer clear(agentKey)

	entityKey, err := subject.DeriveEntityKey(agentKey, *name)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, entityKey)
	return nil
}

func runFingerprint(cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("fingerprint")
	agentDID, key := identityFlags(fs, cfg)
	agentKeyHex := fs.String("agent-key", "", "hex agent key (overrides -did/-key)")
	content := fs.String("content", "", "memory content")
	file := fs.String("file", "", "read content from a file; JSON content is canonicalized")
	metadataOnly := fs.Bool("metadata", false, "print only the plaintext-safe metadata")
	if err := fs.Parse(args); err != nil {
		return err
	}

	agentKey, err := resolveAgentKey(*agentKeyHex, *agentDID, *key)
	if err != nil {
		return err
	}
	defer clear(agentKey)

	var input any = *content
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read content: %w", err)
		}
		input = b
	}

	fp, err := fingerprint.Generate(input, agentKey)
	if err != nil {
		return err
	}
	if *metadataOnly {
		return printJSON(stdout, fp.Metadata())
	}
	return printJSON(stdout, fp)
}

func runVersion(cfg config.Config, args []string, stdout io.Writer) error {
	return printJSON(stdout, version.Get())
}

// resolveAgentKey returns an explicit agent key, or derives one from the
// wallet key and DID.
func resolveAgentKey(agentKeyHex, agentDID, privateKeyHex string) ([]byte, error) {
	if agentKeyHex != "" {
		return signer.DecodeKeyHex(agentKeyHex)
	}
	if agentDID == "" || privateKeyHex == "" {
		return nil, errors.New("need -agent-key, or -did and -key")
	}
	m, err := keys.DeriveHex(privateKeyHex, agentDID)
	if err != nil {
		return nil, err
	}
	defer m.Zero()
	return append([]byte(nil), m.AgentKey[:]...), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
