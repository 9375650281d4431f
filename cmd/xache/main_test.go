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

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xache-protocol/xache-go/pkg/fingerprint"
)

const (
	testEVMKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testEVMDID = "did:agent:evm:0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	testSolKey = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testSolDID = "did:agent:sol:FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z"

	zeroAgentKey = "0000000000000000000000000000000000000000000000000000000000000000"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"XACHE_DID", "XACHE_PRIVATE_KEY", "XACHE_API_URL"} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, strings.TrimSpace(stdout.String()), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	clearEnv(t)

	code, _, stderr := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: xache")

	code, _, stderr = runCLI(t, "bogus")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "bogus"`)
}

func TestRun_DID(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "did", "-chain", "evm", "-key", testEVMKey)
	require.Equal(t, 0, code)
	assert.Equal(t, testEVMDID, out)

	code, out, _ = runCLI(t, "did", "-chain", "sol", "-key", testSolKey)
	require.Equal(t, 0, code)
	assert.Equal(t, testSolDID, out)

	code, _, stderr := runCLI(t, "did", "-chain", "btc", "-key", testEVMKey)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "did:")
}

func TestRun_Sign(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "sign",
		"-did", testEVMDID, "-key", testEVMKey,
		"-method", "post", "-path", "/v1/memory/store",
		"-body", `{"content":"hello"}`, "-ts", "1700000000000")

	require.Equal(t, 0, code)
	assert.Equal(t,
		"519f744453bff89100400dcb0cb407755df31c33838cd84cbc707bb34b9b41dd"+
			"6d0547aa5776b319ff3afc9fdc63e5e49cdbbe67f391d5d5ff0c1ba65d9ad7181c",
		out)
}

func TestRun_SignUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("XACHE_DID", testSolDID)
	t.Setenv("XACHE_PRIVATE_KEY", testSolKey)

	code, out, _ := runCLI(t, "sign", "-method", "POST", "-path", "/v1/memory/store",
		"-body", `{"content":"hello"}`, "-ts", "1700000000000")

	require.Equal(t, 0, code)
	assert.Equal(t,
		"2d80d457570bb32925c81aba73be081a88193a31e1abee524bab6981ae3c640c"+
			"49d9abc815e790dbbb2a99c2e68080af7b36c0b90d09cd90b16c9eaa8bf80500",
		out)
}

func TestRun_SignMissingPath(t *testing.T) {
	clearEnv(t)

	code, _, stderr := runCLI(t, "sign", "-did", testEVMDID, "-key", testEVMKey)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing -path")
}

func TestRun_HeadersThenVerify(t *testing.T) {
	clearEnv(t)
	body := `{"content":"hello"}`

	code, out, _ := runCLI(t, "headers",
		"-did", testEVMDID, "-key", testEVMKey,
		"-method", "POST", "-path", "/v1/memory/store", "-body", body,
		"-idempotency-key", "auto")
	require.Equal(t, 0, code)

	var headers map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &headers))
	assert.Equal(t, testEVMDID, headers["X-Agent-DID"])
	assert.NotEmpty(t, headers["Idempotency-Key"])

	code, out, _ = runCLI(t, "verify",
		"-did", headers["X-Agent-DID"], "-sig", headers["X-Sig"], "-ts", headers["X-Ts"],
		"-method", "POST", "-path", "/v1/memory/store", "-body", body)
	require.Equal(t, 0, code)
	assert.Equal(t, "OK", out)

	code, _, stderr := runCLI(t, "verify",
		"-did", headers["X-Agent-DID"], "-sig", headers["X-Sig"], "-ts", headers["X-Ts"],
		"-method", "POST", "-path", "/v1/memory/store", "-body", `{"content":"tampered"}`)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "signature verification failed")
}

func TestRun_SubjectAndEntity(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "subject", "-agent-key", zeroAgentKey, "-id", "user-123")
	require.Equal(t, 0, code)
	assert.Equal(t, "7bb4ddc8278b598e4a6e2171d97279153b187be7dde79b6e9620f7ece4075a16", out)

	code, out, _ = runCLI(t, "subject", "-agent-key", zeroAgentKey, "-id", "user-123", "-tenant", "acme")
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"scope":"SUBJECT","subjectId":"7bb4ddc8278b598e4a6e2171d97279153b187be7dde79b6e9620f7ece4075a16","tenantId":"acme"}`, out)

	code, out, _ = runCLI(t, "entity", "-agent-key", zeroAgentKey, "-name", "  Alice Chen ")
	require.Equal(t, 0, code)
	assert.Equal(t, "e5b8161f27d8a94bec105889c631ffa89f452568db67dea8df111ae5b98f4929", out)
}

func TestRun_SubjectNeedsKey(t *testing.T) {
	clearEnv(t)

	code, _, stderr := runCLI(t, "subject", "-id", "user-123")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "need -agent-key")
}

func TestRun_Fingerprint(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "fingerprint", "-agent-key", zeroAgentKey,
		"-content", "The meeting happened yesterday in Paris", "-metadata")
	require.Equal(t, 0, code)

	var meta fingerprint.Metadata
	require.NoError(t, json.Unmarshal([]byte(out), &meta))
	assert.Equal(t, fingerprint.Version, meta.Version)
	assert.Equal(t, fingerprint.CategoryEvent, meta.Category)
	assert.Equal(t, [fingerprint.NumTopics]uint16{8751, 9507, 18363, 61679}, meta.TopicHashes)
}

func TestRun_FingerprintFromDerivedKey(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "fingerprint", "-did", testEVMDID, "-key", testEVMKey,
		"-content", "Alice prefers tea")
	require.Equal(t, 0, code)

	var fp fingerprint.Fingerprint
	require.NoError(t, json.Unmarshal([]byte(out), &fp))
	assert.Equal(t, fingerprint.CategoryPreference, fp.Category)
	assert.Contains(t, fp.Concepts, "tea")
}

func TestRun_Version(t *testing.T) {
	clearEnv(t)

	code, out, _ := runCLI(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"fingerprintVersion": "cog-v1"`)
}
