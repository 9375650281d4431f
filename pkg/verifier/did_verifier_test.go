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

package verifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/errdefs"
	"github.com/xache-protocol/xache-go/pkg/signer"
)

const (
	testEVMKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testEVMDID = "did:agent:evm:0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	testSolKey = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testSolDID = "did:agent:sol:FVen3X669xLzsi6N2V91DoiyzHzg1uAgqiT8jZ9nS96Z"

	testTimestamp = int64(1700000000000)
	testBody      = `{"content":"hello"}`
)

// mockSignatureVerifier is a mock for signature verification
type mockSignatureVerifier struct {
	verifyErr error
	verified  bool
	message   string
}

func (m *mockSignatureVerifier) VerifySignature(key PublicKey, message, sig []byte) error {
	m.message = string(message)
	if m.verifyErr != nil {
		return m.verifyErr
	}
	m.verified = true
	return nil
}

// mockKeySelector returns a fixed key or error
type mockKeySelector struct {
	key PublicKey
	err error
}

func (m *mockKeySelector) SelectKey(ctx context.Context, agentDID did.AgentDID) (PublicKey, error) {
	return m.key, m.err
}

func newTestVerifier(at int64) *DefaultDIDVerifier {
	v := NewDefaultDIDVerifier(nil, nil)
	v.SetClock(func() time.Time { return time.UnixMilli(at) })
	return v
}

func signedEnvelope(t *testing.T, agentDID, key, method, path, body string, ts int64) *Envelope {
	t.Helper()
	sig, err := signer.SignRequest(method, path, body, ts, agentDID, key)
	require.NoError(t, err)
	return &Envelope{AgentDID: agentDID, Signature: sig, Timestamp: ts}
}

func TestDefaultDIDVerifier_Verify_ValidEVM(t *testing.T) {
	// Setup
	v := newTestVerifier(testTimestamp)
	env := signedEnvelope(t, testEVMDID, testEVMKey, "POST", "/v1/memory/store", testBody, testTimestamp)

	// Execute
	err := v.Verify(context.Background(), env, "POST", "/v1/memory/store", testBody)

	// Assert
	assert.NoError(t, err)
}

func TestDefaultDIDVerifier_Verify_ValidSolana(t *testing.T) {
	// Setup
	v := newTestVerifier(testTimestamp)
	env := signedEnvelope(t, testSolDID, testSolKey, "POST", "/v1/memory/store", testBody, testTimestamp)

	// Execute
	err := v.Verify(context.Background(), env, "POST", "/v1/memory/store", testBody)

	// Assert
	assert.NoError(t, err)
}

func TestDefaultDIDVerifier_Verify_LowercaseEVMAddress(t *testing.T) {
	lower := strings.ToLower(testEVMDID)
	v := newTestVerifier(testTimestamp)
	env := signedEnvelope(t, lower, testEVMKey, "GET", "/v1/health", "", testTimestamp)

	assert.NoError(t, v.Verify(context.Background(), env, "GET", "/v1/health", ""))
}

func TestDefaultDIDVerifier_Verify_Tampered(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"Body", "POST", "/v1/memory/store", `{"content":"HELLO"}`},
		{"Path", "POST", "/v1/memory/store/", testBody},
		{"Method", "PUT", "/v1/memory/store", testBody},
	}

	for _, chain := range []struct{ did, key string }{{testEVMDID, testEVMKey}, {testSolDID, testSolKey}} {
		env := signedEnvelope(t, chain.did, chain.key, "POST", "/v1/memory/store", testBody, testTimestamp)
		for _, tt := range tests {
			t.Run(chain.did[:13]+"/"+tt.name, func(t *testing.T) {
				err := newTestVerifier(testTimestamp).Verify(context.Background(), env, tt.method, tt.path, tt.body)
				require.Error(t, err)
				assert.True(t, errors.Is(err, errdefs.ErrInvalidSignature))
			})
		}
	}
}

func TestDefaultDIDVerifier_Verify_WrongSigner(t *testing.T) {
	// Setup: signed by the test key, claimed by another address
	other := "did:agent:evm:0x0000000000000000000000000000000000000001"
	s, err := signer.NewPrivateKeySigner(did.ChainEVM, testEVMKey)
	require.NoError(t, err)
	sig, err := s.SignMessage(context.Background(), []byte(signer.BuildMessage("GET", "/v1/health", "", testTimestamp, other)))
	require.NoError(t, err)
	env := &Envelope{AgentDID: other, Signature: hexEncode(sig), Timestamp: testTimestamp}

	// Execute
	err = newTestVerifier(testTimestamp).Verify(context.Background(), env, "GET", "/v1/health", "")

	// Assert
	assert.True(t, errors.Is(err, errdefs.ErrInvalidSignature))
}

func TestDefaultDIDVerifier_Verify_TimestampWindow(t *testing.T) {
	env := signedEnvelope(t, testEVMDID, testEVMKey, "GET", "/v1/health", "", testTimestamp)
	window := signer.TimestampWindow.Milliseconds()

	for _, now := range []int64{testTimestamp - window, testTimestamp + window} {
		assert.NoError(t, newTestVerifier(now).Verify(context.Background(), env, "GET", "/v1/health", ""))
	}
	for _, now := range []int64{testTimestamp - window - 1, testTimestamp + window + 1} {
		err := newTestVerifier(now).Verify(context.Background(), env, "GET", "/v1/health", "")
		assert.True(t, errors.Is(err, errdefs.ErrClockSkew))
	}
}

func TestDefaultDIDVerifier_Verify_Errors(t *testing.T) {
	v := newTestVerifier(testTimestamp)
	ctx := context.Background()

	t.Run("Nil envelope", func(t *testing.T) {
		assert.True(t, errors.Is(v.Verify(ctx, nil, "GET", "/", ""), errdefs.ErrMissingHeaders))
	})

	t.Run("Bad DID", func(t *testing.T) {
		env := &Envelope{AgentDID: "did:agent:btc:x", Signature: "00", Timestamp: testTimestamp}
		assert.True(t, errors.Is(v.Verify(ctx, env, "GET", "/", ""), errdefs.ErrUnsupportedChain))
	})

	t.Run("Non-hex signature", func(t *testing.T) {
		env := &Envelope{AgentDID: testEVMDID, Signature: "zz", Timestamp: testTimestamp}
		assert.True(t, errors.Is(v.Verify(ctx, env, "GET", "/", ""), errdefs.ErrInvalidSignature))
	})

	t.Run("Short signature", func(t *testing.T) {
		env := &Envelope{AgentDID: testSolDID, Signature: "abcd", Timestamp: testTimestamp}
		assert.True(t, errors.Is(v.Verify(ctx, env, "GET", "/", ""), errdefs.ErrInvalidSignature))
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		env := signedEnvelope(t, testEVMDID, testEVMKey, "GET", "/", "", testTimestamp)
		assert.ErrorIs(t, v.Verify(cctx, env, "GET", "/", ""), context.Canceled)
	})
}

func TestDefaultDIDVerifier_Verify_UsesInjectedComponents(t *testing.T) {
	// Setup
	sigVerifier := &mockSignatureVerifier{}
	selector := &mockKeySelector{key: PublicKey{Chain: did.ChainEVM}}
	v := NewDefaultDIDVerifier(selector, sigVerifier)
	v.SetClock(func() time.Time { return time.UnixMilli(testTimestamp) })
	env := &Envelope{AgentDID: testEVMDID, Signature: "0xabcd", Timestamp: testTimestamp}

	// Execute
	err := v.Verify(context.Background(), env, "GET", "/v1/health", "")

	// Assert
	require.NoError(t, err)
	assert.True(t, sigVerifier.verified)
	assert.Equal(t, signer.BuildMessage("GET", "/v1/health", "", testTimestamp, testEVMDID), sigVerifier.message)

	selector.err = errors.New("registry down")
	err = v.Verify(context.Background(), env, "GET", "/v1/health", "")
	assert.ErrorContains(t, err, "registry down")
}

func TestDefaultDIDVerifier_VerifyRequest(t *testing.T) {
	// Setup
	a, err := auth.NewAssemblerFromPrivateKey(testEVMDID, testEVMKey,
		auth.WithClock(func() time.Time { return time.UnixMilli(testTimestamp) }))
	require.NoError(t, err)
	h, err := a.Headers(context.Background(), "GET", "/v1/memory?limit=5&cursor=a%2Fb", "")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/v1/memory?limit=5&cursor=a%2Fb", nil)
	h.Apply(req)

	// Execute
	agentDID, err := newTestVerifier(testTimestamp).VerifyRequest(context.Background(), req, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, did.AgentDID(testEVMDID), agentDID)
}

func TestDefaultDIDVerifier_VerifyRequest_ClientSideRequest(t *testing.T) {
	// Requests built with http.NewRequest have no RequestURI
	env := signedEnvelope(t, testSolDID, testSolKey, "POST", "/v1/memory/store", testBody, testTimestamp)
	req, err := http.NewRequest("POST", "https://api.example.com/v1/memory/store", strings.NewReader(testBody))
	require.NoError(t, err)
	req.Header.Set(auth.HeaderAgentDID, env.AgentDID)
	req.Header.Set(auth.HeaderSignature, env.Signature)
	req.Header.Set(auth.HeaderTimestamp, strconv.FormatInt(env.Timestamp, 10))

	_, err = newTestVerifier(testTimestamp).VerifyRequest(context.Background(), req, []byte(testBody))
	assert.NoError(t, err)
}

func TestParseHeaders(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		h := http.Header{}
		h.Set(auth.HeaderAgentDID, testEVMDID)
		h.Set(auth.HeaderSignature, "abcd")
		h.Set(auth.HeaderTimestamp, "1700000000000")
		h.Set(auth.HeaderIdempotencyKey, "chal_1")

		env, err := ParseHeaders(h)
		require.NoError(t, err)
		assert.Equal(t, &Envelope{
			AgentDID:       testEVMDID,
			Signature:      "abcd",
			Timestamp:      testTimestamp,
			IdempotencyKey: "chal_1",
		}, env)
	})

	t.Run("Missing", func(t *testing.T) {
		h := http.Header{}
		h.Set(auth.HeaderAgentDID, testEVMDID)

		_, err := ParseHeaders(h)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errdefs.ErrMissingHeaders))
		assert.Contains(t, err.Error(), auth.HeaderSignature)
		assert.Contains(t, err.Error(), auth.HeaderTimestamp)
	})

	t.Run("Bad timestamp", func(t *testing.T) {
		h := http.Header{}
		h.Set(auth.HeaderAgentDID, testEVMDID)
		h.Set(auth.HeaderSignature, "abcd")
		h.Set(auth.HeaderTimestamp, "yesterday")

		_, err := ParseHeaders(h)
		assert.True(t, errors.Is(err, errdefs.ErrInvalidFormat))
	})
}
