package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func testPrivateKey(t *testing.T) []byte {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	return pem.EncodeToMemory(block)
}

func TestNewRunner_Valid(t *testing.T) {
	runner, err := NewRunner(Config{User: "root", PrivateKey: testPrivateKey(t)})
	require.NoError(t, err)

	assert.Equal(t, defaultPort, runner.config.Port)
	assert.Equal(t, defaultDialTimeout, runner.config.DialTimeout)
	assert.Equal(t, defaultMaxAttempts, runner.config.MaxAttempts)
	assert.Equal(t, defaultRetryDelay, runner.config.RetryDelay)
	assert.NotNil(t, runner.config.HostKeyCallback)
}

func TestNewRunner_Invalid(t *testing.T) {
	_, err := NewRunner(Config{PrivateKey: testPrivateKey(t)})
	assert.ErrorContains(t, err, "user cannot be empty")

	_, err = NewRunner(Config{User: "root"})
	assert.ErrorContains(t, err, "private key cannot be empty")

	_, err = NewRunner(Config{User: "root", PrivateKey: []byte("not a key")})
	assert.ErrorContains(t, err, "failed to parse private key")
}

func TestBuildCommand_SortsParams(t *testing.T) {
	cmd := buildCommand("site.yml", map[string]string{
		"machine_id": "3",
		"lab_domain": "lab.example.net",
	})
	assert.Equal(t,
		`ansible-playbook --connection=local 'site.yml' --extra-vars 'lab_domain=lab.example.net machine_id=3'`,
		cmd)
}

func TestBuildCommand_Deterministic(t *testing.T) {
	params := map[string]string{"c": "3", "a": "1", "b": "2"}
	first := buildCommand("site.yml", params)
	for range 10 {
		assert.Equal(t, first, buildCommand("site.yml", params))
	}
}

func TestBuildCommand_NoParams(t *testing.T) {
	assert.Equal(t,
		`ansible-playbook --connection=local 'site.yml'`,
		buildCommand("site.yml", nil))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, shellQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
