package ssh

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/routerlab/orchestrate/internal/provisioner"
	"github.com/routerlab/orchestrate/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxAttempts = 30
	defaultRetryDelay  = 5 * time.Second
	defaultMaxDelay    = 15 * time.Second
)

// Config holds the SSH settings used to reach every node.
type Config struct {
	User       string
	Port       int
	PrivateKey []byte

	// DialTimeout bounds the TCP connect; retries cover the window in
	// which a freshly created instance is still booting.
	DialTimeout time.Duration
	MaxAttempts int
	RetryDelay  time.Duration

	// HostKeyCallback handles host key verification. Nil means
	// ssh.InsecureIgnoreHostKey, acceptable for ephemeral lab nodes.
	HostKeyCallback ssh.HostKeyCallback
}

// Runner applies playbooks to nodes over SSH. It implements
// provisioner.PlaybookRunner.
type Runner struct {
	config Config
	signer ssh.Signer
}

// NewRunner validates the key material and returns a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("ssh private key cannot be empty")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // lab nodes are ephemeral
	}

	signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Runner{config: cfg, signer: signer}, nil
}

// ApplyPlaybook connects to the instance and runs the configuration
// pass. The dial retries while the instance finishes booting.
func (r *Runner) ApplyPlaybook(ctx context.Context, handle provisioner.InstanceHandle, playbookRef string, params map[string]string) error {
	client, err := r.connect(ctx, handle.Address)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	command := buildCommand(playbookRef, params)

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session on %s: %w", handle.Hostname, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return fmt.Errorf("configuration pass failed on %s: %w\noutput: %s", handle.Hostname, err, string(output))
	}
	return nil
}

func (r *Runner) connect(ctx context.Context, host string) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User:            r.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(r.signer)},
		HostKeyCallback: r.config.HostKeyCallback,
		Timeout:         r.config.DialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", host, r.config.Port)
	var client *ssh.Client

	err := retry.Do(ctx, func() error {
		var dialErr error
		client, dialErr = ssh.Dial("tcp", addr, clientConfig)
		return dialErr
	},
		retry.WithMaxAttempts(r.config.MaxAttempts),
		retry.WithInitialDelay(r.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s over SSH: %w", addr, err)
	}

	return client, nil
}

// buildCommand renders the remote configuration command. Params are
// sorted so repeated applies run the identical command.
func buildCommand(playbookRef string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var extraVars strings.Builder
	for i, k := range keys {
		if i > 0 {
			extraVars.WriteByte(' ')
		}
		fmt.Fprintf(&extraVars, "%s=%s", k, params[k])
	}

	cmd := fmt.Sprintf("ansible-playbook --connection=local %s", shellQuote(playbookRef))
	if extraVars.Len() > 0 {
		cmd += fmt.Sprintf(" --extra-vars %s", shellQuote(extraVars.String()))
	}
	return cmd
}

// shellQuote single-quotes a string for the remote shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
