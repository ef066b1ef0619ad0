// Package wizard interactively collects a topology description for
// 'orchestrate init'.
package wizard

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/routerlab/orchestrate/internal/config"
)

// hostnamePrefixRegex: lowercase alphanumeric with hyphens, must not
// end in a hyphen (the node id is appended).
var hostnamePrefixRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// Result holds the wizard answers.
type Result struct {
	Count             int
	BaseAddressPrefix string
	AddressOffsetBase int
	HostnamePrefix    string
	BaseImage         string
	PlaybookRef       string
	SSHKeyPath        string
}

// Run prompts for the topology basics.
func Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	var countInput, offsetInput string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node Count").
				Description("Number of router nodes in the fleet").
				Placeholder("3").
				Value(&countInput).
				Validate(ValidateCount),
			huh.NewInput().
				Title("Base Address Prefix").
				Description("First three octets of the lab network").
				Placeholder("172.28.128").
				Value(&result.BaseAddressPrefix).
				Validate(ValidateAddressPrefix),
			huh.NewInput().
				Title("Address Offset Base").
				Description("Added to each node id to form the final octet").
				Placeholder("10").
				Value(&offsetInput).
				Validate(ValidateOffsetBase),
			huh.NewInput().
				Title("Hostname Prefix").
				Description("Node hostnames are prefix + id").
				Placeholder("quagga").
				Value(&result.HostnamePrefix).
				Validate(ValidateHostnamePrefix),
		).Title("Fleet Topology"),
		huh.NewGroup(
			huh.NewInput().
				Title("Base Image").
				Placeholder(config.DefaultBaseImage).
				Value(&result.BaseImage),
			huh.NewInput().
				Title("Playbook").
				Description("Playbook applied to every node").
				Placeholder("site.yml").
				Value(&result.PlaybookRef).
				Validate(required("playbook")),
			huh.NewInput().
				Title("SSH Key Path").
				Description("Private key used to reach the nodes").
				Placeholder("~/.ssh/id_ed25519").
				Value(&result.SSHKeyPath),
		).Title("Provisioning"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	// Validators already guaranteed these parse.
	result.Count, _ = strconv.Atoi(strings.TrimSpace(countInput))
	result.AddressOffsetBase, _ = strconv.Atoi(strings.TrimSpace(offsetInput))

	return result, nil
}

// ToTopology converts the answers into a loadable topology.
func (r *Result) ToTopology() *config.Topology {
	return &config.Topology{
		Count:             r.Count,
		BaseAddressPrefix: r.BaseAddressPrefix,
		AddressOffsetBase: r.AddressOffsetBase,
		HostnamePrefix:    r.HostnamePrefix,
		BaseImage:         r.BaseImage,
		Playbook:          config.Playbook{Ref: r.PlaybookRef},
		SSH:               config.SSH{KeyPath: r.SSHKeyPath},
	}
}

// ValidateCount accepts positive integers.
func ValidateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// ValidateOffsetBase accepts integers in [0, 254].
func ValidateOffsetBase(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 0 || n > 254 {
		return fmt.Errorf("must be between 0 and 254")
	}
	return nil
}

// ValidateAddressPrefix accepts the first three octets of an IPv4
// address.
func ValidateAddressPrefix(s string) error {
	s = strings.TrimSpace(s)
	if strings.Count(s, ".") != 2 {
		return fmt.Errorf("expected three octets, e.g. 172.28.128")
	}
	if net.ParseIP(s+".0") == nil {
		return fmt.Errorf("not a valid address prefix")
	}
	return nil
}

// ValidateHostnamePrefix accepts lowercase DNS-label-style prefixes.
func ValidateHostnamePrefix(s string) error {
	if !hostnamePrefixRegex.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("lowercase letters, digits and hyphens only")
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
