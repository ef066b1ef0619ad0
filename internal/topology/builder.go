package topology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Final address octets must stay within a /24; the offset base plus the
// highest node id may not exceed this.
const maxHostOctet = 255

var (
	// ErrInvalidTopology indicates the topology description cannot produce
	// a valid fleet (e.g. a non-positive node count).
	ErrInvalidTopology = errors.New("invalid topology")

	// ErrAddressSpaceExhausted indicates the address offset range cannot
	// fit the requested node count.
	ErrAddressSpaceExhausted = errors.New("address space exhausted")
)

// NodeSpec describes a single node in the fleet. It is immutable once
// built: ids are dense starting at 1, and the address is injective in
// the id.
type NodeSpec struct {
	ID          int
	Hostname    string
	Address     string
	ExtraParams map[string]string
}

// Build derives the ordered node specifications for a fleet of count
// nodes. Hostnames are hostnamePrefix+id (lowercased); addresses are
// baseAddressPrefix."."(addressOffsetBase+id). The returned slice is
// ordered by ascending id.
func Build(count int, baseAddressPrefix string, addressOffsetBase int, hostnamePrefix string) ([]NodeSpec, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: node count must be positive, got %d", ErrInvalidTopology, count)
	}
	if baseAddressPrefix == "" {
		return nil, fmt.Errorf("%w: base address prefix is required", ErrInvalidTopology)
	}
	if hostnamePrefix == "" {
		return nil, fmt.Errorf("%w: hostname prefix is required", ErrInvalidTopology)
	}
	if addressOffsetBase < 0 {
		return nil, fmt.Errorf("%w: address offset base must not be negative, got %d", ErrInvalidTopology, addressOffsetBase)
	}
	if addressOffsetBase+count > maxHostOctet {
		return nil, fmt.Errorf("%w: offset base %d plus count %d exceeds %d",
			ErrAddressSpaceExhausted, addressOffsetBase, count, maxHostOctet)
	}

	specs := make([]NodeSpec, 0, count)
	for id := 1; id <= count; id++ {
		specs = append(specs, NodeSpec{
			ID:       id,
			Hostname: strings.ToLower(hostnamePrefix + strconv.Itoa(id)),
			Address:  fmt.Sprintf("%s.%d", baseAddressPrefix, addressOffsetBase+id),
			ExtraParams: map[string]string{
				"machine_id": strconv.Itoa(id),
			},
		})
	}

	return specs, nil
}
