package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/routerlab/orchestrate/internal/provisioner"
	"github.com/routerlab/orchestrate/internal/util/retry"
)

// labAddressLabel records the node's lab network address on the server,
// so the fleet can be reconciled against what actually exists.
const labAddressLabel = "routerlab/address"

// CreateOrReuseInstance returns the server named hostname, creating it
// from baseImage if it does not exist. Reuse is keyed on the server
// name only: a server left behind by a partially failed run is picked
// up again rather than recreated.
func (c *Client) CreateOrReuseInstance(ctx context.Context, hostname, address, baseImage string) (provisioner.InstanceHandle, error) {
	existing, _, err := c.client.Server.GetByName(ctx, hostname)
	if err != nil {
		return provisioner.InstanceHandle{}, fmt.Errorf("failed to look up server %s: %w", hostname, err)
	}
	if existing != nil {
		return c.handleFor(existing, address), nil
	}

	server, err := c.createServer(ctx, hostname, address, baseImage)
	if err != nil {
		return provisioner.InstanceHandle{}, err
	}
	return c.handleFor(server, address), nil
}

func (c *Client) createServer(ctx context.Context, hostname, address, baseImage string) (*hcloud.Server, error) {
	opts, err := c.buildCreateOpts(ctx, hostname, address, baseImage)
	if err != nil {
		return nil, err
	}

	var result hcloud.ServerCreateResult
	err = retry.Do(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxAttempts(c.retryAttempts), retry.WithInitialDelay(c.retryDelay))
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", hostname, err)
	}

	if result.Action != nil && result.Action.Status == hcloud.ActionStatusRunning {
		if err := c.client.Action.WaitFor(ctx, result.Action); err != nil {
			return nil, fmt.Errorf("failed to wait for server creation: %w", err)
		}
	}

	return result.Server, nil
}

func (c *Client) buildCreateOpts(ctx context.Context, hostname, address, baseImage string) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, c.serverType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", c.serverType)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, baseImage, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("base image not found: %s", baseImage)
	}

	location, _, err := c.client.Location.Get(ctx, c.location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", c.location)
	}

	labels := map[string]string{labAddressLabel: address}
	for k, v := range c.labels {
		labels[k] = v
	}

	return hcloud.ServerCreateOpts{
		Name:       hostname,
		ServerType: serverType,
		Image:      image,
		Location:   location,
		Labels:     labels,
	}, nil
}

// handleFor builds the instance handle. The playbook pass reaches the
// node over its public IP; the lab address only exists inside the
// topology.
func (c *Client) handleFor(server *hcloud.Server, labAddress string) provisioner.InstanceHandle {
	address := labAddress
	if server.PublicNet.IPv4.IP != nil {
		address = server.PublicNet.IPv4.IP.String()
	}
	return provisioner.InstanceHandle{
		ID:       strconv.FormatInt(server.ID, 10),
		Hostname: server.Name,
		Address:  address,
	}
}
