// Package ssh implements the configuration-management boundary: it
// applies a playbook to a live node by running the configuration pass
// over SSH. The playbooks are baked into the base image; each node
// executes its own pass locally, parameterized with the node's extra
// params as Ansible extra-vars.
package ssh
