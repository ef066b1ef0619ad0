package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTopologyYAML = `
count: 3
base_address_prefix: "172.28.128"
address_offset_base: 10
hostname_prefix: quagga
playbook:
  ref: site.yml
  extra_vars:
    lab_domain: lab.example.net
`

func TestLoadFromBytes_Valid(t *testing.T) {
	topo, err := LoadFromBytes([]byte(validTopologyYAML))
	require.NoError(t, err)

	assert.Equal(t, 3, topo.Count)
	assert.Equal(t, "172.28.128", topo.BaseAddressPrefix)
	assert.Equal(t, 10, topo.AddressOffsetBase)
	assert.Equal(t, "quagga", topo.HostnamePrefix)
	assert.Equal(t, "site.yml", topo.Playbook.Ref)
	assert.Equal(t, "lab.example.net", topo.Playbook.ExtraVars["lab_domain"])
}

func TestLoadFromBytes_AppliesDefaults(t *testing.T) {
	topo, err := LoadFromBytes([]byte(validTopologyYAML))
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxParallel, topo.MaxParallel)
	assert.Equal(t, DefaultBaseImage, topo.BaseImage)
	assert.Equal(t, DefaultServerType, topo.ServerType)
	assert.Equal(t, DefaultLocation, topo.Location)
	assert.Equal(t, DefaultSSHUser, topo.SSH.User)
}

func TestLoadFromBytes_ExplicitValuesWin(t *testing.T) {
	yaml := validTopologyYAML + `
max_parallel: 2
base_image: debian-13
ssh:
  user: lab
  key_path: /tmp/key
`
	topo, err := LoadFromBytes([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, 2, topo.MaxParallel)
	assert.Equal(t, "debian-13", topo.BaseImage)
	assert.Equal(t, "lab", topo.SSH.User)
	assert.Equal(t, "/tmp/key", topo.SSH.KeyPath)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero count", `
count: 0
base_address_prefix: "172.28.128"
hostname_prefix: quagga
playbook: {ref: site.yml}
`},
		{"negative count", `
count: -1
base_address_prefix: "172.28.128"
hostname_prefix: quagga
playbook: {ref: site.yml}
`},
		{"missing address prefix", `
count: 3
hostname_prefix: quagga
playbook: {ref: site.yml}
`},
		{"missing hostname prefix", `
count: 3
base_address_prefix: "172.28.128"
playbook: {ref: site.yml}
`},
		{"missing playbook ref", `
count: 3
base_address_prefix: "172.28.128"
hostname_prefix: quagga
`},
		{"negative max parallel", `
count: 3
base_address_prefix: "172.28.128"
hostname_prefix: quagga
max_parallel: -2
playbook: {ref: site.yml}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidTopology)
		})
	}
}

func TestLoadFromBytes_MalformedYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("count: [not an int"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orchestrate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTopologyYAML), 0o600))

	topo, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, topo.Count)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit/path.yaml", ResolvePath("/explicit/path.yaml"))
	assert.Equal(t, DefaultConfigFilename, filepath.Base(ResolvePath("")))
}
