package scrape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ecsUpOutput = `INFO[0000] Created cluster                               cluster=jupyter region=us-east-1
INFO[0001] Waiting for your cluster resources to be created...
INFO[0001] Cloudformation stack status                   stackStatus=CREATE_IN_PROGRESS
VPC created: vpc-0a1b2c3d4e5f60718
Subnet created: subnet-0123456789abcdef0
Subnet created: subnet-0fedcba9876543210
Cluster creation succeeded.
`

func TestSubnetAndVPC(t *testing.T) {
	v, ok := Extract("Subnet created: subnet-0123456789abcdef0", Subnet)
	require.True(t, ok)
	assert.Equal(t, "subnet-0123456789abcdef0", v)

	subnets, err := RequireN(ecsUpOutput, Subnet, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"subnet-0123456789abcdef0", "subnet-0fedcba9876543210"}, subnets)

	vpc, err := Require(ecsUpOutput, VPC)
	require.NoError(t, err)
	assert.Equal(t, "vpc-0a1b2c3d4e5f60718", vpc)
}

func TestRequireN_Missing(t *testing.T) {
	_, err := RequireN("Subnet created: subnet-0123456789abcdef0\n", Subnet, 2)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 2, nf.Want)
	assert.Equal(t, 1, nf.Got)
	assert.Contains(t, err.Error(), "expected 2 subnet id values")
}

func TestRequire_Missing(t *testing.T) {
	_, err := Require("Cluster creation succeeded.", VPC)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "VPC id", nf.Pattern)
}

func TestIPv4(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"plain", "167.99.10.4\n", "167.99.10.4", true},
		{"service ps", "jupyter/abc/jupyter  RUNNING  54.12.7.201:8888->8888/tcp  jupyter:1", "54.12.7.201", true},
		{"skips invalid", "999.1.1.1 then 10.0.0.8", "10.0.0.8", true},
		{"none", "Host is not running", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text, IPv4)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecurityGroup(t *testing.T) {
	out := `{
    "SecurityGroups": [
        {
            "Description": "default VPC security group",
            "GroupName": "default",
            "GroupId": "sg-0b2c3d4e5f6a7b8c9",
            "VpcId": "vpc-0a1b2c3d4e5f60718"
        }
    ]
}`
	v, err := Require(out, SecurityGroup)
	require.NoError(t, err)
	assert.Equal(t, "sg-0b2c3d4e5f6a7b8c9", v)
}

func TestNotebookProxy(t *testing.T) {
	out := `metadata:
  items:
  - key: proxy-mode
    value: project_editors
  - key: proxy-url
    value: 1a2b3c4d5e6f7-dot-us-west1.notebooks.googleusercontent.com
`
	v, ok := Extract(out, NotebookProxy)
	require.True(t, ok)
	assert.Equal(t, "1a2b3c4d5e6f7-dot-us-west1.notebooks.googleusercontent.com", v)

	_, ok = Extract("value: project_editors", NotebookProxy)
	assert.False(t, ok)
}

func TestURL(t *testing.T) {
	line := "    https://accounts.google.com/o/oauth2/auth?response_type=code&client_id=32555940559.apps.googleusercontent.com"
	v, ok := Extract(line, URL)
	require.True(t, ok)
	assert.Equal(t, "https://accounts.google.com/o/oauth2/auth?response_type=code&client_id=32555940559.apps.googleusercontent.com", v)
}

func TestExports(t *testing.T) {
	out := `export DOCKER_TLS_VERIFY="1"
export DOCKER_HOST="tcp://167.99.10.4:2376"
export DOCKER_CERT_PATH="/root/.docker/machine/machines/jupyter"
export DOCKER_MACHINE_NAME="jupyter"
# Run this command to configure your shell:
# eval $(docker-machine env --shell bash jupyter)
`
	assert.Equal(t, []string{
		"DOCKER_TLS_VERIFY=1",
		"DOCKER_HOST=tcp://167.99.10.4:2376",
		"DOCKER_CERT_PATH=/root/.docker/machine/machines/jupyter",
		"DOCKER_MACHINE_NAME=jupyter",
	}, Exports(out))
}
