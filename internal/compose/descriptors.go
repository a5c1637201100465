// Package compose generates and checks the ECS descriptors handed to
// `ecs-cli compose`: docker-compose.yml and ecs-params.yml.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/credstore"
)

const (
	ComposeFilename   = "docker-compose.yml"
	ECSParamsFilename = "ecs-params.yml"
	ProjectName       = "jupyter"
	ServiceName       = "jupyter"
	// TaskExecutionRole is the IAM role ECS tasks run under.
	TaskExecutionRole = "ecsTaskExecutionRole"
	// JupyterPort is the container port JupyterLab listens on.
	JupyterPort = 8888
)

type composeFile struct {
	Version  string                    `yaml:"version"`
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image       string   `yaml:"image"`
	Ports       []string `yaml:"ports"`
	Environment []string `yaml:"environment"`
}

type ecsParams struct {
	Version        int            `yaml:"version"`
	TaskDefinition taskDefinition `yaml:"task_definition"`
	RunParams      runParams      `yaml:"run_params"`
}

type taskDefinition struct {
	TaskExecutionRole string   `yaml:"task_execution_role"`
	NetworkMode       string   `yaml:"ecs_network_mode"`
	TaskSize          taskSize `yaml:"task_size"`
}

type taskSize struct {
	MemLimit string `yaml:"mem_limit"`
	CPULimit int    `yaml:"cpu_limit"`
}

type runParams struct {
	NetworkConfiguration networkConfiguration `yaml:"network_configuration"`
}

type networkConfiguration struct {
	AwsvpcConfiguration awsvpcConfiguration `yaml:"awsvpc_configuration"`
}

type awsvpcConfiguration struct {
	Subnets        []string `yaml:"subnets"`
	SecurityGroups []string `yaml:"security_groups"`
	AssignPublicIP string   `yaml:"assign_public_ip"`
}

// Descriptors holds the rendered files.
type Descriptors struct {
	Compose   []byte
	ECSParams []byte
}

// ComposeFile renders docker-compose.yml running image with the given login token.
func ComposeFile(image, token string) ([]byte, error) {
	if image == "" {
		return nil, fmt.Errorf("compose: image must not be empty")
	}
	cf := composeFile{
		Version: "3",
		Services: map[string]composeService{
			ServiceName: {
				Image: image,
				Ports: []string{fmt.Sprintf("%d:%d", JupyterPort, JupyterPort)},
				Environment: []string{
					"JUPYTER_TOKEN=" + escapeInterpolation(token),
					"JUPYTER_ENABLE_LAB=yes",
				},
			},
		},
	}
	return marshal(cf)
}

// ECSParamsFile renders ecs-params.yml for a Fargate task in the given network.
func ECSParamsFile(topo model.ClusterTopology) ([]byte, error) {
	if topo.SubnetIDs[0] == "" || topo.SubnetIDs[1] == "" || topo.SecurityGroupID == "" {
		return nil, fmt.Errorf("ecs-params: two subnets and a security group are required")
	}
	p := ecsParams{
		Version: 1,
		TaskDefinition: taskDefinition{
			TaskExecutionRole: TaskExecutionRole,
			NetworkMode:       "awsvpc",
			TaskSize:          taskSize{MemLimit: "0.5GB", CPULimit: 256},
		},
		RunParams: runParams{
			NetworkConfiguration: networkConfiguration{
				AwsvpcConfiguration: awsvpcConfiguration{
					Subnets:        []string{topo.SubnetIDs[0], topo.SubnetIDs[1]},
					SecurityGroups: []string{topo.SecurityGroupID},
					AssignPublicIP: "ENABLED",
				},
			},
		},
	}
	return marshal(p)
}

// Render builds and validates both descriptors.
func Render(ctx context.Context, image, token string, topo model.ClusterTopology) (*Descriptors, error) {
	c, err := ComposeFile(image, token)
	if err != nil {
		return nil, err
	}
	if _, err := LoadProject(ctx, c); err != nil {
		return nil, err
	}
	p, err := ECSParamsFile(topo)
	if err != nil {
		return nil, err
	}
	return &Descriptors{Compose: c, ECSParams: p}, nil
}

// Write stores both descriptors in dir. The compose file carries the login
// token, so both are private to the user.
func (d *Descriptors) Write(dir string) error {
	if err := credstore.WriteFile(dir, ComposeFilename, d.Compose, 0o600); err != nil {
		return err
	}
	return credstore.WriteFile(dir, ECSParamsFilename, d.ECSParams, 0o600)
}

// CopyDescriptors copies previously written descriptors from src to dst.
func CopyDescriptors(src, dst string) error {
	for _, name := range []string{ComposeFilename, ECSParamsFilename} {
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if err := credstore.WriteFile(dst, name, data, 0o600); err != nil {
			return err
		}
	}
	return nil
}

func marshal(v any) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// escapeInterpolation keeps compose from expanding $ in literal values.
func escapeInterpolation(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
