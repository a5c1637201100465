// Package awsfiles writes the AWS CLI shared credentials and config files
// that aws and ecs-cli read, and the IAM documents the ECS workflow needs.
package awsfiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws/arn"
	"gopkg.in/ini.v1"
)

const (
	CredentialsFilename = "credentials"
	ConfigFilename      = "config"
	DefaultProfile      = "default"

	// TaskExecutionPolicyARN is the managed policy attached to the task execution role.
	TaskExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"
)

// Profile is one set of static credentials plus the default region.
type Profile struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// Files locates the INI files written for a run.
type Files struct {
	Dir string
}

func (f Files) CredentialsPath() string { return filepath.Join(f.Dir, CredentialsFilename) }
func (f Files) ConfigPath() string      { return filepath.Join(f.Dir, ConfigFilename) }

// Env returns the variables that point the AWS CLI and ecs-cli at the files.
func (f Files) Env() []string {
	return []string{
		"AWS_SHARED_CREDENTIALS_FILE=" + f.CredentialsPath(),
		"AWS_CONFIG_FILE=" + f.ConfigPath(),
		"AWS_PROFILE=" + DefaultProfile,
	}
}

// Write creates or replaces the credentials and config files for p.
func (f Files) Write(p Profile) error {
	if p.AccessKeyID == "" || p.SecretAccessKey == "" {
		return fmt.Errorf("aws: access key id and secret access key are required")
	}
	if err := os.MkdirAll(f.Dir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", f.Dir, err)
	}

	creds := ini.Empty()
	sec := creds.Section(DefaultProfile)
	sec.Key("aws_access_key_id").SetValue(p.AccessKeyID)
	sec.Key("aws_secret_access_key").SetValue(p.SecretAccessKey)
	if err := saveTo(creds, f.CredentialsPath()); err != nil {
		return err
	}

	cfg := ini.Empty()
	cfg.Section(DefaultProfile).Key("region").SetValue(p.Region)
	cfg.Section(DefaultProfile).Key("output").SetValue("json")
	return saveTo(cfg, f.ConfigPath())
}

// Remove deletes the directory holding the files.
func (f Files) Remove() error {
	if f.Dir == "" {
		return nil
	}
	return os.RemoveAll(f.Dir)
}

func saveTo(file *ini.File, path string) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := file.WriteTo(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string            `json:"Sid,omitempty"`
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal"`
	Action    string            `json:"Action"`
}

// TaskExecutionTrustPolicy returns the assume-role policy letting ECS tasks
// use the task execution role.
func TaskExecutionTrustPolicy() ([]byte, error) {
	return json.MarshalIndent(policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string]string{"Service": "ecs-tasks.amazonaws.com"},
			Action:    "sts:AssumeRole",
		}},
	}, "", "  ")
}

// RoleARN extracts Role.Arn from the JSON printed by
// `aws iam create-role` or `aws iam get-role`.
func RoleARN(output string) (string, error) {
	var out struct {
		Role struct {
			Arn string `json:"Arn"`
		} `json:"Role"`
	}
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		return "", fmt.Errorf("decoding role output: %w", err)
	}
	if out.Role.Arn == "" {
		return "", errors.New("role output has no Arn")
	}
	return out.Role.Arn, nil
}

// ParseRoleARN checks that s is the ARN of the IAM role roleName, with or
// without a path.
func ParseRoleARN(s, roleName string) (arn.ARN, error) {
	a, err := arn.Parse(s)
	if err != nil {
		return arn.ARN{}, fmt.Errorf("invalid role ARN %q: %w", s, err)
	}
	if a.Service != "iam" {
		return arn.ARN{}, fmt.Errorf("invalid role ARN %q: service is %q, want iam", s, a.Service)
	}
	if !strings.HasPrefix(a.Resource, "role/") || !strings.HasSuffix(a.Resource, "/"+roleName) {
		return arn.ARN{}, fmt.Errorf("ARN %q does not name role %s", s, roleName)
	}
	return a, nil
}
