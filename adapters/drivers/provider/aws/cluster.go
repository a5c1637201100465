package aws

import (
	"context"
	"fmt"
	"path/filepath"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/awsfiles"
	"github.com/yaegashi/jupyterops/internal/compose"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/runner"
	"github.com/yaegashi/jupyterops/internal/scrape"
)

const (
	clusterName       = "jupyter"
	clusterConfigName = "jupyter-config"
	instanceRole      = "jupyter-profile"
	launchType        = "FARGATE"
	jupyterPort       = compose.JupyterPort

	trustPolicyFilename = "task-execution-assume-role.json"
)

func (d *driver) command(ctx context.Context, name string, args ...string) runner.Command {
	return runner.Command{
		Name:     name,
		Args:     args,
		Env:      d.files.Env(),
		Stderr:   runner.StderrDiagnostic,
		OnStdout: providerdrv.DebugLines(ctx),
		Secrets:  []string{d.secret, d.token},
	}
}

func (d *driver) run(ctx context.Context, name string, args ...string) (*runner.Result, error) {
	return d.deps.Runner.Run(ctx, d.command(ctx, name, args...))
}

// ensureTaskExecutionRole creates ecsTaskExecutionRole, or looks it up when
// it already exists, and attaches the managed execution policy. The trust
// policy is written into the AWS dir so it goes away with the profile.
func (d *driver) ensureTaskExecutionRole(ctx context.Context) error {
	return d.deps.Display.Spin(ctx, "Creating ecsTaskExecutionRole IAM role", func() error {
		policy, err := awsfiles.TaskExecutionTrustPolicy()
		if err != nil {
			return err
		}
		if err := credstore.WriteFile(d.files.Dir, trustPolicyFilename, policy, 0o600); err != nil {
			return err
		}
		policyURL := "file://" + filepath.Join(d.files.Dir, trustPolicyFilename)

		res, err := d.run(ctx, "aws", "iam", "--region", d.region, "create-role",
			"--role-name", compose.TaskExecutionRole,
			"--assume-role-policy-document", policyURL,
			"--output", "json")
		if err != nil {
			if !runner.ContainsText(err, "EntityAlreadyExists") {
				d.deps.Display.Failure("Error creating ecsTaskExecutionRole")
				return fmt.Errorf("creating %s: %w", compose.TaskExecutionRole, err)
			}
			logging.FromContext(ctx).Info(ctx, "role already exists", "role", compose.TaskExecutionRole)
			if res, err = d.run(ctx, "aws", "iam", "--region", d.region, "get-role",
				"--role-name", compose.TaskExecutionRole,
				"--output", "json"); err != nil {
				return fmt.Errorf("looking up %s: %w", compose.TaskExecutionRole, err)
			}
		}
		roleARN, err := awsfiles.RoleARN(res.Stdout)
		if err != nil {
			return fmt.Errorf("reading %s: %w", compose.TaskExecutionRole, err)
		}
		role, err := awsfiles.ParseRoleARN(roleARN, compose.TaskExecutionRole)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Info(ctx, "task execution role ready", "arn", roleARN, "account", role.AccountID)

		if _, err := d.run(ctx, "aws", "iam", "--region", d.region, "attach-role-policy",
			"--role-name", compose.TaskExecutionRole,
			"--policy-arn", awsfiles.TaskExecutionPolicyARN); err != nil {
			return fmt.Errorf("attaching policy to %s: %w", compose.TaskExecutionRole, err)
		}
		return nil
	})
}

func (d *driver) configureCluster(ctx context.Context) error {
	return d.deps.Display.Spin(ctx, "Configuring cluster", func() error {
		_, err := d.run(ctx, "ecs-cli", "configure",
			"--cluster", clusterName,
			"--default-launch-type", launchType,
			"--region", d.region,
			"--config-name", clusterConfigName)
		return err
	})
}

// clusterUp brings the cluster stack up and returns the two subnets and the
// VPC it created.
func (d *driver) clusterUp(ctx context.Context) (topo model.ClusterTopology, err error) {
	err = d.deps.Display.Spin(ctx, "Spinning up cluster. This may take a few minutes", func() error {
		res, err := d.run(ctx, "ecs-cli", "up", "--instance-role", instanceRole, "--cluster-config", clusterConfigName)
		if err != nil {
			return err
		}
		out := res.Combined()
		subnets, err := scrape.RequireN(out, scrape.Subnet, 2)
		if err != nil {
			return err
		}
		copy(topo.SubnetIDs[:], subnets)
		topo.VPCID, err = scrape.Require(out, scrape.VPC)
		return err
	})
	if err == nil {
		logging.FromContext(ctx).Info(ctx, "cluster up", "subnets", topo.SubnetIDs[:], "vpc", topo.VPCID)
	}
	return topo, err
}

func (d *driver) securityGroup(ctx context.Context, vpcID string) (id string, err error) {
	err = d.deps.Display.Spin(ctx, "Retrieving security group ID", func() error {
		res, err := d.run(ctx, "aws", "ec2", "describe-security-groups",
			"--filters", "Name=vpc-id,Values="+vpcID,
			"--region", d.region,
			"--output", "json")
		if err != nil {
			return err
		}
		id, err = scrape.Require(res.Stdout, scrape.SecurityGroup)
		return err
	})
	return id, err
}

// openNotebookPort allows inbound tcp/8888. An existing rule is fine.
func (d *driver) openNotebookPort(ctx context.Context, groupID string) error {
	return d.deps.Display.Spin(ctx, fmt.Sprintf("Allowing inbound access on port %d", jupyterPort), func() error {
		_, err := d.run(ctx, "aws", "ec2", "authorize-security-group-ingress",
			"--group-id", groupID,
			"--protocol", "tcp",
			"--port", fmt.Sprint(jupyterPort),
			"--cidr", "0.0.0.0/0",
			"--region", d.region)
		if err != nil && runner.ContainsText(err, "InvalidPermission.Duplicate") {
			logging.FromContext(ctx).Info(ctx, "ingress rule already present", "group", groupID)
			return nil
		}
		return err
	})
}

func (d *driver) clusterDown(ctx context.Context) error {
	_, err := d.run(ctx, "ecs-cli", "down", "-f", "--cluster-config", clusterConfigName)
	return err
}
