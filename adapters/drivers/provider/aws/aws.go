package aws

import (
	"context"
	"errors"
	"io/fs"

	providerdrv "github.com/yaegashi/jupyterops/adapters/drivers/provider"
	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/awsfiles"
	"github.com/yaegashi/jupyterops/internal/catalog"
	"github.com/yaegashi/jupyterops/internal/credstore"
	"github.com/yaegashi/jupyterops/internal/logging"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

const (
	driverLogName = "AWS"
	keyIDField    = "keyId"
	keyField      = "key"
)

// driver implements the AWS provider driver: ECS Fargate managed through
// ecs-cli, with the aws CLI for IAM and networking.
type driver struct {
	deps  *providerdrv.Deps
	files awsfiles.Files

	keyID  string
	secret string
	region string
	token  string // JupyterLab login token
	image  string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "aws" }

// init registers the AWS driver.
func init() {
	providerdrv.Register(model.ProviderAWS, func(deps *providerdrv.Deps) (providerdrv.Driver, error) {
		if deps == nil || deps.Runner == nil || deps.Prompter == nil || deps.Display == nil {
			return nil, errors.New("aws driver requires a runner, a prompter and a display")
		}
		if deps.Env == nil || deps.Env.AWSDir == "" || deps.Env.BaseDir == "" {
			return nil, errors.New("aws driver requires base and AWS directories")
		}
		return &driver{deps: deps, files: awsfiles.Files{Dir: deps.Env.AWSDir}}, nil
	})
}

// Authenticate collects the access key pair and region, plus the login token
// and image for Create. The key pair is not verified here.
func (d *driver) Authenticate(ctx context.Context, req *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Authenticate")
	defer func() { cleanup(err) }()

	cached, reuse, err := d.deps.ReuseCached(ctx, credstore.AWS)
	if err != nil {
		return err
	}
	if reuse && cached[keyIDField] != "" && cached[keyField] != "" {
		d.keyID, d.secret = cached[keyIDField], cached[keyField]
	} else {
		if d.keyID, err = d.deps.Prompter.Input(ctx, "Please enter your AWS access key id", terminal.Required("You must provide a valid AWS access key")); err != nil {
			return err
		}
		if d.secret, err = d.deps.Prompter.Secret(ctx, "Please enter your AWS secret access key", terminal.Required("You must provide a valid AWS secret access key")); err != nil {
			return err
		}
		d.deps.SaveCredentials(ctx, credstore.AWS, credstore.Fields{keyIDField: d.keyID, keyField: d.secret})
	}

	if d.region, err = providerdrv.Choose(ctx, d.deps, req.Params.Region, "Please select the region to use", catalog.AWSRegions()); err != nil {
		return err
	}
	logging.FromContext(ctx).Info(ctx, "region selected", "region", d.region, "location", catalog.AWSRegionDescription(d.region))

	if req.Action != model.ActionCreate {
		return nil
	}
	if d.token, err = providerdrv.LoginToken(ctx, d.deps, req); err != nil {
		return err
	}
	d.image, err = providerdrv.FlavorImage(ctx, d.deps, req)
	return err
}

// Provision sets up IAM, the cluster and its networking, then starts the
// notebook service and returns its public address.
func (d *driver) Provision(ctx context.Context, _ *model.DeploymentRequest) (ep *model.Endpoint, err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Provision")
	defer func() { cleanup(err) }()

	if err := d.writeProfile(ctx); err != nil {
		return nil, err
	}
	defer d.removeProfile(ctx)

	if err := d.ensureTaskExecutionRole(ctx); err != nil {
		return nil, err
	}
	if err := d.configureCluster(ctx); err != nil {
		return nil, err
	}
	topo, err := d.clusterUp(ctx)
	if err != nil {
		return nil, err
	}
	if topo.SecurityGroupID, err = d.securityGroup(ctx, topo.VPCID); err != nil {
		return nil, err
	}
	if err := d.openNotebookPort(ctx, topo.SecurityGroupID); err != nil {
		return nil, err
	}
	d.deps.Display.Success("AWS ECS cluster configured successfully!")

	if err := d.writeDescriptors(ctx, topo); err != nil {
		return nil, err
	}
	ip, err := d.serviceUp(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Endpoint{Scheme: "http", Host: ip, Port: jupyterPort, Token: d.token}, nil
}

// Deprovision removes the notebook service and the cluster stack.
func (d *driver) Deprovision(ctx context.Context, _ *model.DeploymentRequest) (err error) {
	ctx, cleanup := providerdrv.WithStepLogger(ctx, driverLogName, "Deprovision")
	defer func() { cleanup(err) }()

	if err := d.writeProfile(ctx); err != nil {
		return err
	}
	defer d.removeProfile(ctx)

	return d.deps.Display.Spin(ctx, "Tearing down AWS JupyterLab deployment", func() error {
		if err := d.copyDescriptors(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			logging.FromContext(ctx).Warn(ctx, "no descriptors from a previous run", "error", err.Error())
		}
		if err := d.serviceRemove(ctx); err != nil {
			return err
		}
		return d.clusterDown(ctx)
	})
}

func (d *driver) writeProfile(ctx context.Context) error {
	p := awsfiles.Profile{AccessKeyID: d.keyID, SecretAccessKey: d.secret, Region: d.region}
	if err := d.files.Write(p); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug(ctx, "wrote AWS profile", "dir", d.files.Dir)
	return nil
}

func (d *driver) removeProfile(ctx context.Context) {
	if err := d.files.Remove(); err != nil {
		logging.FromContext(ctx).Warn(ctx, "cannot remove AWS profile", "dir", d.files.Dir, "error", err.Error())
	}
}

var _ providerdrv.Driver = (*driver)(nil)
