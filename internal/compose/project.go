package compose

import (
	"context"
	"fmt"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"github.com/yaegashi/jupyterops/internal/logging"
)

// LoadProject parses compose content the way docker compose would and
// checks that it defines the JupyterLab service.
func LoadProject(ctx context.Context, content []byte) (*types.Project, error) {
	details := types.ConfigDetails{
		WorkingDir:  ".",
		ConfigFiles: []types.ConfigFile{{Filename: ComposeFilename, Content: content}},
		Environment: types.Mapping{},
	}

	raw, err := loader.LoadModelWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName(ProjectName, false)
		o.SkipInclude = true
	})
	if err != nil {
		return nil, fmt.Errorf("compose: parse %s: %w", ComposeFilename, err)
	}
	// ecs-cli still requires the version key
	if _, ok := raw["version"]; !ok {
		logging.FromContext(ctx).Warn(ctx, "compose: version key missing, ecs-cli will reject the file")
	}

	var proj *types.Project
	if err := loader.Transform(raw, &proj); err != nil {
		return nil, fmt.Errorf("compose: transform %s: %w", ComposeFilename, err)
	}
	svc, ok := proj.Services[ServiceName]
	if !ok {
		return nil, fmt.Errorf("compose: service %q not defined", ServiceName)
	}
	if svc.Image == "" {
		return nil, fmt.Errorf("compose: service %q has no image", ServiceName)
	}
	return proj, nil
}
