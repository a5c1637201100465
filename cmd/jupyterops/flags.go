package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaegashi/jupyterops/domain/model"
	"github.com/yaegashi/jupyterops/internal/terminal"
)

// legacyArgs maps single-dash long options of the old CLI to their flags.
var legacyArgs = map[string]string{
	"-do":  "--digitalocean",
	"-gcp": "--google",
	"-aws": "--amazon",
}

// flagAliases are accepted long names for the provider flags.
var flagAliases = map[string]string{
	"do":  "digitalocean",
	"gcp": "google",
	"aws": "amazon",
}

var providerFlags = []struct {
	name     string
	provider model.Provider
}{
	{"digitalocean", model.ProviderDigitalOcean},
	{"google", model.ProviderGoogleCloud},
	{"amazon", model.ProviderAWS},
}

// normalizeArgs rewrites legacy single-dash long options so pflag does not
// read them as bundles of shorthand flags. Arguments after "--" are kept.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		if long, ok := legacyArgs[a]; ok {
			a = long
		}
		out = append(out, a)
	}
	return out
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if alias, ok := flagAliases[name]; ok {
		name = alias
	}
	return pflag.NormalizedName(name)
}

func addDeploymentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("create", "c", false, "Create a JupyterLab server")
	f.BoolP("destroy", "d", false, "Destroy the JupyterLab server")
	f.Bool("digitalocean", false, "Use DigitalOcean (alias --do, -do)")
	f.Bool("google", false, "Use Google Cloud (alias --gcp, -gcp)")
	f.Bool("amazon", false, "Use Amazon Web Services (alias --aws, -aws)")
	f.Bool("build", false, "Unused; accepted for compatibility")
	_ = f.MarkHidden("build")

	f.String("size", "", "DigitalOcean droplet size slug")
	f.String("flavor", "", "Notebook flavor key or label for DigitalOcean and AWS (see 'jupyterops images')")
	f.String("region", "", "AWS region")
	f.String("zone", "", "Google Cloud zone")
	f.String("project", "", "Google Cloud project id")
	f.String("image-family", "", "Google Cloud Deep Learning VM image family")
	f.Bool("gpu", false, "Google Cloud: attach a GPU (asked when not given)")
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
}

// selectionFromFlags returns the action and provider chosen by flags. Both
// are empty when neither was given; giving only one of them, two actions or
// two providers is an error.
func selectionFromFlags(fs *pflag.FlagSet) (model.Action, model.Provider, error) {
	create, _ := fs.GetBool("create")
	destroy, _ := fs.GetBool("destroy")
	if create && destroy {
		return "", "", fmt.Errorf("%w: --create and --destroy cannot be used together", model.ErrInvalidFlags)
	}

	var providers []string
	var provider model.Provider
	for _, pf := range providerFlags {
		if on, _ := fs.GetBool(pf.name); on {
			providers = append(providers, "--"+pf.name)
			provider = pf.provider
		}
	}
	if len(providers) > 1 {
		return "", "", fmt.Errorf("%w: only one provider may be selected, got %s", model.ErrInvalidFlags, strings.Join(providers, " "))
	}

	var action model.Action
	switch {
	case create:
		action = model.ActionCreate
	case destroy:
		action = model.ActionDestroy
	}
	if action != "" && provider == "" {
		return "", "", fmt.Errorf("%w: --%s requires a provider flag (--digitalocean, --google or --amazon)", model.ErrInvalidFlags, strings.ToLower(string(action)))
	}
	if action == "" && provider != "" {
		return "", "", fmt.Errorf("%w: %s requires --create or --destroy", model.ErrInvalidFlags, providers[0])
	}
	return action, provider, nil
}

// paramsFromFlags collects provider parameters. --gpu is tri-state: unset
// leaves the choice to the prompt.
func paramsFromFlags(fs *pflag.FlagSet) model.Params {
	get := func(name string) string {
		v, _ := fs.GetString(name)
		return strings.TrimSpace(v)
	}
	p := model.Params{
		Size:        get("size"),
		Flavor:      get("flavor"),
		Region:      get("region"),
		Zone:        get("zone"),
		Project:     get("project"),
		ImageFamily: get("image-family"),
	}
	if fs.Changed("gpu") {
		gpu, _ := fs.GetBool("gpu")
		p.GPU = &gpu
	}
	return p
}

// promptSelection asks for the action and the provider.
func promptSelection(ctx context.Context, p terminal.Prompter) (model.Action, model.Provider, error) {
	actions := make([]string, 0, len(model.Actions()))
	for _, a := range model.Actions() {
		actions = append(actions, string(a))
	}
	a, err := p.Select(ctx, "Are you looking to create or destroy a JupyterLab Server?", actions)
	if err != nil {
		return "", "", err
	}
	action, err := model.ParseAction(a)
	if err != nil {
		return "", "", err
	}

	providers := make([]string, 0, len(model.Providers()))
	for _, pv := range model.Providers() {
		providers = append(providers, string(pv))
	}
	pv, err := p.Select(ctx, "Which cloud provider would you like to use?", providers)
	if err != nil {
		return "", "", err
	}
	provider, err := model.ParseProvider(pv)
	if err != nil {
		return "", "", err
	}
	return action, provider, nil
}
