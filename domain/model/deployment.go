package model

import (
	"fmt"
	"strings"
)

// Action is the requested lifecycle operation.
type Action string

const (
	ActionCreate  Action = "Create"
	ActionDestroy Action = "Destroy"
)

// Actions lists the actions in prompt order.
func Actions() []Action { return []Action{ActionCreate, ActionDestroy} }

// ParseAction accepts the display name or its lower-case form.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions() {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
}

// Provider identifies a cloud provider. Values are the names shown to the operator.
type Provider string

const (
	ProviderDigitalOcean Provider = "DigitalOcean"
	ProviderGoogleCloud  Provider = "Google Cloud"
	ProviderAWS          Provider = "Amazon Web Services"
)

// Providers lists the providers in prompt order.
func Providers() []Provider {
	return []Provider{ProviderDigitalOcean, ProviderGoogleCloud, ProviderAWS}
}

// ParseProvider accepts the display name or a short alias (do, gcp, aws).
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "do", "digitalocean":
		return ProviderDigitalOcean, nil
	case "gcp", "google", "google cloud":
		return ProviderGoogleCloud, nil
	case "aws", "amazon", "amazon web services":
		return ProviderAWS, nil
	}
	return "", fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, s)
}

// Short returns the short provider name used in telemetry and log attributes.
func (p Provider) Short() string {
	switch p {
	case ProviderDigitalOcean:
		return "DigitalOcean"
	case ProviderGoogleCloud:
		return "GCP"
	case ProviderAWS:
		return "AWS"
	}
	return string(p)
}

// Params carries provider parameters given up front (flags or config).
// Empty fields are prompted for by the provider workflow.
type Params struct {
	Size        string // DigitalOcean droplet size
	Flavor      string // notebook flavor label (DigitalOcean, AWS)
	Region      string // AWS region
	Zone        string // GCP zone
	Project     string // GCP project id
	ImageFamily string // GCP deep learning image family
	GPU         *bool  // GCP accelerator choice; nil means ask
	LoginToken  string // JupyterLab login token/password
}

// DeploymentRequest is one invocation's request. It is not modified after creation.
type DeploymentRequest struct {
	Action   Action
	Provider Provider
	Params   Params
}

// Validate checks the action and provider are known.
func (r *DeploymentRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidInput)
	}
	if _, err := ParseAction(string(r.Action)); err != nil {
		return err
	}
	if _, err := ParseProvider(string(r.Provider)); err != nil {
		return err
	}
	return nil
}
