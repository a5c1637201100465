package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name string
		ep   Endpoint
		want string
	}{
		{"digitalocean", Endpoint{Scheme: "http", Host: "203.0.113.7", Token: "abc123"}, "http://203.0.113.7/?token=abc123"},
		{"aws", Endpoint{Scheme: "http", Host: "198.51.100.4", Port: 8888, Token: "tok"}, "http://198.51.100.4:8888/?token=tok"},
		{"gcp", Endpoint{Scheme: "https", Host: "abc-dot-us-west1.notebooks.googleusercontent.com"}, "https://abc-dot-us-west1.notebooks.googleusercontent.com"},
		{"default scheme", Endpoint{Host: "10.0.0.1"}, "http://10.0.0.1/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ep.URL())
		})
	}
}

func TestParseProvider(t *testing.T) {
	for in, want := range map[string]Provider{
		"do":                  ProviderDigitalOcean,
		"DigitalOcean":        ProviderDigitalOcean,
		"gcp":                 ProviderGoogleCloud,
		"Google Cloud":        ProviderGoogleCloud,
		"aws":                 ProviderAWS,
		"Amazon Web Services": ProviderAWS,
	} {
		got, err := ParseProvider(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProvider("azure")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestDeploymentRequestValidate(t *testing.T) {
	ok := &DeploymentRequest{Action: ActionCreate, Provider: ProviderAWS}
	assert.NoError(t, ok.Validate())

	assert.Error(t, (&DeploymentRequest{Action: "Restart", Provider: ProviderAWS}).Validate())
	assert.Error(t, (&DeploymentRequest{Action: ActionDestroy}).Validate())

	var nilReq *DeploymentRequest
	assert.ErrorIs(t, nilReq.Validate(), ErrInvalidInput)
}
