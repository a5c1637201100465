package model

import (
	"fmt"
	"net/url"
)

// Endpoint is the access point of a running notebook server. It is printed, never stored.
type Endpoint struct {
	Scheme string // http or https
	Host   string // IP address or provider-assigned host name
	Port   int    // 0 means the scheme default
	Token  string // login token appended as ?token=, empty to omit
}

// URL renders the endpoint as the address the operator opens.
func (e *Endpoint) URL() string {
	scheme := e.Scheme
	if scheme == "" {
		scheme = "http"
	}
	host := e.Host
	if e.Port != 0 {
		host = fmt.Sprintf("%s:%d", e.Host, e.Port)
	}
	u := url.URL{Scheme: scheme, Host: host, Path: "/"}
	if e.Token != "" {
		u.RawQuery = url.Values{"token": []string{e.Token}}.Encode()
	} else if e.Port == 0 && scheme == "https" {
		u.Path = ""
	}
	return u.String()
}

// ClusterTopology holds the AWS network identifiers scraped while bringing the
// cluster up and consumed when writing the task placement descriptor.
type ClusterTopology struct {
	SubnetIDs       [2]string
	VPCID           string
	SecurityGroupID string
}
