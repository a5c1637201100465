// Package scrape pulls identifiers out of CLI output text.
package scrape

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// Pattern is a named regular expression with one capture group holding the value.
type Pattern struct {
	Name  string
	re    *regexp.Regexp
	check func(string) bool
}

func newPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(expr)}
}

var (
	// IPv4 matches a dotted-quad address whose octets are all <= 255.
	IPv4 = Pattern{
		Name:  "IPv4 address",
		re:    regexp.MustCompile(`\b(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\b`),
		check: func(s string) bool { return net.ParseIP(s).To4() != nil },
	}
	// Subnet matches the id ecs-cli prints after "Subnet created: ".
	Subnet = newPattern("subnet id", `Subnet created: (subnet-(?:[0-9a-f]{17}|[0-9a-f]{8}))\b`)
	// VPC matches the id ecs-cli prints after "VPC created: ".
	VPC = newPattern("VPC id", `VPC created: (vpc-(?:[0-9a-f]{17}|[0-9a-f]{8}))\b`)
	// SecurityGroup matches a quoted security group id in AWS CLI JSON output.
	SecurityGroup = newPattern("security group id", `"(sg-[0-9a-f]+)"`)
	// NotebookProxy matches the proxy host in `gcloud compute instances describe` metadata.
	NotebookProxy = newPattern("notebook proxy host", `value: (\S+\.notebooks\.googleusercontent\.com)`)
	// URL matches an http(s) URL, such as the gcloud login link.
	URL = newPattern("URL", `(https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&/=]*)`)
)

var shellExport = regexp.MustCompile(`(?m)^export\s+([A-Za-z_][A-Za-z0-9_]*)="([^"]*)"\s*$`)

// NotFoundError reports that a required value was absent from command output.
type NotFoundError struct {
	Pattern string
	Want    int
	Got     int
	Output  string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s not found in output", e.Pattern)
	if e.Want > 1 {
		msg = fmt.Sprintf("expected %d %s values in output, found %d", e.Want, e.Pattern, e.Got)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + truncate(out, 200)
	}
	return msg
}

// Extract returns the first value matching p in text.
func Extract(text string, p Pattern) (string, bool) {
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		if p.check == nil || p.check(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

// ExtractAll returns every value matching p in text, in order of appearance.
func ExtractAll(text string, p Pattern) []string {
	var out []string
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		if p.check == nil || p.check(m[1]) {
			out = append(out, m[1])
		}
	}
	return out
}

// Require is Extract that fails with *NotFoundError when nothing matches.
func Require(text string, p Pattern) (string, error) {
	v, ok := Extract(text, p)
	if !ok {
		return "", &NotFoundError{Pattern: p.Name, Want: 1, Output: text}
	}
	return v, nil
}

// RequireN returns the first n values matching p, or *NotFoundError when fewer are present.
func RequireN(text string, p Pattern, n int) ([]string, error) {
	vs := ExtractAll(text, p)
	if len(vs) < n {
		return nil, &NotFoundError{Pattern: p.Name, Want: n, Got: len(vs), Output: text}
	}
	return vs[:n], nil
}

// Exports parses `export KEY="VALUE"` lines, as printed by
// `docker-machine env --shell bash`, into KEY=VALUE pairs.
func Exports(text string) []string {
	var env []string
	for _, m := range shellExport.FindAllStringSubmatch(text, -1) {
		env = append(env, m[1]+"="+m[2])
	}
	return env
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
