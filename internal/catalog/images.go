// Package catalog holds the static choice tables offered to the operator:
// JupyterLab image flavors, droplet sizes, GCP zones and image families, and
// AWS regions.
package catalog

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// DefaultImage is used for unknown flavor labels.
const DefaultImage = "jupyter/base-notebook"

// Flavor maps a human label to a Jupyter Docker Stacks image.
type Flavor struct {
	Key   string // short name accepted by --flavor
	Label string // prompt label
	Image string
}

var flavors = []Flavor{
	{"base", "Base", "jupyter/base-notebook"},
	{"minimal", "Minimal", "jupyter/minimal-notebook"},
	{"r", "R", "jupyter/r-notebook"},
	{"scipy", "SciPy", "jupyter/scipy-notebook"},
	{"tensorflow", "Tensorflow", "jupyter/tensorflow-notebook"},
	{"datascience", "Datascience (Julia/Python/R)", "jupyter/datascience-notebook"},
	{"pyspark", "PySpark (SciPy image with support for Spark)", "jupyter/pyspark-notebook"},
	{"all-spark", "All Spark (Most comprehensive; Python, R, Scala, Julia, SciPy)", "jupyter/all-spark-notebook"},
}

// Flavors returns the flavors in prompt order.
func Flavors() []Flavor {
	return append([]Flavor(nil), flavors...)
}

// FlavorLabels returns the prompt labels in order.
func FlavorLabels() []string {
	labels := make([]string, len(flavors))
	for i, f := range flavors {
		labels[i] = f.Label
	}
	return labels
}

// ResolveImage returns the image for an exact flavor label, or DefaultImage.
func ResolveImage(label string) string {
	for _, f := range flavors {
		if f.Label == label {
			return f.Image
		}
	}
	return DefaultImage
}

// LookupFlavor finds a flavor by key or label, ignoring case.
func LookupFlavor(s string) (Flavor, bool) {
	s = strings.TrimSpace(s)
	for _, f := range flavors {
		if strings.EqualFold(f.Key, s) || strings.EqualFold(f.Label, s) {
			return f, true
		}
	}
	return Flavor{}, false
}

// NormalizeImage validates ref and returns its fully-qualified form with
// the default tag, e.g. docker.io/jupyter/base-notebook:latest.
func NormalizeImage(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", fmt.Errorf("invalid image reference %q: %w", ref, err)
	}
	return reference.TagNameOnly(named).String(), nil
}
