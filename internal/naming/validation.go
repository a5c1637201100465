package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

const (
	machineNameMaxLength = utilvalidation.DNS1123LabelMaxLength
	projectIDMinLength   = 6
	projectIDMaxLength   = 30
)

func validateDNS1123Label(name string, maximum int, labelKind string) error {
	if name == "" {
		return fmt.Errorf("%s must not be empty", labelKind)
	}
	if len(name) > maximum {
		return fmt.Errorf("%s exceeds %d characters", labelKind, maximum)
	}
	if errs := utilvalidation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid %s: %s", labelKind, strings.Join(errs, ", "))
	}
	return nil
}

// ValidateMachineName checks the docker-machine / instance name.
func ValidateMachineName(name string) error {
	return validateDNS1123Label(name, machineNameMaxLength, "machine name")
}

// ValidateProjectID checks a Google Cloud project id: 6 to 30 lowercase
// letters, digits or hyphens, starting with a letter and not ending with a hyphen.
func ValidateProjectID(id string) error {
	if err := validateDNS1123Label(id, projectIDMaxLength, "project id"); err != nil {
		return err
	}
	if len(id) < projectIDMinLength {
		return fmt.Errorf("project id must be at least %d characters", projectIDMinLength)
	}
	if id[0] < 'a' || id[0] > 'z' {
		return errors.New("project id must start with a lowercase letter")
	}
	return nil
}

// ValidateLoginToken checks the JupyterLab login token. It ends up quoted on
// a remote shell command line, so quotes and whitespace are rejected.
func ValidateLoginToken(token string) error {
	if token == "" {
		return errors.New("password must not be empty")
	}
	for _, r := range token {
		if unicode.IsSpace(r) || r == '\'' || r == '"' || r == '\\' || !unicode.IsPrint(r) {
			return errors.New("password must not contain quotes, backslashes or whitespace")
		}
	}
	return nil
}
