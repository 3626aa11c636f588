// Package policy loads the terms of service and privacy texts shown in the
// landing page modal.
package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names one of the policy documents.
type Kind string

const (
	KindTerms   Kind = "terms"
	KindPrivacy Kind = "privacy"
)

// ErrUnknownKind is returned for a document name other than terms or privacy.
var ErrUnknownKind = errors.New("unknown policy kind")

// Policy holds the static policy texts.
type Policy struct {
	Terms   string `yaml:"terms"`
	Privacy string `yaml:"privacy"`
}

// Load reads the policy file at path. A missing file yields an empty policy
// and found=false; a file that cannot be parsed is an error.
func Load(path string) (p Policy, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Policy{}, false, nil
		}
		return Policy{}, false, fmt.Errorf("read policy: %w", err)
	}
	p, err = Parse(data)
	if err != nil {
		return Policy{}, true, err
	}
	return p, true, nil
}

// Parse decodes a YAML policy document.
func Parse(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	return p, nil
}

// Empty reports whether neither text is set.
func (p Policy) Empty() bool {
	return strings.TrimSpace(p.Terms) == "" && strings.TrimSpace(p.Privacy) == ""
}

// Text returns the document for kind.
func (p Policy) Text(kind Kind) (string, error) {
	switch kind {
	case KindTerms:
		return p.Terms, nil
	case KindPrivacy:
		return p.Privacy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
