/*
Copyright © 2025 SUSE LLC
SPDX-License-Identifier: Apache-2.0
*/

package header

import (
	"time"
)

// Kind names the type of a machine-readable document cocoup emits.
type Kind string

const (
	// KindPrereqReport is the check-prereqs result document.
	KindPrereqReport Kind = "PrereqReport"
	// KindValidationReport is the validate result document.
	KindValidationReport Kind = "ValidationReport"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindPrereqReport, KindValidationReport:
		return true
	default:
		return false
	}
}

// APIVersion identifies the report schema. Bump it when a report field
// changes meaning, not when fields are added.
const APIVersion = "cocoup.rancher-sandbox.io/v1"

// Header stamps serialized reports with kind and provenance, following the
// Kubernetes resource convention so saved reports stay self-describing.
// Report types embed it inline.
type Header struct {
	// Kind is the document type.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata carries provenance key-value pairs: at least the creation
	// timestamp, plus the tool version for release builds.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init stamps the header. version is the cocoup build that produced the
// document; empty is tolerated and simply omitted.
func (h *Header) Init(kind Kind, version string) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata["version"] = version
	}
}
