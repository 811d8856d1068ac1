// Package observability provides metrics and logging utilities.
package observability

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys
const (
	attrKind    = "kind"
	attrImage   = "image"
	attrOutcome = "outcome"
)

func kindAttr(kind string) attribute.KeyValue {
	return attribute.String(attrKind, kind)
}

func imageAttr(image string) attribute.KeyValue {
	return attribute.String(attrImage, normalizeImage(image))
}

func outcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(attrOutcome, outcome)
}

// normalizeImage strips tag and digest to reduce cardinality.
// registry/repo:tag@sha256:... -> registry/repo
func normalizeImage(image string) string {
	if i := strings.IndexByte(image, '@'); i >= 0 {
		image = image[:i]
	}
	// Colons after the last slash separate the tag; earlier ones are
	// registry ports.
	slash := strings.LastIndexByte(image, '/')
	if i := strings.LastIndexByte(image, ':'); i > slash {
		image = image[:i]
	}
	return image
}
