package models

import (
	"fmt"
	"strings"
	"time"
)

type ResourceKind string

const (
	ResourceHeadline ResourceKind = "headline"
	ResourceBio      ResourceKind = "bio"
	ResourceEmail    ResourceKind = "email"
)

func ParseResourceKind(s string) (ResourceKind, error) {
	switch k := ResourceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ResourceHeadline, ResourceBio, ResourceEmail:
		return k, nil
	default:
		return "", fmt.Errorf("unknown resource kind %q", s)
	}
}

// GeneratedResource is the text produced for one generation call.
type GeneratedResource struct {
	Kind      ResourceKind `json:"kind"`
	Text      string       `json:"text"`
	Fallback  bool         `json:"fallback"`
	CreatedAt time.Time    `json:"created_at"`
}
