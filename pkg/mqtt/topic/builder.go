package topic

import (
	"fmt"
	"strings"
)

// Builder constructs MQTT topic strings of the form {root}/{segment}/{id}.
// Segments are defined by the protocol contract in internal/pkg/mqtt/paths.
type Builder struct {
	// root is the base namespace for all topics (e.g., "sentinel/v1").
	root string

	// group, when set, prefixes subscription filters with $share/{group}/.
	group string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.TrimSuffix(root, "/")}
}

// Shared returns a copy of the builder that produces shared-subscription
// filters for the given consumer group.
func (b *Builder) Shared(group string) *Builder {
	return &Builder{root: b.root, group: group}
}

// Build returns the concrete topic for one device.
// Pattern: {root}/{segment}/{id}
func (b *Builder) Build(segment, id string) string {
	return b.prefix() + fmt.Sprintf("%s/%s/%s", b.root, segment, id)
}

// BuildWildcard returns the filter matching the segment for every device.
// Pattern: {root}/{segment}/+
func (b *Builder) BuildWildcard(segment string) string {
	return b.Build(segment, Wildcard)
}

// Parse extracts the device id from a concrete topic built for segment.
// Shared-subscription prefixes are not part of received topics.
func (b *Builder) Parse(segment, topic string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", b.root, segment)
	if !strings.HasPrefix(topic, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(topic, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func (b *Builder) prefix() string {
	if b.group == "" {
		return ""
	}
	return "$share/" + b.group + "/"
}
