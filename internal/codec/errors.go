package codec

import (
	"fmt"
)

// UnknownTypeError reports a tag that neither the custom objects nor the
// registry table can build. Label is the codec's human name for its kind
// family, e.g. "layer".
type UnknownTypeError struct {
	Label string
	Name  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s %q: not registered and not in custom objects", e.Label, e.Name)
}

// MalformedConfigError reports a config record that does not have the
// {tag, params} shape.
type MalformedConfigError struct {
	Reason string
}

func (e *MalformedConfigError) Error() string {
	return "malformed config: " + e.Reason
}
