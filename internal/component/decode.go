package component

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Defaulted lets a config struct seed default values before decoding.
type Defaulted interface {
	Defaults()
}

// Validated lets a config struct reject bad parameter combinations after
// decoding.
type Validated interface {
	Validate() error
}

// DecodeParams decodes a parameter bag into a typed config struct.
// Input is weakly typed: JSON numbers arrive as float64 and decode into
// integer fields, "true"/"false" strings decode into bools, and so on.
// Keys without a matching field are ignored, so builders tolerate
// params written by newer versions.
func DecodeParams(p Params, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(p))
}

// Build decodes a parameter bag into a fresh T. The order is fixed:
// defaults, decode, validate. Child components are not decoded here;
// builders pull them out of the bag with Child or Children.
//
// Instantiations like Build[Dense] satisfy Builder directly.
func Build[T any, PT interface {
	*T
	Component
}](p Params) (Component, error) {
	var v T
	pt := PT(&v)
	if d, ok := any(pt).(Defaulted); ok {
		d.Defaults()
	}
	if err := DecodeParams(p, pt); err != nil {
		return nil, err
	}
	if val, ok := any(pt).(Validated); ok {
		if err := val.Validate(); err != nil {
			return nil, err
		}
	}
	return pt, nil
}

// Child extracts an already-resolved child component from a parameter bag.
func Child(p Params, key string) (Component, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("missing %q component", key)
	}
	c, ok := v.(Component)
	if !ok {
		return nil, fmt.Errorf("%q is not a component, got %T", key, v)
	}
	return c, nil
}

// Children extracts a sequence of resolved child components. A missing
// key yields an empty slice; a non-component element is an error.
func Children(p Params, key string) ([]Component, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%q is not a sequence, got %T", key, v)
	}
	children := make([]Component, len(items))
	for i, item := range items {
		c, ok := item.(Component)
		if !ok {
			return nil, fmt.Errorf("%q[%d] is not a component, got %T", key, i, item)
		}
		children[i] = c
	}
	return children, nil
}
