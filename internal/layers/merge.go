package layers

import (
	"fmt"

	"github.com/strataml/strata/internal/component"
	"github.com/strataml/strata/internal/registry"
)

// Add sums its inputs elementwise.
type Add struct {
	Name string `mapstructure:"name"`
}

func (l *Add) Kind() string { return "Add" }

func (l *Add) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Subtract subtracts the second input from the first.
type Subtract struct {
	Name string `mapstructure:"name"`
}

func (l *Subtract) Kind() string { return "Subtract" }

func (l *Subtract) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Multiply multiplies its inputs elementwise.
type Multiply struct {
	Name string `mapstructure:"name"`
}

func (l *Multiply) Kind() string { return "Multiply" }

func (l *Multiply) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Average averages its inputs elementwise.
type Average struct {
	Name string `mapstructure:"name"`
}

func (l *Average) Kind() string { return "Average" }

func (l *Average) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Maximum takes the elementwise maximum of its inputs.
type Maximum struct {
	Name string `mapstructure:"name"`
}

func (l *Maximum) Kind() string { return "Maximum" }

func (l *Maximum) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Minimum takes the elementwise minimum of its inputs.
type Minimum struct {
	Name string `mapstructure:"name"`
}

func (l *Minimum) Kind() string { return "Minimum" }

func (l *Minimum) Config() (component.Params, error) {
	return component.Params{"name": l.Name}, nil
}

// Concatenate joins its inputs along an axis.
type Concatenate struct {
	Axis int    `mapstructure:"axis"`
	Name string `mapstructure:"name"`
}

func (l *Concatenate) Kind() string { return "Concatenate" }

func (l *Concatenate) Defaults() { l.Axis = -1 }

func (l *Concatenate) Config() (component.Params, error) {
	return component.Params{
		"axis": l.Axis,
		"name": l.Name,
	}, nil
}

// Dot computes the dot product between samples of two inputs.
type Dot struct {
	Axes      []int  `mapstructure:"axes"`
	Normalize bool   `mapstructure:"normalize"`
	Name      string `mapstructure:"name"`
}

func (l *Dot) Kind() string { return "Dot" }

func (l *Dot) Validate() error {
	if len(l.Axes) == 0 {
		return fmt.Errorf("dot: axes is required")
	}
	return nil
}

func (l *Dot) Config() (component.Params, error) {
	return component.Params{
		"axes":      l.Axes,
		"normalize": l.Normalize,
		"name":      l.Name,
	}, nil
}

// Merge returns the namespace of merge layers. The functional forms ride
// along as plain builders; only the descriptors pass the population
// filter, and the functions register separately through Shortcuts.
func Merge() registry.Namespace {
	return registry.Namespace{
		Name: "merge",
		Bindings: []registry.Binding{
			{Name: "Add", Value: component.Describe("Add", "Elementwise sum of inputs.", component.Build[Add])},
			{Name: "Subtract", Value: component.Describe("Subtract", "Elementwise difference of two inputs.", component.Build[Subtract])},
			{Name: "Multiply", Value: component.Describe("Multiply", "Elementwise product of inputs.", component.Build[Multiply])},
			{Name: "Average", Value: component.Describe("Average", "Elementwise average of inputs.", component.Build[Average])},
			{Name: "Maximum", Value: component.Describe("Maximum", "Elementwise maximum of inputs.", component.Build[Maximum])},
			{Name: "Minimum", Value: component.Describe("Minimum", "Elementwise minimum of inputs.", component.Build[Minimum])},
			{Name: "Concatenate", Value: component.Describe("Concatenate", "Joins inputs along `axis`.", component.Build[Concatenate])},
			{Name: "Dot", Value: component.Describe("Dot", "Dot product between samples of two inputs.", component.Build[Dot])},
			{Name: "add", Value: component.Builder(component.Build[Add])},
			{Name: "subtract", Value: component.Builder(component.Build[Subtract])},
			{Name: "multiply", Value: component.Builder(component.Build[Multiply])},
			{Name: "average", Value: component.Builder(component.Build[Average])},
			{Name: "maximum", Value: component.Builder(component.Build[Maximum])},
			{Name: "minimum", Value: component.Builder(component.Build[Minimum])},
			{Name: "concatenate", Value: component.Builder(component.Build[Concatenate])},
			{Name: "dot", Value: component.Builder(component.Build[Dot])},
		},
	}
}

// Shortcuts returns the functional forms of the merge layers.
func Shortcuts() []registry.Shortcut {
	return []registry.Shortcut{
		{Name: "add", Build: component.Build[Add], Doc: "Functional form of Add."},
		{Name: "subtract", Build: component.Build[Subtract], Doc: "Functional form of Subtract."},
		{Name: "multiply", Build: component.Build[Multiply], Doc: "Functional form of Multiply."},
		{Name: "average", Build: component.Build[Average], Doc: "Functional form of Average."},
		{Name: "maximum", Build: component.Build[Maximum], Doc: "Functional form of Maximum."},
		{Name: "minimum", Build: component.Build[Minimum], Doc: "Functional form of Minimum."},
		{Name: "concatenate", Build: component.Build[Concatenate], Doc: "Functional form of Concatenate."},
		{Name: "dot", Build: component.Build[Dot], Doc: "Functional form of Dot."},
	}
}
