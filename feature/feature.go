package feature

import (
	"fmt"
	"reflect"
)

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
DiscreteFeature represents a categorical property that can be observed.
Its values are compared by equality. When it is declared with a set of
available values it only accepts those, otherwise any comparable value
is accepted.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
An empty slice of available values leaves the feature open to any value.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives an interface value and returns a boolean and an error. A nil
value (an undefined one) is always valid. Values that cannot be compared for
equality are never valid. If the feature was declared with available values,
the value's string form must be among them.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return true, nil
	}
	if !Comparable(value) {
		return false, fmt.Errorf("discrete feature %s expects a comparable value, got %T value", df.Name(), value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	vs := fmt.Sprintf("%v", value)
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

// Error is the type of the errors reported by the feature package
// for malformed samples.
type Error string

// ErrIncomparableValue is returned when a sample holds a value that
// cannot be compared for equality and thus is not categorical.
const ErrIncomparableValue = Error("feature value cannot be compared")

func (e Error) Error() string {
	return string(e)
}

// Comparable reports whether v can be used as a categorical value,
// that is, whether it can be compared with == without panicking.
func Comparable(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
