package feature

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the given value satisfies the feature criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion, that is,
a mapping of feature names to values.

Its ValueFor method returns the value corresponding to the feature
passed as parameter, or nil if the sample does not define it.
*/
type Sample interface {
	ValueFor(context.Context, Feature) (interface{}, error)
}

/*
DiscreteCriterion represents a constraint on a discrete feature, a
value it must take.

Its Value method returns the value to which the feature is constrained.
*/
type DiscreteCriterion interface {
	Criterion
	Value() interface{}
}

/*
UndefinedCriterion represents the constraint of a sample not defining
a value for a specific feature.
*/
type UndefinedCriterion interface {
	Criterion
	IsUndefinedCriterion() bool
}

type discreteCriterion struct {
	feature Feature
	value   interface{}
}

type undefinedCriterion struct {
	feature Feature
}

type sample map[string]interface{}

/*
NewDiscreteCriterion takes a Feature and a comparable value and returns a
DiscreteCriterion satisfied by samples whose value for the feature equals
the given one.
*/
func NewDiscreteCriterion(feature Feature, value interface{}) DiscreteCriterion {
	return &discreteCriterion{feature, value}
}

/*
NewUndefinedCriterion takes a Feature and returns a Criterion that
is satisfied by samples that do not define a value for it.
*/
func NewUndefinedCriterion(f Feature) UndefinedCriterion {
	return &undefinedCriterion{f}
}

/*
NewSample takes a map of feature names to values and returns a Sample
that answers ValueFor with them. Features missing from the map are
undefined for the sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return sample(featureValues)
}

/*
Feature returns the feature to which the constraint applies.
*/
func (dfc *discreteCriterion) Feature() Feature {
	return dfc.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature, true if the value equals the value on the
criterion; and false otherwise. An error is returned if the sample value cannot be
compared.
*/
func (dfc *discreteCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, dfc.feature)
	if err != nil {
		return false, err
	}
	if val == nil {
		return false, nil
	}
	if !Comparable(val) {
		return false, errors.Wrapf(ErrIncomparableValue, "value of type %T for feature %s", val, dfc.feature.Name())
	}
	return dfc.value == val, nil
}

func (dfc *discreteCriterion) Value() interface{} {
	return dfc.value
}

func (dfc *discreteCriterion) String() string {
	return fmt.Sprintf("%s is %v", dfc.feature.Name(), dfc.value)
}

func (u *undefinedCriterion) Feature() Feature {
	return u.feature
}

func (u *undefinedCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	val, err := sample.ValueFor(ctx, u.feature)
	if err != nil {
		return false, err
	}
	return val == nil, nil
}

func (u *undefinedCriterion) IsUndefinedCriterion() bool {
	return true
}

func (u *undefinedCriterion) String() string {
	return fmt.Sprintf("%s not defined", u.feature.Name())
}

func (s sample) ValueFor(_ context.Context, f Feature) (interface{}, error) {
	return s[f.Name()], nil
}

func (s sample) String() string {
	return fmt.Sprintf("%v", map[string]interface{}(s))
}
