package grove

// Error is the type of the precondition violations
// reported when growing trees.
type Error string

const (
	// ErrInvalidConfig is returned when growing a tree with
	// a Config that does not validate.
	ErrInvalidConfig = Error("invalid configuration")
	// ErrEmptyDataset is returned when growing a tree or
	// computing the entropy of a dataset without samples.
	ErrEmptyDataset = Error("empty dataset")
	// ErrMalformedSample is returned when growing a tree
	// from a dataset with samples whose values are not
	// valid for their features.
	ErrMalformedSample = Error("malformed sample")
)

func (e Error) Error() string {
	return string(e)
}
