package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Distribution represents the probability of each label according to
a decision tree node
*/
type Distribution struct {
	probabilities map[string]float64
	weight        int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned when classifying a
sample reaches a node without distribution, which only happens on trees
that have not been fully grown.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptySet is the error returned when trying to build a distribution
based on an empty dataset.
*/
const ErrCannotPredictFromEmptySet = PredictionError("cannot make prediction for empty dataset")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewDistribution takes the number of samples per label, the labels
known to the tree and an additive smoothing constant and returns the
distribution of labels they define:

	p(l) = (count(l) + smoothing) / (N + smoothing * K)

with N the sum of the counts and K the number of labels among the
given ones and the counted ones. With a smoothing of 0 the result
is the relative frequency of each counted label. An error is returned
if the result would be empty.
*/
func NewDistribution(counts map[string]int, labels []string, smoothing float64) (*Distribution, error) {
	all := make(map[string]bool, len(labels)+len(counts))
	for _, l := range labels {
		all[l] = true
	}
	var weight int
	for l, c := range counts {
		if c > 0 {
			all[l] = true
			weight += c
		}
	}
	if smoothing < 0 {
		return nil, fmt.Errorf("negative smoothing %v", smoothing)
	}
	denominator := float64(weight) + smoothing*float64(len(all))
	if denominator == 0 {
		return nil, ErrCannotPredictFromEmptySet
	}
	probs := make(map[string]float64, len(all))
	for l := range all {
		p := (float64(counts[l]) + smoothing) / denominator
		if p > 0 {
			probs[l] = p
		}
	}
	return &Distribution{probs, weight}, nil
}

/*
NewDistributionFromProbabilities takes a map[string]float64 with the probabilities
of each label and an integer with the number of samples from which those
probabilities were computed and returns a distribution representing those values.
*/
func NewDistributionFromProbabilities(probs map[string]float64, weight int) *Distribution {
	d := &Distribution{probabilities: probs, weight: weight}
	d.probabilities = d.Probabilities()
	return d
}

/*
ProbabilityOf takes a label and returns the float64 probability of that
label according to the distribution.
*/
func (d *Distribution) ProbabilityOf(label string) float64 {
	return d.probabilities[label]
}

/*
Probabilities returns a map of string to float64 containing
the probabilities of each label with non-zero probability.
The map is a copy that callers are free to modify.
*/
func (d *Distribution) Probabilities() map[string]float64 {
	result := make(map[string]float64, len(d.probabilities))
	for l, p := range d.probabilities {
		result[l] = p
	}
	return result
}

/*
Weight returns the weight of the distribution: an
int equal to the number of samples in the dataset from which
the distribution was made
*/
func (d *Distribution) Weight() int {
	return d.weight
}

// Labels returns the labels with non-zero probability in order
func (d *Distribution) Labels() []string {
	labels := make([]string, 0, len(d.probabilities))
	for l := range d.probabilities {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

/*
MostProbable returns the most probable label and its probability. Among
equally probable labels the smallest in lexicographic order is returned.
*/
func (d *Distribution) MostProbable() (label string, prob float64) {
	for _, l := range d.Labels() {
		if p := d.probabilities[l]; p > prob {
			label = l
			prob = p
		}
	}
	return
}

func (d *Distribution) String() string {
	parts := make([]string, 0, len(d.probabilities))
	for _, l := range d.Labels() {
		parts = append(parts, fmt.Sprintf("%s:%.4g", l, d.probabilities[l]))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
