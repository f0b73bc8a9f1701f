package dataset

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pbanos/grove/feature"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

const (
	sampleCountThresholdForDatasetImplementation = 1000
)

/*
Dataset represents an ordered collection of labeled samples.

Its Entropy method returns the entropy (in bits) of the labels of the samples
in the dataset: a measure of the disinformation we have on the labels of
samples that belong to it.

Its SubsetWith method takes a feature.Criterion and returns a subset that only
contains samples that satisfy it, in the same order.

Its FeatureValues method returns the distinct values samples take for a feature,
in order of appearance, nil standing for samples not defining it.

Its CountLabels method returns the number of samples per label.

Its Samples method returns the samples it contains
*/
type Dataset interface {
	Entropy(context.Context) (float64, error)
	SubsetWith(context.Context, feature.Criterion) (Dataset, error)
	FeatureValues(context.Context, feature.Feature) ([]interface{}, error)
	CountLabels(context.Context) (map[string]int, error)
	Samples(context.Context) ([]Sample, error)
	Count(context.Context) (int, error)
	Criteria(context.Context) ([]feature.Criterion, error)
}

// Cached values are guarded by lock: a dataset may be shared by
// several trees growing at once.
type memoryIntensiveSubsettingDataset struct {
	lock     sync.Mutex
	entropy  *float64
	samples  []Sample
	criteria []feature.Criterion
}

type cpuIntensiveSubsettingDataset struct {
	lock     sync.Mutex
	entropy  *float64
	count    *int
	samples  []Sample
	criteria []feature.Criterion
}

/*
New takes a slice of samples and returns a dataset built with them.
The dataset will be a CPU intensive one when the number of samples is
over sampleCountThresholdForDatasetImplementation
*/
func New(samples []Sample) Dataset {
	if len(samples) > sampleCountThresholdForDatasetImplementation {
		return NewCPUIntensive(samples)
	}
	return NewMemoryIntensive(samples)
}

/*
NewMemoryIntensive takes a slice of samples and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of samples when subsetting to reduce
calculations at the cost of increased memory.
*/
func NewMemoryIntensive(samples []Sample) Dataset {
	return &memoryIntensiveSubsettingDataset{samples: samples}
}

/*
NewCPUIntensive takes a slice of samples and returns a Dataset
built with them. A cpu-intensive dataset is an implementation that
instead of replicating the samples when subsetting, stores the
applying feature criteria to define the subset and keeps the same
sample slice. This can achieve a drastic reduction in memory use
that comes at the cost of CPU time: every calculation that goes over
the samples of the dataset will apply the feature criteria of the dataset
on all original samples (the ones provided to this method).
*/
func NewCPUIntensive(samples []Sample) Dataset {
	return &cpuIntensiveSubsettingDataset{samples: samples}
}

/*
Entropy takes a map with the number of samples per label and returns
the Shannon entropy in bits of the label distribution they define.
Labels are visited in order so that the result does not depend on map
iteration. The entropy of an empty count is 0.
*/
func Entropy(labelCounts map[string]int) float64 {
	var total float64
	labels := make([]string, 0, len(labelCounts))
	for l, c := range labelCounts {
		if c > 0 {
			labels = append(labels, l)
			total += float64(c)
		}
	}
	if total == 0 {
		return 0.0
	}
	sort.Strings(labels)
	p := make([]float64, len(labels))
	for i, l := range labels {
		p[i] = float64(labelCounts[l]) / total
	}
	return math.Max(0, stat.Entropy(p)/math.Ln2)
}

/*
Labels takes a context and a dataset and returns the sorted list of
distinct labels of its samples.
*/
func Labels(ctx context.Context, s Dataset) ([]string, error) {
	counts, err := s.CountLabels(ctx)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels, nil
}

/*
Features takes a context and a dataset and returns the union of the
features defined by its samples as open discrete features sorted
by name. Samples that do not implement FeatureNamer contribute no
features.
*/
func Features(ctx context.Context, s Dataset) ([]feature.Feature, error) {
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, sample := range samples {
		fn, ok := sample.(FeatureNamer)
		if !ok {
			continue
		}
		for _, n := range fn.FeatureNames() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	features := make([]feature.Feature, 0, len(names))
	for _, n := range names {
		features = append(features, feature.NewDiscreteFeature(n, nil))
	}
	return features, nil
}

func (s *memoryIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	return len(s.samples), nil
}

func (s *cpuIntensiveSubsettingDataset) Count(ctx context.Context) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.count != nil {
		return *s.count, nil
	}
	var length int
	err := s.iterateOnDataset(ctx, func(_ Sample) (bool, error) {
		length++
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	s.count = &length
	return length, nil
}

func (s *memoryIntensiveSubsettingDataset) Entropy(ctx context.Context) (float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.entropy != nil {
		return *s.entropy, nil
	}
	counts, err := s.CountLabels(ctx)
	if err != nil {
		return 0.0, err
	}
	result := Entropy(counts)
	s.entropy = &result
	return result, nil
}

func (s *cpuIntensiveSubsettingDataset) Entropy(ctx context.Context) (float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.entropy != nil {
		return *s.entropy, nil
	}
	counts, err := s.CountLabels(ctx)
	if err != nil {
		return 0.0, err
	}
	result := Entropy(counts)
	s.entropy = &result
	return result, nil
}

func (s *memoryIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	fvc := &featureValueCollector{encountered: make(map[interface{}]bool)}
	for _, sample := range s.samples {
		err := fvc.collect(ctx, sample, f)
		if err != nil {
			return nil, err
		}
	}
	return fvc.values, nil
}

func (s *cpuIntensiveSubsettingDataset) FeatureValues(ctx context.Context, f feature.Feature) ([]interface{}, error) {
	fvc := &featureValueCollector{encountered: make(map[interface{}]bool)}
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		return true, fvc.collect(ctx, sample, f)
	})
	if err != nil {
		return nil, err
	}
	return fvc.values, nil
}

func (s *memoryIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	var samples []Sample
	for _, sample := range s.samples {
		ok, err := fc.SatisfiedBy(ctx, sample)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, sample)
		}
	}
	return &memoryIntensiveSubsettingDataset{samples: samples, criteria: appendCriterion(s.criteria, fc)}, nil
}

func (s *cpuIntensiveSubsettingDataset) SubsetWith(ctx context.Context, fc feature.Criterion) (Dataset, error) {
	return &cpuIntensiveSubsettingDataset{samples: s.samples, criteria: appendCriterion(s.criteria, fc)}, nil
}

func (s *memoryIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	return s.samples, nil
}

func (s *cpuIntensiveSubsettingDataset) Samples(ctx context.Context) ([]Sample, error) {
	var samples []Sample
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		samples = append(samples, sample)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return samples, nil
}

func (s *memoryIntensiveSubsettingDataset) CountLabels(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int)
	for _, sample := range s.samples {
		result[sample.Label()]++
	}
	return result, nil
}

func (s *cpuIntensiveSubsettingDataset) CountLabels(ctx context.Context) (map[string]int, error) {
	result := make(map[string]int)
	err := s.iterateOnDataset(ctx, func(sample Sample) (bool, error) {
		result[sample.Label()]++
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *memoryIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *cpuIntensiveSubsettingDataset) Criteria(ctx context.Context) ([]feature.Criterion, error) {
	return s.criteria, nil
}

func (s *cpuIntensiveSubsettingDataset) iterateOnDataset(ctx context.Context, lambda func(Sample) (bool, error)) error {
	for _, sample := range s.samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		skip := false
		for _, criterion := range s.criteria {
			ok, err := criterion.SatisfiedBy(ctx, sample)
			if err != nil {
				return err
			}
			if !ok {
				skip = true
				break
			}
		}
		if !skip {
			ok, err := lambda(sample)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
	}
	return nil
}

type featureValueCollector struct {
	values      []interface{}
	encountered map[interface{}]bool
}

func (fvc *featureValueCollector) collect(ctx context.Context, sample Sample, f feature.Feature) error {
	v, err := sample.ValueFor(ctx, f)
	if err != nil {
		return err
	}
	if !feature.Comparable(v) {
		return errors.Wrapf(feature.ErrIncomparableValue, "sample %v has a value of type %T for feature %s", sample, v, f.Name())
	}
	if !fvc.encountered[v] {
		fvc.encountered[v] = true
		fvc.values = append(fvc.values, v)
	}
	return nil
}

func appendCriterion(criteria []feature.Criterion, fc feature.Criterion) []feature.Criterion {
	result := make([]feature.Criterion, 0, len(criteria)+1)
	result = append(result, criteria...)
	return append(result, fc)
}
