/*
Package grove grows decision trees that classify samples of categorical
features into string labels.

Trees are grown top-down: every node is developed by splitting its training
samples by the values of the feature with the highest information gain,
until samples are pure, features run out or the configured bounds are hit.
Development of nodes is organized as tasks on a queue.Queue consumed by
workers, with the nodes kept on a tree.NodeStore.
*/
package grove

import (
	"context"
	"time"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/feature"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/tree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultEmptyQueueSleep = 10 * time.Millisecond

var log = logrus.WithField("component", "grove")

/*
Model is a grown decision tree along the configuration it was grown with.
Its tree is not modified after growing, so it can be used to classify
samples from several goroutines at a time.
*/
type Model struct {
	*tree.Tree
	Config Config
}

/*
Grow takes a context, a dataset, a slice of features and a Config and
grows a tree to classify samples like those in the dataset using the
given features. A nil slice of features stands for all the features
defined by the samples in the dataset.

The tree is grown on process memory with cfg.Workers goroutines. See
GrowWith to provide other queue and node store implementations.
*/
func Grow(ctx context.Context, s dataset.Dataset, features []feature.Feature, cfg Config) (*Model, error) {
	return GrowWith(ctx, s, features, cfg, queue.New(), tree.NewMemoryNodeStore())
}

/*
GrowWith works like Grow but develops the tree using the given queue
and node store. The queue is stopped before returning. The node store is
left open, as it holds the nodes of the returned model.

An error wrapping ErrInvalidConfig is returned if the config does not
validate, ErrEmptyDataset if the dataset has no samples and an error
wrapping ErrMalformedSample if a sample holds a value not valid for its
feature.
*/
func GrowWith(ctx context.Context, s dataset.Dataset, features []feature.Feature, cfg Config, q queue.Queue, ns tree.NodeStore) (*Model, error) {
	defer q.Stop(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyDataset
	}
	if features == nil {
		features, err = dataset.Features(ctx, s)
		if err != nil {
			return nil, err
		}
	}
	if err = validateSamples(ctx, s, features); err != nil {
		return nil, err
	}
	t, err := Seed(ctx, features, s, q, ns)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"samples":  count,
		"features": len(features),
		"labels":   len(t.Labels),
		"workers":  cfg.Workers,
	}).Debug("growing tree")
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return Work(gctx, t, q, &cfg, defaultEmptyQueueSleep)
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return &Model{t, cfg}, nil
}

func validateSamples(ctx context.Context, s dataset.Dataset, features []feature.Feature) error {
	samples, err := s.Samples(ctx)
	if err != nil {
		return err
	}
	for i, sample := range samples {
		for _, f := range features {
			v, err := sample.ValueFor(ctx, f)
			if err != nil {
				return err
			}
			if ok, err := f.Valid(v); !ok {
				if err == nil {
					err = errors.Errorf("invalid value %v for feature %s", v, f.Name())
				}
				return errors.Wrapf(ErrMalformedSample, "sample %d: %v", i, err)
			}
		}
	}
	return nil
}

// Seed takes a context, a slice of features, a dataset, a queue
// and a node store and sets everything up so that workers that
// consume from the queue afterwards grow a tree that predicts the
// labels of the samples on the given dataset using the features
// in the given slice.
// Specifically it will create the root node of the tree on the
// node store and push a task to branch it out on the queue.
// The function returns the tree that can be grown or an error
// if the labels of the dataset cannot be counted, the node cannot
// be created on the store, or the task pushed to the queue.
func Seed(ctx context.Context, features []feature.Feature, s dataset.Dataset, q queue.Queue, ns tree.NodeStore) (*tree.Tree, error) {
	labels, err := dataset.Labels(ctx, s)
	if err != nil {
		return nil, err
	}
	n := &tree.Node{}
	err = ns.Create(ctx, n)
	if err != nil {
		return nil, err
	}
	task := &queue.Task{Node: n, Dataset: s, AvailableFeatures: features}
	t := tree.New(n.ID, ns, labels)
	err = q.Push(ctx, task)
	if err != nil {
		ns.Delete(ctx, n)
		return nil, err
	}
	return t, nil
}

// BranchOut takes a context, a task, a tree and a config,
// develops the node in the task using the task's dataset and
// available features and returns a set of tasks to develop the
// resulting children nodes or an error.
// The node is left as a leaf when its samples share a label or
// when the config or the lack of informative features forbid
// splitting it. Otherwise it gets a child per value its samples
// take for the best feature. Either way the node is stored with
// the label distribution of its samples.
func BranchOut(ctx context.Context, task *queue.Task, t *tree.Tree, cfg *Config) (tasks []*queue.Task, e error) {
	counts, err := task.Dataset.CountLabels(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e != nil {
			return
		}
		e = t.NodeStore.Store(ctx, task.Node)
	}()
	logger := log.WithFields(logrus.Fields{"node": task.ID(), "depth": task.Depth()})
	if len(counts) == 1 {
		task.Node.Distribution, err = tree.NewDistribution(counts, nil, 0)
		if err != nil {
			return nil, err
		}
		logger.Debug("pure node")
		return nil, nil
	}
	task.Node.Distribution, err = tree.NewDistribution(counts, t.Labels, cfg.Smoothing)
	if err != nil {
		return nil, err
	}
	count, err := task.Dataset.Count(ctx)
	if err != nil {
		return nil, err
	}
	if task.Depth() >= cfg.MaxDepth || count < cfg.MinSamples || len(task.AvailableFeatures) == 0 {
		logger.Debug("leaf by bounds")
		return nil, nil
	}
	sEntropy, err := task.Dataset.Entropy(ctx)
	if err != nil {
		return nil, err
	}
	if sEntropy <= cfg.MinimumEntropy {
		logger.Debug("leaf by minimum entropy")
		return nil, nil
	}
	selectedPartition, err := BestFeature(ctx, task.Dataset, task.AvailableFeatures, cfg)
	if err != nil {
		return nil, err
	}
	if selectedPartition == nil {
		logger.Debug("leaf for lack of informative features")
		return nil, nil
	}
	task.Node.SubtreeFeature = selectedPartition.Feature
	stAvailableFeatures := make([]feature.Feature, 0, len(task.AvailableFeatures)-1)
	for _, sf := range task.AvailableFeatures {
		if sf.Name() != selectedPartition.Feature.Name() {
			stAvailableFeatures = append(stAvailableFeatures, sf)
		}
	}
	stNodeIDs := make([]string, 0, len(selectedPartition.Tasks))
	for _, st := range selectedPartition.Tasks {
		st.Node.ParentID = task.Node.ID
		st.Node.Depth = task.Node.Depth + 1
		err = t.NodeStore.Create(ctx, st.Node)
		if err != nil {
			return nil, err
		}
		stNodeIDs = append(stNodeIDs, st.Node.ID)
		st.AvailableFeatures = stAvailableFeatures
	}
	task.Node.SubtreeIDs = stNodeIDs
	logger.WithFields(logrus.Fields{
		"feature":  selectedPartition.Feature.Name(),
		"gain":     selectedPartition.InformationGain(),
		"subtrees": len(stNodeIDs),
	}).Debug("node split")
	return selectedPartition.Tasks, nil
}

// Work takes a context, a tree, a queue, a config
// and an emptyQueueSleep duration and enters a loop in which
// it:
//   - pulls a task for the queue,
//   - branches its node out into new subnodes using BranchOut
//   - pushes the tasks for the new subnodes into the queue
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning nil. If no task can be pulled but the
// sum is not 0, then the worker will sleep for the given
// emptyQueueSleep duration and then retry.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if BranchOut returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error.
func Work(ctx context.Context, t *tree.Tree, q queue.Queue, cfg *Config, emptyQueueSleep time.Duration) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if p+r == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, t, q, cfg)
		cancel()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
	return nil
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, q queue.Queue, cfg *Config) error {
	defer func() {
		q.Drop(ctx, task.ID())
	}()
	tasks, err := BranchOut(ctx, task, t, cfg)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
