package grove

import (
	"github.com/pbanos/grove/dataset"
)

type row map[string]interface{}

func newDataset(labels []string, rows ...row) dataset.Dataset {
	samples := make([]dataset.Sample, 0, len(rows))
	for i, r := range rows {
		samples = append(samples, dataset.NewSample(r, labels[i]))
	}
	return dataset.New(samples)
}

// toys returns the three sample dataset of fruits and toys
// told apart by their shape
func toys() dataset.Dataset {
	return newDataset(
		[]string{"fruit", "toy", "fruit"},
		row{"color": "red", "shape": "circle"},
		row{"color": "red", "shape": "square"},
		row{"color": "green", "shape": "circle"},
	)
}

// twoLevels returns a dataset that needs two levels of
// splits to be classified without errors
func twoLevels() dataset.Dataset {
	return newDataset(
		[]string{"P", "Q", "Q", "Q"},
		row{"a": "x", "b": "x"},
		row{"a": "x", "b": "y"},
		row{"a": "y", "b": "x"},
		row{"a": "y", "b": "y"},
	)
}
