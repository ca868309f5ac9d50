package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

const leaf = -1

// Tree is a fitted regression tree in parallel-array layout. Node 0 is the
// root; a node whose left child is -1 is a leaf.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

func (t *Tree) validate() (maxFeature int, err error) {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return 0, errors.New("model: tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return 0, fmt.Errorf("model: tree arrays disagree on node count %d", n)
	}

	maxFeature = -1
	for node := 0; node < n; node++ {
		left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
		if left == leaf {
			continue
		}
		// children always follow their parent, which also rules out cycles
		if left <= node || left >= n || right <= node || right >= n {
			return 0, fmt.Errorf("model: node %d has invalid children (%d, %d)", node, left, right)
		}
		if t.Feature[node] < 0 {
			return 0, fmt.Errorf("model: split node %d has feature %d", node, t.Feature[node])
		}
		if t.Feature[node] > maxFeature {
			maxFeature = t.Feature[node]
		}
	}
	return maxFeature, nil
}

// eval walks from the root to a leaf. Inputs are compared at float32
// precision, matching how the trees were fit.
func (t *Tree) eval(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(x[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// DecisionTree is a single regression tree
type DecisionTree struct {
	header
	Tree
}

func decodeDecisionTree(data []byte) (*DecisionTree, error) {
	var m DecisionTree
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model: invalid decision tree: %w", err)
	}
	maxFeature, err := m.Tree.validate()
	if err != nil {
		return nil, err
	}
	if err := m.resolveWidth(maxFeature + 1); err != nil {
		return nil, err
	}
	return &m, nil
}

// Predict evaluates the tree on x.
func (m *DecisionTree) Predict(x []float64) (float64, error) {
	if err := m.checkWidth(x); err != nil {
		return 0, err
	}
	return m.eval(x), nil
}

// RandomForest averages the predictions of its trees
type RandomForest struct {
	header
	Estimators []Tree `json:"estimators"`
}

func decodeRandomForest(data []byte) (*RandomForest, error) {
	var m RandomForest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("model: invalid random forest: %w", err)
	}
	if len(m.Estimators) == 0 {
		return nil, errors.New("model: random forest has no estimators")
	}

	maxFeature := -1
	for i := range m.Estimators {
		f, err := m.Estimators[i].validate()
		if err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
		if f > maxFeature {
			maxFeature = f
		}
	}
	if err := m.resolveWidth(maxFeature + 1); err != nil {
		return nil, err
	}
	return &m, nil
}

// Predict evaluates every tree on x and returns the mean.
func (m *RandomForest) Predict(x []float64) (float64, error) {
	if err := m.checkWidth(x); err != nil {
		return 0, err
	}

	var sum float64
	for i := range m.Estimators {
		sum += m.Estimators[i].eval(x)
	}
	return sum / float64(len(m.Estimators)), nil
}
