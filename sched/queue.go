package bsched

import (
	"golang.org/x/exp/constraints"
)

// sortedMap is a binary search tree that keeps its keys in order. Fake uses it
// as a timer queue keyed by due time.
//
// The tree is not balanced. Due times mostly arrive in increasing order, so in
// practice it degenerates into a list and Insert costs O(n) in the number of
// distinct pending due times. That is fine for test-sized queues.
type sortedMap[K constraints.Ordered, V any] struct {
	root *node[K, V]
}

type node[K constraints.Ordered, V any] struct {
	key   K
	value V
	left  *node[K, V]
	right *node[K, V]
}

func newSortedMap[K constraints.Ordered, V any]() *sortedMap[K, V] {
	return &sortedMap[K, V]{}
}

func (sm *sortedMap[K, V]) Insert(key K, value V) {
	if sm.root == nil {
		sm.root = &node[K, V]{key: key, value: value}
		return
	}
	current := sm.root
	for {
		if key < current.key {
			if current.left == nil {
				current.left = &node[K, V]{key: key, value: value}
				return
			}
			current = current.left
		} else if key > current.key {
			if current.right == nil {
				current.right = &node[K, V]{key: key, value: value}
				return
			}
			current = current.right
		} else {
			// Key already exists, update the value.
			current.value = value
			return
		}
	}
}

func (sm *sortedMap[K, V]) Get(key K) (V, bool) {
	current := sm.root
	for current != nil {
		if key < current.key {
			current = current.left
		} else if key > current.key {
			current = current.right
		} else {
			return current.value, true
		}
	}
	var zero V
	return zero, false
}

// Min returns the smallest key and its value.
func (sm *sortedMap[K, V]) Min() (K, V, bool) {
	if sm.root == nil {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}
	current := sm.root
	for current.left != nil {
		current = current.left
	}
	return current.key, current.value, true
}

func (sm *sortedMap[K, V]) Delete(key K) bool {
	var deleted bool
	sm.root, deleted = deleteNode(sm.root, key)
	return deleted
}

func deleteNode[K constraints.Ordered, V any](n *node[K, V], key K) (*node[K, V], bool) {
	if n == nil {
		return nil, false
	}

	var deleted bool
	switch {
	case key < n.key:
		n.left, deleted = deleteNode(n.left, key)
		return n, deleted
	case key > n.key:
		n.right, deleted = deleteNode(n.right, key)
		return n, deleted
	}

	if n.left == nil {
		return n.right, true
	} else if n.right == nil {
		return n.left, true
	}

	// Two children: replace with the in-order successor.
	succ := n.right
	for succ.left != nil {
		succ = succ.left
	}
	n.key, n.value = succ.key, succ.value
	n.right, _ = deleteNode(n.right, succ.key)
	return n, true
}
