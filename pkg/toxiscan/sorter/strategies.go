package sorter

import "github.com/cognicore/toxiscan/pkg/toxiscan/freq"

// bubbleSort swaps adjacent pairs until a full pass makes no swap.
func bubbleSort(p []freq.Pair, c *counter) {
	n := len(p)
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if c.compare(p[j], p[j+1]) > 0 {
				c.swap(p, j, j+1)
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// quickSort is a Lomuto quick sort with the last element as pivot.
func quickSort(p []freq.Pair, c *counter) {
	quickRange(p, 0, len(p)-1, c)
}

func quickRange(p []freq.Pair, lo, hi int, c *counter) {
	if lo >= hi {
		return
	}
	mid := partition(p, lo, hi, c)
	quickRange(p, lo, mid-1, c)
	quickRange(p, mid+1, hi, c)
}

func partition(p []freq.Pair, lo, hi int, c *counter) int {
	pivot := p[hi]
	c.move()

	i := lo - 1
	for j := lo; j < hi; j++ {
		if c.compare(p[j], pivot) <= 0 {
			i++
			c.swap(p, i, j)
		}
	}
	c.swap(p, i+1, hi)
	return i + 1
}

// mergeSort splits recursively and merges through left/right buffers.
func mergeSort(p []freq.Pair, c *counter) {
	mergeRange(p, 0, len(p)-1, c)
}

func mergeRange(p []freq.Pair, lo, hi int, c *counter) {
	if lo >= hi {
		return
	}
	mid := (lo + hi) / 2
	mergeRange(p, lo, mid, c)
	mergeRange(p, mid+1, hi, c)
	merge(p, lo, mid, hi, c)
}

// merge counts one move per buffer fill and one per write-back.
func merge(p []freq.Pair, lo, mid, hi int, c *counter) {
	left := make([]freq.Pair, mid-lo+1)
	right := make([]freq.Pair, hi-mid)
	for i := range left {
		left[i] = p[lo+i]
		c.move()
	}
	for j := range right {
		right[j] = p[mid+1+j]
		c.move()
	}

	i, j, k := 0, 0, lo
	for i < len(left) && j < len(right) {
		if c.compare(left[i], right[j]) <= 0 {
			p[k] = left[i]
			i++
		} else {
			p[k] = right[j]
			j++
		}
		k++
		c.move()
	}
	for ; i < len(left); i++ {
		p[k] = left[i]
		k++
		c.move()
	}
	for ; j < len(right); j++ {
		p[k] = right[j]
		k++
		c.move()
	}
}
