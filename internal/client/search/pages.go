package search

// Ellipsis marks a gap in the sequence returned by Pages.
const Ellipsis = -1

// Pages compacts the page indices shown under a paged list. current and the
// returned indices are zero-based.
//
//	totalPages <= 3            all pages
//	current <= 1               0 1 2 … last   (last only when totalPages > 4)
//	current >= totalPages-3    0 … n-3 n-2 n-1 (first only when totalPages > 4)
//	otherwise                  0 … c-1 c c+1 … last
func Pages(totalPages, current int) []int {
	if totalPages <= 0 {
		return nil
	}
	if current < 0 {
		current = 0
	}
	if current > totalPages-1 {
		current = totalPages - 1
	}

	if totalPages <= 3 {
		return seq(0, totalPages-1)
	}

	last := totalPages - 1

	if current <= 1 {
		out := seq(0, 2)
		if totalPages > 4 {
			return append(out, Ellipsis, last)
		}
		return append(out, last)
	}

	if current >= totalPages-3 {
		tail := seq(totalPages-3, last)
		if totalPages > 4 {
			return append([]int{0, Ellipsis}, tail...)
		}
		return append([]int{0}, tail...)
	}

	return []int{0, Ellipsis, current - 1, current, current + 1, Ellipsis, last}
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
