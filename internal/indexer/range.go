package indexer

import "fmt"

// IDRange is an inclusive range of monster ids.
type IDRange struct {
	From uint64
	To   uint64
}

// IDs lists the ids of the range in ascending order.
func (r IDRange) IDs() []uint64 {
	ids := make([]uint64, 0, r.To-r.From+1)
	for id := r.From; ; id++ {
		ids = append(ids, id)
		if id == r.To {
			break
		}
	}
	return ids
}

// SplitRange splits an id range into batches of size batchSize.
func SplitRange(from, to, batchSize uint64) ([]IDRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to id must be >= from id")
	}

	ranges := make([]IDRange, 0)
	start := from
	for start <= to {
		remaining := to - start + 1
		var end uint64
		if remaining <= batchSize {
			end = to
		} else {
			end = start + batchSize - 1
		}
		ranges = append(ranges, IDRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return ranges, nil
}
