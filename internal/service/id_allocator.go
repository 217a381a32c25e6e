package service

import "personal-planner/internal/model"

// IDAllocator hands out task ids. It is seeded from the stored collection, so
// if the highest id is removed outside the engine a restart reuses it.
type IDAllocator struct {
	next int64
}

// NewIDAllocator seeds an allocator with max(id)+1, or 1 when tasks carries
// no positive id.
func NewIDAllocator(tasks []model.Task) *IDAllocator {
	var maxID int64
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return &IDAllocator{next: maxID + 1}
}

// Next returns the current id and advances the counter.
func (a *IDAllocator) Next() int64 {
	id := a.next
	a.next++
	return id
}

// Peek returns the id the next call to Next will hand out.
func (a *IDAllocator) Peek() int64 {
	return a.next
}
