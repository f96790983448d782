package matcher

// cowCaptures is a copy-on-write capture-slot vector shared by sibling
// PikeVM threads that haven't diverged yet. A Split fans one thread into
// two that both reference the same backing array until one of them
// writes a capture slot, at which point only that branch pays for a
// copy — grounded on the teacher's cowCaptures/sharedCaptures split,
// which exists for exactly this reason: captures are cloned on every
// Split but rarely written between splits.
type cowCaptures struct {
	shared *sharedCaptures
}

type sharedCaptures struct {
	data []int
	refs int
}

// newCOWCaptures allocates a fresh slot vector for numCaptures groups,
// all slots initialized to -1 (unset). Group k uses slots 2k and 2k+1;
// slots 0 and 1 (group 0) are allocated but never written.
func newCOWCaptures(numCaptures int) cowCaptures {
	if numCaptures == 0 {
		return cowCaptures{}
	}
	data := make([]int, (numCaptures+1)*2)
	for i := range data {
		data[i] = -1
	}
	return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
}

// clone returns a reference to the same backing array with its refcount
// bumped, marking it as shared. Every fan-out point (a Split handing the
// same captures to two child threads) must clone explicitly so a later
// update() on one branch copies instead of mutating the other branch's
// view.
func (c cowCaptures) clone() cowCaptures {
	if c.shared == nil {
		return c
	}
	c.shared.refs++
	return c
}

// update sets slot to value, copying the backing array first if it's
// shared with another thread.
func (c cowCaptures) update(slot, value int) cowCaptures {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.data) {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[slot] = value
		return cowCaptures{shared: &sharedCaptures{data: data, refs: 1}}
	}
	c.shared.data[slot] = value
	return c
}

// copyData returns an owned copy of the slot vector, safe to retain
// after the thread that produced it is discarded.
func (c cowCaptures) copyData() []int {
	if c.shared == nil {
		return nil
	}
	out := make([]int, len(c.shared.data))
	copy(out, c.shared.data)
	return out
}
