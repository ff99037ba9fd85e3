package eviction

import "container/list"

// twoQ implements the 2Q admission/ghost-queue policy: first-time keys are
// admitted into a small probationary queue (A1in); a second access promotes
// them into the protected queue (Am). Keys evicted from A1in leave a ghost
// entry (A1out) so a near-term re-insertion is admitted straight into Am
// instead of probation again. Generalized from the retrieval pack's 2Q
// policy, which drives a shard's LRU list via hooks; here Am is simply its
// own front-to-back list since this package owns no shard list of its own.
type twoQ[K comparable] struct {
	capIn    int
	capGhost int

	inList *list.List
	inIdx  map[K]*list.Element // key -> element in inList

	amList *list.List
	amIdx  map[K]*list.Element // key -> element in amList

	ghostList *list.List
	ghostIdx  map[K]*list.Element // key -> element in ghostList
}

func newTwoQ[K comparable](capacity int) *twoQ[K] {
	capIn := capacity / 4
	if capIn < 1 {
		capIn = 1
	}
	capGhost := capacity
	if capGhost < 1 {
		capGhost = 1
	}
	return &twoQ[K]{
		capIn:     capIn,
		capGhost:  capGhost,
		inList:    list.New(),
		inIdx:     make(map[K]*list.Element),
		amList:    list.New(),
		amIdx:     make(map[K]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[K]*list.Element),
	}
}

// OnGet promotes a key out of A1in into Am on second access, or refreshes
// its MRU position if it is already in Am.
func (q *twoQ[K]) OnGet(k K) {
	if el, ok := q.inIdx[k]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, k)
		q.amIdx[k] = q.amList.PushFront(k)
		return
	}
	if el, ok := q.amIdx[k]; ok {
		q.amList.MoveToFront(el)
	}
}

// OnPut admits k into Am directly if it is a recent ghost (second chance),
// otherwise into A1in as a first-time admission.
func (q *twoQ[K]) OnPut(k K) {
	if _, ok := q.inIdx[k]; ok {
		return
	}
	if el, ok := q.amIdx[k]; ok {
		q.amList.MoveToFront(el)
		return
	}
	if ge, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		q.amIdx[k] = q.amList.PushFront(k)
		return
	}
	q.inIdx[k] = q.inList.PushFront(k)
}

// Evict nominates A1in's LRU candidate when A1in is over capacity, otherwise
// Am's LRU candidate. A1in evictions leave a ghost; Am evictions do not.
func (q *twoQ[K]) Evict() (K, bool) {
	if q.inList.Len() > q.capIn {
		if tail := q.inList.Back(); tail != nil {
			k := tail.Value.(K)
			q.inList.Remove(tail)
			delete(q.inIdx, k)
			q.addGhost(k)
			return k, true
		}
	}
	if tail := q.amList.Back(); tail != nil {
		k := tail.Value.(K)
		q.amList.Remove(tail)
		delete(q.amIdx, k)
		return k, true
	}
	if tail := q.inList.Back(); tail != nil {
		k := tail.Value.(K)
		q.inList.Remove(tail)
		delete(q.inIdx, k)
		q.addGhost(k)
		return k, true
	}
	var zero K
	return zero, false
}

func (q *twoQ[K]) Remove(k K) {
	if el, ok := q.inIdx[k]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, k)
		return
	}
	if el, ok := q.amIdx[k]; ok {
		q.amList.Remove(el)
		delete(q.amIdx, k)
		return
	}
	if el, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(el)
		delete(q.ghostIdx, k)
	}
}

func (q *twoQ[K]) addGhost(k K) {
	if old, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)
	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		if tail == nil {
			break
		}
		kk := tail.Value.(K)
		delete(q.ghostIdx, kk)
		q.ghostList.Remove(tail)
	}
}

var _ Policy[string] = (*twoQ[string])(nil)
