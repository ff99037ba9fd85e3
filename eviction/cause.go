package eviction

// RemovalCause tags why an entry left a bounded segment, so passivation,
// activation, and listener collaborators can react differently to a capacity
// eviction than to an explicit removal or a replace-on-put.
type RemovalCause int

const (
	// Size means the bounded policy chose this key to make room for a new
	// entry (onChosenForEviction -> removal -> onEntryEviction ordering).
	Size RemovalCause = iota
	// Explicit means a caller removed the key directly.
	Explicit
	// Replaced means a put() overwrote an existing key; the old value is
	// gone but the key itself was never absent from the segment.
	Replaced
)

func (c RemovalCause) String() string {
	switch c {
	case Size:
		return "SIZE"
	case Explicit:
		return "EXPLICIT"
	case Replaced:
		return "REPLACED"
	default:
		return "UNKNOWN"
	}
}
