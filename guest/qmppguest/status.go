package qmppguest

// Status mirrors pkg/abi.Status bit-for-bit — the host and every guest
// must agree on these wire values even though they are compiled
// independently. It is duplicated here rather than imported from
// pkg/abi because that package also carries the wazero engine
// bindings, a host-only dependency with no place in a freestanding
// wasm guest binary.
type Status uint32

const (
	Success            Status = 0
	KeyLookupError     Status = 1
	EntityLookupError  Status = 2
	BrushLookupError   Status = 3
	SurfaceLookupError Status = 4
	EntityTypeError    Status = 5
	NoAxesError        Status = 6
)
