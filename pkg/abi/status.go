// Package abi holds the wire-level contract shared by the host and the
// guest across the QMPP sandbox boundary: status codes, the two-phase
// transfer primitives, and the transaction slot that negotiates
// variable-sized reads. Every definition here must stay bit-identical
// to its guest-side mirror in guest/qmppguest.
package abi

// Status is the 32-bit wire value the count, fixed-size read and
// *_init_read imports return to report success or a recoverable
// lookup/variant failure. Values are pinned numerically
// and must never be reordered — the guest and host are compiled
// independently and only agree through this enumeration.
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

// String renders the status the way diagnostic logs and test failures
// want to see it. Unknown values map to "unknown status" per spec.
func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case KeyLookupError:
		return "KeyLookupError"
	case EntityLookupError:
		return "EntityLookupError"
	case BrushLookupError:
		return "BrushLookupError"
	case SurfaceLookupError:
		return "SurfaceLookupError"
	case EntityTypeError:
		return "EntityTypeError"
	case NoAxesError:
		return "NoAxesError"
	default:
		return "unknown status"
	}
}
