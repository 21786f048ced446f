package qmppguest

import (
	"bytes"

	"github.com/4lt/qmpp/pkg/qmap"
)

// Register identifies this plugin to the host. Only valid during
// QMPP_Hook_init; calling it during process aborts the guest instance.
func Register(name string) {
	b := []byte(name)
	qmppRegister(uint32(len(b)), ptrOf(b))
}

// LogInfo emits an informational diagnostic line.
func LogInfo(mesg string) {
	b := []byte(mesg)
	qmppLogInfo(uint32(len(b)), ptrOf(b))
}

// LogError emits an error diagnostic line.
func LogError(mesg string) {
	b := []byte(mesg)
	qmppLogError(uint32(len(b)), ptrOf(b))
}

// EhandleCount returns the number of entities in the loaded map.
func EhandleCount() uint32 {
	return qmppEhandleCount()
}

// BhandleCount returns the brush count of entity ehandle. Point
// entities report 0, not an error — see accessor.BrushCount.
func BhandleCount(ehandle uint32) (uint32, Status) {
	var out uint32
	status := Status(qmppBhandleCount(ehandle, ptrOfU32(&out)))
	if status != Success {
		return 0, status
	}
	return out, Success
}

// ShandleCount returns the surface count of brush bidx on entity
// ehandle.
func ShandleCount(ehandle, bidx uint32) (uint32, Status) {
	var out uint32
	status := Status(qmppShandleCount(ehandle, bidx, ptrOfU32(&out)))
	if status != Success {
		return 0, status
	}
	return out, Success
}

// EntityExists reports whether ehandle names an entity in the map.
func EntityExists(ehandle uint32) bool {
	return qmppEntityExists(ehandle) != 0
}

// BrushExists reports whether bidx names a brush on entity ehandle.
func BrushExists(ehandle, bidx uint32) bool {
	return qmppBrushExists(ehandle, bidx) != 0
}

// SurfaceExists reports whether sidx names a surface on brush bidx of
// entity ehandle.
func SurfaceExists(ehandle, bidx, sidx uint32) bool {
	return qmppSurfaceExists(ehandle, bidx, sidx) != 0
}

// ReadKeyvalue looks up key in entity ehandle's edict and returns its
// value, driving the keyvalue_init_read/keyvalue_read transaction pair.
func ReadKeyvalue(ehandle uint32, key string) (string, Status) {
	keyBytes := append([]byte(key), 0)

	var size uint32
	status := Status(qmppKeyvalueInitRead(ehandle, ptrOf(keyBytes), ptrOfU32(&size)))
	if status != Success {
		return "", status
	}

	buf := make([]byte, size)
	qmppKeyvalueRead(ptrOf(buf))
	return trimTrailingNUL(buf), Success
}

// ReadKeys returns entity ehandle's edict keys, in declaration order,
// driving the keys_init_read/keys_read transaction pair. The host
// concatenates them NUL-separated and NUL-terminated; this unpacks that
// wire shape back into a slice.
func ReadKeys(ehandle uint32) ([]string, Status) {
	var size uint32
	status := Status(qmppKeysInitRead(ehandle, ptrOfU32(&size)))
	if status != Success {
		return nil, status
	}

	buf := make([]byte, size)
	qmppKeysRead(ptrOf(buf))

	if size == 0 {
		return nil, Success
	}
	parts := bytes.Split(buf[:size-1], []byte{0})
	keys := make([]string, len(parts))
	for i, p := range parts {
		keys[i] = string(p)
	}
	return keys, Success
}

// ReadTexture returns the texture name of surface sidx on brush bidx of
// entity ehandle, driving the texture_init_read/texture_read
// transaction pair.
func ReadTexture(ehandle, bidx, sidx uint32) (string, Status) {
	var size uint32
	status := Status(qmppTextureInitRead(ehandle, bidx, sidx, ptrOfU32(&size)))
	if status != Success {
		return "", status
	}

	buf := make([]byte, size)
	qmppTextureRead(ptrOf(buf))
	return trimTrailingNUL(buf), Success
}

// ReadHalfSpace returns the three plane-defining points of surface sidx
// on brush bidx of entity ehandle.
func ReadHalfSpace(ehandle, bidx, sidx uint32) (qmap.HalfSpace, Status) {
	var buf [9]float64
	status := Status(qmppHalfSpaceRead(ehandle, bidx, sidx, ptrOfF64(&buf[0])))
	if status != Success {
		return qmap.HalfSpace{}, status
	}
	return qmap.HalfSpace{
		{buf[0], buf[1], buf[2]},
		{buf[3], buf[4], buf[5]},
		{buf[6], buf[7], buf[8]},
	}, Success
}

// ReadAlignment returns the full texture alignment of surface sidx on
// brush bidx of entity ehandle. Axes is only populated when the
// underlying surface is Valve220-aligned; Standard-aligned surfaces
// leave Kind set to qmap.Standard and Axes zeroed.
func ReadAlignment(ehandle, bidx, sidx uint32) (qmap.Alignment, Status) {
	var base [5]float64
	status := Status(qmppTextureAlignmentRead(ehandle, bidx, sidx, ptrOfF64(&base[0])))
	if status != Success {
		return qmap.Alignment{}, status
	}

	result := qmap.Alignment{
		Kind: qmap.Standard,
		Base: qmap.BaseAlignment{
			Offset:   [2]float64{base[0], base[1]},
			Rotation: base[2],
			Scale:    [2]float64{base[3], base[4]},
		},
	}

	var axes [6]float64
	axesStatus := Status(qmppTextureAxesRead(ehandle, bidx, sidx, ptrOfF64(&axes[0])))
	switch axesStatus {
	case Success:
		result.Kind = qmap.Valve220
		result.Axes = [2]qmap.Vec3{
			{axes[0], axes[1], axes[2]},
			{axes[3], axes[4], axes[5]},
		}
	case NoAxesError:
		// Standard alignment carries no axes; result.Kind already reflects that.
	default:
		return qmap.Alignment{}, axesStatus
	}
	return result, Success
}

func trimTrailingNUL(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}
