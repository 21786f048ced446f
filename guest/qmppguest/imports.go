// Package qmppguest is the Go-native guest SDK for the QMPP ABI: typed
// wrappers over the raw "env" imports, callable from any guest compiled
// with GOOS=wasip1 GOARCH=wasm. It is the Go counterpart to
// qmpp-high-api's host_interface.rs — the raw extern "C" block below
// mirrors that file's unsafe { QMPP_* } declarations one for one.
// pkg/qmap's data types (HalfSpace, Alignment, Vec3) are shared with
// the host directly, the way quake_util::qmap is shared on the Rust
// side; Status is its own bit-identical mirror of pkg/abi.Status, kept
// separate so this package stays free of the host's wazero dependency.
package qmppguest

import "unsafe"

//go:wasmimport env QMPP_register
func qmppRegister(nameLen, namePtr uint32)

//go:wasmimport env QMPP_log_info
func qmppLogInfo(mesgLen, mesgPtr uint32)

//go:wasmimport env QMPP_log_error
func qmppLogError(mesgLen, mesgPtr uint32)

//go:wasmimport env QMPP_ehandle_count
func qmppEhandleCount() uint32

//go:wasmimport env QMPP_bhandle_count
func qmppBhandleCount(ehandle, outPtr uint32) uint32

//go:wasmimport env QMPP_shandle_count
func qmppShandleCount(ehandle, bidx, outPtr uint32) uint32

//go:wasmimport env QMPP_entity_exists
func qmppEntityExists(ehandle uint32) uint32

//go:wasmimport env QMPP_brush_exists
func qmppBrushExists(ehandle, bidx uint32) uint32

//go:wasmimport env QMPP_surface_exists
func qmppSurfaceExists(ehandle, bidx, sidx uint32) uint32

//go:wasmimport env QMPP_keyvalue_init_read
func qmppKeyvalueInitRead(ehandle, keyPtr, outSizePtr uint32) uint32

//go:wasmimport env QMPP_keyvalue_read
func qmppKeyvalueRead(valPtr uint32)

//go:wasmimport env QMPP_keys_init_read
func qmppKeysInitRead(ehandle, outSizePtr uint32) uint32

//go:wasmimport env QMPP_keys_read
func qmppKeysRead(keysPtr uint32)

//go:wasmimport env QMPP_texture_init_read
func qmppTextureInitRead(ehandle, bidx, sidx, outSizePtr uint32) uint32

//go:wasmimport env QMPP_texture_read
func qmppTextureRead(texturePtr uint32)

//go:wasmimport env QMPP_half_space_read
func qmppHalfSpaceRead(ehandle, bidx, sidx, outPtr uint32) uint32

//go:wasmimport env QMPP_texture_alignment_read
func qmppTextureAlignmentRead(ehandle, bidx, sidx, outPtr uint32) uint32

//go:wasmimport env QMPP_texture_axes_read
func qmppTextureAxesRead(ehandle, bidx, sidx, outPtr uint32) uint32

// ptrOf returns the linear-memory address of b's first byte, or 0 for
// an empty slice (no import in this ABI dereferences a pointer when the
// paired length is 0).
func ptrOf(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(&b[0])))
}

func ptrOfU32(v *uint32) uint32 {
	return uint32(uintptr(unsafe.Pointer(v)))
}

func ptrOfF64(v *float64) uint32 {
	return uint32(uintptr(unsafe.Pointer(v)))
}
