package hostabi

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"

	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/accessor"
	"github.com/4lt/qmpp/pkg/logging"
	"github.com/4lt/qmpp/pkg/qmap"
)

// mustRecvBytes aborts the guest instance instead of returning an error;
// an out-of-bounds pointer during an import call is always fatal.
func mustRecvBytes(mem api.Memory, ptr, length uint32) []byte {
	b, err := abi.RecvBytes(mem, ptr, length)
	if err != nil {
		abi.Abort(err.Error())
	}
	return b
}

func mustRecvCString(mem api.Memory, ptr uint32) []byte {
	b, err := abi.RecvCString(mem, ptr)
	if err != nil {
		abi.Abort(err.Error())
	}
	return b
}

func mustSendBytes(mem api.Memory, ptr uint32, payload []byte) {
	if err := abi.SendBytes(mem, ptr, payload); err != nil {
		abi.Abort(err.Error())
	}
}

func mustSendU32(mem api.Memory, ptr, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	mustSendBytes(mem, ptr, buf[:])
}

func mustSendF64s(mem api.Memory, ptr uint32, values []float64) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	mustSendBytes(mem, ptr, buf)
}

// emitLookupError reports a non-Success status an import is about to
// return to the guest: a recoverable map-lookup miss, not a fault.
func emitLookupError(env *Environment, importName string, status abi.Status) {
	if env.Emitter == nil {
		return
	}
	_ = env.Emitter.Emit(logging.EventLookupError, importName+": "+status.String(), env.PluginName(), nil, &logging.LookupErrorData{
		Import: importName,
		Status: status.String(),
	})
}

// register stores the guest's self-identified plugin name. Permissive:
// any UTF-8 name is accepted, unvalidated beyond that.
func register(env *Environment, mem api.Memory, nameLen, namePtr uint32) {
	name := mustRecvBytes(mem, namePtr, nameLen)
	if !utf8.Valid(name) {
		abi.Abort("register: plugin name is not valid UTF-8")
	}
	env.SetPluginName(string(name))
}

func ehandleCount(env *Environment) uint32 {
	return uint32(len(env.Map.Entities))
}

func logMessage(env *Environment, mem api.Memory, level string, mesgLen, mesgPtr uint32) {
	raw := mustRecvBytes(mem, mesgPtr, mesgLen)
	if !utf8.Valid(raw) {
		abi.Abort("log_" + level + ": message is not valid UTF-8")
	}
	if env.Emitter == nil {
		return
	}
	msg := string(raw)
	_ = env.Emitter.Emit(logging.EventGuestLog, msg, env.PluginName(), nil, &logging.GuestLogData{
		Level:   level,
		Message: msg,
	})
}

func bhandleCount(env *Environment, mem api.Memory, ehandle, outPtr uint32) abi.Status {
	count, status := accessor.BrushCount(env.Map, ehandle)
	if status != abi.Success {
		emitLookupError(env, "bhandle_count", status)
		return status
	}
	mustSendU32(mem, outPtr, count)
	return abi.Success
}

func shandleCount(env *Environment, mem api.Memory, ehandle, bidx, outPtr uint32) abi.Status {
	count, status := accessor.SurfaceCount(env.Map, ehandle, bidx)
	if status != abi.Success {
		emitLookupError(env, "shandle_count", status)
		return status
	}
	mustSendU32(mem, outPtr, count)
	return abi.Success
}

func entityExists(env *Environment, ehandle uint32) uint32 {
	_, status := accessor.GetEntity(env.Map, ehandle)
	return boolU32(status == abi.Success)
}

func brushExists(env *Environment, ehandle, bidx uint32) uint32 {
	_, status := accessor.GetBrush(env.Map, ehandle, bidx)
	return boolU32(status == abi.Success)
}

func surfaceExists(env *Environment, ehandle, bidx, sidx uint32) uint32 {
	_, status := accessor.GetSurface(env.Map, ehandle, bidx, sidx)
	return boolU32(status == abi.Success)
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func keyvalueInitRead(env *Environment, mem api.Memory, ehandle, keyPtr, outSizePtr uint32) abi.Status {
	key := mustRecvCString(mem, keyPtr)

	ent, status := accessor.GetEntity(env.Map, ehandle)
	if status != abi.Success {
		emitLookupError(env, "keyvalue_init_read", status)
		return status
	}

	value, ok := ent.Edict.Get(string(key))
	if !ok {
		emitLookupError(env, "keyvalue_init_read", abi.KeyLookupError)
		return abi.KeyLookupError
	}

	payload := append([]byte(value), 0)
	mustSendU32(mem, outSizePtr, uint32(len(payload)))
	if err := env.KeyvalueSlot.Open(payload); err != nil {
		abi.Abort("keyvalue_init_read: " + err.Error())
	}
	return abi.Success
}

func keyvalueRead(env *Environment, mem api.Memory, valPtr uint32) {
	payload, err := env.KeyvalueSlot.Close()
	if err != nil {
		abi.Abort("keyvalue_read: " + err.Error())
	}
	mustSendBytes(mem, valPtr, payload)
}

func keysInitRead(env *Environment, mem api.Memory, ehandle, outSizePtr uint32) abi.Status {
	ent, status := accessor.GetEntity(env.Map, ehandle)
	if status != abi.Success {
		emitLookupError(env, "keys_init_read", status)
		return status
	}

	var payload []byte
	for _, key := range ent.Edict.Keys {
		payload = append(payload, key...)
		payload = append(payload, 0)
	}

	mustSendU32(mem, outSizePtr, uint32(len(payload)))
	if err := env.KeysSlot.Open(payload); err != nil {
		abi.Abort("keys_init_read: " + err.Error())
	}
	return abi.Success
}

func keysRead(env *Environment, mem api.Memory, keysPtr uint32) {
	payload, err := env.KeysSlot.Close()
	if err != nil {
		abi.Abort("keys_read: " + err.Error())
	}
	mustSendBytes(mem, keysPtr, payload)
}

func textureInitRead(env *Environment, mem api.Memory, ehandle, bidx, sidx, outSizePtr uint32) abi.Status {
	surf, status := accessor.GetSurface(env.Map, ehandle, bidx, sidx)
	if status != abi.Success {
		emitLookupError(env, "texture_init_read", status)
		return status
	}

	payload := append([]byte(surf.Texture), 0)
	mustSendU32(mem, outSizePtr, uint32(len(payload)))
	if err := env.TextureSlot.Open(payload); err != nil {
		abi.Abort("texture_init_read: " + err.Error())
	}
	return abi.Success
}

func textureRead(env *Environment, mem api.Memory, texturePtr uint32) {
	payload, err := env.TextureSlot.Close()
	if err != nil {
		abi.Abort("texture_read: " + err.Error())
	}
	mustSendBytes(mem, texturePtr, payload)
}

func halfSpaceRead(env *Environment, mem api.Memory, ehandle, bidx, sidx, outPtr uint32) abi.Status {
	surf, status := accessor.GetSurface(env.Map, ehandle, bidx, sidx)
	if status != abi.Success {
		emitLookupError(env, "half_space_read", status)
		return status
	}

	hs := surf.HalfSpace
	mustSendF64s(mem, outPtr, []float64{
		hs[0][0], hs[0][1], hs[0][2],
		hs[1][0], hs[1][1], hs[1][2],
		hs[2][0], hs[2][1], hs[2][2],
	})
	return abi.Success
}

func textureAlignmentRead(env *Environment, mem api.Memory, ehandle, bidx, sidx, outPtr uint32) abi.Status {
	surf, status := accessor.GetSurface(env.Map, ehandle, bidx, sidx)
	if status != abi.Success {
		emitLookupError(env, "texture_alignment_read", status)
		return status
	}

	base := surf.Alignment.Base
	mustSendF64s(mem, outPtr, []float64{
		base.Offset[0], base.Offset[1], base.Rotation, base.Scale[0], base.Scale[1],
	})
	return abi.Success
}

func textureAxesRead(env *Environment, mem api.Memory, ehandle, bidx, sidx, outPtr uint32) abi.Status {
	surf, status := accessor.GetSurface(env.Map, ehandle, bidx, sidx)
	if status != abi.Success {
		emitLookupError(env, "texture_axes_read", status)
		return status
	}

	if surf.Alignment.Kind != qmap.Valve220 {
		// Not a lookup miss: a Standard-aligned surface legitimately has no
		// axes, and every guest querying alignment hits this on purpose.
		return abi.NoAxesError
	}

	axes := surf.Alignment.Axes
	mustSendF64s(mem, outPtr, []float64{
		axes[0][0], axes[0][1], axes[0][2],
		axes[1][0], axes[1][1], axes[1][2],
	})
	return abi.Success
}
