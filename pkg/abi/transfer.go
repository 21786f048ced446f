package abi

import (
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// ErrMemoryOverflow is returned by the transfer primitives when a guest
// pointer (plus, where relevant, a length) would read or write outside
// the instance's linear memory. Per spec this is always fatal to the
// guest instance, never a recoverable status code.
var ErrMemoryOverflow = errors.New("abi: guest pointer out of bounds")

// RecvBytes copies length bytes starting at ptr out of guest linear
// memory. The returned slice is a copy; it does not alias memory.
func RecvBytes(mem api.Memory, ptr, length uint32) ([]byte, error) {
	raw, ok := mem.Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("%w: recv_bytes(ptr=%d, len=%d)", ErrMemoryOverflow, ptr, length)
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// RecvCString scans guest linear memory starting at ptr for a NUL
// terminator, returning the bytes before it (the terminator itself is
// excluded). It fails if memory ends before a NUL byte is found.
func RecvCString(mem api.Memory, ptr uint32) ([]byte, error) {
	size := mem.Size()
	out := []byte{}
	for p := ptr; p < size; p++ {
		b, ok := mem.ReadByte(p)
		if !ok {
			return nil, fmt.Errorf("%w: recv_c_string(ptr=%d)", ErrMemoryOverflow, ptr)
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
	return nil, fmt.Errorf("%w: recv_c_string(ptr=%d) ran off the end of memory", ErrMemoryOverflow, ptr)
}

// SendBytes copies payload into guest linear memory starting at ptr.
func SendBytes(mem api.Memory, ptr uint32, payload []byte) error {
	if !mem.Write(ptr, payload) {
		return fmt.Errorf("%w: send_bytes(ptr=%d, len=%d)", ErrMemoryOverflow, ptr, len(payload))
	}
	return nil
}
