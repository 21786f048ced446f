package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4lt/qmpp/internal/wasmtest"
)

func TestRecvBytes_RoundTrip(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	require.NoError(t, SendBytes(mem, 16, []byte("worldspawn")))

	got, err := RecvBytes(mem, 16, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("worldspawn"), got)
}

func TestRecvBytes_OutOfBounds(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	size := mem.Size()

	_, err := RecvBytes(mem, size-4, 16)
	assert.ErrorIs(t, err, ErrMemoryOverflow)
}

func TestRecvCString_StopsAtNUL(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	require.NoError(t, SendBytes(mem, 0, []byte("func_button\x00trailing garbage")))

	got, err := RecvCString(mem, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("func_button"), got)
}

func TestRecvCString_EmptyString(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	require.NoError(t, SendBytes(mem, 100, []byte{0}))

	got, err := RecvCString(mem, 100)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, got)
}

func TestRecvCString_RunsOffEndOfMemory(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	size := mem.Size()
	require.NoError(t, SendBytes(mem, size-4, []byte("oops")))

	_, err := RecvCString(mem, size-4)
	assert.ErrorIs(t, err, ErrMemoryOverflow)
}

func TestRecvCString_PointerAlreadyOutOfBounds(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	size := mem.Size()

	_, err := RecvCString(mem, size+1)
	assert.ErrorIs(t, err, ErrMemoryOverflow)
}

func TestSendBytes_OutOfBounds(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	size := mem.Size()

	err := SendBytes(mem, size-2, []byte("too long"))
	assert.ErrorIs(t, err, ErrMemoryOverflow)
}

func TestSendBytes_ExactFit(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	size := mem.Size()

	payload := []byte("fits")
	require.NoError(t, SendBytes(mem, size-uint32(len(payload)), payload))

	got, err := RecvBytes(mem, size-uint32(len(payload)), uint32(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}
