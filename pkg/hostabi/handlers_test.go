package hostabi

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4lt/qmpp/internal/wasmtest"
	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/logging"
	"github.com/4lt/qmpp/pkg/qmap"
)

// captureSink records events in memory for test assertions.
type captureSink struct {
	events []*logging.Event
}

func (s *captureSink) Write(e *logging.Event) error {
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) Close() error { return nil }

func fixtureMap() *qmap.Map {
	var world qmap.Entity
	world.Edict.Set("classname", "worldspawn")
	world.Edict.Set("message", "Test Map")
	world.HasBrushes = true
	world.Brushes = []qmap.Brush{
		{Surfaces: []qmap.Surface{
			{
				Texture:   "BUTTON1",
				HalfSpace: qmap.HalfSpace{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}},
				Alignment: qmap.Alignment{
					Kind: qmap.Valve220,
					Base: qmap.BaseAlignment{Offset: [2]float64{8, 16}, Rotation: 0, Scale: [2]float64{0.5, 0.5}},
					Axes: [2]qmap.Vec3{{1, 0, 0}, {0, 1, 0}},
				},
			},
			{
				Texture:   "WALL1",
				HalfSpace: qmap.HalfSpace{{1, 1, 1}, {2, 1, 1}, {1, 2, 1}},
				Alignment: qmap.Alignment{
					Kind: qmap.Standard,
					Base: qmap.BaseAlignment{Offset: [2]float64{0, 0}, Rotation: 45, Scale: [2]float64{1, 1}},
				},
			},
		}},
	}

	point := qmap.Entity{}
	point.Edict.Set("classname", "info_player_start")

	return &qmap.Map{Entities: []qmap.Entity{world, point}}
}

func newEnv() *Environment {
	return NewEnvironment(fixtureMap(), nil)
}

func readU32(t *testing.T, mem interface{ Read(uint32, uint32) ([]byte, bool) }, ptr uint32) uint32 {
	t.Helper()
	b, ok := mem.Read(ptr, 4)
	require.True(t, ok)
	return binary.LittleEndian.Uint32(b)
}

func TestEhandleCount(t *testing.T) {
	env := newEnv()
	assert.Equal(t, uint32(2), ehandleCount(env))
}

func TestBhandleCount_PointEntityIsZero(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := bhandleCount(env, mem, 1, 0)
	assert.Equal(t, abi.Success, status)
	assert.Equal(t, uint32(0), readU32(t, mem, 0))
}

func TestBhandleCount_BrushEntity(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := bhandleCount(env, mem, 0, 0)
	assert.Equal(t, abi.Success, status)
	assert.Equal(t, uint32(1), readU32(t, mem, 0))
}

func TestShandleCount(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := shandleCount(env, mem, 0, 0, 0)
	assert.Equal(t, abi.Success, status)
	assert.Equal(t, uint32(2), readU32(t, mem, 0))
}

func TestEntityExists(t *testing.T) {
	env := newEnv()
	assert.Equal(t, uint32(1), entityExists(env, 0))
	assert.Equal(t, uint32(0), entityExists(env, 99))
}

func TestKeyvalueInitReadThenRead_Success(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	key := append([]byte("message"), 0)
	require.NoError(t, abi.SendBytes(mem, 100, key))

	status := keyvalueInitRead(env, mem, 0, 100, 200)
	require.Equal(t, abi.Success, status)

	size := readU32(t, mem, 200)
	assert.Equal(t, uint32(len("Test Map")+1), size)

	keyvalueRead(env, mem, 300)
	got, err := abi.RecvBytes(mem, 300, size)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("Test Map"), 0), got)
}

func TestKeyvalueInitRead_KeyLookupError(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	key := append([]byte("nonexistent"), 0)
	require.NoError(t, abi.SendBytes(mem, 100, key))

	status := keyvalueInitRead(env, mem, 0, 100, 200)
	assert.Equal(t, abi.KeyLookupError, status)
}

func TestKeyvalueInitRead_KeyLookupError_EmitsLookupErrorEvent(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	sink := &captureSink{}
	env := NewEnvironment(fixtureMap(), logging.NewEmitter(logging.EmitterConfig{RunID: "r"}, sink))

	key := append([]byte("nonexistent"), 0)
	require.NoError(t, abi.SendBytes(mem, 100, key))

	status := keyvalueInitRead(env, mem, 0, 100, 200)
	require.Equal(t, abi.KeyLookupError, status)

	require.Len(t, sink.events, 1)
	assert.Equal(t, logging.EventLookupError, sink.events[0].EventType)

	var data logging.LookupErrorData
	require.NoError(t, json.Unmarshal(sink.events[0].Data, &data))
	assert.Equal(t, "keyvalue_init_read", data.Import)
	assert.Equal(t, abi.KeyLookupError.String(), data.Status)
}

func TestBhandleCount_EntityLookupError_EmitsLookupErrorEvent(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	sink := &captureSink{}
	env := NewEnvironment(fixtureMap(), logging.NewEmitter(logging.EmitterConfig{RunID: "r"}, sink))

	status := bhandleCount(env, mem, 99, 0)
	require.Equal(t, abi.EntityLookupError, status)

	require.Len(t, sink.events, 1)
	assert.Equal(t, logging.EventLookupError, sink.events[0].EventType)
}

func TestKeyvalueInitRead_EntityLookupError(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	key := append([]byte("message"), 0)
	require.NoError(t, abi.SendBytes(mem, 100, key))

	status := keyvalueInitRead(env, mem, 99, 100, 200)
	assert.Equal(t, abi.EntityLookupError, status)
}

func TestKeyvalueRead_WithoutInitIsFatal(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	assert.PanicsWithValue(t, abi.FatalError{Reason: "keyvalue_read: abi: transaction slot not open"}, func() {
		keyvalueRead(env, mem, 300)
	})
}

func TestKeyvalueInitRead_DoubleInitIsFatal(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()
	key := append([]byte("message"), 0)
	require.NoError(t, abi.SendBytes(mem, 100, key))

	require.Equal(t, abi.Success, keyvalueInitRead(env, mem, 0, 100, 200))
	assert.Panics(t, func() {
		keyvalueInitRead(env, mem, 0, 100, 200)
	})
}

func TestKeysInitReadThenRead_PreservesOrder(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := keysInitRead(env, mem, 0, 200)
	require.Equal(t, abi.Success, status)
	size := readU32(t, mem, 200)

	keysRead(env, mem, 300)
	got, err := abi.RecvBytes(mem, 300, size)
	require.NoError(t, err)
	assert.Equal(t, []byte("classname\x00message\x00"), got)
}

func TestTextureInitReadThenRead(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := textureInitRead(env, mem, 0, 0, 0, 200)
	require.Equal(t, abi.Success, status)
	size := readU32(t, mem, 200)

	textureRead(env, mem, 300)
	got, err := abi.RecvBytes(mem, 300, size)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("BUTTON1"), 0), got)
}

func TestHalfSpaceRead_BitIdentical(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := halfSpaceRead(env, mem, 0, 0, 0, 400)
	require.Equal(t, abi.Success, status)

	raw, err := abi.RecvBytes(mem, 400, 72)
	require.NoError(t, err)

	want := []float64{0, 0, 0, 0, 1, 0, 1, 0, 0}
	for i, w := range want {
		got := math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		assert.Equal(t, w, got)
	}
}

func TestTextureAxesRead_Valve220WritesAxes(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := textureAxesRead(env, mem, 0, 0, 0, 400)
	assert.Equal(t, abi.Success, status)

	raw, err := abi.RecvBytes(mem, 400, 48)
	require.NoError(t, err)
	u := math.Float64frombits(binary.LittleEndian.Uint64(raw[0:]))
	assert.Equal(t, 1.0, u)
}

func TestTextureAxesRead_StandardIsNoAxesError(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	status := textureAxesRead(env, mem, 0, 0, 1, 400)
	assert.Equal(t, abi.NoAxesError, status)
}

func TestRegister_StoresPluginName(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	name := []byte("hello")
	require.NoError(t, abi.SendBytes(mem, 0, name))

	register(env, mem, uint32(len(name)), 0)
	assert.Equal(t, "hello", env.PluginName())
}

func TestRegister_RejectsInvalidUTF8(t *testing.T) {
	mem := wasmtest.NewMemory(t)
	env := newEnv()

	invalid := []byte{0xff, 0xfe}
	require.NoError(t, abi.SendBytes(mem, 0, invalid))

	assert.Panics(t, func() {
		register(env, mem, uint32(len(invalid)), 0)
	})
}
