// Package wasmtest provides small wazero-backed test fixtures so the
// interop layer's tests exercise a real api.Memory / api.Module instead
// of hand-rolled fakes of wazero's interface.
package wasmtest

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// minimalMemoryModule is a hand-assembled WASM binary exporting a single
// one-page (64KiB), growable linear memory named "mem". It carries no
// code section; it exists purely to back api.Memory in tests.
var minimalMemoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // \0asm, version 1
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x07, 0x01, 0x03, 'm', 'e', 'm', 0x02, 0x00, // export "mem" (memory 0)
}

// NewMemory instantiates the minimal memory module and returns its
// exported linear memory. The backing runtime and module are closed
// automatically at test cleanup.
func NewMemory(t *testing.T) api.Memory {
	t.Helper()
	ctx := context.Background()

	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = r.Close(ctx) })

	compiled, err := r.CompileModule(ctx, minimalMemoryModule)
	if err != nil {
		t.Fatalf("wasmtest: compile minimal memory module: %v", err)
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		t.Fatalf("wasmtest: instantiate minimal memory module: %v", err)
	}
	t.Cleanup(func() { _ = mod.Close(ctx) })

	mem := mod.Memory()
	if mem == nil {
		t.Fatal("wasmtest: minimal memory module exported no memory")
	}
	return mem
}
