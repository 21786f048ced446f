// Package engine is the thin wazero wrapper that realizes the "VM
// Engine" collaborator: module compilation, import registration,
// instantiation, export invocation, and linear-memory access. Nothing
// here knows about the QMPP ABI; pkg/hostabi and pkg/hookrunner build on
// top of it.
package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Engine owns a wazero runtime and its module cache for the lifetime of
// a host process. One Engine is enough for both the init and process
// hooks of a run; each hook gets its own Instance.
type Engine struct {
	runtime wazero.Runtime
}

// New creates an Engine backed by a fresh wazero runtime. The runtime
// stops a running guest call once the context passed to that call is
// done, so a deadline on that context bounds hook execution.
func New(ctx context.Context) *Engine {
	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	return &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, cfg)}
}

// Close releases the runtime and every module/instance compiled against
// it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled guest, ready to be instantiated once per hook
// with a hook-appropriate import set.
type Module struct {
	compiled wazero.CompiledModule
}

// LoadModule compiles guest bytecode. A compilation failure means the
// bytes are not a valid module; this is a host-internal error, not a
// recoverable status.
func (e *Engine) LoadModule(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, err
	}
	return &Module{compiled: compiled}, nil
}

// ImportBuilder registers host functions under a named import module
// (always "env" for this ABI) before instantiation.
type ImportBuilder struct {
	builder wazero.HostModuleBuilder
}

// NewImportBuilder starts building the "env" host module for one
// instantiation.
func (e *Engine) NewImportBuilder(name string) *ImportBuilder {
	return &ImportBuilder{builder: e.runtime.NewHostModuleBuilder(name)}
}

// ExportFunction registers a single host function, named exactly as the
// guest's import declaration expects. fn must be a Go function; wazero
// infers the wasm signature by reflection. Handlers that need the
// calling instance's memory take api.Module as their second parameter
// (after context.Context).
func (b *ImportBuilder) ExportFunction(name string, fn interface{}) {
	b.builder.NewFunctionBuilder().
		WithFunc(fn).
		Export(name)
}

// Instantiate builds the import module, then instantiates the guest
// module under instanceName. Instantiation failure is fatal per spec:
// an import the guest calls may be missing, or start-up code may trap.
// instanceName must be unique per Engine; hookrunner instantiates the
// same compiled module twice (once per hook) and needs distinct names
// for each.
//
// Both returned modules are the caller's to close. The host import
// module is also named "env" on every call, so it must be closed
// before the next Instantiate on the same Engine — wazero's runtime
// rejects a second module registered under a name still in use.
func (e *Engine) Instantiate(ctx context.Context, module *Module, imports *ImportBuilder, instanceName string) (guest api.Module, host api.Module, err error) {
	host, err = imports.builder.Instantiate(ctx)
	if err != nil {
		return nil, nil, err
	}
	guest, err = e.runtime.InstantiateModule(ctx, module.compiled, wazero.NewModuleConfig().WithName(instanceName))
	if err != nil {
		host.Close(ctx)
		return nil, nil, err
	}
	return guest, host, nil
}

// CallExport invokes a zero-arity, zero-result exported function by
// name, the shape both QMPP_Hook_init and QMPP_Hook_process share. A
// returned error means the guest trapped or the export does not exist.
func CallExport(ctx context.Context, mod api.Module, name string) error {
	fn := mod.ExportedFunction(name)
	if fn == nil {
		return &MissingExportError{Name: name}
	}
	_, err := fn.Call(ctx)
	return err
}

// MissingExportError reports that a guest module does not export the
// requested hook function.
type MissingExportError struct {
	Name string
}

func (e *MissingExportError) Error() string {
	return "engine: guest does not export " + e.Name
}

// Memory returns the instantiated module's linear memory.
func Memory(mod api.Module) api.Memory {
	return mod.Memory()
}
