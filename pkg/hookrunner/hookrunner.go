// Package hookrunner sequences the two lifecycle hooks against a
// loaded guest: build a hook-scoped import set, instantiate, invoke the
// export, and turn a trapped/fatal guest into a diagnosed error rather
// than letting it panic out of the process. init always completes
// before process starts.
package hookrunner

import (
	"context"
	"time"

	"github.com/4lt/qmpp/internal/errx"
	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/engine"
	"github.com/4lt/qmpp/pkg/hostabi"
	"github.com/4lt/qmpp/pkg/logging"
	"github.com/4lt/qmpp/pkg/qmap"
)

// Result is returned after a full init-then-process run.
type Result struct {
	PluginName string
}

// Run loads guestBytes once, then runs QMPP_Hook_init followed by
// QMPP_Hook_process against m. Each hook gets its own instantiation of
// the same compiled module, its own Environment, and its own import
// set built per the hook-scoped capability table.
func Run(ctx context.Context, eng *engine.Engine, guestBytes []byte, m *qmap.Map, emitter *logging.Emitter) (*Result, error) {
	module, err := eng.LoadModule(ctx, guestBytes)
	if err != nil {
		return nil, errx.Wrap(ErrModuleLoad, err)
	}

	pluginName, err := runInit(ctx, eng, module, emitter)
	if err != nil {
		return nil, err
	}

	if err := runProcess(ctx, eng, module, m, emitter); err != nil {
		return nil, err
	}

	return &Result{PluginName: pluginName}, nil
}

func runInit(ctx context.Context, eng *engine.Engine, module *engine.Module, emitter *logging.Emitter) (pluginName string, err error) {
	hookEmitter := emitter.WithHook("init")
	env := hostabi.NewEnvironment(nil, hookEmitter)
	emitHookStart(hookEmitter)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fatalToError(r, "init")
			emitGuestTrap(hookEmitter, err)
		}
	}()

	imports := eng.NewImportBuilder("env")
	hostabi.Register(imports, hostabi.HookInit, env)

	mod, host, instErr := eng.Instantiate(ctx, module, imports, "guest-init")
	if instErr != nil {
		return "", errx.Wrap(ErrInstantiate, instErr)
	}
	defer host.Close(ctx)
	defer mod.Close(ctx)

	if callErr := engine.CallExport(ctx, mod, "QMPP_Hook_init"); callErr != nil {
		err = errx.Wrap(ErrHookInvoke, callErr)
		emitGuestTrap(hookEmitter, err)
		return "", err
	}

	emitHookComplete(hookEmitter, time.Since(start))
	return env.PluginName(), nil
}

func runProcess(ctx context.Context, eng *engine.Engine, module *engine.Module, m *qmap.Map, emitter *logging.Emitter) (err error) {
	hookEmitter := emitter.WithHook("process")
	env := hostabi.NewEnvironment(m, hookEmitter)
	emitHookStart(hookEmitter)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fatalToError(r, "process")
			emitGuestTrap(hookEmitter, err)
		}
	}()

	imports := eng.NewImportBuilder("env")
	hostabi.Register(imports, hostabi.HookProcess, env)

	mod, host, instErr := eng.Instantiate(ctx, module, imports, "guest-process")
	if instErr != nil {
		return errx.Wrap(ErrInstantiate, instErr)
	}
	defer host.Close(ctx)
	defer mod.Close(ctx)

	if callErr := engine.CallExport(ctx, mod, "QMPP_Hook_process"); callErr != nil {
		err = errx.Wrap(ErrHookInvoke, callErr)
		emitGuestTrap(hookEmitter, err)
		return err
	}

	emitHookComplete(hookEmitter, time.Since(start))
	return nil
}

// fatalToError converts a recovered panic into a returned error. An
// abi.FatalError is the guest misbehaving — the expected, diagnosable
// case. Anything else is a host-internal bug and is re-panicked rather
// than swallowed.
func fatalToError(r interface{}, hook string) error {
	if fe, ok := r.(abi.FatalError); ok {
		return errx.With(ErrHookInvoke, " during %s: %s", hook, fe.Reason)
	}
	panic(r)
}

func emitHookStart(emitter *logging.Emitter) {
	if emitter == nil {
		return
	}
	_ = emitter.Emit(logging.EventHookStart, "hook started", "", nil, &logging.HookLifecycleData{})
}

func emitHookComplete(emitter *logging.Emitter, d time.Duration) {
	if emitter == nil {
		return
	}
	_ = emitter.Emit(logging.EventHookComplete, "hook completed", "", nil, &logging.HookLifecycleData{
		DurationMS: d.Milliseconds(),
	})
}

func emitGuestTrap(emitter *logging.Emitter, err error) {
	if emitter == nil || err == nil {
		return
	}
	_ = emitter.Emit(logging.EventGuestTrap, err.Error(), "", nil, &logging.GuestTrapData{
		Reason: err.Error(),
	})
}
