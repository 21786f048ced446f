package hookrunner

import "errors"

// ErrModuleLoad wraps a guest bytecode compilation failure — the bytes
// are not a valid module.
var ErrModuleLoad = errors.New("hookrunner: failed to load guest module")

// ErrInstantiate wraps an instantiation failure for a given hook.
var ErrInstantiate = errors.New("hookrunner: failed to instantiate guest")

// ErrHookInvoke wraps a guest trap or a fatal ABI violation surfaced
// while invoking a hook's exported function.
var ErrHookInvoke = errors.New("hookrunner: guest aborted during hook invocation")
