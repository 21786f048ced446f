// Package hostabi implements the "env" import module: the 18-entry
// ABI surface a guest links against, grouped by which hook (init or
// process) may call them. Every handler is split into a small, directly
// testable function operating on api.Memory plus a thin wazero
// registration wrapper that supplies mod.Memory().
package hostabi

import (
	"sync"

	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/logging"
	"github.com/4lt/qmpp/pkg/qmap"
)

// Hook identifies which lifecycle entry point is executing, and
// therefore which imports are live versus stubbed.
type Hook int

const (
	HookInit Hook = iota
	HookProcess
)

func (h Hook) String() string {
	if h == HookInit {
		return "init"
	}
	return "process"
}

// Environment is the per-hook state shared by every import handler: the
// plugin's self-registered name, the parsed map (process only), the
// three transaction slots variable-size reads negotiate through, and
// the sink log_info/log_error route to.
type Environment struct {
	mu         sync.Mutex
	pluginName string

	Map *qmap.Map

	KeyvalueSlot abi.Slot
	KeysSlot     abi.Slot
	TextureSlot  abi.Slot

	Emitter *logging.Emitter
}

// NewEnvironment builds an environment for one hook invocation. map is
// nil for the init hook.
func NewEnvironment(m *qmap.Map, emitter *logging.Emitter) *Environment {
	return &Environment{
		pluginName: "unknown",
		Map:        m,
		Emitter:    emitter,
	}
}

// PluginName returns the name the guest registered, or "unknown" if it
// has not called register yet (or never will, in the process hook).
func (e *Environment) PluginName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pluginName
}

// SetPluginName records the name passed to register.
func (e *Environment) SetPluginName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pluginName = name
}
