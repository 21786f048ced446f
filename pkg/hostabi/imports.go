package hostabi

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/engine"
)

// stub registers name with a handler that aborts the guest citing
// "not implemented in context" — the canonical wording for an import
// the current hook does not permit (invariant 6).
func stub(imports *engine.ImportBuilder, name string) {
	imports.ExportFunction(name, func(ctx context.Context) {
		abi.Abort(name + ": not implemented in context")
	})
}

// Register builds the full "env" import set for one hook, wiring live
// implementations where the §4.5 table permits and stubs everywhere
// else.
func Register(imports *engine.ImportBuilder, hook Hook, env *Environment) {
	if hook == HookInit {
		imports.ExportFunction("QMPP_register", func(ctx context.Context, mod api.Module, nameLen, namePtr uint32) {
			register(env, mod.Memory(), nameLen, namePtr)
		})
	} else {
		stub(imports, "QMPP_register")
	}

	imports.ExportFunction("QMPP_log_info", func(ctx context.Context, mod api.Module, mesgLen, mesgPtr uint32) {
		logMessage(env, mod.Memory(), "info", mesgLen, mesgPtr)
	})
	imports.ExportFunction("QMPP_log_error", func(ctx context.Context, mod api.Module, mesgLen, mesgPtr uint32) {
		logMessage(env, mod.Memory(), "error", mesgLen, mesgPtr)
	})

	if hook == HookProcess {
		imports.ExportFunction("QMPP_ehandle_count", func(ctx context.Context) uint32 {
			return ehandleCount(env)
		})

		imports.ExportFunction("QMPP_bhandle_count", func(ctx context.Context, mod api.Module, ehandle, outPtr uint32) uint32 {
			return uint32(bhandleCount(env, mod.Memory(), ehandle, outPtr))
		})
		imports.ExportFunction("QMPP_shandle_count", func(ctx context.Context, mod api.Module, ehandle, bidx, outPtr uint32) uint32 {
			return uint32(shandleCount(env, mod.Memory(), ehandle, bidx, outPtr))
		})

		imports.ExportFunction("QMPP_entity_exists", func(ctx context.Context, ehandle uint32) uint32 {
			return entityExists(env, ehandle)
		})
		imports.ExportFunction("QMPP_brush_exists", func(ctx context.Context, ehandle, bidx uint32) uint32 {
			return brushExists(env, ehandle, bidx)
		})
		imports.ExportFunction("QMPP_surface_exists", func(ctx context.Context, ehandle, bidx, sidx uint32) uint32 {
			return surfaceExists(env, ehandle, bidx, sidx)
		})

		imports.ExportFunction("QMPP_keyvalue_init_read", func(ctx context.Context, mod api.Module, ehandle, keyPtr, outSizePtr uint32) uint32 {
			return uint32(keyvalueInitRead(env, mod.Memory(), ehandle, keyPtr, outSizePtr))
		})
		imports.ExportFunction("QMPP_keyvalue_read", func(ctx context.Context, mod api.Module, valPtr uint32) {
			keyvalueRead(env, mod.Memory(), valPtr)
		})

		imports.ExportFunction("QMPP_keys_init_read", func(ctx context.Context, mod api.Module, ehandle, outSizePtr uint32) uint32 {
			return uint32(keysInitRead(env, mod.Memory(), ehandle, outSizePtr))
		})
		imports.ExportFunction("QMPP_keys_read", func(ctx context.Context, mod api.Module, keysPtr uint32) {
			keysRead(env, mod.Memory(), keysPtr)
		})

		imports.ExportFunction("QMPP_texture_init_read", func(ctx context.Context, mod api.Module, ehandle, bidx, sidx, outSizePtr uint32) uint32 {
			return uint32(textureInitRead(env, mod.Memory(), ehandle, bidx, sidx, outSizePtr))
		})
		imports.ExportFunction("QMPP_texture_read", func(ctx context.Context, mod api.Module, texturePtr uint32) {
			textureRead(env, mod.Memory(), texturePtr)
		})

		imports.ExportFunction("QMPP_half_space_read", func(ctx context.Context, mod api.Module, ehandle, bidx, sidx, outPtr uint32) uint32 {
			return uint32(halfSpaceRead(env, mod.Memory(), ehandle, bidx, sidx, outPtr))
		})
		imports.ExportFunction("QMPP_texture_alignment_read", func(ctx context.Context, mod api.Module, ehandle, bidx, sidx, outPtr uint32) uint32 {
			return uint32(textureAlignmentRead(env, mod.Memory(), ehandle, bidx, sidx, outPtr))
		})
		imports.ExportFunction("QMPP_texture_axes_read", func(ctx context.Context, mod api.Module, ehandle, bidx, sidx, outPtr uint32) uint32 {
			return uint32(textureAxesRead(env, mod.Memory(), ehandle, bidx, sidx, outPtr))
		})
	} else {
		for _, name := range []string{
			"QMPP_ehandle_count",
			"QMPP_bhandle_count",
			"QMPP_shandle_count",
			"QMPP_entity_exists",
			"QMPP_brush_exists",
			"QMPP_surface_exists",
			"QMPP_keyvalue_init_read",
			"QMPP_keyvalue_read",
			"QMPP_keys_init_read",
			"QMPP_keys_read",
			"QMPP_texture_init_read",
			"QMPP_texture_read",
			"QMPP_half_space_read",
			"QMPP_texture_alignment_read",
			"QMPP_texture_axes_read",
		} {
			stub(imports, name)
		}
	}
}
