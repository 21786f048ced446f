//go:build wasip1

// Command qmpphello is the reference plugin, a Go port of
// qmpp-hello-plugin/src/lib.rs: it registers as "hello", then reports
// worldspawn's message, its full key/value list, aggregate brush and
// surface counts across the map, and every func_button surface's
// geometry and texture.
package main

import (
	"fmt"

	"github.com/4lt/qmpp/guest/qmppguest"
	"github.com/4lt/qmpp/pkg/qmap"
)

func main() {}

//go:wasmexport QMPP_Hook_init
func hookInit() {
	qmppguest.Register("hello")
}

//go:wasmexport QMPP_Hook_process
func hookProcess() {
	logWorldspawnMessage()
	logWorldspawnKeysAndValues()
	logEntityTotals()
	logButtonTextures()
}

func logWorldspawnMessage() {
	value, status := qmppguest.ReadKeyvalue(0, "message")
	if status == qmppguest.Success {
		qmppguest.LogInfo(fmt.Sprintf("Map name: %s", value))
		return
	}

	switch status {
	case qmppguest.EntityLookupError:
		qmppguest.LogError("Entity handle not found")
	case qmppguest.KeyLookupError:
		qmppguest.LogError("Key not found in entity")
	default:
		qmppguest.LogError("Unknown status")
	}
}

func logWorldspawnKeysAndValues() {
	qmppguest.LogInfo("Worldspawn keys & values:")

	keys, status := qmppguest.ReadKeys(0)
	if status != qmppguest.Success {
		if status == qmppguest.EntityLookupError {
			qmppguest.LogError("Entity handle not found")
		} else {
			qmppguest.LogError("Unknown status")
		}
		return
	}

	for _, key := range keys {
		value, status := qmppguest.ReadKeyvalue(0, key)
		if status == qmppguest.Success {
			qmppguest.LogInfo(fmt.Sprintf("%s: %s", key, value))
		}
	}
}

func logEntityTotals() {
	entityCt := qmppguest.EhandleCount()

	var brushCt, surfaceCt uint32
	for ehandle := uint32(0); ehandle < entityCt; ehandle++ {
		bct, status := qmppguest.BhandleCount(ehandle)
		if status != qmppguest.Success {
			continue
		}
		brushCt += bct

		for bidx := uint32(0); bidx < bct; bidx++ {
			sct, status := qmppguest.ShandleCount(ehandle, bidx)
			if status == qmppguest.Success {
				surfaceCt += sct
			}
		}
	}

	qmppguest.LogInfo(fmt.Sprintf("Found %d surfaces in %d brushes in %d entities", surfaceCt, brushCt, entityCt))
}

func logButtonTextures() {
	qmppguest.LogInfo("Button textures:")

	entityCt := qmppguest.EhandleCount()
	for ehandle := uint32(0); ehandle < entityCt; ehandle++ {
		classname, status := qmppguest.ReadKeyvalue(ehandle, "classname")
		if status != qmppguest.Success || classname != "func_button" {
			continue
		}

		bct, status := qmppguest.BhandleCount(ehandle)
		if status != qmppguest.Success {
			continue
		}

		for bidx := uint32(0); bidx < bct; bidx++ {
			sct, status := qmppguest.ShandleCount(ehandle, bidx)
			if status != qmppguest.Success {
				continue
			}
			for sidx := uint32(0); sidx < sct; sidx++ {
				logButtonSurface(ehandle, bidx, sidx)
			}
		}
	}
}

func logButtonSurface(ehandle, bidx, sidx uint32) {
	texture, status := qmppguest.ReadTexture(ehandle, bidx, sidx)
	if status != qmppguest.Success {
		return
	}

	halfSpace, status := qmppguest.ReadHalfSpace(ehandle, bidx, sidx)
	if status != qmppguest.Success {
		return
	}

	alignment, status := qmppguest.ReadAlignment(ehandle, bidx, sidx)
	if status != qmppguest.Success {
		return
	}

	qmppguest.LogInfo(fmt.Sprintf("(%5v %5v %5v) (%5v %5v %5v) (%5v %5v %5v):",
		halfSpace[0][0], halfSpace[0][1], halfSpace[0][2],
		halfSpace[1][0], halfSpace[1][1], halfSpace[1][2],
		halfSpace[2][0], halfSpace[2][1], halfSpace[2][2]))

	if alignment.Kind == qmap.Valve220 {
		qmppguest.LogInfo(fmt.Sprintf("  U: <%.3f %.3f %.3f> V: <%.3f %.3f %.3f>",
			alignment.Axes[0][0], alignment.Axes[0][1], alignment.Axes[0][2],
			alignment.Axes[1][0], alignment.Axes[1][1], alignment.Axes[1][2]))
	}

	qmppguest.LogInfo(fmt.Sprintf("  texture: %s offset: (%.1f %.1f) rotation: %.3f scale: (%.2f %.2f)",
		texture, alignment.Base.Offset[0], alignment.Base.Offset[1], alignment.Base.Rotation,
		alignment.Base.Scale[0], alignment.Base.Scale[1]))
}
