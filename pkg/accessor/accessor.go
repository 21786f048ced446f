// Package accessor resolves (entity, brush, surface) index triples
// against a parsed map, returning a borrowed reference or the status
// code that explains why the lookup failed. Every function here is
// pure: no I/O, no mutation, no knowledge of the ABI that calls it.
package accessor

import (
	"github.com/4lt/qmpp/pkg/abi"
	"github.com/4lt/qmpp/pkg/qmap"
)

// GetEntity resolves an entity handle. Tie-break order for composite
// lookups elsewhere in this package always checks entity first.
func GetEntity(m *qmap.Map, ehandle uint32) (*qmap.Entity, abi.Status) {
	if int(ehandle) >= len(m.Entities) {
		return nil, abi.EntityLookupError
	}
	return &m.Entities[ehandle], abi.Success
}

// GetBrush resolves a brush index relative to an entity. Returns
// EntityTypeError if the entity carries no brushes (a point entity).
func GetBrush(m *qmap.Map, ehandle, bidx uint32) (*qmap.Brush, abi.Status) {
	ent, status := GetEntity(m, ehandle)
	if status != abi.Success {
		return nil, status
	}
	if !ent.HasBrushes {
		return nil, abi.EntityTypeError
	}
	if int(bidx) >= len(ent.Brushes) {
		return nil, abi.BrushLookupError
	}
	return &ent.Brushes[bidx], abi.Success
}

// GetSurface resolves a surface index relative to a brush.
func GetSurface(m *qmap.Map, ehandle, bidx, sidx uint32) (*qmap.Surface, abi.Status) {
	brush, status := GetBrush(m, ehandle, bidx)
	if status != abi.Success {
		return nil, status
	}
	if int(sidx) >= len(brush.Surfaces) {
		return nil, abi.SurfaceLookupError
	}
	return &brush.Surfaces[sidx], abi.Success
}

// BrushCount returns an entity's brush count, 0 for a point entity
// (invariant 3: bhandle_count(E) == 0 iff E is a point entity).
func BrushCount(m *qmap.Map, ehandle uint32) (uint32, abi.Status) {
	ent, status := GetEntity(m, ehandle)
	if status != abi.Success {
		return 0, status
	}
	if !ent.HasBrushes {
		return 0, abi.Success
	}
	return uint32(len(ent.Brushes)), abi.Success
}

// SurfaceCount returns a brush's surface count.
func SurfaceCount(m *qmap.Map, ehandle, bidx uint32) (uint32, abi.Status) {
	brush, status := GetBrush(m, ehandle, bidx)
	if status != abi.Success {
		return 0, status
	}
	return uint32(len(brush.Surfaces)), abi.Success
}
