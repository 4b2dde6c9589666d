// Package ode holds the dense state-vector layout shared by every body in
// a simulation, and the evaluator that turns a state vector plus external
// forces into a derivative vector per spec.md §3/§4.6.
package ode

// Global slot indices, per spec.md §6.2: [time, KE, PE, TE, body0, body1, ...].
const (
	SlotTime = 0
	SlotKE   = 1
	SlotPE   = 2
	SlotTE   = 3
	BodyBase = 4
	VarsPerBody = 6
)

// Per-body offsets within a body's 6-tuple [x, vx, y, vy, theta, omega].
const (
	OffsetX      = 0
	OffsetVX     = 1
	OffsetY      = 2
	OffsetVY     = 3
	OffsetTheta  = 4
	OffsetOmega  = 5
)

// deletedSentinel marks a tombstoned 6-tuple slot run. A real body's
// VarsIndex is always >= BodyBase; this sentinel name lives in VarPool's
// bookkeeping, not in the float64 vector itself (which has no room for
// strings), matching spec.md §9's tombstone-bitset guidance.
const deletedSentinel = "__deleted__"

// slotRun is one allocation unit: either a live body's name, or a
// tombstoned ("deleted") run eligible for reuse.
type slotRun struct {
	name    string
	deleted bool
}

// VarPool manages the growable region of the state vector: it hands out
// contiguous 6-tuple runs, reuses runs left behind by removed bodies, and
// extends the vector when no compatible deleted run exists. This is
// spec.md §9's "Vec<Option<Slot>>-style structure".
type VarPool struct {
	runs []slotRun // index i corresponds to vars slot BodyBase + 6*i
}

// Alloc finds a run to host a body named name: it reuses the first
// tombstoned run if one exists, otherwise extends the pool. It returns
// the absolute vars-index (into the full state vector) for the new run's
// first slot.
func (p *VarPool) Alloc(name string) int {
	for i := range p.runs {
		if p.runs[i].deleted {
			p.runs[i] = slotRun{name: name}
			return BodyBase + VarsPerBody*i
		}
	}
	p.runs = append(p.runs, slotRun{name: name})
	return BodyBase + VarsPerBody*(len(p.runs)-1)
}

// Free tombstones the run starting at varsIndex.
func (p *VarPool) Free(varsIndex int) {
	i := (varsIndex - BodyBase) / VarsPerBody
	p.runs[i] = slotRun{name: deletedSentinel, deleted: true}
}

// Len returns the total float64 length the state vector must have to
// cover every allocated run (live or tombstoned).
func (p *VarPool) Len() int {
	return BodyBase + VarsPerBody*len(p.runs)
}

// NameAt returns the body name occupying varsIndex, or the deleted
// sentinel if that run is currently tombstoned.
func (p *VarPool) NameAt(varsIndex int) string {
	i := (varsIndex - BodyBase) / VarsPerBody
	if i < 0 || i >= len(p.runs) {
		return deletedSentinel
	}
	return p.runs[i].name
}
