package mp

import (
	"math/big"

	"gitee.com/jkuang/go-ctreduce/ct"
)

// Workspace is caller owned scratch memory reused across reductions to
// avoid allocating on every call. A Workspace must not be shared between
// concurrent calls. A nil *Workspace is valid and allocates per call.
type Workspace struct {
	w []big.Word
}

// NewWorkspace returns a workspace with room for n words.
func NewWorkspace(n int) *Workspace {
	return &Workspace{w: make([]big.Word, n)}
}

// Get returns n zeroed words, growing the workspace when it is too small.
// The previous contents are wiped before the buffer is replaced.
func (ws *Workspace) Get(n int) []big.Word {
	if ws == nil {
		return make([]big.Word, n)
	}
	if cap(ws.w) < n {
		ct.Wipe(ws.w[:cap(ws.w)])
		ws.w = make([]big.Word, n)
	}
	s := ws.w[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

// Cap reports how many words the workspace holds without growing.
func (ws *Workspace) Cap() int {
	if ws == nil {
		return 0
	}
	return cap(ws.w)
}

// Wipe zeroes the whole workspace.
func (ws *Workspace) Wipe() {
	if ws == nil {
		return
	}
	ct.Wipe(ws.w[:cap(ws.w)])
}
