package ode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVarPoolAllocGrowsAndReusesTombstones(t *testing.T) {
	p := &VarPool{}

	i1 := p.Alloc("a")
	assert.Equal(t, BodyBase, i1)

	i2 := p.Alloc("b")
	assert.Equal(t, BodyBase+VarsPerBody, i2)
	assert.Equal(t, BodyBase+2*VarsPerBody, p.Len())

	p.Free(i1)
	assert.Equal(t, deletedSentinel, p.NameAt(i1))
	assert.Equal(t, "b", p.NameAt(i2))
	assert.Equal(t, BodyBase+2*VarsPerBody, p.Len())

	i3 := p.Alloc("c")
	assert.Equal(t, i1, i3, "Alloc should reuse the tombstoned run")
	assert.Equal(t, "c", p.NameAt(i3))
}
