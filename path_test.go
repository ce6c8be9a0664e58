package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathEqualIsShapeOnly(t *testing.T) {
	p := Path{{Index: 0, Name: "root", Offset: -1}, {Index: 2, Name: "leaf", Offset: 4}}
	q := Path{{Index: 0, Name: "root", Offset: 9}, {Index: 2, Name: "leaf", Offset: -1}}

	assert.True(t, p.Equal(q), "trailing offsets are ignored")
	assert.True(t, Path(nil).Equal(nil))

	assert.False(t, p.Equal(p[:1]), "different lengths differ")
	assert.False(t, p.Equal(Path{{Index: 0, Name: "root", Offset: -1}, {Index: 3, Name: "leaf", Offset: 4}}))
	assert.False(t, p.Equal(Path{{Index: 0, Name: "root", Offset: -1}, {Index: 2, Name: "other", Offset: 4}}))
}

func TestPathClone(t *testing.T) {
	p := Path{{Index: 0, Name: "root", Offset: 1}}
	q := p.Clone()
	q[0].Offset = 7
	assert.Equal(t, 1, p[0].Offset, "clones are independent")
	assert.Nil(t, Path(nil).Clone())
}

func TestPathWithoutOffset(t *testing.T) {
	p := Path{{Index: 0, Name: "root", Offset: -1}, {Index: 1, Name: "leaf", Offset: 5}}
	q := p.WithoutOffset()
	assert.Equal(t, -1, q[len(q)-1].Offset)
	assert.Equal(t, 5, p[len(p)-1].Offset, "original untouched")
	assert.True(t, p.Equal(q))
}
