package oneormany

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSlice_RoundTrip(t *testing.T) {
	items := []int{1, 2, 3}
	o, err := FromSlice(items)
	require.NoError(t, err)
	require.Equal(t, items, o.Slice())
	require.Equal(t, 3, o.Len())
}

func TestFromSlice_Empty(t *testing.T) {
	_, err := FromSlice[int](nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestNew_SingleElement(t *testing.T) {
	o := New("only")
	require.Equal(t, 1, o.Len())
	require.Equal(t, "only", o.First())
	require.Empty(t, o.Rest())
}

func TestPush_DoesNotMutateReceiver(t *testing.T) {
	o := New(1, 2)
	o2 := o.Push(3)
	require.Equal(t, []int{1, 2}, o.Slice())
	require.Equal(t, []int{1, 2, 3}, o2.Slice())
}

func TestMap_PreservesOrderAndLength(t *testing.T) {
	o := New(1, 2, 3)
	doubled := Map(o, func(v int) int { return v * 2 })
	require.Equal(t, []int{2, 4, 6}, doubled.Slice())
}

func TestMerge_ConcatenatesInArgumentOrder(t *testing.T) {
	a := New(1, 2)
	b := New(3)
	c := New(4, 5)
	merged := Merge(a, b, c)
	require.Equal(t, []int{1, 2, 3, 4, 5}, merged.Slice())
}

func TestMerge_SingleArgument(t *testing.T) {
	a := New("x", "y")
	require.Equal(t, a.Slice(), Merge(a).Slice())
}
