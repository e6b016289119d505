package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_LateResponseDropped(t *testing.T) {
	var g Guard

	// Trigger A, then trigger B before A completes.
	_, genA := g.Next(context.Background())
	_, genB := g.Next(context.Background())

	// B's response lands first and is applied; A arrives late and is dropped.
	assert.True(t, g.Accept(genB))
	assert.False(t, g.Accept(genA))
}

func TestGuard_NextCancelsInFlight(t *testing.T) {
	var g Guard

	ctxA, _ := g.Next(context.Background())
	require.NoError(t, ctxA.Err())

	g.Next(context.Background())
	assert.ErrorIs(t, ctxA.Err(), context.Canceled)
}

func TestGuard_CancelIsSilent(t *testing.T) {
	var g Guard

	ctx, gen := g.Next(context.Background())
	g.Cancel()

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	// The generation still matches; it is the context that stops the fetch.
	assert.True(t, g.Accept(gen))
}

func TestDebouncer_CollapsesBurst(t *testing.T) {
	var d Debouncer

	first := d.Arm()
	second := d.Arm()

	// Only the settle for the final keystroke fires a request.
	assert.False(t, d.Current(first))
	assert.True(t, d.Current(second))
}

func TestPager_UnknownTotal(t *testing.T) {
	p := NewPager()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, "?", p.TotalLabel())
	assert.False(t, p.CanPrev())
	assert.True(t, p.CanNext())
}

func TestPager_Bounds(t *testing.T) {
	p := NewPager()
	p.SetTotal(3)

	p.Prev()
	assert.Equal(t, 1, p.Page, "previous disabled at page 1")

	p.Next()
	p.Next()
	assert.Equal(t, 3, p.Page)
	assert.False(t, p.CanNext(), "next disabled at last known page")
	p.Next()
	assert.Equal(t, 3, p.Page)

	p.Reset()
	assert.Equal(t, 1, p.Page)
}

func TestPager_SetTotalClampsPage(t *testing.T) {
	p := Pager{Page: 5}
	p.SetTotal(2)
	assert.Equal(t, 2, p.Page)
}
