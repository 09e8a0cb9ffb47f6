package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleParallelGates(t *testing.T) {
	c := NewCircuit(4, 0)
	c.H(0)
	c.H(1)
	c.CX(0, 1)
	c.X(2)

	steps := Schedule(c)
	assert.Equal(t, []int{0, 0, 1, 0}, steps)
	assert.Equal(t, 2, Depth(c))
	assert.Equal(t, []int{0, 1, 3}, GatesAtStep(steps, 0))
	assert.Equal(t, []int{2}, GatesAtStep(steps, 1))
	assert.Nil(t, GatesAtStep(steps, 5))
}

func TestScheduleBarrierFences(t *testing.T) {
	c := NewCircuit(2, 0)
	c.H(0)
	c.Barrier()
	c.H(1)
	assert.Equal(t, []int{0, 1, 2}, Schedule(c))
	assert.Equal(t, 3, Depth(c))
}

func TestScheduleClaimsSpannedQubits(t *testing.T) {
	c := NewCircuit(3, 1)
	c.CX(0, 2)
	c.H(1)
	assert.Equal(t, []int{0, 1}, Schedule(c))

	m := NewCircuit(3, 1)
	m.Measure(0, 0)
	m.H(2)
	assert.Equal(t, []int{0, 1}, Schedule(m), "measurement connector runs past q[2]")
}

func TestDepth(t *testing.T) {
	assert.Zero(t, Depth(NewCircuit(3, 0)))
	assert.Equal(t, 7, Depth(BuildQFT(3)))
	assert.Equal(t, 1, Depth(BuildQFT(1)))
}
