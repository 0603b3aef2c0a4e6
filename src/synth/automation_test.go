package synth

import (
	"math"
	"testing"
)

func TestSetValueAtAppliesAtScheduledTime(t *testing.T) {
	p := newParam(0)
	p.setValueAt(100, 5)
	expectNearlyEqual(t, p.tick(50), 0)
	expectNearlyEqual(t, p.tick(100), 5)
	expectNearlyEqual(t, p.tick(200), 5)
}

func TestLinearRamp(t *testing.T) {
	p := newParam(0)
	p.linearRampAt(0, 1, 1.0)
	expectNearlyEqual(t, p.tick(secondsToSamples(0.5)), 0.5)
	expectNearlyEqual(t, p.tick(secondsToSamples(1.0)), 1.0)
	expectEqual(t, p.segActive, false)
}

func TestLinearRampFromCurrentValue(t *testing.T) {
	p := newParam(2)
	p.linearRampAt(0, 4, 1.0)
	expectNearlyEqual(t, p.tick(secondsToSamples(0.25)), 2.5)
	expectNearlyEqual(t, p.tick(secondsToSamples(0.75)), 3.5)
}

func TestExpRampReachesTargetAtDuration(t *testing.T) {
	p := newParam(1)
	p.expRampAt(0, 0.25, 1.0)
	expectWithin(t, p.tick(secondsToSamples(0.5)), 0.5, 0.0001)
	expectNearlyEqual(t, p.tick(secondsToSamples(1.0)), 0.25)
	expectEqual(t, p.segActive, false)
	expectNearlyEqual(t, p.tick(secondsToSamples(2.0)), 0.25)
}

func TestExpRampUpward(t *testing.T) {
	p := newParam(0.5)
	p.expRampAt(0, 2, 1.0)
	expectWithin(t, p.tick(secondsToSamples(0.5)), 1, 0.0001)
	expectNearlyEqual(t, p.tick(secondsToSamples(1.0)), 2)
}

func TestExpRampFromZeroIsGuarded(t *testing.T) {
	p := newParam(0)
	p.expRampAt(0, 1, 1.0)
	mid := p.tick(secondsToSamples(0.5))
	if mid <= 0 || mid >= 1 || math.IsNaN(mid) {
		t.Errorf("expected a positive intermediate value, got %v", mid)
	}
	expectNearlyEqual(t, p.tick(secondsToSamples(1.0)), 1)
}

func TestTargetAtFollowsExponential(t *testing.T) {
	p := newParam(1)
	p.targetAt(0, 0, 1.0)
	expectNearlyEqual(t, p.tick(secondsToSamples(1.0)), math.Exp(-1))
	expectNearlyEqual(t, p.tick(secondsToSamples(2.0)), math.Exp(-2))
}

func TestTargetAtPinsNearTarget(t *testing.T) {
	p := newParam(1)
	p.targetAt(0, 0, 0.05)
	// far past the time constant the exponential is pinned to its target
	expectEqual(t, p.tick(secondsToSamples(2.0)), 0.0)
	expectEqual(t, p.segActive, false)
}

func TestSetTargetAtTime(t *testing.T) {
	// 63% closer to target when pos=1.0
	expectNearlyEqual(t, setTargetAtTime(1, 0, 0), 1)
	expectNearlyEqual(t, setTargetAtTime(1, 0, 1), math.Exp(-1))
	expectNearlyEqual(t, setTargetAtTime(0, 2, 1), 2-2*math.Exp(-1))
}

func TestCancelHoldsCurrentValue(t *testing.T) {
	p := newParam(0)
	p.linearRampAt(0, 1, 1.0)
	p.targetAt(secondsToSamples(1.0), 0, 0.1)
	mid := p.tick(secondsToSamples(0.5))
	p.cancelAt(secondsToSamples(0.5))
	expectNearlyEqual(t, p.tick(secondsToSamples(0.7)), mid)
	expectNearlyEqual(t, p.tick(secondsToSamples(5.0)), mid)
	expectEqual(t, len(p.events), 0)
}

func TestScheduleKeepsEventsOrdered(t *testing.T) {
	p := newParam(0)
	p.setValueAt(200, 2)
	p.setValueAt(100, 1)
	expectNearlyEqual(t, p.tick(100), 1)
	expectNearlyEqual(t, p.tick(200), 2)
}

func TestSameTimeEventsApplyInInsertionOrder(t *testing.T) {
	p := newParam(0)
	p.setValueAt(100, 1)
	p.setValueAt(100, 7)
	expectNearlyEqual(t, p.tick(100), 7)
}

func TestFinalValue(t *testing.T) {
	p := newParam(3)
	expectNearlyEqual(t, p.finalValue(), 3)
	p.targetAt(0, 0.5, 0.1)
	p.linearRampAt(100, 0.9, 0.2)
	expectNearlyEqual(t, p.finalValue(), 0.9)
	p.tick(50)
	expectNearlyEqual(t, p.finalValue(), 0.9)
	p.tick(secondsToSamples(10))
	expectNearlyEqual(t, p.finalValue(), 0.9)
}
