package synth

import "math"

// ----- Automation Kind ----- //

const (
	autoSet = iota
	autoLinear
	autoExp
	autoTarget
)

type autoEvent struct {
	kind     int
	at       int64   // sample position
	target   float64
	duration float64 // sec; ramp length for autoLinear, time constant for autoTarget
}

// ----- Automated Param ----- //

// automatedParam is a control value driven by time-stamped automation events
// against the sample clock. The audio callback only ever calls tick; all
// scheduling happens on the control side before the samples are pulled, so no
// locking is needed beyond the engine lock.
type automatedParam struct {
	value  float64
	events []autoEvent

	segKind     int
	segActive   bool
	segStart    int64
	segFrom     float64
	segTarget   float64
	segDuration float64
}

func newParam(value float64) *automatedParam {
	return &automatedParam{value: value}
}

// schedule inserts an event keeping the queue ordered by time. Events landing
// at the same position apply in insertion order.
func (p *automatedParam) schedule(e autoEvent) {
	i := len(p.events)
	for i > 0 && p.events[i-1].at > e.at {
		i--
	}
	p.events = append(p.events, autoEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

func (p *automatedParam) setValueAt(at int64, value float64) {
	p.schedule(autoEvent{kind: autoSet, at: at, target: value})
}

// linearRampAt ramps from the value at start time to target over duration
// seconds.
func (p *automatedParam) linearRampAt(at int64, target float64, duration float64) {
	p.schedule(autoEvent{kind: autoLinear, at: at, target: target, duration: duration})
}

// expRampAt ramps exponentially from the value at start time to target,
// reaching it exactly at duration seconds. A non-positive start value is
// lifted to the end threshold; a geometric ramp from zero is undefined.
func (p *automatedParam) expRampAt(at int64, target float64, duration float64) {
	p.schedule(autoEvent{kind: autoExp, at: at, target: target, duration: duration})
}

// targetAt approaches target exponentially with the given time constant,
// pinning once within endThreshold (a zero-target exponential never reaches
// its target exactly).
func (p *automatedParam) targetAt(at int64, target float64, timeConst float64) {
	p.schedule(autoEvent{kind: autoTarget, at: at, target: target, duration: timeConst})
}

// cancelAt drops every pending event and the running segment, holding the
// current instantaneous value.
func (p *automatedParam) cancelAt(pos int64) {
	p.events = p.events[:0]
	p.segActive = false
}

// finalValue returns where the param will settle once all scheduled events
// have run. Used by introspection, not by the audio path.
func (p *automatedParam) finalValue() float64 {
	if len(p.events) > 0 {
		return p.events[len(p.events)-1].target
	}
	if p.segActive {
		return p.segTarget
	}
	return p.value
}

const autoEndThreshold = 0.001

// tick advances the param by one sample and returns its value at pos.
func (p *automatedParam) tick(pos int64) float64 {
	for len(p.events) > 0 && p.events[0].at <= pos {
		e := p.events[0]
		p.events = p.events[1:]
		if e.kind == autoSet {
			p.value = e.target
			p.segActive = false
			continue
		}
		p.segKind = e.kind
		p.segActive = true
		p.segStart = e.at
		p.segFrom = p.value
		p.segTarget = e.target
		p.segDuration = e.duration
	}
	if !p.segActive {
		return p.value
	}
	elapsed := float64(pos-p.segStart) * secPerSample
	switch p.segKind {
	case autoLinear:
		if p.segDuration <= 0 || elapsed >= p.segDuration {
			p.value = p.segTarget
			p.segActive = false
		} else {
			t := elapsed / p.segDuration
			p.value = t*p.segTarget + (1-t)*p.segFrom
		}
	case autoExp:
		if p.segDuration <= 0 || elapsed >= p.segDuration {
			p.value = p.segTarget
			p.segActive = false
		} else {
			from := p.segFrom
			if from <= 0 {
				from = autoEndThreshold
			}
			p.value = from * math.Pow(p.segTarget/from, elapsed/p.segDuration)
		}
	case autoTarget:
		if p.segDuration <= 0 {
			p.value = p.segTarget
			p.segActive = false
			break
		}
		p.value = setTargetAtTime(p.segFrom, p.segTarget, elapsed/p.segDuration)
		if math.Abs(p.value-p.segTarget) < autoEndThreshold {
			p.value = p.segTarget
			p.segActive = false
		}
	}
	return p.value
}

// 63% closer to target when pos=1.0
func setTargetAtTime(initialValue float64, targetValue float64, pos float64) float64 {
	return targetValue + (initialValue-targetValue)*math.Exp(-pos)
}
