package synth

import "math"

// ----- Voice ----- //

const (
	voiceAttackDecay = iota
	voiceSustain
	voiceReleasing
	voiceDisposed
)

// envelopeFloor is the smallest envelope target; an exponential ramp toward
// zero is undefined.
const envelopeFloor = 0.001

// stopMargin is how long the oscillator and LFO keep running past the release
// ramp, and disposeMargin how much later the nodes are torn down. Tearing a
// node down while it still carries signal produces an audible click; the
// margins absorb the ramp tail and any scheduling slack.
const stopMargin = 0.1
const disposeMargin = 0.2

// voice is one note's signal chain: oscillator -> lowpass filter -> amp gain,
// with a dedicated LFO feeding the single target chosen at creation time. The
// target routing is fixed for the voice's lifetime; later patch edits adjust
// depth only.
type voice struct {
	id        string
	freq      float64
	state     int
	carrier   *osc
	filter    *biquad
	cutoff    *automatedParam
	resonance *automatedParam
	amp       *automatedParam
	lfo       *osc
	lfoRate   *automatedParam
	lfoDepth  *automatedParam
	lfoTarget LFOTarget
	stopAt    int64 // sample position after which the oscillators are silent
}

func newVoice(id string, freq float64, p Patch, pos int64) *voice {
	v := &voice{
		id:        id,
		freq:      freq,
		state:     voiceAttackDecay,
		carrier:   newOsc(p.Osc, freq),
		filter:    newBiquad(p.FilterCutoff, p.FilterResonance),
		cutoff:    newParam(p.FilterCutoff),
		resonance: newParam(p.FilterResonance),
		amp:       newParam(0),
		lfo:       newOsc(p.LFOWave, p.LFORate),
		lfoRate:   newParam(p.LFORate),
		lfoDepth:  newParam(p.LFODepth * lfoDepthScale(p.LFOTarget)),
		lfoTarget: p.LFOTarget,
	}
	// amplitude envelope: linear 0->1 over attack, then an exponential ramp
	// down to the sustain level, reached when the decay ends
	attack := math.Max(0, p.AmpAttack)
	sustain := math.Max(envelopeFloor, p.AmpSustain)
	v.amp.setValueAt(pos, 0)
	v.amp.linearRampAt(pos, 1, attack)
	v.amp.expRampAt(pos+secondsToSamples(attack), sustain, math.Max(p.AmpDecay, 1e-9))
	return v
}

// release schedules the envelope tail and the oscillator stop. The voice
// keeps sounding until the ramp has decayed; disposal is the registry's job.
func (v *voice) release(releaseTime float64, pos int64) {
	if v.state == voiceReleasing || v.state == voiceDisposed {
		return
	}
	v.state = voiceReleasing
	v.amp.cancelAt(pos)
	v.amp.expRampAt(pos, envelopeFloor, math.Max(releaseTime, 1e-9))
	v.stopAt = pos + secondsToSamples(releaseTime+stopMargin)
}

// applyPatch smooths a live voice toward edited parameters. The LFO waveform
// swaps immediately; everything else ramps. The modulation target stays as
// wired at creation.
func (v *voice) applyPatch(p Patch, pos int64) {
	v.cutoff.targetAt(pos, p.FilterCutoff, paramSmoothing)
	v.resonance.targetAt(pos, p.FilterResonance, paramSmoothing)
	v.lfo.kind = p.LFOWave
	v.lfoRate.targetAt(pos, p.LFORate, paramSmoothing)
	v.lfoDepth.targetAt(pos, p.LFODepth*lfoDepthScale(v.lfoTarget), paramSmoothing)
}

// step produces one sample of the voice at pos.
func (v *voice) step(pos int64) float64 {
	if v.state == voiceDisposed {
		return 0
	}
	if v.stopAt > 0 && pos >= v.stopAt {
		return 0
	}

	v.lfo.freq = v.lfoRate.tick(pos)
	depth := v.lfoDepth.tick(pos)
	mod := v.lfo.step(1)

	cutoff := v.cutoff.tick(pos)
	freqRatio := 1.0
	gainOffset := 0.0
	switch v.lfoTarget {
	case LFOTargetCutoff:
		cutoff += mod * depth
	case LFOTargetPitch:
		freqRatio = math.Pow(2, mod*depth/1200)
	case LFOTargetAmp:
		gainOffset = mod * depth
	}

	out := v.carrier.step(freqRatio)
	v.filter.update(cutoff, v.resonance.tick(pos))
	out = v.filter.step(out)

	gain := v.amp.tick(pos) + gainOffset
	if gain < 0 {
		gain = 0
	}
	if v.state == voiceAttackDecay && !v.amp.segActive && len(v.amp.events) == 0 {
		v.state = voiceSustain
	}
	return out * gain
}

// dispose drops the voice's processing state. Called only from the deferred
// cleanup queue, well after stopAt has silenced the oscillators.
func (v *voice) dispose() {
	v.state = voiceDisposed
	v.amp.cancelAt(0)
	v.cutoff.cancelAt(0)
	v.resonance.cancelAt(0)
	v.lfoRate.cancelAt(0)
	v.lfoDepth.cancelAt(0)
}

func secondsToSamples(sec float64) int64 {
	return int64(sec * float64(sampleRate))
}
