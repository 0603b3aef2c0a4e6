package synth

// ----- Shared Graph ----- //

// paramSmoothing is the time constant used when live edits move a running
// parameter, slow enough to avoid audible zippering.
const paramSmoothing = 0.1

const initialMasterGain = 0.5

// graph is the fixed topology of shared audio nodes, built exactly once:
// voices -> master gain -> waveshaper -> delay (dry pass-through + wet) ->
// reverb (wet/dry) -> analysis tap -> output.
type graph struct {
	master   *automatedParam
	shaper   *waveShaper
	delay    *feedbackDelay
	reverb   *reverb
	analyser *Analyser
	tapBlock []float64
}

func newGraph(p Patch) *graph {
	g := &graph{
		master:   newParam(initialMasterGain),
		shaper:   newWaveShaper(),
		delay:    newFeedbackDelay(p.DelayTime, p.DelayFeedback),
		reverb:   newReverb(),
		analyser: newAnalyser(),
		tapBlock: make([]float64, samplesPerCycle),
	}
	g.applyPatch(p, 0)
	return g
}

// applyPatch updates the global effects unconditionally, whether or not any
// voice is sounding.
func (g *graph) applyPatch(p Patch, pos int64) {
	g.shaper.setAmount(p.DistortionAmount)
	g.delay.time.targetAt(pos, clampFloat(p.DelayTime, 0, maxDelaySeconds), paramSmoothing)
	g.delay.feedback.targetAt(pos, clampFloat(p.DelayFeedback, 0, 0.98), paramSmoothing)
	// binary wet enable: the delay mixes in at a fixed level or not at all
	if p.DelayTime > 0 {
		g.delay.wet.setValueAt(pos, 0.5)
	} else {
		g.delay.wet.setValueAt(pos, 0)
	}
	g.reverb.wet.targetAt(pos, p.ReverbMix, paramSmoothing)
	g.reverb.dry.targetAt(pos, 1-p.ReverbMix*0.4, paramSmoothing)
}

// process runs one block of summed voice output through the effects chain.
// in, outL and outR may alias; they are consumed/written sample by sample.
func (g *graph) process(in []float64, outL []float64, outR []float64, pos int64) {
	for i := range in {
		p := pos + int64(i)
		v := in[i] * g.master.tick(p)
		v = g.shaper.step(v)
		v = g.delay.step(v, p)
		l, r := g.reverb.step(v, p)
		outL[i] = l
		outR[i] = r
		g.tapBlock[i] = (l + r) / 2
	}
	g.analyser.write(g.tapBlock[:len(in)])
}
