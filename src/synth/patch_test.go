package synth

import "testing"

func TestPatchSet(t *testing.T) {
	p := DefaultPatch()
	expectNoError(t, p.set("osc", "sawtooth"))
	expectNoError(t, p.set("filter_cutoff", "1234.5"))
	expectNoError(t, p.set("filter_resonance", "8"))
	expectNoError(t, p.set("amp_attack", "0.02"))
	expectNoError(t, p.set("amp_decay", "0.3"))
	expectNoError(t, p.set("amp_sustain", "0.6"))
	expectNoError(t, p.set("amp_release", "1.5"))
	expectNoError(t, p.set("master_gain", "0.8"))
	expectNoError(t, p.set("lfo_waveform", "triangle"))
	expectNoError(t, p.set("lfo_rate", "6.5"))
	expectNoError(t, p.set("lfo_depth", "0.4"))
	expectNoError(t, p.set("lfo_target", "pitch"))
	expectNoError(t, p.set("distortion_amount", "30"))
	expectNoError(t, p.set("delay_time", "0.25"))
	expectNoError(t, p.set("delay_feedback", "0.5"))
	expectNoError(t, p.set("reverb_mix", "0.35"))

	expectEqual(t, p.Osc, WaveSawtooth)
	expectNearlyEqual(t, p.FilterCutoff, 1234.5)
	expectNearlyEqual(t, p.FilterResonance, 8)
	expectNearlyEqual(t, p.AmpAttack, 0.02)
	expectNearlyEqual(t, p.AmpDecay, 0.3)
	expectNearlyEqual(t, p.AmpSustain, 0.6)
	expectNearlyEqual(t, p.AmpRelease, 1.5)
	expectNearlyEqual(t, p.MasterGain, 0.8)
	expectEqual(t, p.LFOWave, WaveTriangle)
	expectNearlyEqual(t, p.LFORate, 6.5)
	expectNearlyEqual(t, p.LFODepth, 0.4)
	expectEqual(t, p.LFOTarget, LFOTargetPitch)
	expectNearlyEqual(t, p.DistortionAmount, 30)
	expectNearlyEqual(t, p.DelayTime, 0.25)
	expectNearlyEqual(t, p.DelayFeedback, 0.5)
	expectNearlyEqual(t, p.ReverbMix, 0.35)
}

func TestPatchSetRejectsUnknownKey(t *testing.T) {
	p := DefaultPatch()
	if err := p.set("no_such_field", "1"); err == nil {
		t.Errorf("expected an error for an unknown field")
	}
	if err := p.set("filter_cutoff", "not-a-number"); err == nil {
		t.Errorf("expected an error for a malformed value")
	}
	// a failed edit leaves the patch untouched
	expectEqual(t, p, DefaultPatch())
}

func TestPatchJSONRoundTrip(t *testing.T) {
	p := DefaultPatch()
	p.Osc = WaveSquare
	p.FilterCutoff = 432.1
	p.LFOTarget = LFOTargetCutoff
	p.ReverbMix = 0.77

	restored := DefaultPatch()
	restored.applyJSON(p.toJSON())
	expectEqual(t, restored, p)
}

func TestWaveKindStrings(t *testing.T) {
	for _, kind := range []WaveKind{WaveSine, WaveSquare, WaveSawtooth, WaveTriangle} {
		expectEqual(t, waveKindFromString(waveKindToString(kind)), kind)
	}
	expectEqual(t, waveKindFromString("bogus"), WaveSine)
}

func TestLFOTargetStrings(t *testing.T) {
	for _, target := range []LFOTarget{LFOTargetNone, LFOTargetCutoff, LFOTargetPitch, LFOTargetAmp} {
		expectEqual(t, lfoTargetFromString(lfoTargetToString(target)), target)
	}
	expectEqual(t, lfoTargetFromString("bogus"), LFOTargetNone)
}

func TestLFODepthScale(t *testing.T) {
	expectNearlyEqual(t, lfoDepthScale(LFOTargetNone), 0)
	expectNearlyEqual(t, lfoDepthScale(LFOTargetCutoff), 1000)
	expectNearlyEqual(t, lfoDepthScale(LFOTargetPitch), 100)
	expectNearlyEqual(t, lfoDepthScale(LFOTargetAmp), 0.5)
}
