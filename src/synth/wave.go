package synth

// ----- Wave Kind ----- //

// WaveKind selects an oscillator waveform. The same set is used for the
// audible oscillator and for the LFO.
type WaveKind int

const (
	WaveSine WaveKind = iota
	WaveSquare
	WaveSawtooth
	WaveTriangle
)

func waveKindToString(kind WaveKind) string {
	switch kind {
	case WaveSine:
		return "sine"
	case WaveSquare:
		return "square"
	case WaveSawtooth:
		return "sawtooth"
	case WaveTriangle:
		return "triangle"
	}
	return "sine"
}

func waveKindFromString(s string) WaveKind {
	switch s {
	case "sine":
		return WaveSine
	case "square":
		return WaveSquare
	case "sawtooth":
		return WaveSawtooth
	case "triangle":
		return WaveTriangle
	}
	return WaveSine
}

// ----- LFO Target ----- //

// LFOTarget selects the single parameter a voice's LFO modulates. The target
// is fixed for the lifetime of a voice.
type LFOTarget int

const (
	LFOTargetNone LFOTarget = iota
	LFOTargetCutoff
	LFOTargetPitch
	LFOTargetAmp
)

func lfoTargetToString(target LFOTarget) string {
	switch target {
	case LFOTargetNone:
		return "none"
	case LFOTargetCutoff:
		return "cutoff"
	case LFOTargetPitch:
		return "pitch"
	case LFOTargetAmp:
		return "amp"
	}
	return "none"
}

func lfoTargetFromString(s string) LFOTarget {
	switch s {
	case "none":
		return LFOTargetNone
	case "cutoff":
		return LFOTargetCutoff
	case "pitch":
		return LFOTargetPitch
	case "amp":
		return LFOTargetAmp
	}
	return LFOTargetNone
}

// lfoDepthScale maps a normalized 0-1 depth into the natural unit range of
// each modulation target: Hz of cutoff swing, cents of detune, or gain.
func lfoDepthScale(target LFOTarget) float64 {
	switch target {
	case LFOTargetCutoff:
		return 1000
	case LFOTargetPitch:
		return 100
	case LFOTargetAmp:
		return 0.5
	}
	return 0
}
