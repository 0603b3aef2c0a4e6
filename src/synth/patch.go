package synth

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// ----- Patch ----- //

// Patch is the complete parameter set describing one timbre. It is a value
// type fully owned by the caller; the engine keeps its own copy and never
// mutates a Patch it was handed. Producers are expected to clamp fields to
// their documented ranges; the engine tolerates out-of-range values without
// crashing but does not correct them.
type Patch struct {
	Osc              WaveKind
	FilterCutoff     float64 // Hz, 20-20000
	FilterResonance  float64 // Q, 0-20
	AmpAttack        float64 // sec
	AmpDecay         float64 // sec
	AmpSustain       float64 // 0-1
	AmpRelease       float64 // sec
	MasterGain       float64 // 0-1
	LFOWave          WaveKind
	LFORate          float64 // Hz, 0.1-20
	LFODepth         float64 // 0-1
	LFOTarget        LFOTarget
	DistortionAmount float64 // 0-100
	DelayTime        float64 // sec, 0-5
	DelayFeedback    float64 // 0-0.95
	ReverbMix        float64 // 0-1
}

type patchJSON struct {
	Osc              string  `json:"osc"`
	FilterCutoff     float64 `json:"filterCutoff"`
	FilterResonance  float64 `json:"filterResonance"`
	AmpAttack        float64 `json:"ampAttack"`
	AmpDecay         float64 `json:"ampDecay"`
	AmpSustain       float64 `json:"ampSustain"`
	AmpRelease       float64 `json:"ampRelease"`
	MasterGain       float64 `json:"masterGain"`
	LFOWave          string  `json:"lfoWaveform"`
	LFORate          float64 `json:"lfoRate"`
	LFODepth         float64 `json:"lfoDepth"`
	LFOTarget        string  `json:"lfoTarget"`
	DistortionAmount float64 `json:"distortionAmount"`
	DelayTime        float64 `json:"delayTime"`
	DelayFeedback    float64 `json:"delayFeedback"`
	ReverbMix        float64 `json:"reverbMix"`
}

// DefaultPatch returns the patch used before any preset or edit arrives.
func DefaultPatch() Patch {
	return Patch{
		Osc:              WaveSine,
		FilterCutoff:     8000,
		FilterResonance:  1,
		AmpAttack:        0.01,
		AmpDecay:         0.1,
		AmpSustain:       0.7,
		AmpRelease:       0.3,
		MasterGain:       0.5,
		LFOWave:          WaveSine,
		LFORate:          5,
		LFODepth:         0,
		LFOTarget:        LFOTargetNone,
		DistortionAmount: 0,
		DelayTime:        0,
		DelayFeedback:    0.3,
		ReverbMix:        0,
	}
}

func (p *Patch) applyJSON(data json.RawMessage) {
	var j patchJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to patch")
		return
	}
	p.Osc = waveKindFromString(j.Osc)
	p.FilterCutoff = j.FilterCutoff
	p.FilterResonance = j.FilterResonance
	p.AmpAttack = j.AmpAttack
	p.AmpDecay = j.AmpDecay
	p.AmpSustain = j.AmpSustain
	p.AmpRelease = j.AmpRelease
	p.MasterGain = j.MasterGain
	p.LFOWave = waveKindFromString(j.LFOWave)
	p.LFORate = j.LFORate
	p.LFODepth = j.LFODepth
	p.LFOTarget = lfoTargetFromString(j.LFOTarget)
	p.DistortionAmount = j.DistortionAmount
	p.DelayTime = j.DelayTime
	p.DelayFeedback = j.DelayFeedback
	p.ReverbMix = j.ReverbMix
}

func (p *Patch) toJSON() json.RawMessage {
	return toRawMessage(&patchJSON{
		Osc:              waveKindToString(p.Osc),
		FilterCutoff:     p.FilterCutoff,
		FilterResonance:  p.FilterResonance,
		AmpAttack:        p.AmpAttack,
		AmpDecay:         p.AmpDecay,
		AmpSustain:       p.AmpSustain,
		AmpRelease:       p.AmpRelease,
		MasterGain:       p.MasterGain,
		LFOWave:          waveKindToString(p.LFOWave),
		LFORate:          p.LFORate,
		LFODepth:         p.LFODepth,
		LFOTarget:        lfoTargetToString(p.LFOTarget),
		DistortionAmount: p.DistortionAmount,
		DelayTime:        p.DelayTime,
		DelayFeedback:    p.DelayFeedback,
		ReverbMix:        p.ReverbMix,
	})
}

// set applies one field edit coming from the control surface. Every known
// field is matched exhaustively; an unknown key is an error, not a silent
// no-op.
func (p *Patch) set(key string, value string) error {
	switch key {
	case "osc":
		p.Osc = waveKindFromString(value)
	case "filter_cutoff":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.FilterCutoff = v
	case "filter_resonance":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.FilterResonance = v
	case "amp_attack":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.AmpAttack = v
	case "amp_decay":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.AmpDecay = v
	case "amp_sustain":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.AmpSustain = v
	case "amp_release":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.AmpRelease = v
	case "master_gain":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.MasterGain = v
	case "lfo_waveform":
		p.LFOWave = waveKindFromString(value)
	case "lfo_rate":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.LFORate = v
	case "lfo_depth":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.LFODepth = v
	case "lfo_target":
		p.LFOTarget = lfoTargetFromString(value)
	case "distortion_amount":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.DistortionAmount = v
	case "delay_time":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.DelayTime = v
	case "delay_feedback":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.DelayFeedback = v
	case "reverb_mix":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		p.ReverbMix = v
	default:
		return fmt.Errorf("unknown patch field %q", key)
	}
	return nil
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}
