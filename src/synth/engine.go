package synth

import (
	"fmt"
	"log"
	"strconv"
	"sync"
)

const (
	sampleRate      = 44100
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate
const baseFreq = 440.0
const oscGain = 0.15

// masterSmoothing keeps master volume jumps click-free while still feeling
// immediate.
const masterSmoothing = 0.01

// releaseFallback is the release time used when a note is force-stopped
// without a patch.
const releaseFallback = 0.5

// ----- Changes ----- //

// Changes is a dirty-flag set consumed by the reporting loop.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- Engine ----- //

// Engine is the synthesis core: the shared signal graph, the voice registry
// and the parameter automation that ties them together. It implements
// io.Reader; the audio output pulls interleaved 16-bit stereo PCM through the
// whole graph. One mutex guards all state: control calls take it briefly,
// Read takes it for the duration of a cycle, and nothing inside the render
// path blocks.
type Engine struct {
	mu       sync.Mutex
	graph    *graph
	registry *voiceRegistry
	patch    Patch
	presets  *presetManager
	pos      int64

	sum  []float64
	outL []float64
	outR []float64

	CommandCh chan []string
	Changes   *Changes
}

// NewEngine creates an engine with the default patch. The signal graph is not
// built until Init; audio output is attached separately (see Player), so an
// engine is fully usable in tests without hardware.
func NewEngine() *Engine {
	e := &Engine{
		registry:  newVoiceRegistry(),
		patch:     DefaultPatch(),
		sum:       make([]float64, samplesPerCycle),
		outL:      make([]float64, samplesPerCycle),
		outR:      make([]float64, samplesPerCycle),
		CommandCh: make(chan []string, 256),
		Changes:   &Changes{dict: make(map[string]struct{})},
	}
	go e.processCommands()
	return e
}

// Init builds the shared signal graph. Idempotent: calling it when the graph
// already exists is a no-op. Kept separate from NewEngine because output is
// gesture-gated on some hosts; the first user-triggered call does the build.
func (e *Engine) Init() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph != nil {
		return
	}
	e.graph = newGraph(e.patch)
}

// TriggerAttack starts a note under id. If a voice already exists under the
// same identity it is released first, so retriggering a held note restarts it
// instead of layering.
func (e *Engine) TriggerAttack(id string, freq float64, p Patch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return
	}
	if existing := e.registry.get(id); existing != nil {
		e.releaseLocked(existing, p.AmpRelease)
	}
	e.registry.put(newVoice(id, freq, p, e.pos))
}

// TriggerRelease releases the note under id. Unknown identities are a silent
// no-op. A nil patch means a forced stop with the fallback release time.
func (e *Engine) TriggerRelease(id string, p *Patch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := e.registry.get(id)
	if v == nil {
		return
	}
	releaseTime := releaseFallback
	if p != nil {
		releaseTime = p.AmpRelease
	}
	e.releaseLocked(v, releaseTime)
}

func (e *Engine) releaseLocked(v *voice, releaseTime float64) {
	v.release(releaseTime, e.pos)
	e.registry.releaseVoice(v, e.pos+secondsToSamples(releaseTime+disposeMargin))
}

// UpdateActiveParams applies an edited patch to the shared effects and to
// every live voice. It never creates or destroys a voice. A voice's LFO stays
// wired to the target it was created with; only the depth follows the edit.
func (e *Engine) UpdateActiveParams(p Patch) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch = p
	if e.graph == nil {
		return
	}
	e.graph.applyPatch(p, e.pos)
	for _, v := range e.registry.byID {
		v.applyPatch(p, e.pos)
	}
}

// SetMasterVolume smooths the master gain toward v.
func (e *Engine) SetMasterVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.patch.MasterGain = v
	if e.graph == nil {
		return
	}
	e.graph.master.targetAt(e.pos, clampFloat(v, 0, 1), masterSmoothing)
}

// Analyser returns the analysis tap, or nil before Init. The visualization
// consumer reads it at its own cadence and must render a flat centerline
// while the handle is absent.
func (e *Engine) Analyser() *Analyser {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return nil
	}
	return e.graph.analyser
}

// IsSounding reports whether a live (not yet released) voice holds id.
func (e *Engine) IsSounding(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.get(id) != nil
}

// LiveVoices is the number of held note identities.
func (e *Engine) LiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.liveCount()
}

// Patch returns a snapshot of the engine's current patch.
func (e *Engine) Patch() Patch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.patch
}

// ApplyJSON replaces the whole patch, e.g. on preset load from the UI.
func (e *Engine) ApplyJSON(data []byte) {
	e.mu.Lock()
	p := e.patch
	e.mu.Unlock()
	p.applyJSON(data)
	e.UpdateActiveParams(p)
}

// ToJSON serializes the current patch.
func (e *Engine) ToJSON() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.patch.toJSON()
}

// Read renders interleaved stereo PCM. Before Init it produces silence; the
// hardware callback must never fail because of engine state.
func (e *Engine) Read(buf []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := len(buf) / bytesPerSample
	done := 0
	for done < total {
		n := total - done
		if n > samplesPerCycle {
			n = samplesPerCycle
		}
		e.renderCycle(n, buf[done*bytesPerSample:])
		done += n
	}
	return total * bytesPerSample, nil
}

func (e *Engine) renderCycle(n int, buf []byte) {
	if e.graph == nil {
		for i := 0; i < n; i++ {
			e.outL[i] = 0
			e.outR[i] = 0
		}
	} else {
		for i := 0; i < n; i++ {
			sum := 0.0
			for _, v := range e.registry.rendering {
				sum += v.step(e.pos + int64(i))
			}
			e.sum[i] = sum * oscGain
		}
		e.graph.process(e.sum[:n], e.outL[:n], e.outR[:n], e.pos)
	}
	writeChannel(e.outL[:n], buf, 0)
	writeChannel(e.outR[:n], buf, 1)
	e.pos += int64(n)
	e.registry.drain(e.pos)
}

func writeChannel(out []float64, buf []byte, ch int) {
	for i, value := range out {
		const max = 32767
		v := clampFloat(value, -1, 1)
		b := int16(v * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Close shuts the command loop down.
func (e *Engine) Close() error {
	close(e.CommandCh)
	return nil
}

// ----- Commands ----- //

func (e *Engine) processCommands() {
	for command := range e.CommandCh {
		if err := e.update(command); err != nil {
			log.Printf("command %v failed: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

// update dispatches one control-surface command.
func (e *Engine) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "init":
		e.Init()
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("note_on requires a note number")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		e.Init()
		e.TriggerAttack(noteID(int(note)), NoteToFreq(int(note)), e.Patch())
	case "note_off":
		if len(command) < 2 {
			return fmt.Errorf("note_off requires a note number")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		p := e.Patch()
		e.TriggerRelease(noteID(int(note)), &p)
	case "set":
		if len(command) != 3 {
			return fmt.Errorf("invalid key-value pair %v", command[1:])
		}
		p := e.Patch()
		if err := p.set(command[1], command[2]); err != nil {
			return err
		}
		e.UpdateActiveParams(p)
		if command[1] == "master_gain" {
			e.SetMasterVolume(p.MasterGain)
		}
		e.Changes.Add("data")
	case "patch":
		// bulk replacement: the UI sends the whole patch as one JSON body,
		// e.g. after merging a generated patch fragment
		if len(command) != 2 {
			return fmt.Errorf("patch requires a JSON body")
		}
		e.ApplyJSON([]byte(command[1]))
		e.SetMasterVolume(e.Patch().MasterGain)
		e.Changes.Add("data")
	case "preset":
		return e.updatePreset(command[1:])
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

func noteID(note int) string {
	return "note-" + strconv.Itoa(note)
}
