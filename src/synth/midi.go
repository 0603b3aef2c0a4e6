package synth

import (
	"context"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// ----- MIDI ----- //

// MidiEvent is a decoded note message from the input surface.
type MidiEvent struct {
	NoteOn   bool
	Note     int
	Velocity int
}

// ParseMidi decodes raw MIDI bytes into a note event. Running-status and
// non-note messages return ok=false. A note-on with velocity 0 is a note-off.
func ParseMidi(data []byte) (MidiEvent, bool) {
	if len(data) < 3 {
		return MidiEvent{}, false
	}
	status := data[0] >> 4
	switch {
	case status == 8 || (status == 9 && data[2] == 0):
		return MidiEvent{NoteOn: false, Note: int(data[1])}, true
	case status == 9:
		return MidiEvent{NoteOn: true, Note: int(data[1]), Velocity: int(data[2])}, true
	}
	return MidiEvent{}, false
}

// AddMidiEvent feeds one raw MIDI message into the engine.
func (e *Engine) AddMidiEvent(data []byte) {
	ev, ok := ParseMidi(data)
	if !ok {
		return
	}
	if ev.NoteOn {
		e.Init()
		e.TriggerAttack(noteID(ev.Note), NoteToFreq(ev.Note), e.Patch())
	} else {
		p := e.Patch()
		e.TriggerRelease(noteID(ev.Note), &p)
	}
}

// ListenToMidiIn opens the first MIDI IN port and streams raw messages until
// the context is canceled. A missing driver or port is logged, not fatal; the
// synth is fully playable without hardware input.
func ListenToMidiIn(ctx context.Context) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			if err := drv.Close(); err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)
		if len(ins) == 0 {
			log.Println("WARN: MIDI IN not found")
			return
		}
		in := ins[0]
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			if err := in.Close(); err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			ch <- data
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			if err := in.StopListening(); err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		defer close(ch)
		<-ctx.Done()
	}()
	return ch
}
