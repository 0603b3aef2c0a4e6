package synth

import (
	"context"
	"io"
	"log"

	"github.com/hajimehoshi/oto"
)

// ----- Player ----- //

// Player attaches an engine to the audio hardware. It is the only part of the
// package touching oto, which keeps the engine itself constructible in tests
// and on machines with no audio device.
type Player struct {
	engine     *Engine
	otoContext *oto.Context
}

// NewPlayer opens the hardware output. Absence of an audio device surfaces
// here as an error for the caller; it is not handled internally.
func NewPlayer(engine *Engine) (*Player, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	return &Player{engine: engine, otoContext: otoContext}, nil
}

// Start pumps samples from the engine into the hardware until the context is
// canceled.
func (p *Player) Start(ctx context.Context) error {
	player := p.otoContext.NewPlayer()
	defer func() {
		if err := player.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	reader := &contextReader{ctx: ctx, r: p.engine}
	if _, err := io.CopyBuffer(player, reader, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Close releases the hardware output.
func (p *Player) Close() error {
	return p.otoContext.Close()
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(buf []byte) (int, error) {
	select {
	case <-c.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		return c.r.Read(buf)
	}
}
