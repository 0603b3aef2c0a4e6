package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/subtone/subtone/src/synth"
	"golang.org/x/sync/errgroup"
)

var sockFile = flag.String("sock", "/tmp/subtone.sock", "unix socket for the UI process")
var presetDir = flag.String("presets", "presets", "preset directory")
var bridgeAddr = flag.String("bridge", "", "remote hardware bridge address (tcp), empty to disable")

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := synth.NewEngine()
	engine.LoadPresetsFrom(*presetDir)
	engine.Init()
	defer engine.Close()

	player, err := synth.NewPlayer(engine)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer player.Close()

	notifier := synth.NewNotifier(dialBridge(*bridgeAddr))

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return player.Start(ctx)
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, engine, notifier)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, engine, notifier)
		})
		g.Go(func() error {
			return listenMidi(ctx, engine, notifier)
		})
		g.Go(func() error {
			return notifier.Run(ctx)
		})
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func dialBridge(addr string) io.Writer {
	if addr == "" {
		return nil
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Printf("bridge unavailable: %v\n", err)
		return nil
	}
	return conn
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(*sockFile)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", *sockFile)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		if err := listener.Close(); err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(*sockFile)
	}()
	log.Printf("start listening...\n")
	conn, err := listener.Accept()
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, engine *synth.Engine, notifier *synth.Notifier) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			return err
		}
		notifyCommand(notifier, command)
		engine.CommandCh <- command
		log.Printf("received: %s\n", string(line))
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

// notifyCommand mirrors UI actions to the remote hardware bridge. Note events
// go out immediately; numeric parameter edits ride the coalescing path.
func notifyCommand(notifier *synth.Notifier, command []string) {
	if len(command) == 0 {
		return
	}
	switch command[0] {
	case "note_on":
		if len(command) >= 2 {
			note, err := strconv.Atoi(command[1])
			if err != nil {
				return
			}
			velocity := 127
			if len(command) >= 3 {
				if v, err := strconv.Atoi(command[2]); err == nil {
					velocity = v
				}
			}
			notifier.NoteOn(note, velocity)
		}
	case "note_off":
		if len(command) >= 2 {
			if note, err := strconv.Atoi(command[1]); err == nil {
				notifier.NoteOff(note)
			}
		}
	case "set":
		if len(command) == 3 {
			if value, err := strconv.ParseFloat(command[2], 64); err == nil {
				notifier.Param(command[1], value)
			} else {
				// selector fields carry their value as a string
				notifier.Param(command[1], command[2])
			}
		}
	}
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Split(line, " ")
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

func sendReports(ctx context.Context, conn net.Conn, engine *synth.Engine, notifier *synth.Notifier) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			if engine.Changes.Has("preset-loaded") {
				engine.Changes.Delete("preset-loaded")
				notifier.SyncPatch(engine.Patch())
			}
			if engine.Changes.Has("data") {
				engine.Changes.Delete("data")
				conn.Write(append(append([]byte("patch "), engine.ToJSON()...), '\n'))
			}
			analyser := engine.Analyser()
			if analyser == nil {
				continue
			}
			result := analyser.FFT()
			s := "fft"
			for _, value := range result {
				s += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			select {
			case <-ctx.Done():
				log.Println("sendReports() interrupted")
				break loop
			default:
				conn.Write([]byte(s + "\n"))
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}

func listenMidi(ctx context.Context, engine *synth.Engine, notifier *synth.Notifier) error {
	ch := synth.ListenToMidiIn(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("listenMidi() interrupted")
			return nil
		case data, ok := <-ch:
			if !ok {
				<-ctx.Done()
				return nil
			}
			engine.AddMidiEvent(data)
			if ev, ok := synth.ParseMidi(data); ok {
				if ev.NoteOn {
					notifier.NoteOn(ev.Note, ev.Velocity)
				} else {
					notifier.NoteOff(ev.Note)
				}
			}
		}
	}
}
