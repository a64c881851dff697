package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-midimon/debug"
	"go-midimon/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer gomidi.CloseDriver()

	args := os.Args[2:]
	if len(args) > 0 && args[0] == "-v" {
		debug.SetOutput(os.Stderr)
		args = args[1:]
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollDevices()
	case "dump":
		err = dump(args)
	case "decode":
		err = decode(args)
	case "send":
		err = send(args)
	case "sysex":
		err = sendSysEx(args)
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                          - List all MIDI ports")
	fmt.Println("  poll                          - Poll for device changes")
	fmt.Println("  dump [-v] <port>              - Print decoded messages from an input")
	fmt.Println("  decode [-v] <hex...> | -      - Decode hex bytes (or stdin) offline")
	fmt.Println("  send <port> <type> <ch> [d..] - Send one message, e.g. send IAC NoteOn 0 64 127")
	fmt.Println("  sysex <port> <hex...>         - Send a SysEx payload (without F0/F7)")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := gomidi.GetInPorts()
		outs := gomidi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		var inNames, outNames []string
		for _, p := range gomidi.GetInPorts() {
			inNames = append(inNames, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)
			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}

func printMessage(msg midi.Message, running bool) {
	marker := " "
	if running {
		marker = "r"
	}
	fmt.Printf("%s %-9s %s\n", marker, fmt.Sprintf("% X", msg.Bytes()), msg)
}

func printSysEx(payload []byte, aborted, truncated bool) {
	fmt.Printf("s %s\n", midi.FormatSysEx(payload, aborted, truncated))
}

func dump(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dump <port>")
	}
	inPort, err := gomidi.FindInPort(args[0])
	if err != nil {
		return fmt.Errorf("find input %q: %w", args[0], err)
	}

	in, err := midi.NewInput(inPort.String(), inPort, midi.InputOptions{CaptureSysEx: true})
	if err != nil {
		return err
	}
	defer in.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", inPort.String())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	for {
		select {
		case ev := <-in.Events():
			printMessage(ev.Message, ev.Running)
		case ev := <-in.SysEx():
			fmt.Printf("s %s\n", ev)
		case <-sig:
			if n := in.Dropped(); n > 0 {
				fmt.Printf("dropped %d events\n", n)
			}
			return nil
		}
	}
}

func decode(args []string) error {
	var p midi.Parser
	p.CaptureSysEx(midi.DefaultSysExLimit, printSysEx)

	if len(args) == 1 && args[0] == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			raw, err := midi.ParseHex(scanner.Text())
			if err != nil {
				return err
			}
			p.Feed(raw, printMessage)
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		raw, err := midi.ParseHex(strings.Join(args, " "))
		if err != nil {
			return err
		}
		p.Feed(raw, printMessage)
	}

	debug.Log("decode", "finished in state %s", p.State())
	return nil
}

func openOutput(name string) (*midi.Output, error) {
	outPort, err := gomidi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("find output %q: %w", name, err)
	}
	return midi.NewOutput(outPort.String(), outPort)
}

func send(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: send <port> <type> <channel> [data...]")
	}
	t, ok := midi.ParseType(args[1])
	if !ok {
		return fmt.Errorf("unknown message type %q", args[1])
	}
	ch, err := strconv.Atoi(args[2])
	if err != nil || ch < 0 || ch > 15 {
		return fmt.Errorf("channel %q must be 0-15", args[2])
	}

	var data []uint8
	if t == midi.PitchBend && len(args) == 4 {
		v, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("bend %q: %w", args[3], err)
		}
		d1, d2 := midi.EncodePitchBend(v)
		data = []uint8{d1, d2}
	} else {
		for _, a := range args[3:] {
			v, err := strconv.Atoi(a)
			if err != nil || v < 0 || v > 127 {
				return fmt.Errorf("data byte %q must be 0-127", a)
			}
			data = append(data, uint8(v))
		}
	}

	msg := midi.NewMessage(midi.StatusOf(t, uint8(ch)), data...)
	if !msg.Valid() {
		return fmt.Errorf("%s needs %d data bytes", t, midi.DataSize(t))
	}

	out, err := openOutput(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Sending % X (%s)\n", msg.Bytes(), msg)
	return out.Send(msg)
}

func sendSysEx(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: sysex <port> <hex...>")
	}
	payload, err := midi.ParseHex(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	for _, b := range payload {
		if midi.IsStatus(b) {
			return fmt.Errorf("payload byte %02X has the high bit set", b)
		}
	}

	out, err := openOutput(args[0])
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("Sending %s\n", midi.FormatSysEx(payload, false, false))
	return out.SendSysEx(payload)
}
