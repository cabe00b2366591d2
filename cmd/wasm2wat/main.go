// Command wasm2wat is a thin driver over this module's Disassembler and
// Emitter: it decodes a .wasm file (via go-interpreter/wagon, since this
// module does not itself implement a binary parser), replays the decoded
// module as this module's own event vocabulary, and either pretty-prints
// it or re-serializes it back to bytes.
//
// Grounded on the teacher's former CLI (a flat main.go wrapping the VM)
// generalized to cobra subcommands the way tecch-wiz-hintents/cmd/root.go
// structures its CLI, and on fatih/color for diagnostic output.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	wagon "github.com/go-interpreter/wagon/wasm"

	"github.com/vertexdlt/wasmcodec/disasm"
	"github.com/vertexdlt/wasmcodec/emitter"
	"github.com/vertexdlt/wasmcodec/wasm"
)

var rootCmd = &cobra.Command{
	Use:   "wasm2wat",
	Short: "Disassemble and re-emit WebAssembly MVP modules",
	Long: `wasm2wat decodes a WebAssembly binary module and drives it through
one of two sinks: a Wat-style text disassembler, or a re-serializing
emitter that writes an equivalent binary module back out.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var disasmCmd = &cobra.Command{
	Use:   "disasm <file.wasm>",
	Short: "Pretty-print a module as Wat text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadEvents(args[0])
		if err != nil {
			return err
		}
		d := disasm.New()
		if err := d.Write(wasm.NewSliceReader(events)); err != nil {
			return fmt.Errorf("disassemble: %w", err)
		}
		fmt.Print(d.String())
		return nil
	},
}

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <file.wasm>",
	Short: "Decode a module and re-emit it, reporting the byte counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadEvents(args[0])
		if err != nil {
			return err
		}
		e := emitter.New()
		if err := e.Write(wasm.NewSliceReader(events)); err != nil {
			return fmt.Errorf("emit: %w", err)
		}
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("re-emitted %d bytes", len(e.Bytes()))
		fmt.Printf(" (source was %d bytes)\n", info.Size())
		return nil
	},
}

func loadEvents(path string) ([]wasm.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := wagon.ReadModule(f, nil)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return eventsFromModule(m)
}

func init() {
	rootCmd.AddCommand(disasmCmd, roundtripCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
