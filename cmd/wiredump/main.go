package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/amqp-wire/buffer"
	"github.com/wippyai/amqp-wire/wire"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to a file of encoded AMQP values")
		hexInput    = flag.String("hex", "", "Hex string of encoded AMQP values")
		verbose     = flag.Bool("v", false, "Verbose codec logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *file == "" && *hexInput == "" {
		fmt.Fprintln(os.Stderr, "Usage: wiredump -file <payload.bin>")
		fmt.Fprintln(os.Stderr, "       wiredump -hex a10568656c6c6f")
		fmt.Fprintln(os.Stderr, "       wiredump -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*file, *hexInput, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, hexInput string, verbose bool) error {
	var data []byte
	var err error
	switch {
	case file != "":
		data, err = os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
	default:
		data, err = hex.DecodeString(strings.ReplaceAll(hexInput, " ", ""))
		if err != nil {
			return fmt.Errorf("parse hex: %w", err)
		}
	}

	opts := []wire.Option{}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		defer logger.Sync()
		opts = append(opts, wire.WithLogger(logger))
	}
	codec := wire.New(opts...)

	fmt.Printf("Payload: %d bytes\n", len(data))
	dumpHex(data)

	// Decode values back to back until the payload runs out.
	src := buffer.NewSlice(data)
	offset := 0
	for n := 1; ; n++ {
		res, err := codec.DecodeAt(src, offset)
		if err != nil {
			return fmt.Errorf("value %d at offset %d: %w", n, offset, err)
		}
		if !res.Complete {
			if src.Remaining(offset) > 0 {
				fmt.Printf("\n%d trailing bytes do not form a complete value\n",
					src.Remaining(offset))
			}
			return nil
		}

		fmt.Printf("\nValue %d (offset %d, %d bytes):\n", n, offset, res.Consumed)
		printValue(res.Value, 1)
		offset += res.Consumed
	}
}

// dumpHex prints the payload in rows sized to the terminal, 16 bytes per row
// on anything wide enough.
func dumpHex(data []byte) {
	perRow := 16
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < 60 {
		perRow = 8
	}
	for i := 0; i < len(data); i += perRow {
		end := i + perRow
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("  %04x  % x\n", i, data[i:end])
	}
}

// printValue renders one decoded value as an indented tree.
func printValue(v any, depth int) {
	pad := strings.Repeat("  ", depth)

	switch t := v.(type) {
	case nil:
		fmt.Printf("%snull\n", pad)
	case wire.Described:
		fmt.Printf("%sdescribed\n", pad)
		fmt.Printf("%s  descriptor:\n", pad)
		printValue(t.Descriptor, depth+2)
		fmt.Printf("%s  value:\n", pad)
		printValue(t.Value, depth+2)
	case []any:
		fmt.Printf("%slist (%d items)\n", pad, len(t))
		for _, item := range t {
			printValue(item, depth+1)
		}
	case map[any]any:
		fmt.Printf("%smap (%d entries)\n", pad, len(t))
		keys := make([]string, 0, len(t))
		byKey := make(map[string]any, len(t))
		for k, val := range t {
			s := fmt.Sprintf("%v", k)
			keys = append(keys, s)
			byKey[s] = val
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s  %s:\n", pad, k)
			printValue(byKey[k], depth+2)
		}
	case []byte:
		fmt.Printf("%sbinary (%d bytes) %x\n", pad, len(t), t)
	case string:
		fmt.Printf("%sstring %q\n", pad, t)
	case wire.Symbol:
		fmt.Printf("%ssymbol %q\n", pad, string(t))
	case time.Time:
		fmt.Printf("%stimestamp %s\n", pad, t.Format(time.RFC3339Nano))
	case wire.UUID:
		fmt.Printf("%suuid %s\n", pad, t)
	default:
		fmt.Printf("%s%T %v\n", pad, t, t)
	}
}
