// Command qrio encodes data into QR code images and decodes QR codes from
// image files.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"unicode/utf8"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	qrio "github.com/ericlevine/qrio"
	"github.com/ericlevine/qrio/encoder"
	"github.com/ericlevine/qrio/render"
	"github.com/ericlevine/qrio/scan"
)

// BSD-style exit codes, matching sysexits.h where one applies.
const (
	exitUsage       = 2
	exitDataErr     = 65
	exitUnavailable = 69
)

// cliError carries an explicit exit code through a command's error return.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

var cli struct {
	Encode encodeCmd `cmd:"" aliases:"enc,e" help:"Encode input data in a QR code."`
	Decode decodeCmd `cmd:"" aliases:"dec,d" help:"Detect and decode a QR code."`
}

func main() {
	parser := kong.Must(&cli,
		kong.Name("qrio"),
		kong.Description("Encode and decode QR codes."),
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "qrio: %v\n", err)
		os.Exit(exitUsage)
	}
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "qrio: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	for _, sentinel := range []error{
		qrio.ErrDataTooLong, qrio.ErrInvalidVersion, qrio.ErrInvalidLevel,
		qrio.ErrInvalidCharacter, qrio.ErrUnsupportedMode,
		qrio.ErrNotFound, qrio.ErrUncorrectable, qrio.ErrFormatInfo,
	} {
		if errors.Is(err, sentinel) {
			return exitDataErr
		}
	}
	return 1
}

type encodeCmd struct {
	// Input is nil when absent; an explicit empty argument encodes an
	// empty payload rather than reading stdin.
	Input    *string `arg:"" optional:"" help:"Input data to encode."`
	ReadFrom string  `short:"r" placeholder:"PATH" type:"existingfile" help:"Read input data from a file."`

	Level         string `short:"l" name:"error-correction-level" default:"m" enum:"l,m,q,h" help:"Error correction level."`
	SymbolVersion int    `short:"v" name:"symbol-version" help:"Symbol version (1-40 normal, 1-4 micro); chosen automatically when omitted."`
	Variant       string `default:"normal" enum:"normal,micro" help:"QR code variant (micro requires --symbol-version)."`
	Mode          string `default:"" enum:",numeric,alphanumeric,byte,kanji" help:"Encoding mode (requires --symbol-version)."`

	Margin int    `short:"m" default:"4" help:"Width of the quiet zone, in modules."`
	Size   int    `short:"s" default:"8" help:"Size of a module, in pixels."`
	Type   string `short:"t" default:"" enum:",png,jpeg,gif,bmp,tiff,svg,terminal" help:"Output format (default: terminal on a TTY, png otherwise)."`

	Foreground string `default:"black" help:"Foreground color."`
	Background string `default:"white" help:"Background color."`

	Output  string `short:"o" type:"path" help:"Write output to a file instead of stdout."`
	Verbose bool   `help:"Print the symbol version and error correction level to stderr."`
}

func (c *encodeCmd) Validate() error {
	if c.Input != nil && c.ReadFrom != "" {
		return errors.New("an input string and --read-from cannot be used together")
	}
	if c.Variant == "micro" && c.SymbolVersion == 0 {
		return errors.New("--variant micro requires --symbol-version")
	}
	if c.Mode != "" && c.SymbolVersion == 0 {
		return errors.New("--mode requires --symbol-version")
	}
	if c.Size < 1 {
		return errors.New("--size must be positive")
	}
	if c.Margin < 0 {
		return errors.New("--margin must not be negative")
	}
	return nil
}

func (c *encodeCmd) Run() error {
	data, err := c.readInput()
	if err != nil {
		return err
	}

	level, err := qrio.ParseLevel(c.Level)
	if err != nil {
		return &cliError{exitUsage, err}
	}
	opts := encoder.Options{Level: level}
	if c.SymbolVersion > 0 {
		opts.Version = c.SymbolVersion
		if c.Variant == "micro" {
			opts.Variant = qrio.Micro
		}
	}
	if c.Mode != "" {
		mode, err := qrio.ParseMode(c.Mode)
		if err != nil {
			return &cliError{exitUsage, err}
		}
		opts.Mode = &mode
	}

	sym, err := encoder.Encode(data, opts)
	if err != nil {
		return fmt.Errorf("could not construct a QR code: %w", err)
	}
	if c.Verbose {
		printMetadata(os.Stderr, sym.Version(), sym.Level())
	}

	foreground, err := render.ParseColor(c.Foreground)
	if err != nil {
		return &cliError{exitUsage, fmt.Errorf("invalid foreground color: %w", err)}
	}
	background, err := render.ParseColor(c.Background)
	if err != nil {
		return &cliError{exitUsage, fmt.Errorf("invalid background color: %w", err)}
	}

	kind := c.Type
	if kind == "" {
		if c.Output == "" && isatty.IsTerminal(os.Stdout.Fd()) {
			kind = "terminal"
		} else {
			kind = "png"
		}
	}

	switch kind {
	case "svg":
		return c.writeString(render.SVG(sym, c.Margin, foreground, background))
	case "terminal":
		return c.writeString(render.Terminal(sym, c.Margin))
	}

	img := render.Raster(sym, c.Margin, c.Size, foreground, background)
	return c.writeTo(func(w io.Writer) error {
		switch kind {
		case "png":
			return png.Encode(w, img)
		case "jpeg":
			return jpeg.Encode(w, img, nil)
		case "gif":
			return gif.Encode(w, img, nil)
		case "bmp":
			return bmp.Encode(w, img)
		case "tiff":
			return tiff.Encode(w, img, nil)
		}
		return fmt.Errorf("unsupported output format: %s", kind)
	})
}

func (c *encodeCmd) readInput() ([]byte, error) {
	if c.Input != nil {
		return []byte(*c.Input), nil
	}
	if c.ReadFrom != "" {
		data, err := os.ReadFile(c.ReadFrom)
		if err != nil {
			return nil, &cliError{exitDataErr, fmt.Errorf("could not read data from %s: %w", c.ReadFrom, err)}
		}
		return data, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, &cliError{exitDataErr, fmt.Errorf("could not read data from stdin: %w", err)}
	}
	return data, nil
}

// writeString writes textual output. A trailing newline is added on stdout
// only, so files hold the exact rendering.
func (c *encodeCmd) writeString(s string) error {
	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(s), 0o644); err != nil {
			return fmt.Errorf("could not write the image to %s: %w", c.Output, err)
		}
		return nil
	}
	fmt.Println(s)
	return nil
}

func (c *encodeCmd) writeTo(encode func(io.Writer) error) error {
	if c.Output == "" {
		if err := encode(os.Stdout); err != nil {
			return fmt.Errorf("could not write the image to stdout: %w", err)
		}
		return nil
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("could not write the image to %s: %w", c.Output, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("could not write the image to %s: %w", c.Output, err)
	}
	return f.Close()
}

type decodeCmd struct {
	Input    string `arg:"" optional:"" type:"existingfile" help:"Input image file (default: stdin)."`
	Type     string `short:"t" default:"" enum:",png,jpeg,gif,bmp,tiff,webp,svg" help:"Format of the input image (default: sniffed from content)."`
	Metadata bool   `help:"Print only the symbol metadata."`
	Verbose  bool   `help:"Also print the symbol metadata to stderr."`
}

func (c *decodeCmd) Validate() error {
	if c.Metadata && c.Verbose {
		return errors.New("--metadata and --verbose cannot be used together")
	}
	return nil
}

func (c *decodeCmd) Run() error {
	var data []byte
	var err error
	if c.Input == "" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return &cliError{exitDataErr, fmt.Errorf("could not read the image from stdin: %w", err)}
		}
	} else if data, err = os.ReadFile(c.Input); err != nil {
		return &cliError{exitDataErr, fmt.Errorf("could not read the image from %s: %w", c.Input, err)}
	}

	// SVG sniffing wins over any requested raster format.
	if c.Type == "svg" || sniffSVG(data) {
		return &cliError{exitUnavailable, errors.New("decoding an SVG image is not supported")}
	}

	img, err := decodeImage(data, c.Type)
	if err != nil {
		return err
	}

	// An image without a readable symbol yields an empty result list, not
	// an error; the command then prints nothing and exits cleanly.
	results, err := scan.Image(img)
	if err != nil {
		return &cliError{exitDataErr, fmt.Errorf("could not scan the image: %w", err)}
	}

	for _, r := range results {
		if c.Metadata || c.Verbose {
			printMetadata(os.Stderr, r.Version, r.Level)
		}
		if c.Metadata {
			continue
		}
		if utf8.Valid(r.Payload) {
			fmt.Println(string(r.Payload))
		} else if _, err := os.Stdout.Write(r.Payload); err != nil {
			return fmt.Errorf("could not write data to stdout: %w", err)
		}
	}
	return nil
}

func decodeImage(data []byte, kind string) (image.Image, error) {
	r := bytes.NewReader(data)
	if kind == "" {
		img, _, err := image.Decode(r)
		if err != nil {
			if errors.Is(err, image.ErrFormat) {
				return nil, &cliError{exitUnavailable, errors.New("could not determine the image format")}
			}
			return nil, &cliError{exitDataErr, fmt.Errorf("could not read the image: %w", err)}
		}
		return img, nil
	}

	var img image.Image
	var err error
	switch kind {
	case "png":
		img, err = png.Decode(r)
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tiff":
		img, err = tiff.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, &cliError{exitUsage, fmt.Errorf("unsupported input format: %s", kind)}
	}
	if err != nil {
		return nil, &cliError{exitDataErr, fmt.Errorf("could not read the image as %s: %w", kind, err)}
	}
	return img, nil
}

// printMetadata reports the bare version number, for both variants, followed
// by the error correction level.
func printMetadata(w io.Writer, version qrio.Version, level qrio.Level) {
	fmt.Fprintf(w, "Version: %d\nLevel: %s\n", version.Number, level)
}

// sniffSVG reports whether the data looks like an SVG document rather than a
// raster image.
func sniffSVG(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("<svg")) ||
		bytes.HasPrefix(bytes.TrimSpace(head), []byte("<?xml"))
}
