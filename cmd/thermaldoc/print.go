package main

import (
	"context"
	"flag"
	"log/slog"

	thermaldoc "github.com/inkwell-labs/thermaldoc"
	"github.com/inkwell-labs/thermaldoc/profile"
	"github.com/inkwell-labs/thermaldoc/raster"
	"github.com/inkwell-labs/thermaldoc/xerr"
)

// runPrint implements `print <pattern-name> [--height N] [--width N]
// [--png FILE] [--device PATH]`.
func runPrint(args []string) error {
	fs := flag.NewFlagSet("print", flag.ContinueOnError)
	height := fs.Int("height", 600, "raster height in dots")
	width := fs.Int("width", 0, "raster width in dots (0 = active profile width)")
	pngPath := fs.String("png", "", "write a PNG preview here instead of printing")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}
	if fs.NArg() != 1 {
		return invalidArgs(fail("print requires exactly one pattern name"))
	}
	name := fs.Arg(0)

	core, err := newCore(*device)
	if err != nil {
		return err
	}
	gen, ok := core.PatternRegistry.Get(name)
	if !ok {
		return invalidArgs(xerr.InvalidParam("pattern", "name", "unknown generator "+name))
	}
	w := *width
	if w <= 0 {
		w = profile.Active().WidthDots
	}
	buf, err := gen.Render(w, *height, 0, gen.Golden(0))
	if err != nil {
		return err
	}
	slog.Debug("print", "pattern", name, "width", w, "height", *height)
	return outputRaster(context.Background(), core, buf, *pngPath)
}

// outputRaster writes buf to pngPath if set, otherwise sends it to
// core's device.
func outputRaster(ctx context.Context, core *thermaldoc.Core, buf *raster.Buffer, pngPath string) error {
	if pngPath != "" {
		data, err := thermaldoc.EncodePNG(buf)
		if err != nil {
			return err
		}
		slog.Info("wrote PNG preview", "path", pngPath, "bytes", len(data))
		return writeFile(pngPath, data)
	}
	slog.Info("sending raster to device", "width", buf.Width, "height", buf.Height)
	return core.PrintRaster(ctx, buf, true)
}

// invalidArgs wraps a flag-parsing or argument-validation failure as
// the xerr kind the exit-code mapper recognizes as "invalid args".
func invalidArgs(err error) error {
	if err == nil {
		return nil
	}
	if xe, ok := err.(*xerr.Error); ok {
		return xe
	}
	return xerr.InvalidParam("cli", "args", err.Error())
}
