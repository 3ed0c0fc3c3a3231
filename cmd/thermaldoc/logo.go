package main

import (
	"context"
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/inkwell-labs/thermaldoc/raster"
)

// runLogo implements `logo store <file> [--key XX] [--width N] [--device
// PATH]`, `logo delete --key XX [--device PATH]`, and `logo delete-all
// [--force] [--device PATH]`.
func runLogo(args []string) error {
	if len(args) == 0 {
		return invalidArgs(fail("logo requires a subcommand: store, delete, delete-all"))
	}
	verb, rest := args[0], args[1:]
	switch verb {
	case "store":
		return runLogoStore(rest)
	case "delete":
		return runLogoDelete(rest)
	case "delete-all":
		return runLogoDeleteAll(rest)
	default:
		return invalidArgs(fail("logo: unknown subcommand %q", verb))
	}
}

func runLogoStore(args []string) error {
	fs := flag.NewFlagSet("logo store", flag.ContinueOnError)
	key := fs.String("key", "lg", "two-byte logo key")
	width := fs.Int("width", 0, "resize to this width in dots (0 = native width)")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}
	if fs.NArg() != 1 {
		return invalidArgs(fail("logo store requires exactly one image file"))
	}

	buf, err := readImageBuffer(fs.Arg(0))
	if err != nil {
		return invalidArgs(err)
	}
	core, err := newCore(*device)
	if err != nil {
		return err
	}
	slog.Info("storing NV logo", "key", *key, "width", buf.Width, "height", buf.Height)
	return core.StoreLogo(context.Background(), *key, buf, *width)
}

func runLogoDelete(args []string) error {
	fs := flag.NewFlagSet("logo delete", flag.ContinueOnError)
	key := fs.String("key", "", "two-byte logo key to remove")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}
	if *key == "" {
		return invalidArgs(fail("logo delete requires --key"))
	}
	core, err := newCore(*device)
	if err != nil {
		return err
	}
	slog.Info("deleting NV logo", "key", *key)
	return core.DeleteLogo(context.Background(), *key)
}

func runLogoDeleteAll(args []string) error {
	fs := flag.NewFlagSet("logo delete-all", flag.ContinueOnError)
	force := fs.Bool("force", false, "skip the confirmation prompt")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}
	if !*force {
		return invalidArgs(fail("logo delete-all clears every stored graphic; pass --force to confirm"))
	}
	core, err := newCore(*device)
	if err != nil {
		return err
	}
	slog.Info("deleting all NV logos")
	return core.DeleteAllLogos(context.Background())
}

// readImageBuffer decodes path (PNG or JPEG) into a grayscale raster
// buffer ready for StoreLogo.
func readImageBuffer(path string) (*raster.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return raster.FromImage(img), nil
}
