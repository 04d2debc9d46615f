// Command qrtexture renders a QR code texture to a PNG or BMP file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/qrtexture"
	intImage "github.com/gogpu/qrtexture/internal/image"
	"github.com/gogpu/qrtexture/matrix"
)

var errMismatch = errors.New("written file does not match the texture")

func main() {
	var (
		text     = flag.String("text", "", "payload to encode")
		ec       = flag.String("ec", "M", "error correction level: L, M, Q or H")
		border   = flag.Int("border", 2, "quiet zone width in modules")
		fg       = flag.String("fg", "#000000", "foreground color (with -colors)")
		bg       = flag.String("bg", "#ffffff", "background color (with -colors)")
		colors   = flag.Bool("colors", false, "emit RGB8 with custom colors instead of Gray8")
		scale    = flag.Int("scale", 8, "pixels per module in the output file")
		provider = flag.String("provider", "rsc", "encoder: rsc or skip2")
		charset  = flag.String("charset", "", "transcode the payload to this IANA charset, e.g. ISO-8859-1")
		cacheN   = flag.Int("cache", 0, "LRU cache size for encoded grids (0 disables)")
		output   = flag.String("o", "qr.png", "output file (.png or .bmp)")
		verbose  = flag.Bool("v", false, "verbose logging")
		check    = flag.Bool("verify", false, "read the written file back and compare it with the texture")
	)
	flag.Parse()

	if *verbose {
		qrtexture.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if *text == "" && flag.NArg() > 0 {
		*text = strings.Join(flag.Args(), " ")
	}

	level, err := matrix.ParseLevel(*ec)
	if err != nil {
		log.Fatal(err)
	}
	p, err := buildProvider(*provider, *charset, *cacheN)
	if err != nil {
		log.Fatal(err)
	}
	fgColor, err := qrtexture.ParseColor(*fg)
	if err != nil {
		log.Fatal(err)
	}
	bgColor, err := qrtexture.ParseColor(*bg)
	if err != nil {
		log.Fatal(err)
	}

	opts := []qrtexture.Option{
		qrtexture.WithProvider(p),
		qrtexture.WithText(*text),
		qrtexture.WithErrorCorrection(level),
		qrtexture.WithBorder(*border),
	}
	if *colors {
		opts = append(opts, qrtexture.WithColors(fgColor, bgColor))
	}
	tex := qrtexture.New(opts...)
	defer tex.Close()

	if err := tex.Err(); err != nil {
		log.Fatalf("encode: %v", err)
	}
	if err := tex.Save(*output, *scale); err != nil {
		log.Fatalf("save: %v", err)
	}
	if *check {
		if err := verify(*output, tex, *scale); err != nil {
			log.Fatalf("verify: %v", err)
		}
	}
	log.Printf("QR saved to %s (%d modules, %dx%d %s, scale %d)\n",
		*output, tex.Modules(), tex.Width(), tex.Height(), tex.Format(), *scale)
}

func buildProvider(name, charset string, cacheSize int) (matrix.Provider, error) {
	var p matrix.Provider
	switch strings.ToLower(name) {
	case "rsc":
		p = matrix.RSC{}
	case "skip2":
		p = matrix.Skip2{}
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	enc, err := matrix.LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		p = matrix.Transcode{Provider: p, Charset: enc}
	}
	if cacheSize > 0 {
		p = matrix.NewCached(p, cacheSize)
	}
	return p, nil
}

// verify decodes the file at path and checks that every output pixel equals
// the texture pixel it was scaled from.
func verify(path string, tex *qrtexture.Texture, scale int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	got, err := intImage.Decode(f)
	if err != nil {
		return err
	}
	w, h := tex.Size()
	if got.Width() != w*scale || got.Height() != h*scale {
		return fmt.Errorf("%w: size %dx%d, want %dx%d",
			errMismatch, got.Width(), got.Height(), w*scale, h*scale)
	}

	src := tex.Image()
	out := got.ToStdImage()
	for y := range got.Height() {
		for x := range got.Width() {
			want := color.NRGBAModel.Convert(src.At(x/scale, y/scale))
			if have := color.NRGBAModel.Convert(out.At(x, y)); have != want {
				return fmt.Errorf("%w: pixel (%d, %d) is %v, want %v", errMismatch, x, y, have, want)
			}
		}
	}
	return nil
}
