package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"io"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/riff"
)

// Builtin palettes, by name.
var Builtin = map[string]color.Palette{
	"bw":      {color.Black, color.White},
	"gray16":  grayRamp(16),
	"plan9":   palette.Plan9,
	"websafe": palette.WebSafe,
}

func grayRamp(n int) color.Palette {
	p := make(color.Palette, n)
	for i := range n {
		p[i] = color.Gray{Y: uint8(i * 255 / (n - 1))}
	}
	return p
}

// LoadPalette returns the builtin palette called name, or reads every
// palette chunk of the RIFF PAL file at that path into a single palette.
func LoadPalette(name string) (color.Palette, error) {
	if p, ok := Builtin[name]; ok {
		return p, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadPalettes(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}
	var res color.Palette
	for _, p := range pals {
		res = append(res, p...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette %q has no colors", name)
	}
	return res, nil
}

// Reduce maps img onto pal, optionally with Floyd-Steinberg error diffusion.
func Reduce(img image.Image, pal color.Palette, dither bool) *image.Paletted {
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dst := image.NewPaletted(dr, pal)
	if dither {
		draw.FloydSteinberg.Draw(dst, dr, img, sr.Min)
	} else {
		draw.Draw(dst, dr, img, sr.Min, draw.Src)
	}
	return dst
}

// A RIFF PAL file holds "data" chunks (possibly nested in PAL lists), each
// a LOGPALETTE: version 0x0300, a little-endian entry count, then 4 bytes
// (R, G, B, flags) per entry.
var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadPalettes reads every palette of a RIFF PAL stream.
func ReadPalettes(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}
	return readChunks(rd, nil)
}

func readChunks(r *riff.Reader, res []color.Palette) ([]color.Palette, error) {
	for {
		id, size, data, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk #%d: %w", len(res), err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list chunk #%d: %w", len(res), err)
			} else if listType != palType {
				return res, fmt.Errorf("unsupported list type in chunk #%d: %s", len(res), string(listType[:]))
			}
			if res, err = readChunks(list, res); err != nil {
				return res, err
			}
		case dataType:
			pal, err := readLogPalette(data)
			if err != nil {
				return res, fmt.Errorf("chunk #%d: %w", len(res), err)
			}
			res = append(res, pal)
		default:
			return res, fmt.Errorf("unsupported chunk type in #%d: %s", len(res), string(id[:]))
		}
	}
}

func readLogPalette(r io.Reader) (color.Palette, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("could not read palette header: %w", err)
	}
	if ver := binary.BigEndian.Uint16(head[:2]); ver != 3 {
		return nil, fmt.Errorf("unsupported palette version: %d", ver)
	}

	count := int(binary.LittleEndian.Uint16(head[2:]))
	entries := make([]byte, count*4)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d palette entries: %w", count, err)
	}
	pal := make(color.Palette, count)
	for i := range count {
		e := entries[i*4:]
		pal[i] = color.NRGBA{R: e[0], G: e[1], B: e[2], A: 0xFF}
	}
	return pal, nil
}

// WritePalettes writes pals as a RIFF PAL stream, one data chunk each.
func WritePalettes(w io.Writer, pals []color.Palette) error {
	size := 4
	for _, p := range pals {
		size += 8 + 4 + len(p)*4
	}

	buf := append([]byte{}, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(size))
	buf = append(buf, palType[:]...)
	for _, p := range pals {
		buf = append(buf, dataType[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(p)*4))
		buf = append(buf, 0, 0x03)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(p)))
		for _, col := range p {
			c := color.NRGBAModel.Convert(col).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, 0)
		}
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("could not write palette: %w", err)
	}
	return nil
}
