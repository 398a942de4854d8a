package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"island-sim/internal/terrain"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/draw"
)

// grayscale renders one pixel per grid vertex, low to high as black to
// white. Vertices under water are drawn at half brightness.
func grayscale(hf *terrain.HeightField) *image.Gray {
	n := hf.Segments() + 1
	lo, hi := hf.MinMax()
	span := hi - lo
	if span == 0 {
		span = 1
	}
	img := image.NewGray(image.Rect(0, 0, n, n))
	for iz := range n {
		for ix := range n {
			h, _ := hf.At(ix, iz)
			v := (h - lo) / span * 255
			if h < hf.WaterLevel() {
				v /= 2
			}
			img.SetGray(ix, iz, color.Gray{Y: uint8(math.Round(v))})
		}
	}
	return img
}

// writePNG encodes the grid preview upscaled by scale.
func writePNG(w io.Writer, hf *terrain.HeightField, scale int) error {
	src := grayscale(hf)
	if scale <= 1 {
		return png.Encode(w, src)
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return png.Encode(w, dst)
}

// Raw grid layout, all little-endian:
//
//	uint32  vertices per side (n)
//	float32 island size
//	float32 water level
//	n*n float32 elevations, rows by z
type rawHeader struct {
	Vertices   uint32
	Size       float32
	WaterLevel float32
}

// writeRaw writes the zstd-compressed raw grid.
func writeRaw(w io.Writer, hf *terrain.HeightField) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	hdr := rawHeader{
		Vertices:   uint32(hf.Segments() + 1),
		Size:       float32(hf.Size()),
		WaterLevel: float32(hf.WaterLevel()),
	}
	if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
		enc.Close()
		return err
	}
	for _, row := range hf.Elevations() {
		vals := make([]float32, len(row))
		for i, h := range row {
			vals[i] = float32(h)
		}
		if err := binary.Write(bw, binary.LittleEndian, vals); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// readRaw decodes a grid written by writeRaw.
func readRaw(r io.Reader) (*terrain.HeightField, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var hdr rawHeader
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if hdr.Vertices < 2 {
		return nil, fmt.Errorf("bad vertex count %d", hdr.Vertices)
	}
	n := int(hdr.Vertices)
	rows := make([][]float64, n)
	vals := make([]float32, n)
	for iz := range n {
		if err := binary.Read(dec, binary.LittleEndian, vals); err != nil {
			return nil, fmt.Errorf("read row %d: %w", iz, err)
		}
		rows[iz] = make([]float64, n)
		for ix, v := range vals {
			rows[iz][ix] = float64(v)
		}
	}
	return terrain.FromElevations(float64(hdr.Size), float64(hdr.WaterLevel), rows)
}
