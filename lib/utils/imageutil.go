package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
)

// ImgFormat of an encoded screenshot
type ImgFormat string

const (
	// ImgFormatPNG lossless
	ImgFormatPNG ImgFormat = "png"
	// ImgFormatJPEG lossy
	ImgFormatJPEG ImgFormat = "jpeg"
)

// Normalize the aliases, "jpg" is jpeg and empty is png
func (f ImgFormat) Normalize() ImgFormat {
	switch strings.ToLower(string(f)) {
	case "", "png":
		return ImgFormatPNG
	case "jpg", "jpeg":
		return ImgFormatJPEG
	}
	return f
}

// ImgOption is the option for image processing.
type ImgOption struct {
	Quality int
}

// ImgProcessor is the interface for image processing.
type ImgProcessor interface {
	Encode(img image.Image, opt *ImgOption) ([]byte, error)
	Decode(file io.Reader) (image.Image, error)
}

type jpegProcessor struct{}

func (p jpegProcessor) Encode(img image.Image, opt *ImgOption) ([]byte, error) {
	var buf bytes.Buffer
	var jpegOpt *jpeg.Options
	if opt != nil {
		jpegOpt = &jpeg.Options{Quality: opt.Quality}
	}
	err := jpeg.Encode(&buf, img, jpegOpt)
	return buf.Bytes(), err
}

func (p jpegProcessor) Decode(file io.Reader) (image.Image, error) {
	return jpeg.Decode(file)
}

type pngProcessor struct{}

func (p pngProcessor) Encode(img image.Image, _ *ImgOption) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	return buf.Bytes(), err
}

func (p pngProcessor) Decode(file io.Reader) (image.Image, error) {
	return png.Decode(file)
}

// NewImgProcessor create a ImgProcessor by the format.
// Empty format means png.
func NewImgProcessor(format ImgFormat) (ImgProcessor, error) {
	switch format.Normalize() {
	case ImgFormatJPEG:
		return &jpegProcessor{}, nil
	case ImgFormatPNG:
		return &pngProcessor{}, nil
	default:
		return nil, fmt.Errorf("not support format: %v", format)
	}
}

// EncodePNG the img losslessly
func EncodePNG(img image.Image) ([]byte, error) {
	return pngProcessor{}.Encode(img, nil)
}

// Thumbnail scales img to the width and keeps the aspect ratio.
// If width is not smaller than the img width the img is returned as it is.
func Thumbnail(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || width >= b.Dx() {
		return img
	}

	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
