package stitch

import (
	"fmt"
	"image"
	"os"

	"github.com/go-rod/fullpage/lib/utils"
)

// spool keeps the raw captures on disk until they are composed
type spool struct {
	dir   string
	ext   string
	files []string
}

func newSpool(dir string, format utils.ImgFormat) *spool {
	ext := string(format)
	if ext == "" {
		ext = string(utils.ImgFormatPNG)
	}
	return &spool{dir: dir, ext: ext}
}

// write the ith capture, captures must be written in order
func (s *spool) write(i int, bin []byte) error {
	if i != len(s.files) {
		return fmt.Errorf("capture %d written out of order", i)
	}

	f, err := os.CreateTemp(s.dir, fmt.Sprintf("fp-shot-%02d-*.%s", i, s.ext))
	if err != nil {
		return err
	}
	s.files = append(s.files, f.Name())

	_, err = f.Write(bin)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (s *spool) decode(processor utils.ImgProcessor) ([]image.Image, error) {
	list := make([]image.Image, 0, len(s.files))
	for i, p := range s.files {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}

		img, err := processor.Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode capture %d: %w", i, err)
		}
		list = append(list, img)
	}
	return list, nil
}

// cleanup removes every file the spool created
func (s *spool) cleanup() {
	for _, p := range s.files {
		_ = os.Remove(p)
	}
	s.files = nil
}
