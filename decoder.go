package pyramid

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/spf13/afero"
	"golang.org/x/image/webp"
)

// FileDecoder reads tile files from a filesystem and decodes them as png,
// jpeg, gif or webp.
type FileDecoder struct {
	Fs afero.Fs
}

// NewFileDecoder returns a decoder over fs (the OS filesystem if nil)
func NewFileDecoder(fs afero.Fs) *FileDecoder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileDecoder{Fs: fs}
}

func (d *FileDecoder) Decode(path string) (image.Image, error) {
	data, err := afero.ReadFile(d.Fs, path)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// decode tries each supported format in turn; tile extensions on disk
// don't always match their contents.
func decode(data []byte) (image.Image, error) {
	decoders := []func(io.Reader) (image.Image, error){
		png.Decode,
		jpeg.Decode,
		gif.Decode,
		webp.Decode,
	}

	var lastErr error
	for _, decoder := range decoders {
		im, err := decoder(bytes.NewReader(data))
		if err == nil {
			return im, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
