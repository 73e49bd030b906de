// Package wav renders clips to WAVE files.
package wav

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ttencate/piep"
)

type header struct {
	RiffMark      [4]byte
	FileSize      int32
	WaveMark      [4]byte
	FmtMark       [4]byte
	FormatSize    int32
	FormatType    int16
	NumChans      int16
	SampleRate    int32
	ByteRate      int32
	BytesPerFrame int16
	BitsPerSample int16
	DataMark      [4]byte
	DataSize      int32
}

const headerSize = 44

// Encode writes the clip, looped loops times, to w as a mono 16-bit WAVE
// file. Because the clip holds a whole number of wave cycles, the rendered
// file is seamless regardless of the loop count.
func Encode(w io.WriteSeeker, clip piep.Clip, rate piep.SampleRate, loops int) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "wav")
		}
	}()

	if len(clip) == 0 {
		return errors.New("empty clip")
	}
	if loops < 1 {
		return errors.New("loop count must be at least 1")
	}

	h := header{
		RiffMark:      [4]byte{'R', 'I', 'F', 'F'},
		FileSize:      -1, // finalization
		WaveMark:      [4]byte{'W', 'A', 'V', 'E'},
		FmtMark:       [4]byte{'f', 'm', 't', ' '},
		FormatSize:    16,
		FormatType:    1,
		NumChans:      1,
		SampleRate:    int32(rate),
		ByteRate:      int32(int(rate) * 2),
		BytesPerFrame: 2,
		BitsPerSample: 16,
		DataMark:      [4]byte{'d', 'a', 't', 'a'},
		DataSize:      -1, // finalization
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}

	var (
		bw      = bufio.NewWriter(w)
		data    = clip.Bytes()
		written int
	)
	for i := 0; i < loops; i++ {
		n, err := bw.Write(data)
		if err != nil {
			return err
		}
		written += n
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	// finalize header
	h.FileSize = int32(headerSize + written)
	h.DataSize = int32(written)
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	return nil
}
