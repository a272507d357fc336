package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Format describes a PCM stream.
type Format struct {
	SampleRateHz  int
	Channels      int
	BitsPerSample int
}

// DefaultFormat is 16 kHz mono LINEAR16.
var DefaultFormat = Format{SampleRateHz: 16000, Channels: 1, BitsPerSample: 16}

// ErrUnsupportedFormat is returned for WAV files that are not 16-bit mono PCM.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// NewPCMReader returns a reader positioned at the first PCM sample of r.
// A RIFF/WAVE header is parsed and skipped; anything else is treated as raw
// PCM in DefaultFormat.
func NewPCMReader(r io.Reader) (io.Reader, Format, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil || !bytes.Equal(magic, []byte("RIFF")) {
		// Short or headerless input is raw PCM.
		return br, DefaultFormat, nil
	}
	f, err := readHeader(br)
	if err != nil {
		return nil, Format{}, err
	}
	return br, f, nil
}

func readHeader(r io.Reader) (Format, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Format{}, fmt.Errorf("wav: riff header: %w", err)
	}
	if string(riff[8:12]) != "WAVE" {
		return Format{}, fmt.Errorf("wav: not a WAVE file")
	}

	var f Format
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return Format{}, fmt.Errorf("wav: chunk header: %w", err)
		}
		id := string(hdr[:4])
		size := binary.LittleEndian.Uint32(hdr[4:])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return Format{}, fmt.Errorf("wav: fmt chunk: %w", err)
			}
			if size < 16 || binary.LittleEndian.Uint16(body[0:2]) != 1 {
				return Format{}, ErrUnsupportedFormat
			}
			f.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			f.SampleRateHz = int(binary.LittleEndian.Uint32(body[4:8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			if f.Channels != 1 || f.BitsPerSample != 16 {
				return Format{}, ErrUnsupportedFormat
			}
		case "data":
			if f.SampleRateHz == 0 {
				return Format{}, fmt.Errorf("wav: data chunk before fmt chunk")
			}
			return f, nil
		default:
			// LIST, fact, ... are padded to an even size.
			skip := int64(size) + int64(size&1)
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return Format{}, fmt.Errorf("wav: skip %q chunk: %w", id, err)
			}
		}
	}
}

// WriteWAV writes pcm as a 16-bit mono WAV file.
func WriteWAV(w io.Writer, pcm []byte, sampleRateHz int) error {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	blockAlign := channels * bitsPerSample / 8
	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(pcm)))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1)
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRateHz))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(sampleRateHz*blockAlign))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(pcm)))

	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("wav: write data: %w", err)
	}
	return nil
}
