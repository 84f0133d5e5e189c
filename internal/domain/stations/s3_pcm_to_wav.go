package stations

import (
	"bytes"
	"encoding/binary"
)

type wavFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// pipeline runs everything at 16kHz mono 16-bit
var defaultFormat = wavFormat{SampleRate: 16000, Channels: 1, BitsPerSample: 16}

type S3PCMtoWAV struct {
	format wavFormat
}

func NewS3PCMtoWAV() *S3PCMtoWAV {
	return &S3PCMtoWAV{format: defaultFormat}
}

// Run wraps raw PCM into a RIFF/WAVE container so chunk files on disk
// stay playable with normal tooling.
func (s *S3PCMtoWAV) Run(pcm []byte) []byte {
	f := s.format

	bytesPerSample := f.BitsPerSample / 8
	byteRate := f.SampleRate * f.Channels * bytesPerSample
	blockAlign := f.Channels * bytesPerSample
	dataSize := len(pcm)

	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(f.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(f.BitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	_, _ = buf.Write(pcm)

	return buf.Bytes()
}
