package stations

import "log"

// 30 seconds of 16kHz mono s16le.
const chunkBytes = 30 * 16000 * 2

type S2SplitChunks struct{}

func NewS2SplitChunks() *S2SplitChunks { return &S2SplitChunks{} }

// Run cuts the PCM stream into 30-second windows. The last window keeps
// whatever remains, it is never padded.
func (s *S2SplitChunks) Run(pcm []byte) [][]byte {
	var chunks [][]byte

	for off := 0; off < len(pcm); off += chunkBytes {
		end := off + chunkBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		chunks = append(chunks, pcm[off:end])
	}

	log.Printf("[S2] bytes=%d chunks=%d", len(pcm), len(chunks))
	return chunks
}
