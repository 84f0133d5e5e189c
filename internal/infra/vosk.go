package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Vovarama1992/scribe/internal/ports"
	vosk "github.com/alphacep/vosk-api/go"
)

// feed size per AcceptWaveform call: 4000 frames of s16le mono
const voskFeedBytes = 8000

type VoskRecognizer struct {
	model      *vosk.VoskModel
	sampleRate float64
}

// NewVoskRecognizer loads the acoustic model once. The model is safe to
// share; per-call recognizers are not, so Recognize builds its own.
func NewVoskRecognizer(modelPath string) (ports.Recognizer, error) {
	if st, err := os.Stat(modelPath); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("vosk model not found at %q", modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("vosk load model: %w", err)
	}

	return &VoskRecognizer{
		model:      model,
		sampleRate: 16000.0,
	}, nil
}

type voskResult struct {
	Text string `json:"text"`
}

func (v *VoskRecognizer) Recognize(ctx context.Context, pcm []byte) (string, []byte, error) {
	rec, err := vosk.NewRecognizer(v.model, v.sampleRate)
	if err != nil {
		return "", nil, fmt.Errorf("vosk new recognizer: %w", err)
	}
	defer rec.Free()

	rec.SetWords(1)

	var parts []string

	for off := 0; off < len(pcm); off += voskFeedBytes {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		end := off + voskFeedBytes
		if end > len(pcm) {
			end = len(pcm)
		}

		if rec.AcceptWaveform(pcm[off:end]) != 0 {
			var out voskResult
			_ = json.Unmarshal([]byte(rec.Result()), &out)
			if out.Text != "" {
				parts = append(parts, out.Text)
			}
		}
	}

	raw := []byte(rec.FinalResult())

	var final voskResult
	if err := json.Unmarshal(raw, &final); err != nil {
		return "", raw, fmt.Errorf("vosk final result: %w", err)
	}
	if final.Text != "" {
		parts = append(parts, final.Text)
	}

	return strings.TrimSpace(strings.Join(parts, " ")), raw, nil
}
