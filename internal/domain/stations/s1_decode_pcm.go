package stations

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"
)

// S1DecodePCM feeds an uploaded file through ffmpeg and collects
// 16kHz mono s16le PCM from stdout. Any container ffmpeg can open
// (mp3, ogg, m4a, wav...) is accepted.
type S1DecodePCM struct{}

func NewS1DecodePCM() *S1DecodePCM {
	return &S1DecodePCM{}
}

func (s *S1DecodePCM) Run(ctx context.Context, filePath string) ([]byte, error) {
	start := time.Now()
	log.Printf("[S1][START] file=%s", filePath)

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-loglevel", "error",
		"-i", filePath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "s16le",
		"pipe:1",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("[S1] stdout pipe: %w", err)
	}

	stderr, _ := cmd.StderrPipe()
	go func() {
		b, _ := io.ReadAll(stderr)
		if len(b) > 0 {
			log.Printf("[S1][STDERR] %s", string(b))
		}
	}()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("[S1] ffmpeg start: %w", err)
	}

	var pcm []byte
	buf := make([]byte, 4096)

	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			pcm = append(pcm, buf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			_ = cmd.Process.Kill()
			return nil, fmt.Errorf("[S1] read pcm: %w", err)
		}
	}

	if err := cmd.Wait(); err != nil && len(pcm) == 0 {
		return nil, fmt.Errorf("[S1] ffmpeg decode: %w", err)
	}

	dur := time.Since(start)
	if len(pcm) == 0 {
		log.Printf("[S1][EMPTY] dur=%s", dur)
		return nil, fmt.Errorf("[S1] no audio stream decoded")
	}

	log.Printf(
		"[S1][OK] bytes=%d approx_sec=%.1f dur=%s",
		len(pcm),
		float64(len(pcm))/2/16000,
		dur,
	)

	return pcm, nil
}
