package stations

import (
	"context"
	"log"
	"time"

	"github.com/Vovarama1992/scribe/internal/ports"
)

func trim(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

type S4PCMtoText struct {
	rec ports.Recognizer
}

func NewS4PCMtoText(rec ports.Recognizer) *S4PCMtoText {
	return &S4PCMtoText{rec: rec}
}

func (s *S4PCMtoText) Run(ctx context.Context, pcm []byte) (string, error) {
	log.Printf("[S4][START] pcm_bytes=%d", len(pcm))

	txt, _, err := s.rec.Recognize(ctx, pcm)
	if err == nil {
		log.Printf("[S4][OK] text=%q", trim(txt, 180))
		return txt, nil
	}

	log.Printf("[S4][ERR][FIRST] err=%v", err)

	// one retry with a fresh context
	retryCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	txt, _, err2 := s.rec.Recognize(retryCtx, pcm)
	if err2 == nil {
		log.Printf("[S4][OK][RETRY]")
		return txt, nil
	}

	log.Printf("[S4][ERR][RETRY] err=%v", err2)
	return "", err2
}
