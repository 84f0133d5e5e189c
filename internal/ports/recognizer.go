package ports

import "context"

type Recognizer interface {
	Recognize(ctx context.Context, pcm []byte) (text string, raw []byte, err error)
}
