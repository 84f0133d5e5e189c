package domain

import "errors"

// ErrBadAudio marks uploads ffmpeg could not decode, so delivery can
// answer 400 instead of 500.
var ErrBadAudio = errors.New("audio decode failed")
