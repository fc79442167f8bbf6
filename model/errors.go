package model

import "errors"

// Set of sentinel errors for the multimodal pipeline. Every failure returned
// from the pipeline wraps exactly one of these so callers can classify it
// with errors.Is before converting it to a wire response.
var (
	ErrModelNotLoaded = errors.New("text model not loaded")
	ErrNotInitialized = errors.New("multimodal context not initialized")
	ErrInitialization = errors.New("multimodal initialization failed")
	ErrInvalidInput   = errors.New("invalid input")
	ErrTokenization   = errors.New("tokenization failed")
	ErrEvaluation     = errors.New("evaluation failed")
	ErrDecode         = errors.New("decode failed")
)
