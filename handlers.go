package wllama

import (
	"context"
	"fmt"

	"github.com/lxe/wllama/glue"
	"github.com/lxe/wllama/model"
)

// Dispatcher wires the engine's operations into a message dispatcher. Every
// request family is bound to its response name so each incoming message
// produces exactly one well-formed response.
func (e *Engine) Dispatcher() *glue.Dispatcher {
	d := glue.NewDispatcher()

	glue.Register(d, glue.InitMultimodalRequestName, glue.InitMultimodalResponseName, e.handleInitMultimodal, initMultimodalError)
	glue.Register(d, glue.ProcessImageRequestName, glue.ProcessImageResponseName, e.handleProcessImage, processImageError)

	return d
}

func (e *Engine) handleInitMultimodal(ctx context.Context, req glue.InitMultimodalRequest) (glue.InitMultimodalResponse, error) {
	cfg := MultimodalConfig{
		ProjFile: req.MmprojPath,
		UseGPU:   req.UseGPU,
		NThreads: req.NThreads,
		Marker:   req.ImageMarker,
	}

	if err := e.InitMultimodal(ctx, cfg); err != nil {
		return glue.InitMultimodalResponse{}, err
	}

	return glue.InitMultimodalResponse{Success: true}, nil
}

func initMultimodalError(err error) glue.InitMultimodalResponse {
	return glue.InitMultimodalResponse{Error: err.Error()}
}

func (e *Engine) handleProcessImage(ctx context.Context, req glue.ProcessImageRequest) (glue.ProcessImageResponse, error) {
	if req.DataSize > len(req.ImageData) {
		return glue.ProcessImageResponse{}, fmt.Errorf("process-image: declared size %d exceeds payload of %d bytes: %w", req.DataSize, len(req.ImageData), model.ErrInvalidInput)
	}

	pr := ProcessRequest{
		ImageData: req.ImageData,
		Width:     req.Width,
		Height:    req.Height,
		Prompt:    req.Prompt,
		UseCache:  req.UseCache,
	}

	text, err := e.ProcessImage(ctx, pr)
	if err != nil {
		return glue.ProcessImageResponse{}, err
	}

	return glue.ProcessImageResponse{Success: true, Result: text}, nil
}

func processImageError(err error) glue.ProcessImageResponse {
	return glue.ProcessImageResponse{Error: err.Error()}
}
