// Package glue binds named request schemas to handlers and guarantees a
// well-formed response for every message that crosses the boundary. Handler
// errors never escape as Go errors; they are converted to the failure
// response of the binding that produced them.
package glue

import (
	"context"
	"encoding/json"
	"fmt"
)

// ErrorResponseName is the response name used when a message cannot be
// matched to any registered request schema.
const ErrorResponseName = "error_res"

// Message is the envelope for every request and response.
type Message struct {
	Name string          `json:"name"`
	Body json.RawMessage `json:"body"`
}

// ErrorResponse is the body of a response that could not be matched to a
// registered binding.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandlerFunc processes a decoded request into a response.
type HandlerFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

// ErrorFunc builds the failure response for a binding.
type ErrorFunc[Res any] func(err error) Res

type binding struct {
	resName string
	handle  func(ctx context.Context, body json.RawMessage) any
}

// Dispatcher routes request messages to their registered handlers.
type Dispatcher struct {
	bindings map[string]binding
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		bindings: make(map[string]binding),
	}
}

// Register binds a request name to exactly one handler and one response
// name. Bindings are wired once at startup, so a duplicate name panics.
func Register[Req any, Res any](d *Dispatcher, reqName string, resName string, fn HandlerFunc[Req, Res], ef ErrorFunc[Res]) {
	if _, exists := d.bindings[reqName]; exists {
		panic(fmt.Sprintf("glue: duplicate binding for %q", reqName))
	}

	handle := func(ctx context.Context, body json.RawMessage) (res any) {
		defer func() {
			if rec := recover(); rec != nil {
				res = ef(fmt.Errorf("handler panic: %v", rec))
			}
		}()

		var req Req
		if err := json.Unmarshal(body, &req); err != nil {
			return ef(fmt.Errorf("decode %s: %w", reqName, err))
		}

		r, err := fn(ctx, req)
		if err != nil {
			return ef(err)
		}

		return r
	}

	d.bindings[reqName] = binding{
		resName: resName,
		handle:  handle,
	}
}

// Dispatch routes one message to its handler and always returns a well-formed
// response message. An unknown request name produces the error response.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Message {
	b, exists := d.bindings[msg.Name]
	if !exists {
		return NewErrorMessage(fmt.Sprintf("unknown request name %q", msg.Name))
	}

	res := b.handle(ctx, msg.Body)

	data, err := json.Marshal(res)
	if err != nil {
		return NewErrorMessage(fmt.Sprintf("encode %s: %s", b.resName, err))
	}

	return Message{
		Name: b.resName,
		Body: data,
	}
}

// NewErrorMessage builds the response for a message that could not be routed.
func NewErrorMessage(text string) Message {
	data, err := json.Marshal(ErrorResponse{Error: text})
	if err != nil {
		data = json.RawMessage(`{"success":false,"error":"unencodable error"}`)
	}

	return Message{
		Name: ErrorResponseName,
		Body: data,
	}
}
