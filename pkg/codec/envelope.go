// Package codec serializes call envelopes and reply envelopes to the wire format.
package codec

import (
	"encoding/json"
	"fmt"
)

// CallEnvelope is the JSON body of an outbound RPC call.
// Both fields are always present on the wire, empty when the caller omits them.
type CallEnvelope struct {
	Args   []interface{}          `json:"args"`
	Kwargs map[string]interface{} `json:"kwargs"`
}

// Normalize returns an envelope with non-nil args and kwargs.
// A nil envelope yields the empty envelope.
func (e *CallEnvelope) Normalize() *CallEnvelope {
	out := &CallEnvelope{}
	if e != nil {
		out.Args = e.Args
		out.Kwargs = e.Kwargs
	}
	if out.Args == nil {
		out.Args = []interface{}{}
	}
	if out.Kwargs == nil {
		out.Kwargs = map[string]interface{}{}
	}
	return out
}

// ReplyEnvelope is the decoded body of an inbound RPC reply.
// Exactly one of Result and Err is meaningful, selected by Success.
type ReplyEnvelope struct {
	Success bool
	Result  interface{}
	Err     *RemoteError
}

// wireReply is the JSON shape of a reply body.
type wireReply struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *wireError      `json:"error,omitempty"`
}

// EncodeEnvelope serializes a call envelope, tagging extended values recursively.
func EncodeEnvelope(env *CallEnvelope) ([]byte, error) {
	env = env.Normalize()

	args := make([]interface{}, len(env.Args))
	for i, v := range env.Args {
		args[i] = encodeValue(v)
	}
	kwargs := make(map[string]interface{}, len(env.Kwargs))
	for k, v := range env.Kwargs {
		kwargs[k] = encodeValue(v)
	}

	data, err := json.Marshal(&CallEnvelope{Args: args, Kwargs: kwargs})
	if err != nil {
		return nil, &CodecError{Op: "encode envelope", Err: err}
	}
	return data, nil
}

// DecodeEnvelope parses a call envelope body, decoding extended values.
// Used by callee-side test doubles and diagnostics; the client only encodes.
func DecodeEnvelope(data []byte) (*CallEnvelope, error) {
	var env CallEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &CodecError{Op: "decode envelope", Err: err}
	}
	env = *env.Normalize()
	for i, v := range env.Args {
		env.Args[i] = decodeValue(v)
	}
	for k, v := range env.Kwargs {
		env.Kwargs[k] = decodeValue(v)
	}
	return &env, nil
}

// DecodeReply parses a reply body into a settled success or a structured
// remote error. A body that is not valid JSON, or a failure body without an
// error object, fails with a CodecError.
func DecodeReply(data []byte) (*ReplyEnvelope, error) {
	var wire wireReply
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &CodecError{Op: "decode reply", Err: err}
	}

	if !wire.Success {
		if wire.Error == nil {
			return nil, &CodecError{Op: "decode reply", Err: fmt.Errorf("failure reply carries no error object")}
		}
		return &ReplyEnvelope{Success: false, Err: wire.Error.toRemoteError()}, nil
	}

	var result interface{}
	if len(wire.Result) > 0 {
		if err := json.Unmarshal(wire.Result, &result); err != nil {
			return nil, &CodecError{Op: "decode reply result", Err: err}
		}
	}
	return &ReplyEnvelope{Success: true, Result: decodeValue(result)}, nil
}

// EncodeReply serializes a reply envelope. The client library never sends
// replies itself; this is the mirror of DecodeReply for test callees.
func EncodeReply(reply *ReplyEnvelope) ([]byte, error) {
	wire := wireReply{Success: reply.Success}
	if reply.Success {
		data, err := json.Marshal(encodeValue(reply.Result))
		if err != nil {
			return nil, &CodecError{Op: "encode reply", Err: err}
		}
		wire.Result = data
	} else if reply.Err != nil {
		wire.Error = &wireError{
			Message:       reply.Err.Message,
			Args:          reply.Err.Args,
			ExceptionType: reply.Err.ExceptionType,
			ExceptionPath: reply.Err.ExceptionPath,
		}
	}

	data, err := json.Marshal(&wire)
	if err != nil {
		return nil, &CodecError{Op: "encode reply", Err: err}
	}
	return data, nil
}
