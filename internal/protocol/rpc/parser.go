package rpc

import (
	"bytes"
	"fmt"

	goxdr "github.com/rasky/go-xdr/xdr2"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// ReadCall decodes an ONC RPC call header from a raw message buffer.
//
// It rejects anything that is not a CALL or does not speak RPC version 2.
// No reply is owed for a rejected buffer; the caller drops it.
func ReadCall(data []byte) (*CallMessage, error) {
	call := &CallMessage{}
	if _, err := goxdr.Unmarshal(bytes.NewReader(data), call); err != nil {
		return nil, fmt.Errorf("unmarshal RPC call: %w", err)
	}

	if call.MsgType != MsgTypeCall {
		return nil, fmt.Errorf("expected CALL (%d), got %d", MsgTypeCall, call.MsgType)
	}
	if call.RPCVersion != RPCVersion {
		return nil, fmt.Errorf("expected RPC version %d, got %d", RPCVersion, call.RPCVersion)
	}

	return call, nil
}

// ReadData returns the procedure arguments that follow the RPC call header.
//
// The header is six words plus two opaque-auth blocks; the returned slice
// aliases the message buffer. A message whose auth blocks run past the end
// of the buffer is malformed.
func ReadData(message []byte) ([]byte, error) {
	r := xdr.NewReader(message)

	// xid, mtype, rpcvers, prog, vers, proc
	for range 6 {
		if _, err := r.Uint32(); err != nil {
			return nil, fmt.Errorf("skip call header: %w", err)
		}
	}

	// credentials, then verifier: flavor followed by opaque body
	for _, block := range []string{"credentials", "verifier"} {
		if _, err := r.Uint32(); err != nil {
			return nil, fmt.Errorf("skip %s flavor: %w", block, err)
		}
		if err := r.SkipOpaque(); err != nil {
			return nil, fmt.Errorf("skip %s body: %w", block, err)
		}
	}

	return r.Remaining(), nil
}
