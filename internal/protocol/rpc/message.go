package rpc

// CallMessage is the fixed header of an ONC RPC call. Credential and
// verifier bodies are decoded only so the header length is known; their
// content is never interpreted.
type CallMessage struct {
	XID        uint32
	MsgType    uint32
	RPCVersion uint32
	Program    uint32
	Version    uint32
	Procedure  uint32
	Cred       OpaqueAuth
	Verf       OpaqueAuth
}

// OpaqueAuth is the auth structure attached twice to every call:
// once as credentials, once as verifier.
type OpaqueAuth struct {
	Flavor uint32
	Body   []byte `xdr:"opaque"`
}
