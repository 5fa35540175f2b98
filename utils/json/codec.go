// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

var (
	_ rpc.Codec        = (*codec)(nil)
	_ rpc.CodecRequest = (*request)(nil)
)

// NewCodec returns a JSON-RPC 2.0 codec that accepts lowercased method
// names, so that a request for "service.method" reaches the Go method
// "Method" on the registered "service" receiver.
func NewCodec() rpc.Codec {
	return codec{
		Codec: json2.NewCodec(),
	}
}

type codec struct {
	*json2.Codec
}

func (c codec) NewRequest(r *http.Request) rpc.CodecRequest {
	return request{
		CodecRequest: c.Codec.NewRequest(r),
	}
}

type request struct {
	rpc.CodecRequest
}

func (r request) Method() (string, error) {
	method, err := r.CodecRequest.Method()
	if err != nil {
		return "", err
	}
	service, name, found := strings.Cut(method, ".")
	if !found || len(name) == 0 {
		return method, nil
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return service + "." + string(runes), nil
}
