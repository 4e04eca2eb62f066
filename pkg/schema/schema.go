// Package schema defines the parsed service tree that code generation
// consumes: a Package holding Services holding Methods, in declaration order.
// Emitters treat the tree as read-only.
package schema

import (
	"fmt"
	"strings"
)

// Package is the contents of one schema file.
type Package struct {
	Name     string // dotted proto package, "" when the file declares none
	FileName string // schema file the package was parsed from
	Services []*Service
}

// Namespace returns the C++ namespace for the package ("pw::test" for
// "pw.test"), or "" when the package is unnamed.
func (p *Package) Namespace() string {
	if p.Name == "" {
		return ""
	}
	return strings.ReplaceAll(p.Name, ".", "::")
}

// Service is one RPC interface: a named, ordered collection of methods.
type Service struct {
	Name    string
	Package string // dotted package name of the owning Package
	Methods []*Method
}

// Path returns the fully qualified dotted path, e.g. "pw.test.Echo".
// Service IDs are hashes of this path.
func (s *Service) Path() string {
	if s.Package == "" {
		return s.Name
	}
	return s.Package + "." + s.Name
}

// Method is one RPC endpoint. Request and Response hold the C struct names
// of the method's messages (nanopb naming: dots become underscores).
type Method struct {
	Name     string
	Type     MethodType
	Request  string
	Response string
}

// MethodType is the call shape of a method.
type MethodType int

const (
	Unary MethodType = iota
	ServerStreaming
	ClientStreaming
	BidirectionalStreaming
)

func (t MethodType) String() string {
	switch t {
	case Unary:
		return "unary"
	case ServerStreaming:
		return "server streaming"
	case ClientStreaming:
		return "client streaming"
	case BidirectionalStreaming:
		return "bidirectional streaming"
	}
	return "unknown"
}

// CcEnum returns the ::pw::rpc::MethodType enumerator for this call shape.
// An out-of-range value is a schema invariant violation and panics.
func (t MethodType) CcEnum() string {
	switch t {
	case Unary:
		return "::pw::rpc::MethodType::kUnary"
	case ServerStreaming:
		return "::pw::rpc::MethodType::kServerStreaming"
	case ClientStreaming:
		return "::pw::rpc::MethodType::kClientStreaming"
	case BidirectionalStreaming:
		return "::pw::rpc::MethodType::kBidirectionalStreaming"
	}
	panic(fmt.Sprintf("unrecognized method type %d", int(t)))
}
