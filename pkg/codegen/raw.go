package codegen

import (
	"fmt"

	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

// RawGenerator is the binding for the raw flavor, which exchanges
// unserialized byte spans and leaves message handling to the application.
type RawGenerator struct {
	BaseGenerator
}

func (RawGenerator) Name() string { return "raw" }

func (RawGenerator) MethodUnionName() string { return "RawMethodUnion" }

func (RawGenerator) Includes(string) []string {
	return []string{
		`#include "pw_rpc/raw/client_reader_writer.h"`,
		`#include "pw_rpc/raw/internal/method_union.h"`,
		`#include "pw_rpc/raw/server_reader_writer.h"`,
	}
}

func (RawGenerator) ServiceAliases(out *output.File) {
	out.WriteLinef("using RawServerWriter = %s::RawServerWriter;", rpcNamespace)
	out.WriteLinef("using RawServerReader = %s::RawServerReader;", rpcNamespace)
	out.WriteLinef("using RawServerReaderWriter = %s::RawServerReaderWriter;", rpcNamespace)
}

func (RawGenerator) MethodDescriptor(out *output.File, method *schema.Method) {
	out.WriteLinef("%s::internal::GetRawMethodFor<&Implementation::%s, %s>(",
		rpcNamespace, method.Name, method.Type.CcEnum())
	out.WriteLinef("    %s),  // Hash of %q", methodIDLiteral(method), method.Name)
}

func (RawGenerator) ClientMemberFunction(out *output.File, method *schema.Method) {
	writeClientFunction(out, method, clientCallType(method, "Raw"), rawClientParams(method),
		rpcNamespace+"::internal::StartRawCall", false)
}

func (RawGenerator) ClientStaticFunction(out *output.File, method *schema.Method) {
	writeClientFunction(out, method, clientCallType(method, "Raw"), rawClientParams(method),
		rpcNamespace+"::internal::StartRawCall", true)
}

// rawClientParams returns the parameter list of a raw client call for the
// method's call shape. Shapes with a client-to-server stream take no request
// payload up front.
func rawClientParams(method *schema.Method) []string {
	request := "::pw::ConstByteSpan request"
	onNext := "::pw::Function<void(::pw::ConstByteSpan)>&& on_next = nullptr"
	onUnaryCompleted := "::pw::Function<void(::pw::ConstByteSpan, ::pw::Status)>&& on_completed = nullptr"
	onStreamCompleted := "::pw::Function<void(::pw::Status)>&& on_completed = nullptr"
	onError := "::pw::Function<void(::pw::Status)>&& on_error = nullptr"

	switch method.Type {
	case schema.Unary:
		return []string{request, onUnaryCompleted, onError}
	case schema.ServerStreaming:
		return []string{request, onNext, onStreamCompleted, onError}
	case schema.ClientStreaming:
		return []string{onUnaryCompleted, onError}
	case schema.BidirectionalStreaming:
		return []string{onNext, onStreamCompleted, onError}
	}
	panic("unreachable")
}

// RawStubGenerator produces starter implementations for the raw flavor.
type RawStubGenerator struct {
	StubBase
}

func (RawStubGenerator) UnarySignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("::pw::StatusWithSize %s%s(::pw::ConstByteSpan request, ::pw::ByteSpan response)",
		prefix, method.Name)
}

func (RawStubGenerator) UnaryStub(out *output.File, _ *schema.Method) {
	out.WriteLine(stubRequestTodo)
	out.WriteLine("static_cast<void>(request);")
	out.WriteLine(stubResponseTodo)
	out.WriteLine("static_cast<void>(response);")
	out.WriteLine("return ::pw::StatusWithSize::Unimplemented();")
}

func (RawStubGenerator) ServerStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(::pw::ConstByteSpan request, RawServerWriter& writer)",
		prefix, method.Name)
}

func (RawStubGenerator) ClientStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(RawServerReader& reader)", prefix, method.Name)
}

func (RawStubGenerator) BidirectionalStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(RawServerReaderWriter& reader_writer)", prefix, method.Name)
}
