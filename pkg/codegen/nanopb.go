package codegen

import (
	"fmt"
	"strings"

	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

// NanopbGenerator is the binding for the nanopb flavor, which exchanges
// nanopb-generated structs instead of raw byte spans. Its MethodInfo
// additions expose the request and response types to generic code.
type NanopbGenerator struct {
	BaseGenerator
}

func (NanopbGenerator) Name() string { return "nanopb" }

func (NanopbGenerator) MethodUnionName() string { return "NanopbMethodUnion" }

func (NanopbGenerator) Includes(protoFileName string) []string {
	base := strings.TrimSuffix(protoFileName, ".proto")
	return []string{
		fmt.Sprintf("#include %q", base+".pb.h"),
		`#include "pw_rpc/nanopb/client_reader_writer.h"`,
		`#include "pw_rpc/nanopb/internal/method_union.h"`,
		`#include "pw_rpc/nanopb/server_reader_writer.h"`,
	}
}

func (NanopbGenerator) ServiceAliases(out *output.File) {
	out.WriteLine("template <typename Response>")
	out.WriteLinef("using ServerWriter = %s::NanopbServerWriter<Response>;", rpcNamespace)
	out.WriteLine("template <typename Request, typename Response>")
	out.WriteLinef("using ServerReader = %s::NanopbServerReader<Request, Response>;", rpcNamespace)
	out.WriteLine("template <typename Request, typename Response>")
	out.WriteLinef("using ServerReaderWriter = %s::NanopbServerReaderWriter<Request, Response>;", rpcNamespace)
}

func (NanopbGenerator) MethodDescriptor(out *output.File, method *schema.Method) {
	out.WriteLinef("%s::internal::GetNanopbMethodFor<&Implementation::%s,",
		rpcNamespace, method.Name)

	done := out.Indent(4)
	out.WriteLinef("%s,", method.Type.CcEnum())
	out.WriteLinef("%s,", method.Request)
	out.WriteLinef("%s>(", method.Response)
	out.WriteLinef("%s),  // Hash of %q", methodIDLiteral(method), method.Name)
	done()
}

func (NanopbGenerator) ClientMemberFunction(out *output.File, method *schema.Method) {
	writeClientFunction(out, method, nanopbClientCallType(method), nanopbClientParams(method),
		rpcNamespace+"::internal::StartNanopbCall", false)
}

func (NanopbGenerator) ClientStaticFunction(out *output.File, method *schema.Method) {
	writeClientFunction(out, method, nanopbClientCallType(method), nanopbClientParams(method),
		rpcNamespace+"::internal::StartNanopbCall", true)
}

func (NanopbGenerator) MethodInfoSpecialization(out *output.File, method *schema.Method) {
	out.WriteLinef("using Request = %s;", method.Request)
	out.WriteLinef("using Response = %s;", method.Response)
}

// nanopbClientCallType parameterizes the call object over the method's
// message structs; call objects that write requests need both types.
func nanopbClientCallType(method *schema.Method) string {
	switch method.Type {
	case schema.Unary, schema.ServerStreaming:
		return fmt.Sprintf("%s<%s>", clientCallType(method, "Nanopb"), method.Response)
	case schema.ClientStreaming, schema.BidirectionalStreaming:
		return fmt.Sprintf("%s<%s, %s>", clientCallType(method, "Nanopb"), method.Request, method.Response)
	}
	panic("unreachable")
}

func nanopbClientParams(method *schema.Method) []string {
	request := fmt.Sprintf("const %s& request", method.Request)
	onNext := fmt.Sprintf("::pw::Function<void(const %s&)>&& on_next = nullptr", method.Response)
	onUnaryCompleted := fmt.Sprintf(
		"::pw::Function<void(const %s&, ::pw::Status)>&& on_completed = nullptr", method.Response)
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

// NanopbStubGenerator produces starter implementations for the nanopb
// flavor, typed over the generated message structs.
type NanopbStubGenerator struct {
	StubBase
}

func (NanopbStubGenerator) UnarySignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("::pw::Status %s%s(const %s& request, %s& response)",
		prefix, method.Name, method.Request, method.Response)
}

func (NanopbStubGenerator) UnaryStub(out *output.File, _ *schema.Method) {
	out.WriteLine(stubRequestTodo)
	out.WriteLine("static_cast<void>(request);")
	out.WriteLine(stubResponseTodo)
	out.WriteLine("static_cast<void>(response);")
	out.WriteLine("return ::pw::Status::Unimplemented();")
}

func (NanopbStubGenerator) ServerStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(const %s& request, ServerWriter<%s>& writer)",
		prefix, method.Name, method.Request, method.Response)
}

func (NanopbStubGenerator) ClientStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(ServerReader<%s, %s>& reader)",
		prefix, method.Name, method.Request, method.Response)
}

func (NanopbStubGenerator) BidirectionalStreamingSignature(method *schema.Method, prefix string) string {
	return fmt.Sprintf("void %s%s(ServerReaderWriter<%s, %s>& reader_writer)",
		prefix, method.Name, method.Request, method.Response)
}
