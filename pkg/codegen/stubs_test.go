package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauschar/pigweed/pkg/codegen"
	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

func generateStubs(pkg *schema.Package) string {
	out := output.NewFile("demo.rpc.pb.h")
	codegen.PackageStubs(pkg, codegen.RawGenerator{}, codegen.RawStubGenerator{}, out)
	return out.String()
}

func TestPackageStubsStructure(t *testing.T) {
	text := generateStubs(echoPackage(unaryMethod("Say")))

	assert.True(t, strings.HasPrefix(text, "#ifdef _PW_RPC_COMPILE_GENERATED_SERVICE_STUBS\n"))
	assert.True(t, strings.HasSuffix(text, "#endif  // _PW_RPC_COMPILE_GENERATED_SERVICE_STUBS\n"))
	assert.Contains(t, text, `#include "demo.rpc.pb.h"`)
	assert.Contains(t, text, "// This section provides stub implementations of the RPC services in this file.")

	// Both passes are wrapped in the package namespace.
	assert.Equal(t, 2, strings.Count(text, "namespace demo {"))
	assert.Equal(t, 2, strings.Count(text, "}  // namespace demo"))
}

func TestStubCallShapeDispatch(t *testing.T) {
	pkg := echoPackage(
		unaryMethod("Get"),
		&schema.Method{Name: "Watch", Type: schema.ServerStreaming},
		&schema.Method{Name: "Collect", Type: schema.ClientStreaming},
		&schema.Method{Name: "Chat", Type: schema.BidirectionalStreaming},
	)
	text := generateStubs(pkg)

	// Declarations: one signature per call shape.
	assert.Contains(t, text, "class Echo : public pw_rpc::raw::Echo::Service<Echo> {")
	assert.Contains(t, text, "::pw::StatusWithSize Get(::pw::ConstByteSpan request, ::pw::ByteSpan response);")
	assert.Contains(t, text, "void Watch(::pw::ConstByteSpan request, RawServerWriter& writer);")
	assert.Contains(t, text, "void Collect(RawServerReader& reader);")
	assert.Contains(t, text, "void Chat(RawServerReaderWriter& reader_writer);")

	// Definitions use the qualified prefix and the per-shape bodies.
	assert.Contains(t, text, "::pw::StatusWithSize Echo::Get(::pw::ConstByteSpan request, ::pw::ByteSpan response) {")
	assert.Contains(t, text, "return ::pw::StatusWithSize::Unimplemented();")
	assert.Contains(t, text, "void Echo::Watch(::pw::ConstByteSpan request, RawServerWriter& writer) {")
	assert.Contains(t, text, "static_cast<void>(writer);")
	assert.Contains(t, text, "void Echo::Collect(RawServerReader& reader) {")
	assert.Contains(t, text, "static_cast<void>(reader);")
	assert.Contains(t, text, "void Echo::Chat(RawServerReaderWriter& reader_writer) {")
	assert.Contains(t, text, "static_cast<void>(reader_writer);")
}

func TestStubBlankLineSeparation(t *testing.T) {
	pkg := echoPackage(
		unaryMethod("Get"),
		&schema.Method{Name: "Watch", Type: schema.ServerStreaming},
	)
	text := generateStubs(pkg)

	// A blank line separates consecutive declarations but does not precede
	// the first one.
	declarations := " public:\n" +
		"  ::pw::StatusWithSize Get(::pw::ConstByteSpan request, ::pw::ByteSpan response);\n" +
		"\n" +
		"  void Watch(::pw::ConstByteSpan request, RawServerWriter& writer);\n" +
		"};"
	assert.Contains(t, text, declarations)
}

func TestStubsWithoutNamespace(t *testing.T) {
	pkg := &schema.Package{
		FileName: "bare.proto",
		Services: []*schema.Service{
			{Name: "Echo", Methods: []*schema.Method{unaryMethod("Say")}},
		},
	}

	out := output.NewFile("bare.rpc.pb.h")
	codegen.PackageStubs(pkg, codegen.RawGenerator{}, codegen.RawStubGenerator{}, out)

	assert.NotContains(t, out.String(), "namespace")
}

func TestUnrecognizedCallShapePanics(t *testing.T) {
	pkg := echoPackage(&schema.Method{Name: "Broken", Type: schema.MethodType(42)})

	require.Panics(t, func() { generateStubs(pkg) })
}

func TestNanopbStubSignatures(t *testing.T) {
	pkg := echoPackage(
		unaryMethod("Say"),
		&schema.Method{
			Name:     "Collect",
			Type:     schema.ClientStreaming,
			Request:  "pw_test_Request",
			Response: "pw_test_Response",
		},
	)

	out := output.NewFile("demo.rpc.pb.h")
	codegen.PackageStubs(pkg, codegen.NanopbGenerator{}, codegen.NanopbStubGenerator{}, out)
	text := out.String()

	assert.Contains(t, text, "class Echo : public pw_rpc::nanopb::Echo::Service<Echo> {")
	assert.Contains(t, text, "::pw::Status Say(const pw_test_Request& request, pw_test_Response& response);")
	assert.Contains(t, text, "void Collect(ServerReader<pw_test_Request, pw_test_Response>& reader);")
	assert.Contains(t, text, "return ::pw::Status::Unimplemented();")
}
