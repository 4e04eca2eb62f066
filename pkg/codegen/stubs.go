package codegen

import (
	"fmt"

	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

// Placeholder comments used in generated stub bodies.
const (
	stubRequestTodo      = "// TODO: Read the request as appropriate for your application"
	stubResponseTodo     = "// TODO: Fill in the response as appropriate for your application"
	stubWriterTodo       = "// TODO: Send responses with the writer as appropriate for your application"
	stubReaderTodo       = "// TODO: Set the client stream callback and send a response as appropriate for your application"
	stubReaderWriterTodo = "// TODO: Set the client stream callback and send responses as appropriate for your application"
)

// stubsFlag guards the generated stub section; it is only compiled when the
// user defines the flag.
const stubsFlag = "_PW_RPC_COMPILE_GENERATED_SERVICE_STUBS"

// StubGenerator is the capability contract for producing copyable starter
// implementations: one signature/body pair per call shape. Embed StubBase to
// pick up the default streaming bodies.
type StubGenerator interface {
	UnarySignature(method *schema.Method, prefix string) string
	UnaryStub(out *output.File, method *schema.Method)

	ServerStreamingSignature(method *schema.Method, prefix string) string
	ServerStreamingStub(out *output.File, method *schema.Method)

	ClientStreamingSignature(method *schema.Method, prefix string) string
	ClientStreamingStub(out *output.File, method *schema.Method)

	BidirectionalStreamingSignature(method *schema.Method, prefix string) string
	BidirectionalStreamingStub(out *output.File, method *schema.Method)
}

// StubBase supplies the default placeholder bodies for the streaming call
// shapes. Unary bodies are always binding-specific.
type StubBase struct{}

func (StubBase) ServerStreamingStub(out *output.File, _ *schema.Method) {
	out.WriteLine(stubRequestTodo)
	out.WriteLine("static_cast<void>(request);")
	out.WriteLine(stubWriterTodo)
	out.WriteLine("static_cast<void>(writer);")
}

func (StubBase) ClientStreamingStub(out *output.File, _ *schema.Method) {
	out.WriteLine(stubReaderTodo)
	out.WriteLine("static_cast<void>(reader);")
}

func (StubBase) BidirectionalStreamingStub(out *output.File, _ *schema.Method) {
	out.WriteLine(stubReaderWriterTodo)
	out.WriteLine("static_cast<void>(reader_writer);")
}

type stubSignature func(method *schema.Method, prefix string) string

type stubBody func(out *output.File, method *schema.Method)

// selectStubMethods picks the signature/body pair for a method's call shape.
// An out-of-range shape is a schema invariant violation and panics.
func selectStubMethods(gen StubGenerator, method *schema.Method) (stubSignature, stubBody) {
	switch method.Type {
	case schema.Unary:
		return gen.UnarySignature, gen.UnaryStub
	case schema.ServerStreaming:
		return gen.ServerStreamingSignature, gen.ServerStreamingStub
	case schema.ClientStreaming:
		return gen.ClientStreamingSignature, gen.ClientStreamingStub
	case schema.BidirectionalStreaming:
		return gen.BidirectionalStreamingSignature, gen.BidirectionalStreamingStub
	}
	panic(fmt.Sprintf("unrecognized method type %d for %q", int(method.Type), method.Name))
}

var stubsBanner = []string{
	"/*",
	`    ____                __                          __        __  _`,
	`   /  _/___ ___  ____  / /__  ____ ___  ___  ____  / /_____ _/ /_(_)___  ____`,
	`   / // __ ` + "`" + `__ \/ __ \/ / _ \/ __ ` + "`" + `__ \/ _ \/ __ \/ __/ __ ` + "`" + `/ __/ / __ \/ __ \`,
	` _/ // / / / / / /_/ / /  __/ / / / / /  __/ / / / /_/ /_/ / /_/ / /_/ / / / /`,
	`/___/_/ /_/ /_/ .___/_/\___/_/ /_/ /_/\___/_/ /_/\__/\__,_/\__/_/\____/_/ /_/`,
	`             /_/`,
	`   _____ __        __         __`,
	`  / ___// /___  __/ /_  _____/ /`,
	`  \__ \/ __/ / / / __ \/ ___/ /`,
	` ___/ / /_/ /_/ / /_/ (__  )_/`,
	`/____/\__/\__,_/_.___/____(_)`,
	``,
	`*/`,
	"// This section provides stub implementations of the RPC services in this file.",
	"// The code below may be referenced or copied to serve as a starting point for",
	"// your RPC service implementations.",
}

// PackageStubs appends stub declarations and definitions for every service in
// the package. The whole section is wrapped in a conditional-compilation flag
// so it never lands in a normal build.
func PackageStubs(pkg *schema.Package, gen Generator, stubs StubGenerator, out *output.File) {
	namespace := pkg.Namespace()
	startNamespace := func() {
		if namespace != "" {
			out.WriteLinef("namespace %s {", namespace)
			out.WriteLine("")
		}
	}
	finishNamespace := func() {
		if namespace != "" {
			out.WriteLinef("}  // namespace %s", namespace)
			out.WriteLine("")
		}
	}

	out.WriteLinef("#ifdef %s", stubsFlag)
	out.WriteLine("")
	for _, line := range stubsBanner {
		out.WriteLine(line)
	}
	out.WriteLine("")

	out.WriteLinef("#include %q", out.Name())
	out.WriteLine("")

	startNamespace()

	for _, service := range pkg.Services {
		serviceDeclarationStub(out, gen, stubs, service)
	}
	out.WriteLine("")

	finishNamespace()
	startNamespace()

	for _, service := range pkg.Services {
		serviceDefinitionStub(out, stubs, service)
		out.WriteLine("")
	}

	finishNamespace()

	out.WriteLinef("#endif  // %s", stubsFlag)
}

// serviceDeclarationStub emits the class declaration with one bodyless
// method per call shape.
func serviceDeclarationStub(out *output.File, gen Generator, stubs StubGenerator, service *schema.Service) {
	out.WriteLinef("// Implementation class for %s.", service.Path())
	out.WriteLinef("class %s : public pw_rpc::%s::%s::Service<%s> {",
		service.Name, gen.Name(), service.Name, service.Name)
	out.WriteLine(" public:")

	done := out.Indent()
	for i, method := range service.Methods {
		if i > 0 {
			out.WriteLine("")
		}

		signature, _ := selectStubMethods(stubs, method)
		out.WriteLine(signature(method, "") + ";")
	}
	done()

	out.WriteLine("};")
	out.WriteLine("")
}

// serviceDefinitionStub emits the out-of-class method bodies.
func serviceDefinitionStub(out *output.File, stubs StubGenerator, service *schema.Service) {
	out.WriteLinef("// Method definitions for %s.", service.Path())

	for i, method := range service.Methods {
		if i > 0 {
			out.WriteLine("")
		}

		signature, body := selectStubMethods(stubs, method)

		out.WriteLine(signature(method, service.Name+"::") + " {")
		done := out.Indent()
		body(out, method)
		done()
		out.WriteLine("}")
	}
}
