// Package codegen turns a parsed service tree into C++ RPC plumbing: a
// server base class and client per service, compile-time method metadata, and
// optional stub skeletons. The traversal here is binding-agnostic; everything
// that differs between RPC flavors lives behind the Generator and
// StubGenerator contracts.
package codegen

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/pauschar/pigweed/pkg/ids"
	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

const (
	// PluginName and PluginVersion identify the generator in the provenance
	// banner of every emitted file.
	PluginName    = "pw_rpc_codegen"
	PluginVersion = "0.3.0"

	rpcNamespace = "::pw::rpc"
)

// reservedMethodNames are method names that collide with symbols the
// generated wrapper class defines itself.
var reservedMethodNames = []string{"Client", "Service", "ServiceInfo"}

// ReservedNameError reports a schema method whose name is reserved for
// generated symbols.
type ReservedNameError struct {
	Method string // fully qualified, e.g. "pw.test.Echo.Client"
	Name   string // the offending local name
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("%q is not a valid method name! The name %q is reserved for internal use by pw_rpc",
		e.Method, e.Name)
}

// Options configures one generation pass. The zero value uses the built-in
// plugin identity and the wall clock; tests pin Now for byte-identical
// output.
type Options struct {
	PluginName    string
	PluginVersion string
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.PluginName == "" {
		o.PluginName = PluginName
	}
	if o.PluginVersion == "" {
		o.PluginVersion = PluginVersion
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Generator is the capability contract a binding implements to emit service
// and client code for one RPC flavor. MethodInfoSpecialization and
// PrivateAdditions are optional; embed BaseGenerator to default them to
// no-ops.
type Generator interface {
	// Name is the short flavor identifier used to namespace generated
	// symbols, e.g. "raw" or "nanopb".
	Name() string
	// MethodUnionName is the type used to store heterogeneous method
	// descriptors in the generated method table.
	MethodUnionName() string
	// Includes returns the #include lines specific to this binding.
	Includes(protoFileName string) []string
	// ServiceAliases emits reader/writer aliases inside the generated
	// Service class.
	ServiceAliases(out *output.File)
	// MethodDescriptor emits one entry of the per-service method table.
	MethodDescriptor(out *output.File, method *schema.Method)
	// ClientMemberFunction emits the call surface on the generated Client.
	ClientMemberFunction(out *output.File, method *schema.Method)
	// ClientStaticFunction emits the equivalent static free function.
	ClientStaticFunction(out *output.File, method *schema.Method)
	// MethodInfoSpecialization emits binding additions to a MethodInfo
	// specialization. Optional.
	MethodInfoSpecialization(out *output.File, method *schema.Method)
	// PrivateAdditions emits binding additions to the private section of
	// the generated wrapper class. Optional.
	PrivateAdditions(out *output.File, service *schema.Service)
}

// BaseGenerator supplies no-op implementations of the optional Generator
// operations.
type BaseGenerator struct{}

func (BaseGenerator) MethodInfoSpecialization(*output.File, *schema.Method) {}

func (BaseGenerator) PrivateAdditions(*output.File, *schema.Service) {}

// fixedIncludes are emitted for every binding, unioned with the binding's
// own includes.
var fixedIncludes = []string{
	`#include "pw_rpc/internal/method_info.h"`,
	`#include "pw_rpc/internal/method_lookup.h"`,
	`#include "pw_rpc/internal/service_client.h"`,
	`#include "pw_rpc/method_type.h"`,
	`#include "pw_rpc/service.h"`,
	`#include "pw_rpc/service_id.h"`,
}

// GeneratePackage emits service and client code for every service in the
// package. Output is a pure function of the package, the binding, and the
// timestamp; on error nothing further is written and the caller must discard
// the sink.
func GeneratePackage(pkg *schema.Package, gen Generator, out *output.File, opts Options) error {
	opts = opts.withDefaults()

	out.WriteLinef("// %s automatically generated by %s %s",
		filepath.Base(out.Name()), opts.PluginName, opts.PluginVersion)
	out.WriteLinef("// on %s", opts.Now().Format("2006-01-02T15:04:05"))
	out.WriteLine("// clang-format off")
	out.WriteLine("#pragma once")
	out.WriteLine("")

	out.WriteLine("#include <array>")
	out.WriteLine("#include <cstdint>")
	out.WriteLine("#include <type_traits>")
	out.WriteLine("")

	for _, include := range includeLines(gen, pkg.FileName) {
		out.WriteLine(include)
	}
	out.WriteLine("")

	namespace := pkg.Namespace()
	if namespace != "" {
		out.WriteLinef("namespace %s {", namespace)
	}
	out.WriteLinef("namespace pw_rpc::%s {", gen.Name())
	out.WriteLine("")

	for _, service := range pkg.Services {
		if err := generateServiceAndClient(out, gen, service); err != nil {
			return err
		}
	}

	out.WriteLine("")
	out.WriteLinef("}  // namespace pw_rpc::%s", gen.Name())
	out.WriteLine("")
	if namespace != "" {
		out.WriteLinef("}  // namespace %s", namespace)
	}

	out.WriteLine("")
	out.WriteLine("// Specialize MethodInfo for each RPC to provide metadata at compile time.")
	for _, service := range pkg.Services {
		generateMethodInfo(out, gen, namespace, service)
	}

	return nil
}

// includeLines returns the fixed framework includes unioned with the
// binding's, deduplicated and sorted so output is stable.
func includeLines(gen Generator, protoFileName string) []string {
	seen := make(map[string]bool)
	var lines []string

	for _, line := range append(append([]string{}, fixedIncludes...), gen.Includes(protoFileName)...) {
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	sort.Strings(lines)
	return lines
}

// checkMethodNames validates the reserved-name invariant for a whole service
// before any of its code is emitted.
func checkMethodNames(service *schema.Service) error {
	for _, method := range service.Methods {
		for _, reserved := range reservedMethodNames {
			if method.Name == reserved {
				return &ReservedNameError{
					Method: service.Path() + "." + method.Name,
					Name:   method.Name,
				}
			}
		}
	}
	return nil
}

func generateServiceAndClient(out *output.File, gen Generator, service *schema.Service) error {
	if err := checkMethodNames(service); err != nil {
		return err
	}

	out.WriteLine("// Wrapper class that namespaces server and client code for this RPC service.")
	out.WriteLinef("class %s final {", service.Name)
	out.WriteLine(" public:")

	publicDone := out.Indent()
	out.WriteLinef("%s() = delete;", service.Name)
	out.WriteLine("")

	out.WriteLinef("static constexpr %s::ServiceId service_id() {", rpcNamespace)
	indented := out.Indent()
	out.WriteLinef("return %s::internal::WrapServiceId(kServiceId);", rpcNamespace)
	indented()
	out.WriteLine("}")
	out.WriteLine("")

	generateService(out, gen, service)
	out.WriteLine("")
	generateClient(out, gen, service)
	publicDone()

	out.WriteLine(" private:")

	privateDone := out.Indent()
	out.WriteLinef("// Hash of %q.", service.Path())
	out.WriteLinef("static constexpr uint32_t kServiceId = %s;", serviceIDLiteral(service))
	gen.PrivateAdditions(out, service)
	privateDone()

	out.WriteLine("};")
	return nil
}

// generateService emits the templated server-side base class.
func generateService(out *output.File, gen Generator, service *schema.Service) {
	out.WriteLine("// The RPC service base class.")
	out.WriteLine("// Inherit from this to implement an RPC service for a pw_rpc server.")
	out.WriteLine("template <typename Implementation>")
	out.WriteLinef("class Service : public %s::Service {", rpcNamespace)
	out.WriteLine(" public:")

	publicDone := out.Indent()
	gen.ServiceAliases(out)
	out.WriteLine("")
	out.WriteLinef("static constexpr const char* name() { return %q; }", service.Name)
	out.WriteLine("")
	out.WriteLinef("using ServiceInfo = %s;", service.Name)
	out.WriteLine("")
	publicDone()

	out.WriteLine(" protected:")

	protectedDone := out.Indent()
	out.WriteLinef("constexpr Service() : %s::Service(kServiceId, kPwRpcMethods) {}", rpcNamespace)
	protectedDone()

	out.WriteLine("")
	out.WriteLine(" private:")

	privateDone := out.Indent()
	out.WriteLinef("friend class %s::internal::MethodLookup;", rpcNamespace)
	out.WriteLine("")

	out.WriteLinef("static constexpr std::array<%s::internal::%s, %d> kPwRpcMethods = {",
		rpcNamespace, gen.MethodUnionName(), len(service.Methods))
	tableDone := out.Indent(4)
	for _, method := range service.Methods {
		gen.MethodDescriptor(out, method)
	}
	tableDone()
	out.WriteLine("};")
	out.WriteLine("")

	generateMethodLookupTable(out, service)
	privateDone()

	out.WriteLine("};")
}

// generateMethodLookupTable emits the parallel array of raw method IDs used
// for compile-time lookup.
func generateMethodLookupTable(out *output.File, service *schema.Service) {
	out.WriteLinef("static constexpr std::array<uint32_t, %d> kPwRpcMethodIds = {",
		len(service.Methods))

	done := out.Indent(4)
	for _, method := range service.Methods {
		out.WriteLinef("%s,  // Hash of %q", methodIDLiteral(method), method.Name)
	}
	done()

	out.WriteLine("};")
}

// generateClient emits the client class and the equivalent static functions.
func generateClient(out *output.File, gen Generator, service *schema.Service) {
	out.WriteLine("// The Client is used to invoke RPCs for this service.")
	out.WriteLinef("class Client final : public %s::internal::ServiceClient {", rpcNamespace)
	out.WriteLine(" public:")

	done := out.Indent()
	out.WriteLinef("constexpr Client(%s::Client& client, uint32_t channel_id)", rpcNamespace)
	out.WriteLine("    : ServiceClient(client, channel_id) {}")
	out.WriteLine("")
	out.WriteLinef("using ServiceInfo = %s;", service.Name)

	for _, method := range service.Methods {
		out.WriteLine("")
		gen.ClientMemberFunction(out, method)
	}
	done()

	out.WriteLine("};")
	out.WriteLine("")

	out.WriteLine("// Static functions for invoking RPCs on a pw_rpc server. These functions")
	out.WriteLine("// are equivalent to instantiating a Client and calling the corresponding RPC.")
	for _, method := range service.Methods {
		gen.ClientStaticFunction(out, method)
		out.WriteLine("")
	}
}

// generateMethodInfo emits the MethodInfo specialization for every method of
// the service, keyed by the generated symbol path.
func generateMethodInfo(out *output.File, gen Generator, namespace string, service *schema.Service) {
	serviceID := serviceIDLiteral(service)

	for _, method := range service.Methods {
		out.WriteLine("template <>")
		out.WriteLinef("struct pw::rpc::internal::MethodInfo<%s::pw_rpc::%s::%s::%s> {",
			namespace, gen.Name(), service.Name, method.Name)

		done := out.Indent()
		out.WriteLinef("static constexpr uint32_t kServiceId = %s;", serviceID)
		out.WriteLinef("static constexpr uint32_t kMethodId = %s;", methodIDLiteral(method))
		out.WriteLinef("static constexpr %s::MethodType kType = %s;", rpcNamespace, method.Type.CcEnum())
		out.WriteLine("")

		out.WriteLine("template <typename ServiceImpl>")
		out.WriteLine("static constexpr auto Function() {")

		inner := out.Indent()
		out.WriteLinef("return &ServiceImpl::%s;", method.Name)
		inner()

		out.WriteLine("}")

		clientNamespace := ""
		if namespace != "" {
			clientNamespace = "::" + namespace
		}
		out.WriteLinef("using GeneratedClient = %s::pw_rpc::%s::%s::Client;",
			clientNamespace, gen.Name(), service.Name)

		gen.MethodInfoSpecialization(out, method)
		done()

		out.WriteLine("};")
		out.WriteLine("")
	}
}

// clientCallType returns the client call object for a method: UnaryReceiver,
// ClientReader, ClientWriter or ClientReaderWriter, with the binding's
// prefix applied.
func clientCallType(method *schema.Method, prefix string) string {
	var callClass string
	switch method.Type {
	case schema.Unary:
		callClass = "UnaryReceiver"
	case schema.ServerStreaming:
		callClass = "ClientReader"
	case schema.ClientStreaming:
		callClass = "ClientWriter"
	case schema.BidirectionalStreaming:
		callClass = "ClientReaderWriter"
	default:
		panic(fmt.Sprintf("unrecognized method type %d for %q", int(method.Type), method.Name))
	}

	return rpcNamespace + "::" + prefix + callClass
}

func serviceIDLiteral(service *schema.Service) string {
	return ids.Literal(ids.Calculate(service.Path()))
}

func methodIDLiteral(method *schema.Method) string {
	return ids.Literal(ids.Calculate(method.Name))
}
