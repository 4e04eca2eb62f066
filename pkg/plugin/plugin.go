// Package plugin implements the protoc plugin driver: it maps a
// CodeGeneratorRequest to generated RPC headers, one per requested schema
// file. Generation is all-or-nothing per invocation; on any failure the
// response carries only the error and no files.
package plugin

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/pauschar/pigweed/pkg/codegen"
	"github.com/pauschar/pigweed/pkg/output"
	"github.com/pauschar/pigweed/pkg/schema"
)

// Params are the plugin options, parsed from the comma-separated protoc
// plugin parameter (e.g. "binding=nanopb,no-stubs").
type Params struct {
	Binding string // "raw" (default) or "nanopb"
	NoStubs bool   // omit the stub section
}

// ParseParams parses a protoc plugin parameter string.
func ParseParams(parameter string) (Params, error) {
	params := Params{Binding: "raw"}

	for _, option := range strings.Split(parameter, ",") {
		switch key, value, _ := strings.Cut(option, "="); key {
		case "":
		case "binding":
			params.Binding = value
		case "no-stubs":
			params.NoStubs = true
		default:
			return Params{}, fmt.Errorf("unknown plugin option %q", option)
		}
	}

	return params, nil
}

// Bindings returns the generator pair for a binding name.
func (p Params) Bindings() (codegen.Generator, codegen.StubGenerator, error) {
	switch p.Binding {
	case "raw":
		return codegen.RawGenerator{}, codegen.RawStubGenerator{}, nil
	case "nanopb":
		return codegen.NanopbGenerator{}, codegen.NanopbStubGenerator{}, nil
	}
	return nil, nil, fmt.Errorf("unknown binding %q", p.Binding)
}

// OutputName returns the generated header path for a schema file.
func OutputName(protoFileName string) string {
	return strings.TrimSuffix(protoFileName, ".proto") + ".rpc.pb.h"
}

// Run answers one CodeGeneratorRequest. Errors are reported through the
// response's Error field, the contract protoc expects.
func Run(req *pluginpb.CodeGeneratorRequest, opts codegen.Options) *pluginpb.CodeGeneratorResponse {
	resp := &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
	}

	params, err := ParseParams(req.GetParameter())
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}

	gen, stubs, err := params.Bindings()
	if err != nil {
		resp.Error = proto.String(err.Error())
		return resp
	}

	byName := make(map[string]*descriptorpb.FileDescriptorProto)
	for _, fd := range req.GetProtoFile() {
		byName[fd.GetName()] = fd
	}

	var files []*pluginpb.CodeGeneratorResponse_File
	for _, name := range req.GetFileToGenerate() {
		fd, ok := byName[name]
		if !ok {
			resp.Error = proto.String(fmt.Sprintf("no descriptor for requested file %q", name))
			return resp
		}

		content, err := GenerateFile(fd, gen, stubs, params.NoStubs, opts)
		if err != nil {
			resp.Error = proto.String(fmt.Sprintf("%s: %s", name, err))
			return resp
		}

		files = append(files, &pluginpb.CodeGeneratorResponse_File{
			Name:    proto.String(OutputName(name)),
			Content: proto.String(content),
		})
	}

	resp.File = files
	return resp
}

// GenerateFile produces the full header for one schema file: the service and
// client code, then the guarded stub section unless disabled.
func GenerateFile(fd *descriptorpb.FileDescriptorProto, gen codegen.Generator,
	stubs codegen.StubGenerator, noStubs bool, opts codegen.Options) (string, error) {
	pkg := schema.BuildPackage(fd)
	out := output.NewFile(OutputName(fd.GetName()))

	if err := codegen.GeneratePackage(pkg, gen, out, opts); err != nil {
		return "", err
	}

	if !noStubs {
		out.WriteLine("")
		codegen.PackageStubs(pkg, gen, stubs, out)
	}

	return out.String(), nil
}
