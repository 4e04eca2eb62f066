package plugin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/pauschar/pigweed/pkg/codegen"
	"github.com/pauschar/pigweed/pkg/plugin"
)

var fixedOpts = codegen.Options{
	Now: func() time.Time { return time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC) },
}

func echoDescriptor(methodName string) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("echo.proto"),
		Package: proto.String("pw.test"),
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("Echo"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String(methodName),
						InputType:  proto.String(".pw.test.Request"),
						OutputType: proto.String(".pw.test.Response"),
					},
				},
			},
		},
	}
}

func echoRequest(parameter string) *pluginpb.CodeGeneratorRequest {
	return &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"echo.proto"},
		Parameter:      proto.String(parameter),
		ProtoFile:      []*descriptorpb.FileDescriptorProto{echoDescriptor("Say")},
	}
}

func TestParseParams(t *testing.T) {
	params, err := plugin.ParseParams("")
	require.NoError(t, err)
	assert.Equal(t, plugin.Params{Binding: "raw"}, params)

	params, err = plugin.ParseParams("binding=nanopb,no-stubs")
	require.NoError(t, err)
	assert.Equal(t, plugin.Params{Binding: "nanopb", NoStubs: true}, params)

	_, err = plugin.ParseParams("frobnicate")
	assert.Error(t, err)
}

func TestBindingsSelection(t *testing.T) {
	gen, stubs, err := plugin.Params{Binding: "raw"}.Bindings()
	require.NoError(t, err)
	assert.Equal(t, "raw", gen.Name())
	assert.NotNil(t, stubs)

	gen, _, err = plugin.Params{Binding: "nanopb"}.Bindings()
	require.NoError(t, err)
	assert.Equal(t, "nanopb", gen.Name())

	_, _, err = plugin.Params{Binding: "grpc"}.Bindings()
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "dir/echo.rpc.pb.h", plugin.OutputName("dir/echo.proto"))
}

func TestRunGeneratesOneFile(t *testing.T) {
	resp := plugin.Run(echoRequest(""), fixedOpts)

	require.Nil(t, resp.Error)
	require.Len(t, resp.File, 1)
	assert.Equal(t, "echo.rpc.pb.h", resp.File[0].GetName())

	content := resp.File[0].GetContent()
	assert.Contains(t, content, "#pragma once")
	assert.Contains(t, content, "namespace pw_rpc::raw {")
	assert.Contains(t, content, "#ifdef _PW_RPC_COMPILE_GENERATED_SERVICE_STUBS")
}

func TestRunSelectsNanopbBinding(t *testing.T) {
	resp := plugin.Run(echoRequest("binding=nanopb"), fixedOpts)

	require.Nil(t, resp.Error)
	require.Len(t, resp.File, 1)
	assert.Contains(t, resp.File[0].GetContent(), "namespace pw_rpc::nanopb {")
}

func TestRunNoStubs(t *testing.T) {
	resp := plugin.Run(echoRequest("no-stubs"), fixedOpts)

	require.Nil(t, resp.Error)
	require.Len(t, resp.File, 1)
	assert.NotContains(t, resp.File[0].GetContent(), "#ifdef")
}

func TestRunReservedNameReportsErrorAndNoFiles(t *testing.T) {
	req := echoRequest("")
	req.ProtoFile = []*descriptorpb.FileDescriptorProto{echoDescriptor("Client")}

	resp := plugin.Run(req, fixedOpts)

	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.GetError(), "pw.test.Echo.Client")
	assert.Empty(t, resp.File)
}

func TestRunUnknownBindingReportsError(t *testing.T) {
	resp := plugin.Run(echoRequest("binding=grpc"), fixedOpts)

	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.File)
}

func TestRunMissingDescriptorReportsError(t *testing.T) {
	req := echoRequest("")
	req.FileToGenerate = []string{"missing.proto"}

	resp := plugin.Run(req, fixedOpts)

	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.GetError(), "missing.proto")
}
