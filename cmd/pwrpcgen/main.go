// pwrpcgen generates C++ RPC service and client code from protobuf service
// definitions. It runs as a protoc plugin by default (reading a
// CodeGeneratorRequest on stdin) and can also compile .proto sources directly
// via the generate subcommand.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bufbuild/protocompile"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/pauschar/pigweed/pkg/codegen"
	"github.com/pauschar/pigweed/pkg/plugin"
)

var (
	binding     string
	noStubs     bool
	outDir      string
	importPaths []string

	rootCmd = &cobra.Command{
		Use:          "pwrpcgen",
		Short:        "Generate C++ RPC code from protobuf service definitions",
		Long:         "pwrpcgen acts as a protoc plugin: protoc --plugin=protoc-gen-pwrpcgen=pwrpcgen --pwrpcgen_out=...",
		Version:      codegen.PluginVersion,
		SilenceUsage: true,
		RunE:         runPlugin,
	}

	generateCmd = &cobra.Command{
		Use:   "generate [flags] file.proto...",
		Short: "Compile .proto files and write the generated headers to disk",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGenerate,
	}
)

func init() {
	generateCmd.Flags().StringVar(&binding, "binding", "raw", "RPC binding to generate (raw or nanopb)")
	generateCmd.Flags().BoolVar(&noStubs, "no-stubs", false, "omit the guarded stub section")
	generateCmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	generateCmd.Flags().StringSliceVarP(&importPaths, "proto-path", "I", []string{"."}, "proto import paths")

	rootCmd.AddCommand(generateCmd)
}

// runPlugin speaks the protoc plugin protocol: request on stdin, response on
// stdout. Diagnostics travel inside the response, never on stdout.
func runPlugin(*cobra.Command, []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading request: %w", err)
	}

	req := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, req); err != nil {
		return fmt.Errorf("parsing CodeGeneratorRequest: %w", err)
	}

	resp := plugin.Run(req, codegen.Options{})

	data, err = proto.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

// runGenerate compiles the given .proto files without protoc and writes one
// header per file. Nothing is written for a file whose generation fails.
func runGenerate(cmd *cobra.Command, args []string) error {
	params := plugin.Params{Binding: binding, NoStubs: noStubs}
	gen, stubs, err := params.Bindings()
	if err != nil {
		return err
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
	}

	files, err := compiler.Compile(cmd.Context(), args...)
	if err != nil {
		return fmt.Errorf("compiling protos: %w", err)
	}

	for _, file := range files {
		fd := protodesc.ToFileDescriptorProto(file)

		content, err := plugin.GenerateFile(fd, gen, stubs, noStubs, codegen.Options{})
		if err != nil {
			return fmt.Errorf("%s: %w", file.Path(), err)
		}

		path := filepath.Join(outDir, plugin.OutputName(file.Path()))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
