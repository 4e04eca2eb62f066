package schema

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// BuildPackage constructs the service tree for one file descriptor. Services
// and methods keep their declaration order; the descriptor is assumed to have
// already been validated by the protobuf compiler.
func BuildPackage(fd *descriptorpb.FileDescriptorProto) *Package {
	pkg := &Package{
		Name:     fd.GetPackage(),
		FileName: fd.GetName(),
	}

	for _, sd := range fd.GetService() {
		svc := &Service{
			Name:    sd.GetName(),
			Package: pkg.Name,
		}

		for _, md := range sd.GetMethod() {
			svc.Methods = append(svc.Methods, &Method{
				Name:     md.GetName(),
				Type:     methodType(md.GetClientStreaming(), md.GetServerStreaming()),
				Request:  messageStructName(md.GetInputType()),
				Response: messageStructName(md.GetOutputType()),
			})
		}

		pkg.Services = append(pkg.Services, svc)
	}

	return pkg
}

func methodType(clientStreaming, serverStreaming bool) MethodType {
	switch {
	case clientStreaming && serverStreaming:
		return BidirectionalStreaming
	case serverStreaming:
		return ServerStreaming
	case clientStreaming:
		return ClientStreaming
	}
	return Unary
}

// messageStructName maps a fully qualified message type (".pw.test.Request")
// to the C struct name nanopb generates for it ("pw_test_Request").
func messageStructName(typeName string) string {
	return strings.ReplaceAll(strings.TrimPrefix(typeName, "."), ".", "_")
}
