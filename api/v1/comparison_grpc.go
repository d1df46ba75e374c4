package v1

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
	structpb "google.golang.org/protobuf/types/known/structpb"
)

const _ = grpc.SupportPackageIsVersion9

const BuildComparison_ServiceName = "lhci.v1.BuildComparison"

const (
	BuildComparison_CompareBuilds_FullMethodName  = "/lhci.v1.BuildComparison/CompareBuilds"
	BuildComparison_CompareReports_FullMethodName = "/lhci.v1.BuildComparison/CompareReports"
)

// BuildComparisonClient is the client API for the BuildComparison service.
//
// Requests and responses are google.protobuf.Struct values; see
// CompareBuildsRequest and CompareReportsRequest for the request fields.
type BuildComparisonClient interface {
	CompareBuilds(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CompareReports(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type buildComparisonClient struct {
	cc grpc.ClientConnInterface
}

func NewBuildComparisonClient(cc grpc.ClientConnInterface) BuildComparisonClient {
	return &buildComparisonClient{cc}
}

func (c *buildComparisonClient) CompareBuilds(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, BuildComparison_CompareBuilds_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *buildComparisonClient) CompareReports(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(structpb.Struct)
	err := c.cc.Invoke(ctx, BuildComparison_CompareReports_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BuildComparisonServer is the server API for the BuildComparison service.
// Implementations must embed UnimplementedBuildComparisonServer.
type BuildComparisonServer interface {
	CompareBuilds(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompareReports(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedBuildComparisonServer()
}

type UnimplementedBuildComparisonServer struct{}

func (UnimplementedBuildComparisonServer) CompareBuilds(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CompareBuilds not implemented")
}
func (UnimplementedBuildComparisonServer) CompareReports(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CompareReports not implemented")
}
func (UnimplementedBuildComparisonServer) mustEmbedUnimplementedBuildComparisonServer() {}

func RegisterBuildComparisonServer(s grpc.ServiceRegistrar, srv BuildComparisonServer) {
	s.RegisterService(&BuildComparison_ServiceDesc, srv)
}

func _BuildComparison_CompareBuilds_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BuildComparisonServer).CompareBuilds(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BuildComparison_CompareBuilds_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BuildComparisonServer).CompareBuilds(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _BuildComparison_CompareReports_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BuildComparisonServer).CompareReports(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: BuildComparison_CompareReports_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(BuildComparisonServer).CompareReports(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// BuildComparison_ServiceDesc is the grpc.ServiceDesc for the BuildComparison service.
var BuildComparison_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BuildComparison_ServiceName,
	HandlerType: (*BuildComparisonServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CompareBuilds",
			Handler:    _BuildComparison_CompareBuilds_Handler,
		},
		{
			MethodName: "CompareReports",
			Handler:    _BuildComparison_CompareReports_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lhci/v1/comparison.proto",
}
