// Package rpc exposes the chart engine as a gRPC service. Payloads are
// google.protobuf.Struct values carrying the same JSON the CLI prints, so no
// generated stubs are needed on either side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service
const (
	ServiceName   = "liuyao.v1.ChartService"
	ComputeMethod = "/" + ServiceName + "/Compute"

	// CodeOK marks a successful response envelope.
	CodeOK = "OK"
)

// ChartServer is the server side of ChartService. The request is a chart
// input; the response is an envelope {code, message, data} whose data is the
// computed chart.
type ChartServer interface {
	Compute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes ChartService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChartServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compute", Handler: computeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "liuyao/v1/chart.proto",
}

func computeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChartServer).Compute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ComputeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChartServer).Compute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service

// #region outcome
// Outcome labels the computations counter.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeFailed      Outcome = "failed"
	OutcomeUnavailable Outcome = "unavailable"
)

// #endregion outcome
