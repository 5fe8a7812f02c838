package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
)

// #region client-struct
// Client wraps the gRPC connection to a chart server.
type Client struct {
	conn grpc.ClientConnInterface
	own  *grpc.ClientConn
}

// #endregion client-struct

// #region constructor
// NewClient connects to a chart server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, own: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of.
func NewClientWithConn(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// #endregion constructor

// #region close
// Close shuts down the connection if the client opened it.
func (c *Client) Close() error {
	if c.own == nil {
		return nil
	}
	return c.own.Close()
}

// #endregion close

// #region compute
// Compute sends one chart input to the server. An InvalidArgument status comes
// back as a validation error.
func (c *Client) Compute(ctx context.Context, in chart.Input) (*chart.Result, error) {
	req, err := toStruct(in)
	if err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ComputeMethod, req, resp); err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.InvalidArgument {
			return nil, errs.Validation("rpc", "%s", st.Message()).WithCause(err)
		}
		return nil, fmt.Errorf("compute rpc: %w", err)
	}

	var env struct {
		Code    string        `json:"code"`
		Message string        `json:"message"`
		Data    *chart.Result `json:"data"`
	}
	if err := fromStruct(resp, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Code != CodeOK {
		return nil, fmt.Errorf("compute rpc: %s: %s", env.Code, env.Message)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("compute rpc: empty result")
	}
	return env.Data, nil
}

// #endregion compute
