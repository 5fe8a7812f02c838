package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
)

// #region server
// Server implements ChartServer over a chart engine.
type Server struct {
	engine  *chart.Engine
	logger  *zap.Logger
	metrics *Metrics
}

// NewServer creates a server. A nil logger disables logging and nil metrics
// disables instrumentation.
func NewServer(engine *chart.Engine, logger *zap.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{engine: engine, logger: logger, metrics: metrics}
}

// Register attaches the service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&ServiceDesc, s)
}

// Compute decodes a chart input, computes it and wraps the result in an
// envelope.
func (s *Server) Compute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	log := s.logger.With(zap.String("request_id", uuid.NewString()))

	var in chart.Input
	if err := fromStruct(req, &in); err != nil {
		s.metrics.observe("", OutcomeInvalid, time.Since(start))
		log.Info("compute rejected", zap.Error(err))
		return nil, status.Errorf(codes.InvalidArgument, "decode input: %v", err)
	}
	if err := ctx.Err(); err != nil {
		s.metrics.observe(in.RuleSetKey, OutcomeUnavailable, time.Since(start))
		return nil, status.FromContextError(err).Err()
	}

	res, err := s.engine.Compute(in)
	if err != nil {
		st := statusFor(err)
		outcome := OutcomeFailed
		if st.Code() == codes.InvalidArgument {
			outcome = OutcomeInvalid
		}
		s.metrics.observe(in.RuleSetKey, outcome, time.Since(start))
		log.Info("compute failed", zap.String("rule_set", in.RuleSetKey), zap.Error(err))
		return nil, st.Err()
	}

	out, err := envelope(CodeOK, "", res)
	if err != nil {
		s.metrics.observe(in.RuleSetKey, OutcomeFailed, time.Since(start))
		log.Error("encode result", zap.Error(err))
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	elapsed := time.Since(start)
	s.metrics.observe(res.RuleSet, OutcomeOK, elapsed)
	log.Info("compute",
		zap.String("rule_set", res.RuleSet),
		zap.String("hexagram", res.Hexagram.Name),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}

// #endregion server

// #region codec
func statusFor(err error) *status.Status {
	switch {
	case errs.IsValidation(err):
		return status.New(codes.InvalidArgument, err.Error())
	default:
		return status.New(codes.Internal, err.Error())
	}
}

func envelope(code, message string, data any) (*structpb.Struct, error) {
	return toStruct(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

// toStruct converts v to a Struct through its JSON form, so custom text
// marshalers (pillars, branches, ...) are honoured.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	st := new(structpb.Struct)
	if err := protojson.Unmarshal(b, st); err != nil {
		return nil, fmt.Errorf("to struct: %w", err)
	}
	return st, nil
}

func fromStruct(st *structpb.Struct, v any) error {
	b, err := protojson.Marshal(st)
	if err != nil {
		return fmt.Errorf("from struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

// #endregion codec
