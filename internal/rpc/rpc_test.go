package rpc

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/liuyao-engine/internal/chart"
	"github.com/danielpatrickdp/liuyao-engine/internal/errs"
	"github.com/danielpatrickdp/liuyao-engine/internal/ganzhi"
	"github.com/danielpatrickdp/liuyao-engine/internal/ruleset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEngine(t *testing.T) *chart.Engine {
	t.Helper()
	reg, err := ruleset.Default()
	require.NoError(t, err)
	return chart.NewEngine(reg, chart.DefaultConfig(), nil)
}

// startServer serves a chart server over an in-memory listener and returns a
// connection to it.
func startServer(t *testing.T, engine *chart.Engine, metrics *Metrics) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	NewServer(engine, nil, metrics).Register(gs)
	go func() { _ = gs.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		gs.Stop()
	})
	return conn
}

func huanInput(t *testing.T) chart.Input {
	t.Helper()
	lines, err := chart.ParseLines("7,7,8,6,9,8")
	require.NoError(t, err)
	p := func(s string) ganzhi.Pillar {
		v, err := ganzhi.ParsePillar(s)
		require.NoError(t, err)
		return v
	}
	return chart.Input{
		Lines:      lines,
		RuleSetKey: ruleset.DefaultKey,
		Date:       chart.Date{Year: p("甲辰"), Month: p("丙寅"), Day: p("甲子")},
	}
}

func TestComputeMatchesLocalEngine(t *testing.T) {
	engine := newEngine(t)
	client := NewClientWithConn(startServer(t, engine, nil))

	in := huanInput(t)
	got, err := client.Compute(context.Background(), in)
	require.NoError(t, err)
	want, err := engine.Compute(in)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("remote result differs (-local +remote):\n%s", diff)
	}
	assert.NoError(t, client.Close(), "borrowed connections are left open")
}

func TestComputeEnvelope(t *testing.T) {
	conn := startServer(t, newEngine(t), nil)
	req, err := toStruct(huanInput(t))
	require.NoError(t, err)

	resp := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), ComputeMethod, req, resp))
	fields := resp.GetFields()
	assert.Equal(t, CodeOK, fields["code"].GetStringValue())
	assert.Empty(t, fields["message"].GetStringValue())
	data := fields["data"].GetStructValue()
	require.NotNil(t, data)
	assert.Equal(t, "风水涣", data.GetFields()["hexagram"].GetStructValue().GetFields()["name"].GetStringValue())
}

func TestComputeValidationError(t *testing.T) {
	metrics := NewMetrics("liuyao")
	client := NewClientWithConn(startServer(t, newEngine(t), metrics))

	in := huanInput(t)
	in.RuleSetKey = "no-such-school"
	res, err := client.Compute(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errs.IsValidation(err), "got %v", err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Computations.WithLabelValues("no-such-school", string(OutcomeInvalid))))
}

func TestComputeUndecodableInput(t *testing.T) {
	conn := startServer(t, newEngine(t), nil)
	req, err := structpb.NewStruct(map[string]any{
		"ruleSetKey": ruleset.DefaultKey,
		"date":       map[string]any{"month": "not a pillar"},
	})
	require.NoError(t, err)

	err = conn.Invoke(context.Background(), ComputeMethod, req, new(structpb.Struct))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestMetrics(t *testing.T) {
	metrics := NewMetrics("liuyao")
	client := NewClientWithConn(startServer(t, newEngine(t), metrics))

	for range 3 {
		_, err := client.Compute(context.Background(), huanInput(t))
		require.NoError(t, err)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Computations.WithLabelValues(ruleset.DefaultKey, string(OutcomeOK))))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "liuyao_computations_total")
	assert.Contains(t, string(body), "liuyao_computation_duration_seconds")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, statusFor(errs.Validation("line_count", "bad")).Code())
	assert.Equal(t, codes.Internal, statusFor(errs.Computation("palace_lookup", "missing")).Code())
	assert.Equal(t, codes.Internal, statusFor(io.EOF).Code())
}
