package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	rollerservice "github.com/louisbranch/diceparser/internal/services/roller/api/grpc/roller"
	server "github.com/louisbranch/diceparser/internal/services/roller/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func startRollerServer(t *testing.T) string {
	t.Helper()

	srv, err := server.NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new roller server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-serveErr:
		case <-time.After(5 * time.Second):
			t.Error("roller server did not stop")
		}
	})
	return srv.Addr()
}

// connectClient runs serve over in-memory transports and returns a connected
// client session. The server stops when the test ends.
func connectClient(t *testing.T, serve func(context.Context, mcp.Transport) error) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- serve(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}

	t.Cleanup(func() {
		cancel()
		_ = session.Close()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("MCP server did not stop")
		}
	})
	return session
}

func localServer(t *testing.T) *Server {
	t.Helper()
	s, err := newServer(rollerservice.NewLocal(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("call %s: %v", name, err)
	}
	return result
}

func structured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool error: %v", result.Content)
	}
	fields, ok := result.StructuredContent.(map[string]any)
	if !ok {
		t.Fatalf("structured content = %T, want map", result.StructuredContent)
	}
	return fields
}

func TestServerListsTools(t *testing.T) {
	session := connectClient(t, localServer(t).serveWithTransport)

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	want := []string{"evaluate_dice_expression", "roll_dice", "tokenize_dice_expression"}
	if !slices.Equal(names, want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
}

func TestEvaluateToolInProcess(t *testing.T) {
	session := connectClient(t, localServer(t).serveWithTransport)

	fields := structured(t, callTool(t, session, "evaluate_dice_expression", map[string]any{
		"expression": "(2+3)*4",
	}))
	if fields["final_result"] != float64(20) {
		t.Fatalf("final_result = %v, want 20", fields["final_result"])
	}
	if fields["steps"] != "( 2 + 3 ) * 4" {
		t.Fatalf("steps = %v", fields["steps"])
	}
}

func TestEvaluateToolReportsLocalizedError(t *testing.T) {
	session := connectClient(t, localServer(t).serveWithTransport)

	result := callTool(t, session, "evaluate_dice_expression", map[string]any{
		"expression": "d6 d10",
		"locale":     "en-US",
	})
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if len(result.Content) == 0 {
		t.Fatal("expected error content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok || !strings.Contains(text.Text, "EXPRESSION_MISSING_OPERATOR") {
		t.Fatalf("content = %#v", result.Content[0])
	}
}

func TestRollDiceTool(t *testing.T) {
	session := connectClient(t, localServer(t).serveWithTransport)

	fields := structured(t, callTool(t, session, "roll_dice", map[string]any{
		"dice": []any{map[string]any{"sides": 6, "count": 3}},
		"rng":  map[string]any{"seed": "5"},
	}))
	rolls, ok := fields["rolls"].([]any)
	if !ok || len(rolls) != 1 {
		t.Fatalf("rolls = %v", fields["rolls"])
	}
	rng, ok := fields["rng"].(map[string]any)
	if !ok || rng["seed_used"] != "5" || rng["seed_source"] != "client" {
		t.Fatalf("rng = %v", fields["rng"])
	}
}

// TestRunWithTransportUsesRoller evaluates through a live roller server.
func TestRunWithTransportUsesRoller(t *testing.T) {
	addr := startRollerServer(t)
	session := connectClient(t, func(ctx context.Context, transport mcp.Transport) error {
		return runWithTransport(ctx, addr, transport)
	})

	fields := structured(t, callTool(t, session, "evaluate_dice_expression", map[string]any{
		"expression": "2d6 + 1",
		"rng":        map[string]any{"seed": "77"},
	}))
	rng, ok := fields["rng"].(map[string]any)
	if !ok || rng["seed_used"] != "77" || rng["seed_source"] != "client" {
		t.Fatalf("rng = %v", fields["rng"])
	}
	rolls, ok := fields["rolls"].([]any)
	if !ok || len(rolls) != 2 {
		t.Fatalf("rolls = %v", fields["rolls"])
	}

	tokens := structured(t, callTool(t, session, "tokenize_dice_expression", map[string]any{
		"expression": "2(d6)",
	}))
	if list, ok := tokens["tokens"].([]any); !ok || len(list) != 5 {
		t.Fatalf("tokens = %v", tokens["tokens"])
	}
}

func TestNewFailsWhenRollerUnavailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if _, err := New(ctx, addr); err == nil {
		t.Fatal("expected error for unavailable roller")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), Config{Transport: "carrier-pigeon"})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("expected unsupported transport error, got %v", err)
	}
}

func TestServeWithTransportRequiresServer(t *testing.T) {
	var s *Server
	if err := s.serveWithTransport(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil server")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close nil server: %v", err)
	}
}

func TestServeHTTPHealthAndShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	handler := newHTTPHandler(localServer(t).mcpServer)
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- serveHTTP(ctx, listener, handler)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/mcp/health")
	if err != nil {
		cancel()
		t.Fatalf("health request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve HTTP: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP server did not stop")
	}
}
