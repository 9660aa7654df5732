package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	srv := New(Options{Version: "test", Workers: 2})
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := srv.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text, res.IsError
}

func TestListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"wicks_theorem", "clean_wicks", "list_models"}, names)
}

func TestWicksTheorem_BCS(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "wicks_theorem", map[string]any{"model": "bcs", "clear_etas": true})
	require.False(t, isErr, text)
	assert.Equal(t, strings.Join([]string{
		`1 sum:momentum{p} sum:index{sigma} c:\epsilon_0{p;} o:n{p;sigma}`,
		"-1 sum:momentum{p,q} c:V{;} o:f{p;}^+ o:f{q;}",
		"-1 sum:momentum{p} c:V{;} o:n{p;up} o:n{p;up}",
	}, "\n"), text)
}

func TestWicksTheorem_ExplicitTerms(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "wicks_theorem", map[string]any{
		"model": "bcs",
		"terms": []string{"sum:momentum{k} c{k;up}^+ c{k;up}"},
	})
	require.False(t, isErr, text)
	assert.Equal(t, "1 sum:momentum{p} o:n{p;up}", text)
}

func TestWicksTheorem_BadInput(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "wicks_theorem", map[string]any{"model": "ising"})
	assert.True(t, isErr)
	assert.Contains(t, text, "unknown model")

	_, isErr = callText(t, cs, "wicks_theorem", map[string]any{"model": "bcs", "terms": []string{"c{k;up"}})
	assert.True(t, isErr)

	_, isErr = callText(t, cs, "wicks_theorem", map[string]any{"model": "bcs", "symmetries": []string{"mirror"}})
	assert.True(t, isErr)
}

func TestCleanWicks(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "clean_wicks", map[string]any{
		"terms": []string{
			"1 sum:momentum{k} o:n{k;down}",
			"1 sum:momentum{q} o:n{q;up}",
		},
		"symmetries": []string{"spin-fold"},
	})
	require.False(t, isErr, text)
	assert.Equal(t, "2 sum:momentum{p} o:n{p;up}", text)

	text, isErr = callText(t, cs, "clean_wicks", map[string]any{
		"terms": []string{"1 delta:index{up,down} o:n{k;up}"},
	})
	require.False(t, isErr, text)
	assert.Equal(t, "0", text)
}

func TestListModels(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "list_models", map[string]any{})
	require.False(t, isErr, text)
	assert.Contains(t, text, "bcs: 2 terms")
	assert.Contains(t, text, "hubbard: ")
}
