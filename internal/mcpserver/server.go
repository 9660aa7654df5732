// Package mcpserver exposes the contraction engine as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/njchilds90/gowick"
	"github.com/njchilds90/gowick/models"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Options configure a Server.
type Options struct {
	Version string
	Workers int
	Logger  *zap.Logger
}

// Server owns the MCP server and its tool registrations.
type Server struct {
	mcpServer *mcp.Server
	workers   int
	logger    *zap.Logger
}

// New registers the gowick tools on a fresh MCP server.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "gowick", Version: opts.Version}, nil),
		workers:   opts.Workers,
		logger:    opts.Logger,
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "wicks_theorem",
		Description: "Applies Wick's theorem to operator terms of a model and returns the cleaned mean-field terms",
	}, s.wicksTheorem)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clean_wicks",
		Description: "Resolves deltas, applies symmetries and merges contracted terms",
	}, s.cleanWicks)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_models",
		Description: "Lists the built-in models with their Hamiltonians",
	}, s.listModels)
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcp.Server { return s.mcpServer }

// Run serves on transport until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("mcp server starting")
	return s.mcpServer.Run(ctx, transport)
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
}

// TermsResult is the output of the term producing tools.
type TermsResult struct {
	Terms []string `json:"terms,omitempty" jsonschema:"contracted terms in gowick notation"`
	LaTeX string   `json:"latex,omitempty" jsonschema:"align environment with one term per row"`
	Count int      `json:"count,omitempty"`
}

func termsResult(c gowick.WickTermCollector) (*mcp.CallToolResult, TermsResult) {
	out := TermsResult{LaTeX: c.LaTeX(), Count: len(c)}
	for _, w := range c {
		out.Terms = append(out.Terms, w.String())
	}
	text := c.String()
	if text == "" {
		text = "0"
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}, out
}

// toolError reports a bad request to the client without failing the call.
func toolError[T any](err error) (*mcp.CallToolResult, T, error) {
	var zero T
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}, zero, nil
}

type WicksTheoremInput struct {
	Model      string   `json:"model" jsonschema:"model name, see list_models"`
	Terms      []string `json:"terms,omitempty" jsonschema:"input terms such as '-1 c:V{;} c{k;up}^+ c{q;up}'; the model Hamiltonian when empty"`
	Symmetries []string `json:"symmetries,omitempty" jsonschema:"spin-fold, momentum-flip or phase:<types>; the model symmetries when empty"`
	ClearEtas  bool     `json:"clear_etas,omitempty" jsonschema:"drop terms with eta expectation values"`
	Raw        bool     `json:"raw,omitempty" jsonschema:"skip the cleanup pass"`
}

func (s *Server) wicksTheorem(ctx context.Context, _ *mcp.CallToolRequest, in WicksTheoremInput) (*mcp.CallToolResult, TermsResult, error) {
	m, err := models.ByName(in.Model)
	if err != nil {
		return toolError[TermsResult](err)
	}
	terms, err := gowick.ParseTerms(strings.Join(in.Terms, "\n"))
	if err != nil {
		return toolError[TermsResult](err)
	}
	opts := models.Options{Workers: s.workers, ClearEtas: in.ClearEtas, Raw: in.Raw}
	if len(in.Symmetries) > 0 {
		if opts.Symmetries, err = gowick.ParseSymmetries(in.Symmetries); err != nil {
			return toolError[TermsResult](err)
		}
	}
	out, err := models.Expand(ctx, m, terms, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, TermsResult{}, err
		}
		return toolError[TermsResult](err)
	}
	s.logger.Debug("wicks_theorem", zap.String("model", m.Name()), zap.Int("in", len(terms)), zap.Int("out", len(out)))
	res, result := termsResult(out)
	return res, result, nil
}

type CleanWicksInput struct {
	Terms      []string `json:"terms" jsonschema:"contracted terms such as '1 sum:momentum{k} o:n{k;up}'"`
	Symmetries []string `json:"symmetries,omitempty" jsonschema:"spin-fold, momentum-flip or phase:<types>"`
}

func (s *Server) cleanWicks(_ context.Context, _ *mcp.CallToolRequest, in CleanWicksInput) (*mcp.CallToolResult, TermsResult, error) {
	terms, err := gowick.ParseWickTerms(strings.Join(in.Terms, "\n"))
	if err != nil {
		return toolError[TermsResult](err)
	}
	syms, err := gowick.ParseSymmetries(in.Symmetries)
	if err != nil {
		return toolError[TermsResult](err)
	}
	out := gowick.CleanWicks(terms, syms...)
	s.logger.Debug("clean_wicks", zap.Int("in", len(terms)), zap.Int("out", len(out)))
	res, result := termsResult(out)
	return res, result, nil
}

type ModelInfo struct {
	Name        string   `json:"name"`
	Hamiltonian []string `json:"hamiltonian"`
	Symmetries  []string `json:"symmetries,omitempty"`
}

type ListModelsResult struct {
	Models []ModelInfo `json:"models"`
}

func (s *Server) listModels(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, ListModelsResult, error) {
	var out ListModelsResult
	var text []string
	for _, name := range models.Names() {
		m, err := models.ByName(name)
		if err != nil {
			return nil, ListModelsResult{}, err
		}
		info := ModelInfo{Name: name}
		for _, t := range m.Hamiltonian() {
			info.Hamiltonian = append(info.Hamiltonian, t.String())
		}
		for _, sym := range m.Symmetries() {
			info.Symmetries = append(info.Symmetries, sym.String())
		}
		out.Models = append(out.Models, info)
		text = append(text, fmt.Sprintf("%s: %d terms", name, len(info.Hamiltonian)))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: strings.Join(text, "\n")}}}, out, nil
}
