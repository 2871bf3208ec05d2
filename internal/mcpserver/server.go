// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Othala tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/store"
)

// Server wraps the MCP server with Othala tools. All tools operate on
// one account; the account is fixed when the server starts.
type Server struct {
	mcp     *server.MCPServer
	store   *store.Store
	account models.User
}

// New creates a new MCP server with all Othala tools registered.
func New(st *store.Store, account models.User) *Server {
	s := &Server{store: st, account: account}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_contacts",
		mcp.WithDescription("Search contacts, journal entries, and business records by text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string (min 2 characters)")),
	), s.searchContacts)

	s.mcp.AddTool(mcp.NewTool("get_contact",
		mcp.WithDescription("Get a contact with its relationships, recent journal entries, "+
			"business records, and custom fields."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Contact id")),
	), s.getContact)

	s.mcp.AddTool(mcp.NewTool("list_contacts",
		mcp.WithDescription("List contacts, optionally filtered by name or email."),
		mcp.WithString("search", mcp.Description("Optional name/email filter")),
	), s.listContacts)

	s.mcp.AddTool(mcp.NewTool("list_relationships",
		mcp.WithDescription("List a contact's relationships. Edges stored in either "+
			"direction are included; inferred entries carry the inverse type."),
		mcp.WithNumber("contact_id", mcp.Required(), mcp.Description("Contact id")),
	), s.listRelationships)

	s.mcp.AddTool(mcp.NewTool("create_journal_entry",
		mcp.WithDescription("Add a dated journal entry to a contact. Date defaults to today."),
		mcp.WithNumber("contact_id", mcp.Required(), mcp.Description("Contact id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry text")),
		mcp.WithString("title", mcp.Description("Optional entry title")),
		mcp.WithString("date", mcp.Description("Optional date (YYYY-MM-DD)")),
	), s.createJournalEntry)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.store.Search(ctx, s.account.ID, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.store.ContactDetail(ctx, s.account.ID, int64(id))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("contact %d: %v", id, err)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search := ""
	if v, err := req.RequireString("search"); err == nil {
		search = v
	}

	contacts, total, err := s.store.ListContacts(ctx, s.account.ID, 50, 0, search)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"contacts": contacts,
		"total":    total,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listRelationships(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireInt("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	views, err := s.store.ListRelationships(ctx, s.account.ID, int64(contactID))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(views, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createJournalEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireInt("contact_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := ""
	if v, err := req.RequireString("title"); err == nil {
		title = v
	}
	date := ""
	if v, err := req.RequireString("date"); err == nil {
		date = v
	}

	entry, err := s.store.CreateJournalEntry(ctx, s.account.ID, int64(contactID), store.JournalParams{
		Title:   title,
		Content: content,
		Date:    date,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created journal entry %d for contact %d", entry.ID, contactID)), nil
}
