package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/rolo/internal/contact"
	"github.com/hpungsan/rolo/internal/errors"
	"github.com/hpungsan/rolo/internal/logger"
	"github.com/hpungsan/rolo/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	svc  *ops.Service
	lggr logger.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *ops.Service, lggr logger.Logger) *Handlers {
	if lggr == nil {
		lggr = logger.Nop()
	}
	return &Handlers{svc: svc, lggr: lggr.Named("mcp")}
}

// Request types for each tool

// ContactRequest represents the arguments for add.
type ContactRequest struct {
	Name        string `json:"name"`
	Telephone   string `json:"telephone,omitempty"`
	Email       string `json:"email,omitempty"`
	SocialMedia string `json:"social_media,omitempty"`
}

// EditRequest represents the arguments for edit.
type EditRequest struct {
	OldName string `json:"old_name"`
	ContactRequest
}

// NameRequest represents the arguments for search and delete.
type NameRequest struct {
	Name string `json:"name"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Response types

// ListResponse is the result of list.
type ListResponse struct {
	Contacts []contact.View `json:"contacts"`
	Count    int            `json:"count"`
}

// SearchResponse is the result of search.
type SearchResponse struct {
	Found   bool          `json:"found"`
	Contact *contact.View `json:"contact,omitempty"`
}

// Handler implementations

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	c, err := ops.ContactFromInput(input.Name, input.Telephone, input.Email, input.SocialMedia)
	if err != nil {
		return errorResult(err), nil
	}

	added, err := h.svc.HandleAddContact(ctx, ops.AddContactCommand{Contact: c})
	if err != nil {
		return h.failure("contact_add", err), nil
	}

	return successResult(contact.ToView(added))
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts, err := h.svc.HandleGetAllContacts(ctx, ops.GetAllContactsQuery{})
	if err != nil {
		return h.failure("contact_list", err), nil
	}

	return successResult(ListResponse{Contacts: contact.ToViews(contacts), Count: len(contacts)})
}

// HandleSearch handles the search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	c, found, err := h.svc.HandleGetContactByName(ctx, ops.GetContactByNameQuery{Name: input.Name})
	if err != nil {
		return h.failure("contact_search", err), nil
	}

	resp := SearchResponse{Found: found}
	if found {
		v := contact.ToView(c)
		resp.Contact = &v
	}
	return successResult(resp)
}

// HandleEdit handles the edit tool call.
func (h *Handlers) HandleEdit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EditRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	c, err := ops.ContactFromInput(input.Name, input.Telephone, input.Email, input.SocialMedia)
	if err != nil {
		return errorResult(err), nil
	}

	updated, err := h.svc.HandleEditContact(ctx, ops.EditContactCommand{OldName: input.OldName, NewContact: c})
	if err != nil {
		return h.failure("contact_edit", err), nil
	}

	return successResult(map[string]bool{"updated": updated})
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NameRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	deleted, err := h.svc.HandleDeleteContact(ctx, ops.DeleteContactCommand{Name: input.Name})
	if err != nil {
		return h.failure("contact_delete", err), nil
	}

	return successResult(map[string]bool{"deleted": deleted})
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.svc.Export(ctx, ops.ExportInput{Path: input.Path})
	if err != nil {
		return h.failure("contact_export", err), nil
	}

	return successResult(result)
}

// HandleImport handles the import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := h.svc.Import(ctx, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return h.failure("contact_import", err), nil
	}

	return successResult(result)
}

// Result helpers

// failure logs an unexpected error before turning it into a result.
func (h *Handlers) failure(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, errors.ErrInternal) || errors.Is(err, errors.ErrDecodeFailed) {
		h.lggr.Errorw("tool failed", "tool", tool, "err", err)
	}
	return errorResult(err)
}

// errorResult creates an MCP error result from any error.
// INTERNAL errors never carry details; they may hold paths or SQL.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var rErr *errors.RoloError
	if stderrors.As(err, &rErr) {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
