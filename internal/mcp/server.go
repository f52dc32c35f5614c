package mcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formfiller/formfiller/internal/config"
	"github.com/formfiller/formfiller/internal/descriptions"
	"github.com/formfiller/formfiller/internal/form"
	"github.com/formfiller/formfiller/internal/render"
	"github.com/formfiller/formfiller/internal/service"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	svc       *service.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		svc:       svc,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Form tools
	s.mcpServer.AddTool(mcp.NewTool(
		"form_create",
		mcp.WithDescription(descriptions.GetToolDescription("form_create")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name of the new form"),
		),
	), s.handleFormCreate)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_get",
		mcp.WithDescription(descriptions.GetToolDescription("form_get")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
	), s.handleFormGet)

	s.mcpServer.AddTool(mcp.NewTool(
		"form_list",
		mcp.WithDescription(descriptions.GetToolDescription("form_list")),
	), s.handleFormList)

	s.mcpServer.AddTool(mcp.NewTool(
		"field_add",
		mcp.WithDescription(descriptions.GetToolDescription("field_add")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Field display name"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Field type: text, email, number, date, textarea, dropdown, checkbox or radio"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether the field must be filled at submission time"),
		),
		mcp.WithString("placeholder",
			mcp.Description("Placeholder hint shown in the empty input"),
		),
		mcp.WithString("options",
			mcp.Description("Comma-delimited options for dropdown, checkbox and radio fields"),
		),
	), s.handleFieldAdd)

	s.mcpServer.AddTool(mcp.NewTool(
		"field_update",
		mcp.WithDescription(descriptions.GetToolDescription("field_update")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("field_id",
			mcp.Required(),
			mcp.Description("Identifier of the field to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("New field display name"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("New field type"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether the field must be filled at submission time"),
		),
		mcp.WithString("placeholder",
			mcp.Description("Placeholder hint shown in the empty input"),
		),
		mcp.WithString("options",
			mcp.Description("Comma-delimited options for dropdown, checkbox and radio fields"),
		),
	), s.handleFieldUpdate)

	s.mcpServer.AddTool(mcp.NewTool(
		"field_remove",
		mcp.WithDescription(descriptions.GetToolDescription("field_remove")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("field_id",
			mcp.Required(),
			mcp.Description("Identifier of the field to remove"),
		),
	), s.handleFieldRemove)

	s.mcpServer.AddTool(mcp.NewTool(
		"field_move",
		mcp.WithDescription(descriptions.GetToolDescription("field_move")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form"),
		),
		mcp.WithString("field_id",
			mcp.Required(),
			mcp.Description("Identifier of the field to move"),
		),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Description("Move direction: up or down"),
		),
	), s.handleFieldMove)

	// Template tools
	s.mcpServer.AddTool(mcp.NewTool(
		"template_create",
		mcp.WithDescription(descriptions.GetToolDescription("template_create")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form the template belongs to"),
		),
		mcp.WithString("original_file_name",
			mcp.Description("Original file name of the source document"),
		),
		mcp.WithString("document_ref",
			mcp.Description("Existing document reference: a path under the documents directory or an http(s) URL"),
		),
		mcp.WithString("document_base64",
			mcp.Description("Raw PDF bytes, base64-encoded; stored under the documents directory"),
		),
	), s.handleTemplateCreate)

	s.mcpServer.AddTool(mcp.NewTool(
		"template_open",
		mcp.WithDescription(descriptions.GetToolDescription("template_open")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the template to open"),
		),
	), s.handleTemplateOpen)

	s.mcpServer.AddTool(mcp.NewTool(
		"template_view",
		mcp.WithDescription(descriptions.GetToolDescription("template_view")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
	), s.handleTemplateView)

	s.mcpServer.AddTool(mcp.NewTool(
		"template_save",
		mcp.WithDescription(descriptions.GetToolDescription("template_save")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
	), s.handleTemplateSave)

	s.mcpServer.AddTool(mcp.NewTool(
		"template_save_batch",
		mcp.WithDescription(descriptions.GetToolDescription("template_save_batch")),
		mcp.WithString("template_ids",
			mcp.Required(),
			mcp.Description("Comma-delimited identifiers of the open templates to save"),
		),
	), s.handleTemplateSaveBatch)

	// Editor tools
	s.mcpServer.AddTool(mcp.NewTool(
		"editor_select_field",
		mcp.WithDescription(descriptions.GetToolDescription("editor_select_field")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithString("field_id",
			mcp.Description("Field to select; empty clears the selection"),
		),
	), s.handleEditorSelectField)

	s.mcpServer.AddTool(mcp.NewTool(
		"editor_click",
		mcp.WithDescription(descriptions.GetToolDescription("editor_click")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithNumber("page",
			mcp.Required(),
			mcp.Description("Zero-based page index"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Pixels from the page box's left edge"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Pixels from the page box's top edge"),
		),
	), s.handleEditorClick)

	s.mcpServer.AddTool(mcp.NewTool(
		"editor_drag_begin",
		mcp.WithDescription(descriptions.GetToolDescription("editor_drag_begin")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithString("position_id",
			mcp.Required(),
			mcp.Description("Identifier of the marker to drag"),
		),
	), s.handleEditorDragBegin)

	s.mcpServer.AddTool(mcp.NewTool(
		"editor_drag_move",
		mcp.WithDescription(descriptions.GetToolDescription("editor_drag_move")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Pointer pixels from the page box's left edge"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Pointer pixels from the page box's top edge"),
		),
	), s.handleEditorDragMove)

	s.mcpServer.AddTool(mcp.NewTool(
		"editor_drag_end",
		mcp.WithDescription(descriptions.GetToolDescription("editor_drag_end")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Release pixels from the page box's left edge"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Release pixels from the page box's top edge"),
		),
	), s.handleEditorDragEnd)

	s.mcpServer.AddTool(mcp.NewTool(
		"editor_remove_position",
		mcp.WithDescription(descriptions.GetToolDescription("editor_remove_position")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
		mcp.WithString("position_id",
			mcp.Required(),
			mcp.Description("Identifier of the marker to remove"),
		),
	), s.handleEditorRemovePosition)

	s.mcpServer.AddTool(mcp.NewTool(
		"field_placements",
		mcp.WithDescription(descriptions.GetToolDescription("field_placements")),
		mcp.WithString("template_id",
			mcp.Required(),
			mcp.Description("Identifier of the open template"),
		),
	), s.handleFieldPlacements)

	// Submission tools
	s.mcpServer.AddTool(mcp.NewTool(
		"submission_create",
		mcp.WithDescription(descriptions.GetToolDescription("submission_create")),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("Identifier of the form being submitted"),
		),
		mcp.WithObject("values",
			mcp.Required(),
			mcp.Description("Field values keyed by field id; multi-select values are comma-joined"),
		),
	), s.handleSubmissionCreate)

	s.mcpServer.AddTool(mcp.NewTool(
		"submission_list",
		mcp.WithDescription(descriptions.GetToolDescription("submission_list")),
	), s.handleSubmissionList)

	s.mcpServer.AddTool(mcp.NewTool(
		"submission_fill",
		mcp.WithDescription(descriptions.GetToolDescription("submission_fill")),
		mcp.WithString("submission_id",
			mcp.Required(),
			mcp.Description("Identifier of the submission to fill"),
		),
	), s.handleSubmissionFill)

	// Utility tools
	s.mcpServer.AddTool(mcp.NewTool(
		"server_info",
		mcp.WithDescription(descriptions.GetToolDescription("server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleFormCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FormCreate(service.FormCreateRequest{Name: name})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created form %q with id %s", result.Form.Name, result.Form.ID)), nil
}

func (s *Server) handleFormGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FormGet(service.FormGetRequest{FormID: formID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatForm(result.Form)), nil
}

func (s *Server) handleFormList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.svc.FormList()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(result.FormIDs) == 0 {
		return mcp.NewToolResultText("No forms stored yet"), nil
	}
	responseText := fmt.Sprintf("Stored forms (%d):\n", len(result.FormIDs))
	for i, id := range result.FormIDs {
		responseText += fmt.Sprintf("%d. %s\n", i+1, id)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := fieldFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FieldAdd(service.FieldAddRequest{FormID: formID, Field: field})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added %s field %q with id %s at order %d",
		result.Field.Type, result.Field.Name, result.Field.ID, result.Field.Order)), nil
}

func (s *Server) handleFieldUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := fieldFromArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FieldUpdate(service.FieldUpdateRequest{FormID: formID, FieldID: fieldID, Field: field})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated field %s: %s (%s)",
		result.Field.ID, result.Field.Name, result.Field.Type)), nil
}

func (s *Server) handleFieldRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FieldRemove(service.FieldRemoveRequest{FormID: formID, FieldID: fieldID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed field %s and %d placed marker(s)",
		fieldID, result.RemovedPositions)), nil
}

func (s *Server) handleFieldMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FieldMove(service.FieldMoveRequest{FormID: formID, FieldID: fieldID, Direction: direction})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatForm(result.Form)), nil
}

func (s *Server) handleTemplateCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	req := service.TemplateCreateRequest{FormID: formID}
	if v, ok := args["original_file_name"].(string); ok {
		req.OriginalFileName = v
	}
	if v, ok := args["document_ref"].(string); ok {
		req.DocumentRef = v
	}
	if v, ok := args["document_base64"].(string); ok && v != "" {
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid document_base64: %v", err)), nil
		}
		req.Document = data
	}

	result, err := s.svc.TemplateCreate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created template %s for form %s\nDocument: %s",
		result.Template.ID, result.Template.FormID, result.Template.DocumentRef)), nil
}

func (s *Server) handleTemplateOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.TemplateOpen(ctx, service.TemplateOpenRequest{TemplateID: templateID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Opened template "+result.Template.ID+"\n\n"+s.formatView(result.View)), nil
}

func (s *Server) handleTemplateView(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.TemplateView(ctx, service.TemplateOpenRequest{TemplateID: templateID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatView(result.View)), nil
}

func (s *Server) handleTemplateSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.TemplateSave(service.TemplateSaveRequest{TemplateID: templateID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Saved template %s with %d marker(s)",
		result.Template.ID, len(result.Template.Positions))), nil
}

func (s *Server) handleTemplateSaveBatch(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	raw, err := request.RequireString("template_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.TemplateSaveBatch(service.TemplateSaveBatchRequest{TemplateIDs: splitIDs(raw)})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Batch save: %d succeeded, %d failed\n", len(result.Succeeded), len(result.Failed))
	for _, id := range result.Succeeded {
		responseText += fmt.Sprintf("✓ %s\n", id)
	}
	for _, f := range result.Failed {
		responseText += fmt.Sprintf("✗ %s: %s\n", f.ID, f.Err)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleEditorSelectField(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fieldID := ""
	if v, ok := request.GetArguments()["field_id"].(string); ok {
		fieldID = v
	}

	if err := s.svc.EditorSelectField(service.EditorSelectFieldRequest{TemplateID: templateID, FieldID: fieldID}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if fieldID == "" {
		return mcp.NewToolResultText("Selection cleared; page clicks are no-ops until a field is selected"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Selected field %s; page clicks now place its markers", fieldID)), nil
}

func (s *Server) handleEditorClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := requireInt(request, "page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, y, err := requirePointer(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.EditorClick(service.EditorClickRequest{TemplateID: templateID, Page: page, X: x, Y: y})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Applied {
		return mcp.NewToolResultText("Click ignored: no field selected, document not rendered, or page out of range"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Placed marker %s for field %s on page %d at (%.2f%%, %.2f%%)",
		result.Position.ID, result.Position.FieldID, result.Position.Page, result.Position.X, result.Position.Y)), nil
}

func (s *Server) handleEditorDragBegin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	positionID, err := request.RequireString("position_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.svc.EditorDragBegin(service.EditorDragRequest{TemplateID: templateID, PositionID: positionID}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Dragging marker %s", positionID)), nil
}

func (s *Server) handleEditorDragMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, y, err := requirePointer(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.EditorDragMove(service.EditorDragRequest{TemplateID: templateID, X: x, Y: y})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Applied {
		return mcp.NewToolResultText("Drag update ignored: no drag in progress"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Marker %s at (%.2f%%, %.2f%%)",
		result.Position.ID, result.Position.X, result.Position.Y)), nil
}

func (s *Server) handleEditorDragEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, y, err := requirePointer(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.EditorDragEnd(service.EditorDragRequest{TemplateID: templateID, X: x, Y: y})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Applied {
		return mcp.NewToolResultText("Drag end ignored: no drag in progress"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Marker %s committed at (%.2f%%, %.2f%%)",
		result.Position.ID, result.Position.X, result.Position.Y)), nil
}

func (s *Server) handleEditorRemovePosition(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	positionID, err := request.RequireString("position_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.svc.EditorRemovePosition(service.EditorRemovePositionRequest{
		TemplateID: templateID,
		PositionID: positionID,
	}); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed marker %s", positionID)), nil
}

func (s *Server) handleFieldPlacements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templateID, err := request.RequireString("template_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.FieldPlacements(service.FieldPlacementsRequest{TemplateID: templateID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := "Field placements:\n"
	for _, p := range result.Placements {
		responseText += fmt.Sprintf("• %s: %d marker(s)\n", p.FieldID, p.Count)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSubmissionCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	formID, err := request.RequireString("form_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, ok := request.GetArguments()["values"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("values must be an object of field id to string value"), nil
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		sv, ok := v.(string)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("value for field %s must be a string", k)), nil
		}
		values[k] = sv
	}

	result, err := s.svc.SubmissionCreate(service.SubmissionCreateRequest{FormID: formID, Values: values})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Captured submission %s with %d value(s)",
		result.SubmissionID, len(values))), nil
}

func (s *Server) handleSubmissionList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.svc.SubmissionList()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(result.SubmissionIDs) == 0 {
		return mcp.NewToolResultText("No submissions stored yet"), nil
	}
	responseText := fmt.Sprintf("Stored submissions (%d):\n", len(result.SubmissionIDs))
	for i, id := range result.SubmissionIDs {
		responseText += fmt.Sprintf("%d. %s\n", i+1, id)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSubmissionFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	submissionID, err := request.RequireString("submission_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.SubmissionFill(ctx, service.SubmissionFillRequest{SubmissionID: submissionID})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Filled document: %s\n", result.FileName)
	responseText += fmt.Sprintf("Size: %d bytes\n", len(result.Data))
	responseText += fmt.Sprintf("Values stamped: %d\n", result.Drawn)
	if result.Skipped > 0 {
		responseText += fmt.Sprintf("Skipped placements: %d\n", result.Skipped)
	}
	responseText += "\nDocument (base64):\n"
	responseText += base64.StdEncoding.EncodeToString(result.Data)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responseText := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	responseText += fmt.Sprintf("📁 Documents Directory: %s\n", s.config.DocumentsDir)
	responseText += fmt.Sprintf("🗄️  Store Directory: %s\n", s.config.StoreDir)
	responseText += fmt.Sprintf("📏 Max Document Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	responseText += fmt.Sprintf("🔎 Render Scale: %.2f\n", s.config.RenderScale)
	responseText += fmt.Sprintf("🖊️  Stamp Font: %s %dpt\n\n", s.config.StampFont, s.config.StampSize)

	responseText += "🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		responseText += fmt.Sprintf("• %s\n", name)
	}

	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatForm(f *form.Form) string {
	text := fmt.Sprintf("Form: %s (%s)\n", f.Name, f.ID)
	fields := f.Ordered()
	text += fmt.Sprintf("Fields: %d\n", len(fields))
	for _, fld := range fields {
		text += fmt.Sprintf("%d. %s (%s)", fld.Order+1, fld.Name, fld.Type)
		if fld.Required {
			text += " [required]"
		}
		text += fmt.Sprintf("\n   ID: %s\n", fld.ID)
		if opts := fld.OptionList(); len(opts) > 0 {
			text += fmt.Sprintf("   Options: %v\n", opts)
		}
	}
	return text
}

func (s *Server) formatView(view *render.View) string {
	text := fmt.Sprintf("Document: %s\n", view.DocumentRef)
	text += fmt.Sprintf("Pages: %d (scale %.2f)\n", view.PageCount, view.Scale)
	if view.SkippedPositions > 0 {
		text += fmt.Sprintf("Skipped markers: %d (orphaned or out of range)\n", view.SkippedPositions)
	}

	for _, page := range view.Pages {
		text += fmt.Sprintf("\nPage %d: %.0fx%.0f px, %d marker(s)\n", page.Index, page.Width, page.Height, len(page.Markers))
		for _, m := range page.Markers {
			text += fmt.Sprintf("  • %s field=%s at (%.1f, %.1f) px = (%.2f%%, %.2f%%)\n",
				m.PositionID, m.FieldID, m.X, m.Y, m.PercentX, m.PercentY)
		}
	}
	return text
}

// Argument helpers

func fieldFromArgs(request mcp.CallToolRequest) (form.Field, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return form.Field{}, err
	}
	fieldType, err := request.RequireString("type")
	if err != nil {
		return form.Field{}, err
	}

	args := request.GetArguments()
	fld := form.Field{Name: name, Type: form.FieldType(fieldType)}
	if v, ok := args["required"].(bool); ok {
		fld.Required = v
	}
	if v, ok := args["placeholder"].(string); ok {
		fld.Placeholder = v
	}
	if v, ok := args["options"].(string); ok {
		fld.Options = v
	}
	return fld, nil
}

func requireInt(request mcp.CallToolRequest, key string) (int, error) {
	v, ok := request.GetArguments()[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return int(v), nil
}

func requireFloat(request mcp.CallToolRequest, key string) (float64, error) {
	v, ok := request.GetArguments()[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return v, nil
}

func requirePointer(request mcp.CallToolRequest) (x, y float64, err error) {
	if x, err = requireFloat(request, "x"); err != nil {
		return 0, 0, err
	}
	if y, err = requireFloat(request, "y"); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting FormFiller MCP server in stdio mode")
		log.Printf("Documents directory: %s", s.config.DocumentsDir)
		log.Printf("Store directory: %s", s.config.StoreDir)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server over HTTP using the streamable transport
func (s *Server) runServerMode(_ context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	log.Printf("Starting FormFiller MCP server on %s", s.config.Address())
	if err := httpServer.Start(s.config.Address()); err != nil {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}
