package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/janekbaraniewski/napkinwire/internal/briefing"
	"github.com/janekbaraniewski/napkinwire/internal/config"
	"github.com/janekbaraniewski/napkinwire/internal/diagram"
	"github.com/janekbaraniewski/napkinwire/internal/projtree"
	"github.com/janekbaraniewski/napkinwire/internal/roadmap"
	"github.com/janekbaraniewski/napkinwire/internal/tickets"
	"github.com/janekbaraniewski/napkinwire/internal/usage"
)

// Toolset owns the long-lived collaborators behind the registered tools.
type Toolset struct {
	cfg       config.Config
	store     *tickets.Store
	roadmap   *roadmap.Manager
	treeCache *projtree.Cache
	briefing  *briefing.Builder
}

// NewToolset wires the standard napkinwire tools against the configured
// project paths.
func NewToolset(cfg config.Config) *Toolset {
	store := tickets.NewStore(cfg.TicketsPath())
	return &Toolset{
		cfg:       cfg,
		store:     store,
		roadmap:   roadmap.NewManager(cfg.RoadmapPath()),
		treeCache: projtree.NewCache(cfg.ProjectRoot()),
		briefing:  briefing.NewBuilder(store, cfg.ProjectRoot(), cfg.RoadmapPath()),
	}
}

// Close releases watcher resources.
func (t *Toolset) Close() {
	if t.treeCache != nil {
		t.treeCache.Close()
	}
}

// RegisterAll installs every tool on the server.
func (t *Toolset) RegisterAll(s *Server) {
	s.Register(Tool{
		Name:        "napkinwire_create_ticket",
		Description: "Create a new ticket with auto-generated ID",
		InputSchema: objectSchema(map[string]string{
			"title": "string", "description": "string", "priority": "string",
			"requirements": "array", "acceptance_criteria": "array", "files_affected": "array",
		}),
		Handler: t.createTicket,
	})
	s.Register(Tool{
		Name:        "napkinwire_list_tickets",
		Description: "List tickets with optional status filter, sorted by priority then created_at",
		InputSchema: objectSchema(map[string]string{"status": "string"}),
		Handler:     t.listTickets,
	})
	s.Register(Tool{
		Name:        "napkinwire_update_ticket_status",
		Description: "Update the status of an existing ticket",
		InputSchema: objectSchema(map[string]string{"ticket_id": "string", "new_status": "string"}),
		Handler:     t.updateTicketStatus,
	})
	s.Register(Tool{
		Name:        "napkinwire_get_ticket_details",
		Description: "Get full details of a specific ticket for implementation",
		InputSchema: objectSchema(map[string]string{"ticket_id": "string"}),
		Handler:     t.getTicketDetails,
	})
	s.Register(Tool{
		Name:        "napkinwire_claude_usage_analysis",
		Description: "Analyze assistant usage logs and reconstruct the current usage window",
		InputSchema: objectSchema(map[string]string{"detail_level": "string"}),
		Handler:     t.usageAnalysis,
	})
	s.Register(Tool{
		Name:        "napkinwire_project_tree",
		Description: "Generate project file tree with extracted documentation and descriptions",
		InputSchema: objectSchema(map[string]string{"include_stats": "boolean", "filter_type": "string"}),
		Handler:     t.projectTree,
	})
	s.Register(Tool{
		Name:        "napkinwire_append_roadmap_idea",
		Description: "Append a new idea to the roadmap.md file",
		InputSchema: objectSchema(map[string]string{"title": "string", "description": "string", "category": "string"}),
		Handler:     t.appendRoadmapIdea,
	})
	s.Register(Tool{
		Name:        "napkinwire_list_roadmap_ideas",
		Description: "List roadmap ideas with optional category filter",
		InputSchema: objectSchema(map[string]string{"category": "string"}),
		Handler:     t.listRoadmapIdeas,
	})
	s.Register(Tool{
		Name:        "napkinwire_context_restore",
		Description: "Restore essential project context with a token budget",
		InputSchema: objectSchema(map[string]string{"max_tokens": "integer"}),
		Handler:     t.contextRestore,
	})
	s.Register(Tool{
		Name:        "napkinwire_spawn_diagram_editor",
		Description: "Open the diagram editor on a local port and wait for one submission",
		InputSchema: objectSchema(map[string]string{}),
		Handler:     t.spawnDiagramEditor,
	})
}

func (t *Toolset) createTicket(_ context.Context, args json.RawMessage) (any, error) {
	var req tickets.CreateRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	id, err := t.store.Create(req)
	if err != nil {
		return nil, err
	}
	return map[string]string{"ticket_id": id}, nil
}

func (t *Toolset) listTickets(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if params.Status == "" {
		params.Status = "all"
	}
	return t.store.List(params.Status)
}

func (t *Toolset) updateTicketStatus(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		TicketID  string `json:"ticket_id"`
		NewStatus string `json:"new_status"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if err := t.store.UpdateStatus(params.TicketID, params.NewStatus); err != nil {
		return nil, err
	}
	return map[string]string{"message": fmt.Sprintf("Updated %s to %s", params.TicketID, params.NewStatus)}, nil
}

func (t *Toolset) getTicketDetails(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		TicketID string `json:"ticket_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return t.store.Get(params.TicketID)
}

func (t *Toolset) usageAnalysis(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		DetailLevel string `json:"detail_level"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if params.DetailLevel == "" {
		params.DetailLevel = "summary"
	}

	now := time.Now().UTC()
	report := usage.Analyze(usage.Options{
		LogDir:  t.cfg.Paths.LogsPath,
		Horizon: time.Duration(t.cfg.App.LogHorizonHours) * time.Hour,
		Now:     now,
	})

	switch params.DetailLevel {
	case "summary":
		return usage.BuildSummary(report, now), nil
	case "detailed":
		return usage.BuildDetailed(report), nil
	case "both":
		return map[string]any{
			"summary":  usage.BuildSummary(report, now),
			"detailed": usage.BuildDetailed(report),
		}, nil
	default:
		return nil, fmt.Errorf("invalid detail_level %q, must be one of: summary, detailed, both", params.DetailLevel)
	}
}

func (t *Toolset) projectTree(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		IncludeStats bool   `json:"include_stats"`
		FilterType   string `json:"filter_type"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return t.treeCache.Get(projtree.Options{
		IncludeStats: params.IncludeStats,
		FilterExt:    params.FilterType,
	})
}

func (t *Toolset) appendRoadmapIdea(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	if err := t.roadmap.AppendIdea(params.Title, params.Description, params.Category); err != nil {
		return nil, err
	}
	category := params.Category
	if category == "" {
		category = "ideas"
	}
	return map[string]string{
		"message":   fmt.Sprintf("Added idea '%s' to %s section", params.Title, category),
		"file_path": t.roadmap.Path(),
	}, nil
}

func (t *Toolset) listRoadmapIdeas(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return t.roadmap.ListIdeas(params.Category)
}

func (t *Toolset) contextRestore(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		MaxTokens int `json:"max_tokens"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}
	return t.briefing.Build(params.MaxTokens), nil
}

func (t *Toolset) spawnDiagramEditor(ctx context.Context, _ json.RawMessage) (any, error) {
	return diagram.Run(ctx, diagram.Options{
		Timeout: time.Duration(t.cfg.App.DiagramTimeoutSeconds) * time.Second,
	})
}

func objectSchema(props map[string]string) map[string]any {
	properties := make(map[string]any, len(props))
	for name, typ := range props {
		properties[name] = map[string]string{"type": typ}
	}
	return map[string]any{"type": "object", "properties": properties}
}
