// ABOUTME: MCP resource implementations for bandwidth.
// ABOUTME: Provides bandwidth://settings, bandwidth://alerts, and bandwidth://history.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	settingsURI = "bandwidth://settings"
	alertsURI   = "bandwidth://alerts"
	historyURI  = "bandwidth://history"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "Bandwidth Settings",
		Description: "Enabled categories and scoring weights",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         alertsURI,
		Name:        "Unread Alerts",
		Description: "Unread low-bandwidth alerts from your partner",
		MIMEType:    "application/json",
	}, s.handleAlertsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Bandwidth History",
		Description: "Cached bandwidth scores for the last 30 days",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Resource handlers

func (s *Server) handleSettingsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(settingsURI, s.settings.Current())
}

func (s *Server) handleAlertsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	userID, err := s.agg.UserID(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ListAlerts(ctx, userID, true, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []*models.Alert{}
	}
	return jsonResource(alertsURI, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := models.StartOfDay(s.clock.Now(), s.loc)
	entries, err := s.agg.History(ctx, models.AddDays(today, -29), today)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return jsonResource(historyURI, map[string]any{
		"from":    models.AddDays(today, -29).Format(models.DayLayout),
		"to":      today.Format(models.DayLayout),
		"entries": entries,
	})
}
