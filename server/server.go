// Package server exposes the cleaning pipeline over a minimal JSON API:
// one endpoint that accepts rows and options and returns the run report.
// Upload UI, admin screens and authentication live in the surrounding
// application, not here.
package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/bradsommer/list-validator/matching"
	"github.com/bradsommer/list-validator/pipeline"
	"github.com/bradsommer/list-validator/schema"
)

// Logger is the process-wide structured logger, JSON formatted.
var Logger *slog.Logger

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(Logger)
}

// Server wires the matcher and runner behind the HTTP handlers.
type Server struct {
	catalog  *schema.Catalog
	registry *pipeline.Registry
	matcher  *matching.Matcher
	runner   *pipeline.Runner
	logger   *slog.Logger
}

// New creates a server over the given catalog and rule registry.
func New(catalog *schema.Catalog, registry *pipeline.Registry) *Server {
	return &Server{
		catalog:  catalog,
		registry: registry,
		matcher:  matching.NewMatcher(),
		runner:   pipeline.NewRunner(registry),
		logger:   Logger.With("component", "server"),
	}
}

// Engine builds the gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api/v1")
	{
		api.POST("/runs", s.handleRun)
		api.GET("/rules", s.handleListRules)
		api.GET("/fields", s.handleListFields)
	}

	return engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// runRequest is the JSON body of POST /api/v1/runs.
type runRequest struct {
	Headers        []string            `json:"headers" binding:"required"`
	Rows           []pipeline.Row      `json:"rows" binding:"required"`
	EnabledRules   []string            `json:"enabled_rules"`
	RequiredFields []string            `json:"required_fields"`
	Overrides      []matching.Override `json:"overrides"`
}

// handleRun matches headers, executes the pipeline and returns the full run
// report together with the header-match records.
func (s *Server) handleRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches := s.matcher.Match(req.Headers, s.catalog, req.Overrides)

	required := req.RequiredFields
	if required == nil {
		required = s.catalog.RequiredIDs()
	}

	report := s.runner.Run(pipeline.RunInput{
		Rows:           req.Rows,
		Headers:        req.Headers,
		Matches:        matches,
		RequiredFields: required,
		EnabledRuleIDs: req.EnabledRules,
	})

	s.logger.Info("Run handled",
		"run_id", report.RunID,
		"rows", len(report.Rows),
		"errors", report.TotalErrors)

	c.JSON(http.StatusOK, gin.H{
		"report":  report,
		"matches": matches,
	})
}

// handleListRules returns the registry's rules in execution order.
func (s *Server) handleListRules(c *gin.Context) {
	type ruleInfo struct {
		ID          string            `json:"id"`
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Kind        pipeline.RuleKind `json:"kind"`
		Order       int               `json:"order"`
		Targets     []string          `json:"targets"`
	}
	rules := s.registry.Rules()
	out := make([]ruleInfo, 0, len(rules))
	for _, r := range rules {
		out = append(out, ruleInfo{
			ID:          r.ID(),
			Name:        r.Name(),
			Description: r.Description(),
			Kind:        r.Kind(),
			Order:       r.Order(),
			Targets:     r.Targets(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rules": out})
}

// handleListFields returns the schema field catalog.
func (s *Server) handleListFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": s.catalog.Fields()})
}
