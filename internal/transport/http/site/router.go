package sitehttp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"buddyfarm/internal/calculator"
	"buddyfarm/internal/location"
	"buddyfarm/internal/logger"
	"buddyfarm/internal/pkg/maputil"
	"buddyfarm/internal/settings"

	"github.com/gin-gonic/gin"
)

// Router holds the API handlers.
type Router struct {
	corpus    SnapshotSource
	backend   settings.Backend
	history   HistorySource
	namespace string
	defaults  calculator.OrchardInput
}

// NewRouter builds the API router from the server config.
func NewRouter(cfg ServerConfig) *Router {
	return &Router{
		corpus:    cfg.Corpus,
		backend:   cfg.Settings,
		history:   cfg.History,
		namespace: cfg.Namespace,
		defaults:  calculator.DefaultOrchardInput(),
	}
}

// Register mounts the routes under group.
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/settings", r.handleGetSettings)
	group.GET("/settings/history", r.handleSettingsHistory)
	group.PUT("/settings/:key", r.handlePutSetting)
	group.DELETE("/settings/:key", r.handleDeleteSetting)
	group.GET("/calculators", r.handleCalculators)
	group.GET("/calculators/orchard", r.handleOrchardQuery)
	group.POST("/calculators/orchard", r.handleOrchardSubmit)
	group.GET("/locations", r.handleLocations)
	group.GET("/search", r.handleSearch)
}

func (r *Router) session(c *gin.Context) *settings.Session {
	return settings.Open(c.Request.Context(), r.backend, r.namespace, sessionID(c))
}

func (r *Router) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": r.session(c).Get()})
}

type putSettingRequest struct {
	Value any `json:"value"`
}

func (r *Router) handlePutSetting(c *gin.Context) {
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Value.(type) {
	case map[string]any, []any:
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be a string, number, boolean or null"})
		return
	}
	sess := r.session(c)
	next := sess.Merge(c.Request.Context(), c.Param("key"), req.Value)
	c.JSON(http.StatusOK, gin.H{"settings": next})
}

func (r *Router) handleDeleteSetting(c *gin.Context) {
	sess := r.session(c)
	next := sess.Merge(c.Request.Context(), c.Param("key"), nil)
	c.JSON(http.StatusOK, gin.H{"settings": next})
}

func (r *Router) handleSettingsHistory(c *gin.Context) {
	if r.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "settings history unavailable"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	key := settings.StorageKey(r.namespace, sessionID(c))
	changes, err := r.history.History(c.Request.Context(), key, limit)
	if err != nil {
		logger.Errorf("[api] settings history failed key=%s err=%v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

func (r *Router) handleCalculators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"calculators": calculator.Directory()})
}

func (r *Router) handleLocations(c *gin.Context) {
	snap := r.corpus.Snapshot()
	c.JSON(http.StatusOK, gin.H{"version": snap.Version, "locations": snap.Locations.Sorted()})
}

func (r *Router) handleSearch(c *gin.Context) {
	c.JSON(http.StatusOK, r.corpus.Snapshot().Catalog)
}

// handleOrchardQuery evaluates with query parameters layered over the
// session's settings. Nothing is persisted.
func (r *Router) handleOrchardQuery(c *gin.Context) {
	sess := r.session(c)
	r.evaluateOrchard(c, sess, maputil.First(c.Request.URL.Query()))
}

// handleOrchardSubmit evaluates like handleOrchardQuery and then persists each
// perk field present in the body with its own Merge.
func (r *Router) handleOrchardSubmit(c *gin.Context) {
	values, err := bodyValues(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := r.session(c)
	if !r.evaluateOrchard(c, sess, values) {
		return
	}
	persisted := calculator.ParseOrchardOverrides(values).Persisted()
	for _, key := range calculator.OrchardPersistedKeys {
		if _, ok := values[key]; ok {
			sess.Merge(c.Request.Context(), key, persisted[key])
		}
	}
}

func (r *Router) evaluateOrchard(c *gin.Context, sess *settings.Session, request map[string]string) bool {
	snap := r.corpus.Snapshot()
	in, out, err := calculator.EvaluateOrchard(r.defaults, snap.Locations,
		calculator.ParseOrchardOverrides(sess.Get()),
		calculator.ParseOrchardOverrides(request),
	)
	if err != nil {
		var unknown *location.UnknownError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "suggestion": unknown.Suggestion})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	c.JSON(http.StatusOK, gin.H{
		"input":     in,
		"output":    finiteFields(out),
		"display":   out.Display(in),
		"locations": snap.Locations.Names(),
	})
	return true
}

// bodyValues reads a JSON object or a form body as string values. A JSON null
// is kept as an empty string so the key still counts as present.
func bodyValues(c *gin.Context) (map[string]string, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, err
		}
		return maputil.Strings(raw), nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return maputil.First(c.Request.PostForm), nil
}
