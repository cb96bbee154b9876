package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bnema/wayfinder/internal/application/usecase"
	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
	"github.com/bnema/wayfinder/internal/logging"
	"github.com/bnema/wayfinder/internal/mainloop"
	"github.com/bnema/wayfinder/internal/ui/urlbar"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
	maxEventBytes       = 64 << 10
)

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/v1")
	if s.deps.Suggester != nil {
		v1.POST("/suggestions", s.suggest)
	}
	if s.deps.Store != nil {
		s.registerURLBar(v1.Group("/urlbar"))
	}
	if s.deps.Filter != nil {
		v1.POST("/filter/check", s.checkRequest)
	}
	if s.deps.Resources != nil {
		v1.GET("/adblock/resources", s.resources)
		v1.PUT("/adblock/custom-rules", s.setCustomRules)
	}
	if s.deps.History != nil {
		v1.GET("/history", s.listHistory)
		v1.POST("/history", s.recordVisit)
	}
	if s.deps.Bookmarks != nil {
		v1.GET("/bookmarks", s.listBookmarks)
		v1.POST("/bookmarks", s.addBookmark)
	}
}

func (s *Server) registerURLBar(rg *gin.RouterGroup) {
	rg.GET("/state", s.urlbarState)
	rg.POST("/events", s.urlbarEvent)
	rg.PUT("/frames", s.putFrame)
	rg.DELETE("/frames/:key", s.deleteFrame)
	rg.PUT("/active", s.setActive)
	rg.GET("/ws", s.urlbarSocket)
	if s.deps.Suggester != nil {
		rg.GET("/suggestions", s.urlbarSuggestions)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.cfg.Version})
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// loopError maps store failures to a status; a stopped loop means the
// process is shutting down.
func loopError(c *gin.Context, err error) {
	if errors.Is(err, mainloop.ErrLoopStopped) {
		abort(c, http.StatusServiceUnavailable, "shutting down")
		return
	}
	logging.FromContext(c.Request.Context()).Warn().Err(err).Msg("url bar store call failed")
	abort(c, http.StatusInternalServerError, "state unavailable")
}

type suggestReq struct {
	Input          string                 `json:"input"`
	ActiveFrameKey int                    `json:"active_frame_key"`
	Frames         []usecase.OpenFrame    `json:"frames"`
	SearchResults  []string               `json:"search_results"`
	Provider       *entity.SearchProvider `json:"provider"`
	SearchURL      string                 `json:"search_url"`
}

// suggest runs one stateless suggestion pass over the posted input.
func (s *Server) suggest(c *gin.Context) {
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	out := s.deps.Suggester.Execute(c.Request.Context(), usecase.SuggestURLBarInput{
		Input:          req.Input,
		ActiveFrameKey: req.ActiveFrameKey,
		Frames:         req.Frames,
		SearchResults:  req.SearchResults,
		Provider:       req.Provider,
		SearchURL:      req.SearchURL,
	})
	c.JSON(http.StatusOK, out)
}

func (s *Server) urlbarSuggestions(c *gin.Context) {
	state, err := s.deps.Store.Snapshot(c.Request.Context())
	if err != nil {
		loopError(c, err)
		return
	}
	in, ok := urlbar.SuggestInput(state)
	if !ok {
		abort(c, http.StatusConflict, "no active frame")
		return
	}
	c.JSON(http.StatusOK, s.deps.Suggester.Execute(c.Request.Context(), in))
}

func (s *Server) urlbarState(c *gin.Context) {
	state, err := s.deps.Store.Snapshot(c.Request.Context())
	if err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) urlbarEvent(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxEventBytes))
	if err != nil {
		abort(c, http.StatusBadRequest, "read body")
		return
	}
	ev, err := urlbar.ParseEvent(body)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	state, err := s.deps.Store.DispatchWait(c.Request.Context(), ev)
	if err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type frameReq struct {
	Key      *int   `json:"key"`
	TabID    int    `json:"tab_id"`
	Location string `json:"location"`
	Title    string `json:"title"`
	// Activate also focuses the frame.
	Activate bool `json:"activate"`
}

// putFrame opens a frame or updates an existing one. The URL-bar part of
// an existing frame is kept.
func (s *Server) putFrame(c *gin.Context) {
	var req frameReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == nil {
		abort(c, http.StatusBadRequest, "key required")
		return
	}
	key := *req.Key

	state, err := s.deps.Store.Mutate(c.Request.Context(), func(st urlbar.State) urlbar.State {
		frame := urlbar.Frame{Key: key}
		for _, f := range st.Frames {
			if f.Key == key {
				frame = f
				break
			}
		}
		frame.TabID = req.TabID
		frame.Location = req.Location
		frame.Title = req.Title
		st = st.WithFrame(frame)
		if req.Activate {
			st.ActiveFrameKey = key
		}
		return st
	})
	if err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) deleteFrame(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		abort(c, http.StatusBadRequest, "key must be an integer")
		return
	}
	state, err := s.deps.Store.Mutate(c.Request.Context(), func(st urlbar.State) urlbar.State {
		return st.WithoutFrame(key)
	})
	if err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type activeReq struct {
	Key int `json:"key"`
}

func (s *Server) setActive(c *gin.Context) {
	var req activeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	state, err := s.deps.Store.Mutate(c.Request.Context(), func(st urlbar.State) urlbar.State {
		st.ActiveFrameKey = req.Key
		return st
	})
	if err != nil {
		loopError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) checkRequest(c *gin.Context) {
	var req filtering.RequestDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.URL) == "" || req.ResourceType == "" {
		abort(c, http.StatusBadRequest, "url and resource_type required")
		return
	}
	c.JSON(http.StatusOK, s.deps.Filter.Evaluate(req))
}

func (s *Server) resources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": s.deps.Resources.Statuses()})
}

type customRulesReq struct {
	Rules string `json:"rules"`
}

// setCustomRules stores the rules and schedules a debounced rebuild. The
// response is 202 because the matcher changes later.
func (s *Server) setCustomRules(c *gin.Context) {
	var req customRulesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	rules := strings.ReplaceAll(req.Rules, "\r\n", "\n")

	if s.deps.Rules != nil {
		if err := s.deps.Rules.SetCustomRules(rules); err != nil {
			abort(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
	} else {
		s.deps.Resources.UpdateCustomRules(s.ctx, rules)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}

type visitReq struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) recordVisit(c *gin.Context) {
	var req visitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	entry, err := s.deps.History.RecordVisit(c.Request.Context(), usecase.RecordVisitInput{URL: req.URL, Title: req.Title})
	if err != nil {
		storeError(c, err)
		return
	}
	s.invalidateSuggestions()
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) listHistory(c *gin.Context) {
	limit := queryInt(c, "limit", defaultHistoryLimit)
	offset := queryInt(c, "offset", 0)
	if limit <= 0 || limit > maxHistoryLimit || offset < 0 {
		abort(c, http.StatusBadRequest, "limit must be 1..1000 and offset >= 0")
		return
	}
	entries, err := s.deps.History.GetRecent(c.Request.Context(), limit, offset)
	if err != nil {
		storeError(c, err)
		return
	}
	if entries == nil {
		entries = []*entity.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type bookmarkReq struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func (s *Server) addBookmark(c *gin.Context) {
	var req bookmarkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid json")
		return
	}
	fav, err := s.deps.Bookmarks.Add(c.Request.Context(), usecase.AddFavoriteInput{URL: req.URL, Title: req.Title, Tags: req.Tags})
	if err != nil {
		storeError(c, err)
		return
	}
	s.invalidateSuggestions()
	c.JSON(http.StatusCreated, fav)
}

func (s *Server) invalidateSuggestions() {
	if s.deps.Invalidate != nil {
		s.deps.Invalidate()
	}
}

func (s *Server) listBookmarks(c *gin.Context) {
	favs, err := s.deps.Bookmarks.GetAll(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	if favs == nil {
		favs = []*entity.Favorite{}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": favs})
}

func storeError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrInvalidURL) {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	logging.FromContext(c.Request.Context()).Error().Err(err).Msg("store request failed")
	abort(c, http.StatusInternalServerError, "store failed")
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
