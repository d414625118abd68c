package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/domaincheck"
	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/model"
	"github.com/randalmurphal/prospectkit/parser"
	"github.com/randalmurphal/prospectkit/session"
)

// statusClientClosedRequest is reported when the caller went away.
const statusClientClosedRequest = 499

type errorResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errorResponse { return errorResponse{Error: msg} }

// GenerationResponse is the body of POST /v1/generations.
type GenerationResponse struct {
	*generate.Result
	Prospects       []parser.Prospect `json:"prospects,omitempty"`
	Duplicate       bool              `json:"duplicate,omitempty"`
	SessionRequests int               `json:"session_requests,omitempty"`
}

// CheckResponse is the body of POST /v1/checks.
type CheckResponse struct {
	domaincheck.Report
	Checklist []string `json:"checklist"`
}

// SessionResponse is the body of GET /v1/sessions/:id.
type SessionResponse struct {
	ID          string                     `json:"id"`
	Requests    int                        `json:"requests"`
	TotalTokens int                        `json:"total_tokens"`
	Spend       map[model.Currency]float64 `json:"spend"`
	Last        *generate.Result           `json:"last,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) generate(c *gin.Context) {
	var in session.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}
	ctx := c.Request.Context()

	var (
		out session.Outcome
		err error
		tr  *session.Tracker
	)
	if id := c.GetHeader(SessionHeader); id != "" {
		tr = s.sessions.Get(id)
		out, err = tr.Run(ctx, s.svc, in)
	} else {
		out.Result, err = s.svc.Generate(ctx, in.Request())
	}
	if err != nil {
		s.abandoned(c, err)
		return
	}

	if out.Duplicate && s.collector != nil {
		s.collector.ObserveDuplicate()
	}

	resp := GenerationResponse{Result: out.Result, Duplicate: out.Duplicate}
	if out.Result.OK() {
		resp.Prospects = parser.Parse(out.Result.Success.Content).Prospects
	}
	if tr != nil {
		resp.SessionRequests = tr.Requests()
	}
	c.JSON(statusFor(out.Result), resp)
}

func (s *Server) preview(c *gin.Context) {
	var in session.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body: "+err.Error()))
		return
	}

	p, err := s.svc.Preview(in.Request())
	if err != nil {
		var f *generate.Failure
		if errors.As(err, &f) {
			c.JSON(http.StatusBadRequest, generate.Result{Failure: f})
			return
		}
		s.logger.Error("preview failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("preview failed"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) check(c *gin.Context) {
	var body struct {
		BusinessDesc string `json:"business_desc" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("business_desc is required"))
		return
	}
	c.JSON(http.StatusOK, CheckResponse{
		Report:    s.market.Check(body.BusinessDesc),
		Checklist: s.market.ComplianceChecklist(body.BusinessDesc),
	})
}

func (s *Server) sessionStats(c *gin.Context) {
	id := c.Param("id")
	tr, ok := s.sessions.Lookup(id)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("session not found"))
		return
	}

	spend := map[model.Currency]float64{}
	for _, cur := range []model.Currency{model.USD, model.QAR} {
		spend[cur] = tr.Costs().TotalCost(cur)
	}
	c.JSON(http.StatusOK, SessionResponse{
		ID:          id,
		Requests:    tr.Requests(),
		TotalTokens: tr.Costs().TotalTokens(),
		Spend:       spend,
		Last:        tr.Last(),
	})
}

func (s *Server) dropSession(c *gin.Context) {
	s.sessions.Drop(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// abandoned answers a request whose context ended before a result existed.
func (s *Server) abandoned(c *gin.Context, err error) {
	s.logger.Info("generation abandoned", zap.Error(err))
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, errorBody("request timed out"))
		return
	}
	c.JSON(statusClientClosedRequest, errorBody("request cancelled"))
}

// statusFor maps a result to an HTTP status.
func statusFor(res *generate.Result) int {
	if res.OK() {
		return http.StatusOK
	}
	if res == nil || res.Failure == nil {
		return http.StatusInternalServerError
	}
	switch res.Failure.Kind {
	case generate.KindInvalidInput:
		return http.StatusBadRequest
	case generate.KindRateLimited:
		return http.StatusTooManyRequests
	case generate.KindAuthentication, generate.KindProviderError:
		return http.StatusBadGateway
	case generate.KindNetworkUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
