// Package queueserver exposes a beap.Beap[float64] as a small HTTP
// priority-queue service.
package queueserver

import (
	"bufio"
	"encoding/json"
	"log"
	"strconv"
	"sync"

	"github.com/beapdb/beap/beap"
	"github.com/beapdb/beap/coordination"
	"github.com/beapdb/beap/protocol"
	"github.com/beapdb/beap/tri"
	"github.com/valyala/fasthttp"
)

// LeaderChecker reports whether this instance currently holds the
// single-writer lease. A nil LeaderChecker means the server always
// accepts mutations (no coordination configured).
type LeaderChecker interface {
	IsLeader() bool
}

// Server implements the HTTP front end around one process-local
// *beap.Beap[float64]. The beap itself is not safe for concurrent use,
// so every handler holds mu around each access to it; /drain takes mu
// once per popped value.
type Server struct {
	logger       *log.Logger
	instanceName string
	listenAddr   string
	leader       LeaderChecker

	mu sync.Mutex
	bp *beap.Beap[float64]
}

// NewServer creates *Server over an empty max-beap of float64 values.
func NewServer(logger *log.Logger, instanceName string, listenAddr string, leader LeaderChecker) *Server {
	return &Server{
		logger:       logger,
		instanceName: instanceName,
		listenAddr:   listenAddr,
		leader:       leader,
		bp:           beap.NewOrdered[float64](),
	}
}

func (s *Server) handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/push":
		s.pushHandler(ctx)
	case "/pop":
		s.popHandler(ctx)
	case "/top":
		s.topHandler(ctx)
	case "/find":
		s.findHandler(ctx)
	case "/erase":
		s.eraseHandler(ctx)
	case "/stats":
		s.statsHandler(ctx)
	case "/drain":
		s.drainHandler(ctx)
	default:
		ctx.WriteString("Hello world!")
	}
}

func (s *Server) requireLeader(ctx *fasthttp.RequestCtx) bool {
	if s.leader == nil || s.leader.IsLeader() {
		return true
	}
	ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	ctx.WriteString(coordination.ErrNotLeader.Error())
	return false
}

func (s *Server) pushHandler(ctx *fasthttp.RequestCtx) {
	if !s.requireLeader(ctx) {
		return
	}

	var req protocol.PushRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.WriteString(err.Error())
		return
	}

	s.mu.Lock()
	idx := s.bp.Insert(req.Value)
	s.mu.Unlock()

	json.NewEncoder(ctx).Encode(protocol.PushResponse{Index: idx})
}

func (s *Server) popHandler(ctx *fasthttp.RequestCtx) {
	if !s.requireLeader(ctx) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bp.Empty() {
		json.NewEncoder(ctx).Encode(protocol.PopResponse{Empty: true})
		return
	}
	json.NewEncoder(ctx).Encode(protocol.PopResponse{Value: s.bp.Pop()})
}

func (s *Server) topHandler(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bp.Empty() {
		json.NewEncoder(ctx).Encode(protocol.TopResponse{Empty: true})
		return
	}
	json.NewEncoder(ctx).Encode(protocol.TopResponse{Value: s.bp.Top()})
}

func (s *Server) findHandler(ctx *fasthttp.RequestCtx) {
	value, err := strconv.ParseFloat(string(ctx.QueryArgs().Peek("value")), 64)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.WriteString("bad `value` GET param: " + err.Error())
		return
	}

	s.mu.Lock()
	idx := s.bp.Find(value)
	found := idx != s.bp.End()
	s.mu.Unlock()

	json.NewEncoder(ctx).Encode(protocol.FindResponse{Index: idx, Found: found})
}

func (s *Server) eraseHandler(ctx *fasthttp.RequestCtx) {
	if !s.requireLeader(ctx) {
		return
	}

	var req protocol.EraseRequest
	if err := json.Unmarshal(ctx.Request.Body(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.WriteString(err.Error())
		return
	}

	s.mu.Lock()
	erased := s.bp.Contains(req.Value)
	s.bp.Erase(req.Value)
	s.mu.Unlock()

	json.NewEncoder(ctx).Encode(protocol.EraseResponse{Erased: erased})
}

func (s *Server) statsHandler(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	size := s.bp.Size()
	capacity := s.bp.Capacity()
	s.mu.Unlock()

	rows := 0
	if size > 0 {
		rows = tri.Root(size-1) + 1
	}

	json.NewEncoder(ctx).Encode(protocol.StatsResponse{Size: size, Capacity: capacity, Rows: rows})
}

// drainHandler streams the beap's contents as a stream of newline-
// delimited JSON numbers in descending order, encoding and flushing each
// value as it is popped, and consumes the beap in the process.
func (s *Server) drainHandler(ctx *fasthttp.RequestCtx) {
	if !s.requireLeader(ctx) {
		return
	}

	ctx.Response.SetBodyStreamWriter(func(w *bufio.Writer) {
		enc := json.NewEncoder(w)

		for {
			s.mu.Lock()
			if s.bp.Empty() {
				s.mu.Unlock()
				return
			}
			v := s.bp.Pop()
			s.mu.Unlock()

			if err := enc.Encode(v); err != nil {
				s.logger.Printf("error encoding drained value: %v", err)
				return
			}
			if err := w.Flush(); err != nil {
				s.logger.Printf("error flushing drained value: %v", err)
				return
			}
		}
	})
}

// Serve listens for HTTP connections until the process is stopped.
func (s *Server) Serve() error {
	s.logger.Printf("%s: listening on %s", s.instanceName, s.listenAddr)
	return fasthttp.ListenAndServe(s.listenAddr, s.handler)
}
