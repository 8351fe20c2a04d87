// Package server exposes advisor sessions as a small JSON API for the
// browser front-end. Every response carries a ready-to-draw view model.
package server

import (
	"context"
	"io"
	"sync"
	"time"

	"racket-advisor/internal/common/config"
	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/common/metrics"
	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/render"
	"racket-advisor/internal/pipeline/session"
	"racket-advisor/internal/pipeline/survey"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionFactory builds a session for a new id.
type SessionFactory func(id string, locale render.Locale) *session.Session

type Server struct {
	app           *fiber.App
	newSession    SessionFactory
	defaultLocale render.Locale
	logger        logger.Logger

	idle     time.Duration
	now      func() time.Time
	stopOnce sync.Once
	stop     chan struct{}

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	sess     *session.Session
	lastSeen time.Time
}

func New(factory SessionFactory, cfg config.ServerConfig, locale render.Locale, log logger.Logger) *Server {
	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 16
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "racket-advisor",
			BodyLimit:             bodyLimit * 1024 * 1024,
			DisableStartupMessage: true,
		}),
		newSession:    factory,
		defaultLocale: locale,
		logger:        log.Named("server"),
		idle:          time.Duration(cfg.IdleTimeout) * time.Second,
		now:           time.Now,
		stop:          make(chan struct{}),
		sessions:      make(map[string]*entry),
	}
	s.routes()
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("Starting API server", map[string]interface{}{"address": addr, "idle_timeout": s.idle.String()})
	if s.idle > 0 {
		go s.evictLoop()
	}
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": s.count()})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/sessions")
	api.Post("/", s.createSession)
	api.Get("/:id", s.withSession(s.getSession))
	api.Delete("/:id", s.deleteSession)
	api.Post("/:id/image", s.withSession(s.selectImage))
	api.Delete("/:id/image", s.withSession(s.clearImage))
	api.Post("/:id/scan", s.withSession(s.scan))
	api.Post("/:id/recommend", s.withSession(s.recommend))
	api.Post("/:id/run", s.withSession(s.run))
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("Request handled", map[string]interface{}{
		"method":  c.Method(),
		"path":    c.Path(),
		"status":  c.Response().StatusCode(),
		"elapsed": time.Since(start).String(),
	})
	return err
}

// ==========================
// Session registry
// ==========================

type sessionHandler func(c *fiber.Ctx, sess *session.Session) error

func (s *Server) withSession(h sessionHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s.mu.Lock()
		e, ok := s.sessions[c.Params("id")]
		if ok {
			e.lastSeen = s.now()
		}
		s.mu.Unlock()
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "session not found"})
		}
		return h(c, e.sess)
	}
}

func (s *Server) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	locale := s.defaultLocale
	if header := c.Get(fiber.HeaderAcceptLanguage); header != "" {
		locale = render.MatchAcceptLanguage(header)
	}

	id := uuid.NewString()
	sess := s.newSession(id, locale)

	s.mu.Lock()
	s.sessions[id] = &entry{sess: sess, lastSeen: s.now()}
	s.mu.Unlock()
	metrics.SessionsActive.Inc()

	s.logger.Info("Session created", map[string]interface{}{"session_id": id, "locale": locale.String()})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "view": sess.View()})
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "session not found"})
	}
	metrics.SessionsActive.Dec()
	return c.SendStatus(fiber.StatusNoContent)
}

// evictIdle drops sessions untouched for longer than the idle timeout,
// releasing their selected images. Busy sessions are kept.
func (s *Server) evictIdle() int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	evicted := 0
	for id, e := range s.sessions {
		if e.lastSeen.After(cutoff) || e.sess.Snapshot().Status.Busy {
			continue
		}
		delete(s.sessions, id)
		metrics.SessionsActive.Dec()
		evicted++
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Info("Evicted idle sessions", map[string]interface{}{"evicted": evicted, "remaining": s.count()})
	}
	return evicted
}

func (s *Server) evictLoop() {
	interval := s.idle / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stop:
			return
		}
	}
}

// ==========================
// Session actions
// ==========================

func (s *Server) getSession(c *fiber.Ctx, sess *session.Session) error {
	return c.JSON(fiber.Map{"id": sess.ID(), "view": sess.View()})
}

func (s *Server) selectImage(c *fiber.Ctx, sess *session.Session) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "multipart field \"file\" is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	sess.SelectImage(models.SelectedImage{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	return c.JSON(fiber.Map{"id": sess.ID(), "view": sess.View()})
}

func (s *Server) clearImage(c *fiber.Ctx, sess *session.Session) error {
	sess.ClearImage()
	return c.JSON(fiber.Map{"id": sess.ID(), "view": sess.View()})
}

func (s *Server) scan(c *fiber.Ctx, sess *session.Session) error {
	err := sess.Scan(c.UserContext())
	return s.respond(c, sess, render.ActionScan, err)
}

func (s *Server) recommend(c *fiber.Ctx, sess *session.Session) error {
	form, err := parseSurvey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	err = sess.Recommend(c.UserContext(), survey.Fixed(form))
	return s.respond(c, sess, render.ActionRecommend, err)
}

func (s *Server) run(c *fiber.Ctx, sess *session.Session) error {
	form, err := parseSurvey(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	err = sess.Run(c.UserContext(), survey.Fixed(form))
	return s.respond(c, sess, render.ActionScan, err)
}

// surveyRequest accepts either the individual style flags or a styles list.
type surveyRequest struct {
	survey.Form
	Styles []string `json:"styles"`
}

func parseSurvey(c *fiber.Ctx) (survey.Form, error) {
	if len(c.Body()) == 0 {
		return survey.Form{}, nil
	}
	var req surveyRequest
	if err := c.BodyParser(&req); err != nil {
		return survey.Form{}, err
	}
	return survey.FromStyles(req.Form, req.Styles), nil
}

// respond maps action errors onto HTTP statuses. The view is always
// included so the page can redraw from the same response.
func (s *Server) respond(c *fiber.Ctx, sess *session.Session, action render.Action, err error) error {
	view := sess.View()
	if err == nil {
		return c.JSON(fiber.Map{"id": sess.ID(), "view": view})
	}

	message := view.Error
	if message == "" || errors.IsCode(err, errors.ErrCodeActionInFlight) {
		message = sess.Renderer().Status(action, err)
	}
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandard(err); ok {
		code = string(stdErr.Code)
	}
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"id":    sess.ID(),
		"error": message,
		"code":  code,
		"view":  view,
	})
}

func statusFor(err error) int {
	stdErr, ok := errors.AsStandard(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch stdErr.Code {
	case errors.ErrCodeActionInFlight:
		return fiber.StatusConflict
	case errors.ErrCodeEmptySelection, errors.ErrCodeInvalidPayload:
		return fiber.StatusBadRequest
	case errors.ErrCodeHTTPError, errors.ErrCodeNetworkFailure, errors.ErrCodeDecodeFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
