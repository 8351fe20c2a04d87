// Package session is the controller that sequences upload, scan and
// recommend for one user, holding the state the page needs between steps.
package session

import (
	"context"
	"sync"
	"time"

	"racket-advisor/internal/common/cache"
	"racket-advisor/internal/common/config"
	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/common/observability"
	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/normalize"
	"racket-advisor/internal/pipeline/render"
	"racket-advisor/internal/pipeline/survey"
	"racket-advisor/internal/pipeline/upload"

	"github.com/google/uuid"
)

// Scanner is satisfied by *scan.Client.
type Scanner interface {
	Scan(ctx context.Context, img models.SelectedImage, distanceCm float64) (models.HandMetrics, error)
}

// Recommender is satisfied by *recommend.Client.
type Recommender interface {
	Recommend(ctx context.Context, m models.HandMetrics, s models.SurveySelection) (models.RawRecommendation, error)
}

type Deps struct {
	Scanner       Scanner
	Recommender   Recommender
	Store         cache.MetricsStore
	Previewer     upload.Previewer
	Observability *observability.Observability
	Logger        logger.Logger
}

type Options struct {
	ID                string
	SingleFlight      string
	CaptureDistanceCm float64
	Locale            render.Locale
}

// Transition is one state change, reported to OnTransition.
type Transition struct {
	From   models.FlowState
	To     models.FlowState
	Action render.Action
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	ID             string                 `json:"id"`
	State          models.FlowState       `json:"state"`
	Status         models.UIStatus        `json:"status"`
	Image          *models.SelectedImage  `json:"image,omitempty"`
	Preview        *models.Preview        `json:"preview,omitempty"`
	Metrics        *models.HandMetrics    `json:"metrics,omitempty"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
	CachedMetrics  bool                   `json:"cachedMetrics"`
}

// Session is safe for concurrent use. Network calls run outside the mutex.
type Session struct {
	id       string
	policy   string
	distance float64

	scanner     Scanner
	recommender Recommender
	store       cache.MetricsStore
	uploads     *upload.Controller
	obs         *observability.Observability
	renderer    render.Renderer
	errs        *errors.ErrorHandler
	logger      logger.Logger

	mu             sync.Mutex
	state          models.FlowState
	status         models.UIStatus
	metrics        *models.HandMetrics
	lastMetrics    *models.HandMetrics
	recommendation *models.Recommendation
	tokens         map[render.Action]string
	running        map[render.Action]int
	inflight       map[render.Action]*flight
	onTransition   func(Transition)
}

type flight struct {
	done    chan struct{}
	err     error
	waiters int
}

func New(deps Deps, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.SingleFlight == "" {
		opts.SingleFlight = config.SingleFlightReject
	}
	if deps.Store == nil {
		deps.Store = cache.NewMemory()
	}
	if deps.Observability == nil {
		deps.Observability = observability.NewNoop()
	}
	log := deps.Logger.Named("session").With(map[string]interface{}{"session_id": opts.ID})

	return &Session{
		id:          opts.ID,
		policy:      opts.SingleFlight,
		distance:    opts.CaptureDistanceCm,
		scanner:     deps.Scanner,
		recommender: deps.Recommender,
		store:       deps.Store,
		uploads:     upload.NewController(deps.Previewer, log),
		obs:         deps.Observability,
		renderer:    render.New(opts.Locale),
		errs:        errors.NewErrorHandler(log),
		logger:      log,
		state:       models.StateIdle,
		tokens:      make(map[render.Action]string),
		running:     make(map[render.Action]int),
		inflight:    make(map[render.Action]*flight),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Renderer() render.Renderer {
	return s.renderer
}

// OnTransition registers a callback for every state change. It runs
// outside the session lock.
func (s *Session) OnTransition(fn func(Transition)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTransition = fn
}

// OnPreview registers a callback for previews of the current image.
func (s *Session) OnPreview(fn func(models.Preview)) {
	s.uploads.OnPreview(fn)
}

// WaitPreview blocks until pending previews are done.
func (s *Session) WaitPreview() {
	s.uploads.Wait()
}

// ==========================
// Image selection
// ==========================

// SelectImage replaces the selected image. It never fails.
func (s *Session) SelectImage(img models.SelectedImage) {
	s.uploads.Select(img)

	s.mu.Lock()
	var ts []Transition
	if !s.state.Busy() {
		s.status.Error = ""
		s.moveLocked(&ts, models.StateFileSelected, "")
	}
	s.mu.Unlock()
	s.emit(ts)
}

// ClearImage drops the selection. Results already shown stay visible.
func (s *Session) ClearImage() {
	s.uploads.Clear()

	s.mu.Lock()
	var ts []Transition
	if !s.state.Busy() {
		s.moveLocked(&ts, s.restingStateLocked(false), "")
	}
	s.mu.Unlock()
	s.emit(ts)
}

// ==========================
// Actions
// ==========================

// Scan runs the decoupled scan step and caches the metrics for a later
// Recommend.
func (s *Session) Scan(ctx context.Context) error {
	return s.guarded(ctx, render.ActionScan, func() error {
		_, err := s.scanStep(ctx)
		return err
	})
}

// Recommend runs the decoupled recommend step using the last successful
// scan, or no metrics at all when there was none.
func (s *Session) Recommend(ctx context.Context, src survey.Source) error {
	return s.guarded(ctx, render.ActionRecommend, func() error {
		return s.recommendStep(ctx, src, nil)
	})
}

// Run is the combined flow: recommend is issued only after the scan
// succeeded.
func (s *Session) Run(ctx context.Context, src survey.Source) error {
	return s.guarded(ctx, render.ActionScan, func() error {
		m, err := s.scanStep(ctx)
		if err != nil || m == nil {
			return err
		}
		return s.recommendStep(ctx, src, m)
	})
}

func (s *Session) scanStep(ctx context.Context) (*models.HandMetrics, error) {
	const action = render.ActionScan
	start := time.Now()

	img, ok := s.uploads.Selected()
	if !ok {
		err := errors.NewEmptySelectionError()
		s.mu.Lock()
		s.status.Error = s.renderer.Status(action, err)
		s.mu.Unlock()
		s.errs.Handle(string(action), err)
		s.record(ctx, action, start, "rejected")
		return nil, err
	}

	s.mu.Lock()
	var ts []Transition
	token := s.issueLocked(action)
	s.metrics = nil
	s.recommendation = nil
	s.beginLocked(&ts, action, models.StateScanning)
	s.mu.Unlock()
	s.emit(ts)

	m, err := s.scanner.Scan(ctx, img, s.distance)

	ts = nil
	s.mu.Lock()
	if !s.currentLocked(action, token) {
		s.settleStaleLocked(&ts, action)
		s.mu.Unlock()
		s.emit(ts)
		s.logger.Info("Discarding stale scan result", map[string]interface{}{"token": token})
		s.record(ctx, action, start, "stale")
		return nil, nil
	}
	if err != nil {
		s.failLocked(&ts, action, err, false)
		s.mu.Unlock()
		s.emit(ts)
		s.errs.Handle(string(action), err)
		s.record(ctx, action, start, "error")
		return nil, err
	}
	s.metrics = &m
	s.lastMetrics = &m
	if s.endLocked(&ts, action) {
		s.status = models.UIStatus{}
		s.moveLocked(&ts, models.StateMetricsReady, action)
	}
	s.mu.Unlock()
	s.emit(ts)

	if err := s.store.Save(ctx, s.id, m); err != nil {
		s.logger.Warn("Failed to cache metrics", map[string]interface{}{"error": err.Error()})
	}
	s.record(ctx, action, start, "ok")
	return &m, nil
}

// recommendStep uses m when given, otherwise the cached metrics.
func (s *Session) recommendStep(ctx context.Context, src survey.Source, m *models.HandMetrics) error {
	const action = render.ActionRecommend
	start := time.Now()

	s.mu.Lock()
	var ts []Transition
	if m == nil {
		m = s.lastMetrics
	}
	token := s.issueLocked(action)
	s.beginLocked(&ts, action, models.StateRecommending)
	s.mu.Unlock()
	s.emit(ts)

	metrics := s.resolveMetrics(ctx, m)
	selection := survey.Collect(survey.Form{})
	if src != nil {
		selection = src.Survey()
	}

	raw, err := s.recommender.Recommend(ctx, metrics, selection)

	ts = nil
	s.mu.Lock()
	if !s.currentLocked(action, token) {
		s.settleStaleLocked(&ts, action)
		s.mu.Unlock()
		s.emit(ts)
		s.logger.Info("Discarding stale recommendation", map[string]interface{}{"token": token})
		s.record(ctx, action, start, "stale")
		return nil
	}
	if err != nil {
		s.failLocked(&ts, action, err, true)
		s.mu.Unlock()
		s.emit(ts)
		s.errs.Handle(string(action), err)
		s.record(ctx, action, start, "error")
		return err
	}
	rec := normalize.Recommendation(raw)
	s.recommendation = &rec
	if s.endLocked(&ts, action) {
		s.status = models.UIStatus{}
		s.moveLocked(&ts, models.StateResultsReady, action)
	}
	s.mu.Unlock()
	s.emit(ts)

	s.logger.Info("Recommendation ready", map[string]interface{}{
		"rackets":     len(rec.Rackets),
		"has_string":  rec.String != nil,
		"has_metrics": !metrics.IsEmpty(),
	})
	s.record(ctx, action, start, "ok")
	return nil
}

// resolveMetrics falls back to the store, then to empty metrics.
func (s *Session) resolveMetrics(ctx context.Context, m *models.HandMetrics) models.HandMetrics {
	if m != nil {
		return *m
	}
	cached, ok, err := s.store.Load(ctx, s.id)
	if err != nil {
		s.logger.Warn("Failed to load cached metrics", map[string]interface{}{"error": err.Error()})
		return models.HandMetrics{}
	}
	if !ok {
		return models.HandMetrics{}
	}
	s.mu.Lock()
	if s.lastMetrics == nil {
		s.lastMetrics = &cached
	}
	s.mu.Unlock()
	return cached
}

// ==========================
// Single-flight guard
// ==========================

func (s *Session) guarded(ctx context.Context, key render.Action, fn func() error) error {
	if s.policy == config.SingleFlightNone {
		return fn()
	}

	s.mu.Lock()
	if f, ok := s.inflight[key]; ok {
		if s.policy == config.SingleFlightCoalesce {
			f.waiters++
			s.mu.Unlock()
			select {
			case <-f.done:
				return f.err
			case <-ctx.Done():
				return errors.NewNetworkFailureError(string(key), ctx.Err())
			}
		}
		s.mu.Unlock()
		err := errors.NewActionInFlightError(string(key))
		s.errs.Handle(string(key), err)
		s.obs.RecordAction(ctx, string(key), "in_flight")
		return err
	}
	f := &flight{done: make(chan struct{})}
	s.inflight[key] = f
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		close(f.done)
	}()
	f.err = fn()
	return f.err
}

// waiting reports how many callers are coalesced onto the in-flight key.
func (s *Session) waiting(key render.Action) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.inflight[key]; ok {
		return f.waiters
	}
	return 0
}

// issueLocked starts a new request generation for action.
func (s *Session) issueLocked(action render.Action) string {
	token := uuid.NewString()
	s.tokens[action] = token
	return token
}

// currentLocked reports whether token still belongs to the newest request
// of action. Without a guard every response is applied in arrival order.
func (s *Session) currentLocked(action render.Action, token string) bool {
	if s.policy == config.SingleFlightNone {
		return true
	}
	return s.tokens[action] == token
}

// ==========================
// State machine
// ==========================

// beginLocked counts a call of action as in flight and enters its busy state.
func (s *Session) beginLocked(ts *[]Transition, action render.Action, to models.FlowState) {
	s.running[action]++
	s.status = models.UIStatus{Busy: true}
	s.moveLocked(ts, to, action)
}

// endLocked retires one call of action and reports whether the session is
// now idle. While other calls remain the session stays busy in the state
// of the remaining work.
func (s *Session) endLocked(ts *[]Transition, action render.Action) bool {
	if s.running[action] > 0 {
		s.running[action]--
	}
	switch {
	case s.running[render.ActionScan] > 0:
		s.moveLocked(ts, models.StateScanning, action)
	case s.running[render.ActionRecommend] > 0:
		s.moveLocked(ts, models.StateRecommending, action)
	default:
		return true
	}
	s.status.Busy = true
	return false
}

// settleStaleLocked retires a call whose result is dropped.
func (s *Session) settleStaleLocked(ts *[]Transition, action render.Action) {
	if s.endLocked(ts, action) {
		s.status.Busy = false
		s.moveLocked(ts, s.restingStateLocked(false), action)
	}
}

// failLocked passes through ERROR and settles in the resting state. While
// other calls are still running only the error text is set.
func (s *Session) failLocked(ts *[]Transition, action render.Action, err error, withMetrics bool) {
	msg := s.renderer.Status(action, err)
	if !s.endLocked(ts, action) {
		s.status.Error = msg
		return
	}
	s.status = models.UIStatus{Error: msg}
	s.moveLocked(ts, models.StateError, action)
	s.moveLocked(ts, s.restingStateLocked(withMetrics), action)
}

// restingStateLocked picks the stable state that matches what the session
// holds. withMetrics considers cached metrics as well as displayed ones.
func (s *Session) restingStateLocked(withMetrics bool) models.FlowState {
	switch {
	case s.recommendation != nil && !withMetrics:
		return models.StateResultsReady
	case s.metrics != nil || (withMetrics && s.lastMetrics != nil):
		return models.StateMetricsReady
	}
	if _, ok := s.uploads.Selected(); ok {
		return models.StateFileSelected
	}
	return models.StateIdle
}

func (s *Session) moveLocked(ts *[]Transition, to models.FlowState, action render.Action) {
	if s.state == to {
		return
	}
	*ts = append(*ts, Transition{From: s.state, To: to, Action: action})
	s.state = to
}

func (s *Session) emit(ts []Transition) {
	if len(ts) == 0 {
		return
	}
	s.mu.Lock()
	fn := s.onTransition
	s.mu.Unlock()

	for _, t := range ts {
		s.logger.Debug("State transition", map[string]interface{}{
			"from":   string(t.From),
			"to":     string(t.To),
			"action": string(t.Action),
		})
		if fn != nil {
			fn(t)
		}
	}
}

func (s *Session) record(ctx context.Context, action render.Action, start time.Time, outcome string) {
	s.obs.RecordAction(ctx, string(action), outcome)
	s.obs.RecordActionDuration(ctx, string(action), time.Since(start), outcome)
}

// ==========================
// Read side
// ==========================

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:             s.id,
		State:          s.state,
		Status:         s.status,
		Metrics:        s.metrics,
		Recommendation: s.recommendation,
		CachedMetrics:  s.lastMetrics != nil,
	}
	s.mu.Unlock()

	if img, ok := s.uploads.Selected(); ok {
		snap.Image = &img
	}
	if p, ok := s.uploads.Preview(); ok {
		snap.Preview = &p
	}
	return snap
}

// View renders the snapshot for the page.
func (s *Session) View() render.View {
	snap := s.Snapshot()
	return s.renderer.View(render.ViewInput{
		State:          snap.State,
		Status:         snap.Status,
		Image:          snap.Image,
		Preview:        snap.Preview,
		Metrics:        snap.Metrics,
		Recommendation: snap.Recommendation,
	})
}
