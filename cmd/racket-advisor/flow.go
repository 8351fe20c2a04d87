// cmd/racket-advisor/flow.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"racket-advisor/internal/common/config"
	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/render"
	"racket-advisor/internal/pipeline/session"
	"racket-advisor/internal/pipeline/survey"
)

// flowFlags are shared by run, scan and recommend.
type flowFlags struct {
	sessionID string
	image     string
	lang      string
	asJSON    bool

	level      string
	pain       string
	swing      string
	styles     string
	stringType string
}

func newFlowFlags(name string, withImage, withSurvey bool) (*flag.FlagSet, *flowFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &flowFlags{}
	fs.StringVar(&f.sessionID, "session", "", "Session id; metrics are cached under it between scan and recommend")
	fs.StringVar(&f.lang, "lang", "", "Display language (ko or en), defaults to session.locale")
	fs.BoolVar(&f.asJSON, "json", false, "Print the view model as JSON")
	if withImage {
		fs.StringVar(&f.image, "image", "", "Path to the hand photograph")
	}
	if withSurvey {
		fs.StringVar(&f.level, "level", "", "Playing level")
		fs.StringVar(&f.pain, "pain", "", "Arm or elbow discomfort")
		fs.StringVar(&f.swing, "swing", "", "Swing speed")
		fs.StringVar(&f.styles, "style", "", "Comma separated play styles (power,control,spin)")
		fs.StringVar(&f.stringType, "string", "", "String type preference, blank means auto")
	}
	return fs, f
}

func (f *flowFlags) form() survey.Form {
	form := survey.Form{
		Level:      &f.level,
		Pain:       &f.pain,
		Swing:      &f.swing,
		StringType: &f.stringType,
	}
	return survey.FromStyles(form, strings.Split(f.styles, ","))
}

func (f *flowFlags) locale(cfg *config.Config) render.Locale {
	if f.lang != "" {
		return render.ParseLocale(f.lang)
	}
	return render.ParseLocale(cfg.Session.Locale)
}

func (f *flowFlags) session(a *app) *session.Session {
	id := f.sessionID
	if id == "" {
		id = uuid.NewString()
	}
	return a.newSession(id, f.locale(a.cfg))
}

// readImage loads a photograph from disk. Its content is not inspected.
func readImage(path string) (models.SelectedImage, error) {
	if path == "" {
		return models.SelectedImage{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return models.SelectedImage{}, fmt.Errorf("read image: %w", err)
	}
	return models.SelectedImage{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

// ==========================
// Commands
// ==========================

func runCommand(ctx context.Context, a *app, args []string) error {
	fs, f := newFlowFlags("run", true, true)
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess := f.session(a)
	if err := selectImage(sess, f.image); err != nil {
		return err
	}
	err := sess.Run(ctx, survey.Fixed(f.form()))
	return a.finish(sess, f.asJSON, render.ActionScan, err)
}

func scanCommand(ctx context.Context, a *app, args []string) error {
	fs, f := newFlowFlags("scan", true, false)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cfg.Cache.Backend == config.CacheMemory {
		a.log.Warn("Metrics are cached in memory and will not outlive this process", map[string]interface{}{
			"hint": "set cache.backend to redis to recommend from a separate invocation",
		})
	}

	sess := f.session(a)
	if err := selectImage(sess, f.image); err != nil {
		return err
	}
	err := sess.Scan(ctx)
	if err == nil && !f.asJSON {
		fmt.Fprintf(a.stdout, "session: %s\n", sess.ID())
	}
	return a.finish(sess, f.asJSON, render.ActionScan, err)
}

func recommendCommand(ctx context.Context, a *app, args []string) error {
	fs, f := newFlowFlags("recommend", false, true)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if f.sessionID == "" {
		a.log.Info("No session given, recommending without hand metrics", nil)
	}

	sess := f.session(a)
	err := sess.Recommend(ctx, survey.Fixed(f.form()))
	return a.finish(sess, f.asJSON, render.ActionRecommend, err)
}

func selectImage(sess *session.Session, path string) error {
	img, err := readImage(path)
	if err != nil {
		return err
	}
	if !img.Empty() {
		sess.SelectImage(img)
	}
	return nil
}

// finish prints the session view and turns a failed action into the
// status line the page would have shown.
func (a *app) finish(sess *session.Session, asJSON bool, action render.Action, actionErr error) error {
	sess.WaitPreview()
	view := sess.View()
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else {
		printView(a.stdout, view)
	}

	if actionErr == nil {
		return nil
	}
	if view.Error != "" {
		return fmt.Errorf("%s", view.Error)
	}
	return fmt.Errorf("%s", sess.Renderer().Status(action, actionErr))
}

func printView(w io.Writer, v render.View) {
	if v.FileName != "" {
		fmt.Fprintf(w, "image: %s\n", v.FileName)
	}

	if len(v.Metrics) > 0 || v.MetricsPlaceholder != "" {
		fmt.Fprintln(w)
		for _, m := range v.Metrics {
			fmt.Fprintf(w, "  %s: %s\n", m.Label, m.Value)
		}
		if v.MetricsPlaceholder != "" {
			fmt.Fprintf(w, "  %s\n", v.MetricsPlaceholder)
		}
	}

	if len(v.Profile) > 0 {
		fmt.Fprintln(w)
		for _, p := range v.Profile {
			fmt.Fprintf(w, "  %s: %s\n", p.Label, p.Value)
		}
	}

	if len(v.Rackets) > 0 || v.RacketsPlaceholder != "" {
		fmt.Fprintln(w)
		for i, card := range v.Rackets {
			printCard(w, fmt.Sprintf("%d.", i+1), card)
		}
		if v.RacketsPlaceholder != "" {
			fmt.Fprintf(w, "  %s\n", v.RacketsPlaceholder)
		}
	}

	if v.String.Main != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", v.String.Main)
		if v.String.Reason != "" {
			fmt.Fprintf(w, "  %s\n", v.String.Reason)
		}
	}
}

func printCard(w io.Writer, prefix string, card render.RacketCard) {
	title := card.Name
	if card.Brand != "" {
		title = card.Brand + " " + title
	}
	fmt.Fprintf(w, "%s %s  %s\n", prefix, title, card.Score)
	if len(card.Tags) > 0 {
		fmt.Fprintf(w, "   %s\n", strings.Join(card.Tags, " · "))
	}
	if card.Reason != "" {
		fmt.Fprintf(w, "   %s\n", card.Reason)
	}
}
