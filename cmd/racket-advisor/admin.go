// cmd/racket-advisor/admin.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"racket-advisor/internal/models"
	"racket-advisor/internal/pipeline/admin"
	"racket-advisor/internal/pipeline/render"
)

func adminCommand(ctx context.Context, a *app, args []string) error {
	if len(args) < 1 {
		adminHelp()
		return fmt.Errorf("admin: missing subcommand")
	}

	fs := flag.NewFlagSet("admin "+args[0], flag.ContinueOnError)
	lang := fs.String("lang", "", "Display language (ko or en)")
	asJSON := fs.Bool("json", false, "Print records as JSON")
	id := fs.Int64("id", 0, "Racket id")

	var form admin.RacketForm
	active := fs.String("active", "", "Mark the racket active (true) or inactive (false); blank leaves it unset")
	if args[0] == "create" || args[0] == "update" {
		fs.StringVar(&form.Name, "name", "", "Racket name")
		fs.StringVar(&form.Brand, "brand", "", "Brand")
		fs.StringVar(&form.Power, "power", "", "Power score")
		fs.StringVar(&form.Control, "control", "", "Control score")
		fs.StringVar(&form.Spin, "spin", "", "Spin score")
		fs.StringVar(&form.Weight, "weight", "", "Unstrung weight in grams")
		fs.StringVar(&form.Tags, "tags", "", "Comma separated tags")
		fs.StringVar(&form.HeadSize, "head-size", "", "Head size in square inches")
		fs.StringVar(&form.StringPattern, "pattern", "", "String pattern, e.g. 16x19")
		fs.StringVar(&form.Swingweight, "swingweight", "", "Swingweight")
		fs.StringVar(&form.Stiffness, "stiffness", "", "Stiffness (RA)")
		fs.StringVar(&form.LengthMm, "length", "", "Length in mm")
		fs.StringVar(&form.BeamWidthMm, "beam", "", "Beam width in mm")
		fs.StringVar(&form.BalanceType, "balance", "", "Balance type")
		fs.StringVar(&form.URL, "url", "", "Product page URL")
	}
	resource := fs.String("resource", "recommendations", "History resource (hand-metrics, surveys, recommendations)")
	limit := fs.Int("limit", admin.DefaultHistoryLimit, "History page size")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *active != "" {
		v, err := strconv.ParseBool(*active)
		if err != nil {
			return fmt.Errorf("admin: -active must be true or false: %w", err)
		}
		form.Active = &v
	}

	r := render.New(render.ParseLocale(a.cfg.Session.Locale))
	if *lang != "" {
		r = render.New(render.ParseLocale(*lang))
	}
	out := adminOutput{a: a, r: r, asJSON: *asJSON}

	switch args[0] {
	case "list":
		rackets, err := a.admin.List(ctx)
		if err != nil {
			return out.fail(render.ActionAdminList, err)
		}
		return out.rackets(rackets, r.AdminListed())

	case "get":
		if err := requireID(*id); err != nil {
			return err
		}
		racket, err := a.admin.Get(ctx, *id)
		if err != nil {
			return out.fail(render.ActionAdminGet, err)
		}
		return out.rackets([]models.RacketRecommendation{racket}, "")

	case "create":
		racket, err := a.admin.Create(ctx, form)
		if err != nil {
			return out.fail(render.ActionAdminCreate, err)
		}
		return out.rackets([]models.RacketRecommendation{racket}, r.RacketCreated(r.Name(racket)))

	case "update":
		if err := requireID(*id); err != nil {
			return err
		}
		racket, err := a.admin.Update(ctx, *id, form)
		if err != nil {
			return out.fail(render.ActionAdminUpdate, err)
		}
		return out.rackets([]models.RacketRecommendation{racket}, r.RacketUpdated(r.Name(racket)))

	case "delete":
		if err := requireID(*id); err != nil {
			return err
		}
		if err := a.admin.Delete(ctx, *id); err != nil {
			return out.fail(render.ActionAdminDelete, err)
		}
		fmt.Fprintln(a.stdout, r.RacketDeleted(*id))
		return nil

	case "reset":
		msg, err := a.admin.Reset(ctx)
		if err != nil {
			return out.fail(render.ActionAdminReset, err)
		}
		fmt.Fprintln(a.stdout, r.ResetDone(msg))
		return nil

	case "history":
		records, err := history(ctx, a.admin, *resource, *limit)
		if err != nil {
			return out.fail(render.ActionAdminHistory, err)
		}
		return out.records(records)

	default:
		adminHelp()
		return fmt.Errorf("admin: unknown subcommand %q", args[0])
	}
}

func history(ctx context.Context, c *admin.Client, resource string, limit int) ([]admin.Record, error) {
	switch resource {
	case "hand-metrics", "metrics":
		return c.HandMetricsHistory(ctx, limit)
	case "surveys":
		return c.Surveys(ctx, limit)
	case "recommendations":
		return c.Recommendations(ctx, limit)
	}
	return nil, fmt.Errorf("admin: unknown history resource %q", resource)
}

func requireID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("admin: -id is required")
	}
	return nil
}

type adminOutput struct {
	a      *app
	r      render.Renderer
	asJSON bool
}

func (o adminOutput) fail(action render.Action, err error) error {
	return fmt.Errorf("%s", o.r.Status(action, err))
}

func (o adminOutput) rackets(list []models.RacketRecommendation, status string) error {
	if o.asJSON {
		return o.json(o.r.Cards(list, render.CardOptions{}))
	}
	for _, rr := range list {
		card := o.r.Card(rr, render.CardOptions{})
		id := "-"
		if card.ID != nil {
			id = strconv.FormatInt(*card.ID, 10)
		}
		state := "active"
		if !card.Active {
			state = "inactive"
		}
		fmt.Fprintf(o.a.stdout, "#%s  %s  [%s]  %s\n", id, card.Name, strings.Join(o.r.AdminScores(rr), " "), state)
		if card.Brand != "" {
			fmt.Fprintf(o.a.stdout, "    %s\n", card.Brand)
		}
		if len(card.Tags) > 0 {
			fmt.Fprintf(o.a.stdout, "    %s\n", strings.Join(card.Tags, ", "))
		}
	}
	if status != "" {
		fmt.Fprintln(o.a.stdout, status)
	}
	return nil
}

func (o adminOutput) records(records []admin.Record) error {
	if o.asJSON {
		return o.json(records)
	}
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(o.a.stdout, string(line))
	}
	return nil
}

func (o adminOutput) json(v interface{}) error {
	enc := json.NewEncoder(o.a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func adminHelp() {
	fmt.Println("Usage: racket-advisor admin <subcommand> [flags]")
	fmt.Println("\nSubcommands:")
	fmt.Println("  list                  List every racket in the catalog")
	fmt.Println("  get -id N             Show one racket")
	fmt.Println("  create -name -brand   Add a racket (numeric fields are free text)")
	fmt.Println("  update -id N ...      Replace a racket")
	fmt.Println("  delete -id N          Remove a racket")
	fmt.Println("  reset                 Reseed the catalog")
	fmt.Println("  history -resource R   List hand-metrics, surveys or recommendations")
}
