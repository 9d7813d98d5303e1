package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cardnews "github.com/sejongkim-ctrl/figma-to-instagram"
	"github.com/sejongkim-ctrl/figma-to-instagram/instagram"
	"github.com/sejongkim-ctrl/figma-to-instagram/render"
	"github.com/sejongkim-ctrl/figma-to-instagram/views"
)

func configFromEnv() cardnews.Config {
	return cardnews.Config{
		Addr:          cardnews.EnvOr("CARDNEWS_ADDR", ":3000"),
		DatabasePath:  cardnews.EnvOr("CARDNEWS_DB", "data/cardnews.db"),
		AdminPassword: os.Getenv("CARDNEWS_ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("CARDNEWS_SESSION_SECRET"),
		CookieSecure:  os.Getenv("CARDNEWS_COOKIE_SECURE") == "true",
		FigmaToken:    os.Getenv("FIGMA_TOKEN"),
		FigmaFileKey:  os.Getenv("FIGMA_FILE_KEY"),
		ImgbbKey:      os.Getenv("IMGBB_KEY"),
		MetaAppID:     os.Getenv("META_APP_ID"),
		MetaAppSecret: os.Getenv("META_APP_SECRET"),
	}
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address (overrides CARDNEWS_ADDR)")
	staticDir := fs.String("static", "public", "static assets directory")
	fs.Parse(args)

	cfg := configFromEnv()
	if *addr != "" {
		cfg.Addr = *addr
	}
	cfg.AdminPassword = cardnews.MustEnv("CARDNEWS_ADMIN_PASSWORD")
	cfg.SessionSecret = cardnews.MustEnv("CARDNEWS_SESSION_SECRET")

	app := cardnews.New(cfg, views.Default(), cardnews.WithStaticDir(*staticDir))
	defer app.Close()
	return app.Start()
}

// deckFile is the JSON deck format accepted by render and publish.
type deckFile struct {
	Slides []struct {
		Kind        string `json:"kind"`
		Title       string `json:"title"`
		Subtitle    string `json:"subtitle"`
		Heading     string `json:"heading"`
		Body        string `json:"body"`
		CTAText     string `json:"cta_text"`
		AccountName string `json:"account_name"`
		ProfileURL  string `json:"profile_url"`
		Background  string `json:"background"` // image file path
	} `json:"slides"`
}

func loadDeck(path string) ([]render.Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var deck deckFile
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parse deck %s: %w", path, err)
	}
	slides := make([]render.Slide, 0, len(deck.Slides))
	for i, s := range deck.Slides {
		slide := render.Slide{
			Kind:        render.SlideKind(s.Kind),
			Title:       s.Title,
			Subtitle:    s.Subtitle,
			Heading:     s.Heading,
			Body:        s.Body,
			CTAText:     s.CTAText,
			AccountName: s.AccountName,
			ProfileURL:  s.ProfileURL,
		}
		if s.Background != "" {
			photo, err := os.ReadFile(s.Background)
			if err != nil {
				return nil, fmt.Errorf("slide %d background: %w", i+1, err)
			}
			slide.BackgroundBytes = photo
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

func parseStyle(s string) (render.Style, error) {
	switch s {
	case "", "photo":
		return render.StylePhoto, nil
	case "flat":
		return render.StyleFlat, nil
	default:
		return 0, fmt.Errorf("unknown style %q (photo, flat)", s)
	}
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck JSON file (required)")
	template := fs.String("template", "깔끔한 화이트", "template name")
	styleName := fs.String("style", "photo", "render style (photo, flat)")
	out := fs.String("out", ".", "output directory")
	fs.Parse(args)

	if *deckPath == "" {
		return fmt.Errorf("-deck is required")
	}
	slides, err := loadDeck(*deckPath)
	if err != nil {
		return err
	}
	style, err := parseStyle(*styleName)
	if err != nil {
		return err
	}

	images, err := cardnews.RenderSlides(*template, style, slides)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	for i, img := range images {
		name := filepath.Join(*out, fmt.Sprintf("slide-%02d.png", i+1))
		if err := os.WriteFile(name, img, 0o644); err != nil {
			return err
		}
		fmt.Println(name)
	}
	return nil
}

func runPublish(args []string) error {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	deckPath := fs.String("deck", "", "deck JSON file")
	framesDate := fs.String("frames", "", "Figma frame group date (YYMMDD) instead of a deck")
	template := fs.String("template", "깔끔한 화이트", "template name")
	styleName := fs.String("style", "photo", "render style (photo, flat)")
	accountName := fs.String("account", "", "stored account name (required unless -dry-run)")
	caption := fs.String("caption", "", "post caption")
	schedule := fs.String("schedule", "", "schedule time (2006-01-02 15:04, local)")
	dryRun := fs.Bool("dry-run", false, "render or export the slides locally without publishing")
	out := fs.String("out", "preview", "output directory for -dry-run")
	fs.Parse(args)

	if (*deckPath == "") == (*framesDate == "") {
		return fmt.Errorf("exactly one of -deck or -frames is required")
	}

	cfg := configFromEnv()
	pipeline := cardnews.NewPipeline(cfg)
	ctx := context.Background()

	if *dryRun {
		images, err := publishImages(ctx, pipeline, *deckPath, *framesDate, *template, *styleName)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(*out, 0o755); err != nil {
			return err
		}
		for i, img := range images {
			name := filepath.Join(*out, fmt.Sprintf("slide-%02d.png", i+1))
			if err := os.WriteFile(name, img, 0o644); err != nil {
				return err
			}
			fmt.Println(name)
		}
		fmt.Printf("dry run: %d slides, nothing uploaded\n", len(images))
		return nil
	}

	if *accountName == "" {
		return fmt.Errorf("-account is required")
	}
	store, err := cardnews.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	acct, err := store.GetAccount(*accountName)
	if err != nil {
		return fmt.Errorf("account %q not found (add it via the web UI or setup-token)", *accountName)
	}
	if instagram.ExpiresSoon(acct.TokenExpiry, time.Now()) {
		fmt.Fprintf(os.Stderr, "warning: token for %s expires %s\n", acct.Name, acct.TokenExpiry.Format("2006-01-02"))
	}

	var scheduledAt time.Time
	if *schedule != "" {
		scheduledAt, err = time.ParseInLocation("2006-01-02 15:04", *schedule, time.Local)
		if err != nil {
			return fmt.Errorf("parse schedule: %w", err)
		}
		if err := instagram.ValidateScheduleTime(scheduledAt, time.Now()); err != nil {
			return err
		}
	}

	var rec cardnews.PublishRecord
	var pubErr error
	if *deckPath != "" {
		slides, err := loadDeck(*deckPath)
		if err != nil {
			return err
		}
		style, err := parseStyle(*styleName)
		if err != nil {
			return err
		}
		rec, pubErr = pipeline.RenderAndPublish(ctx, acct, *template, style, slides, *caption, scheduledAt)
	} else {
		group, err := findGroup(ctx, pipeline, *framesDate)
		if err != nil {
			return err
		}
		rec, pubErr = pipeline.ExportAndPublish(ctx, acct, group, *caption, scheduledAt)
	}

	if err := store.RecordPublish(rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: record publish: %v\n", err)
	}
	if pubErr != nil {
		return pubErr
	}
	switch rec.Status {
	case "scheduled":
		fmt.Printf("scheduled container %s for %s\n", rec.ContainerID, rec.ScheduledAt.Format("2006-01-02 15:04"))
	default:
		fmt.Printf("published media %s (%d images)\n", rec.MediaID, rec.ImageCount)
	}
	return nil
}

// findGroup resolves one frame date group via the Figma client.
func findGroup(ctx context.Context, pipeline *cardnews.Pipeline, date string) (cardnews.FrameGroup, error) {
	if pipeline.Figma == nil {
		return cardnews.FrameGroup{}, fmt.Errorf("FIGMA_TOKEN and FIGMA_FILE_KEY are required for -frames")
	}
	frames, err := pipeline.Figma.Frames(ctx)
	if err != nil {
		return cardnews.FrameGroup{}, err
	}
	for _, g := range cardnews.GroupFrames(frames) {
		if g.Date == date {
			return g, nil
		}
	}
	return cardnews.FrameGroup{}, fmt.Errorf("no frame group for date %s", date)
}

// publishImages obtains the slide images for a publish without
// uploading them, for -dry-run.
func publishImages(ctx context.Context, pipeline *cardnews.Pipeline, deckPath, framesDate, template, styleName string) ([][]byte, error) {
	if deckPath != "" {
		slides, err := loadDeck(deckPath)
		if err != nil {
			return nil, err
		}
		style, err := parseStyle(styleName)
		if err != nil {
			return nil, err
		}
		return cardnews.RenderSlides(template, style, slides)
	}
	group, err := findGroup(ctx, pipeline, framesDate)
	if err != nil {
		return nil, err
	}
	return pipeline.ExportGroup(ctx, group)
}

func runListFrames(args []string) error {
	fs := flag.NewFlagSet("list-frames", flag.ExitOnError)
	fs.Parse(args)

	cfg := configFromEnv()
	pipeline := cardnews.NewPipeline(cfg)
	if pipeline.Figma == nil {
		return fmt.Errorf("FIGMA_TOKEN and FIGMA_FILE_KEY are required")
	}
	frames, err := pipeline.Figma.Frames(context.Background())
	if err != nil {
		return err
	}
	groups := cardnews.GroupFrames(frames)
	if len(groups) == 0 {
		fmt.Println("no frames named YYMMDD-N found")
		return nil
	}
	for _, g := range groups {
		fmt.Printf("%s (%d frames)\n", g.Date, len(g.Frames))
		for _, f := range g.Frames {
			fmt.Printf("  %-12s %s\n", f.Name, f.Page)
		}
	}
	return nil
}

func runSetupToken(args []string) error {
	fs := flag.NewFlagSet("setup-token", flag.ExitOnError)
	short := fs.String("short", "", "short-lived user token (required)")
	pageName := fs.String("page-name", "", "save the account under this name")
	fs.Parse(args)

	if *short == "" {
		return fmt.Errorf("-short is required")
	}
	cfg := configFromEnv()
	if cfg.MetaAppID == "" || cfg.MetaAppSecret == "" {
		return fmt.Errorf("META_APP_ID and META_APP_SECRET are required")
	}

	ctx := context.Background()
	mgr := instagram.NewTokenManager(cfg.MetaAppID, cfg.MetaAppSecret)

	tok, err := mgr.ExchangeLongLived(ctx, *short)
	if err != nil {
		return err
	}
	fmt.Printf("long-lived token ok, expires %s\n", tok.ExpiresAt.Format("2006-01-02"))

	pages, err := mgr.Pages(ctx, tok.AccessToken)
	if err != nil {
		return err
	}
	for _, p := range pages {
		igID, err := mgr.IGUserID(ctx, p.ID, p.AccessToken)
		if err != nil {
			fmt.Printf("%-24s page %s: %v\n", p.Name, p.ID, err)
			continue
		}
		fmt.Printf("%-24s page %s  ig user %s\n", p.Name, p.ID, igID)

		if *pageName != "" && p.Name == *pageName {
			store, err := cardnews.NewStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			err = store.SaveAccount(cardnews.Account{
				Name:        p.Name,
				IGUserID:    igID,
				AccessToken: p.AccessToken,
				TokenExpiry: tok.ExpiresAt,
			})
			store.Close()
			if err != nil {
				return err
			}
			fmt.Printf("saved account %q\n", p.Name)
		}
	}
	return nil
}
