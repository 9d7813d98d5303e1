package cardnews

import (
	"context"
	"fmt"
	"time"

	"github.com/sejongkim-ctrl/figma-to-instagram/figma"
	"github.com/sejongkim-ctrl/figma-to-instagram/imghost"
	"github.com/sejongkim-ctrl/figma-to-instagram/instagram"
	"github.com/sejongkim-ctrl/figma-to-instagram/render"
)

// Pipeline runs the full publish flow: obtain slide images (rendered
// locally or exported from Figma), host them on imgbb, and publish the
// carousel through the Graph API.
type Pipeline struct {
	Figma  *figma.Client // nil when Figma import is not configured
	Host   *imghost.Client
	Scale  int
	Format string
}

// NewPipeline wires a pipeline from config. The Figma client is nil
// when no token is configured; RenderAndPublish still works then.
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		Host:   imghost.NewClient(cfg.ImgbbKey, cfg.UploadExpiration),
		Scale:  cfg.ExportScale,
		Format: "png",
	}
	if cfg.FigmaToken != "" && cfg.FigmaFileKey != "" {
		p.Figma = figma.NewClient(cfg.FigmaToken, cfg.FigmaFileKey)
	}
	return p
}

// RenderSlides renders the deck with the named template and style.
func RenderSlides(templateName string, style render.Style, slides []render.Slide) ([][]byte, error) {
	r, err := render.New(templateName, render.WithStyle(style))
	if err != nil {
		return nil, err
	}
	return r.RenderAll(slides)
}

// RenderAndPublish renders the slides, uploads them, and publishes the
// carousel to the account. The publish record is returned for history
// regardless of outcome; on error its Status is "failed".
func (p *Pipeline) RenderAndPublish(ctx context.Context, acct Account, templateName string, style render.Style, slides []render.Slide, caption string, scheduledAt time.Time) (PublishRecord, error) {
	images, err := RenderSlides(templateName, style, slides)
	if err != nil {
		return failedRecord(acct, caption, 0, scheduledAt), err
	}
	return p.publishImages(ctx, acct, images, caption, scheduledAt)
}

// ExportAndPublish downloads one Figma frame group and publishes it as
// a carousel.
func (p *Pipeline) ExportAndPublish(ctx context.Context, acct Account, group FrameGroup, caption string, scheduledAt time.Time) (PublishRecord, error) {
	images, err := p.ExportGroup(ctx, group)
	if err != nil {
		return failedRecord(acct, caption, 0, scheduledAt), err
	}
	return p.publishImages(ctx, acct, images, caption, scheduledAt)
}

// ExportGroup rasterizes every frame of the group, in order.
func (p *Pipeline) ExportGroup(ctx context.Context, group FrameGroup) ([][]byte, error) {
	if p.Figma == nil {
		return nil, fmt.Errorf("cardnews: figma is not configured")
	}
	ids := make([]string, len(group.Frames))
	for i, f := range group.Frames {
		ids[i] = f.ID
	}
	urls, err := p.Figma.ExportImages(ctx, ids, p.Format, p.Scale)
	if err != nil {
		return nil, err
	}
	images := make([][]byte, 0, len(ids))
	for _, f := range group.Frames {
		u, ok := urls[f.ID]
		if !ok || u == "" {
			return nil, fmt.Errorf("cardnews: figma did not export frame %s (%s)", f.Name, f.ID)
		}
		data, err := p.Figma.Download(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("cardnews: frame %s: %w", f.Name, err)
		}
		images = append(images, data)
	}
	return images, nil
}

func (p *Pipeline) publishImages(ctx context.Context, acct Account, images [][]byte, caption string, scheduledAt time.Time) (PublishRecord, error) {
	urls, err := p.Host.UploadBatch(ctx, "cardnews-"+time.Now().Format("060102-150405"), images)
	if err != nil {
		return failedRecord(acct, caption, len(images), scheduledAt), err
	}

	ig := instagram.NewClient(acct.IGUserID, acct.AccessToken)
	res, err := ig.PublishCarousel(ctx, urls, caption, scheduledAt)
	if err != nil {
		return failedRecord(acct, caption, len(images), scheduledAt), err
	}

	return PublishRecord{
		Account:     acct.Name,
		Caption:     caption,
		Status:      res.Status,
		MediaID:     res.MediaID,
		ContainerID: res.ContainerID,
		ImageCount:  len(images),
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
	}, nil
}

func failedRecord(acct Account, caption string, count int, scheduledAt time.Time) PublishRecord {
	return PublishRecord{
		Account:     acct.Name,
		Caption:     caption,
		Status:      "failed",
		ImageCount:  count,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
	}
}
