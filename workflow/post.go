// Package workflow composes the content pipeline: drafting posts, building
// and sending the weekly digest, and the standalone moderation and image tools.
package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/gemini"
	"github.com/eringen/loomreport/prompts"
)

// Editor personas used as system prompts.
const (
	researchEditor = "You are the research editor for TheLoomReport."
	articleWriter  = "You write deeply analytical technology journalism for TheLoomReport."
	metaWriter     = "You craft metadata for SEO-optimized journalism."
	imageDirector  = "You generate cinematic illustration prompts for AI image models."
)

// PostStatus is printed after a draft is written.
type PostStatus struct {
	Status string `json:"status"`
	File   string `json:"file"`
	Hero   string `json:"hero"`
	Title  string `json:"title"`
}

// PostGenerator drafts a new post end to end. Every step is attempted once
// and the first failure ends the run.
type PostGenerator struct {
	Prompts      PromptRenderer
	Chat         Chatter
	Images       ImageGenerator
	Gate         Moderator
	Posts        PostStore
	Variants     VariantSaver
	GeneratedDir string
	Now          func() time.Time
	Logger       zerolog.Logger
}

func (g *PostGenerator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Run executes the pipeline and returns the status of the written draft.
func (g *PostGenerator) Run(ctx context.Context) (*PostStatus, error) {
	posts, err := g.Posts.Load()
	if err != nil {
		return nil, err
	}
	g.Logger.Debug().Int("posts", len(posts)).Msg("loaded existing posts")

	plan, err := g.planTopic(ctx, summarizePosts(posts, recentLimit))
	if err != nil {
		return nil, err
	}
	g.Logger.Info().Str("title", plan.Title).Msg("topic planned")

	article, err := g.writeArticle(ctx, plan)
	if err != nil {
		return nil, err
	}

	meta, err := g.describe(ctx, plan, article)
	if err != nil {
		return nil, err
	}

	imagePlan, err := g.planImage(ctx, plan)
	if err != nil {
		return nil, err
	}

	img, err := g.Images.GenerateImage(ctx, imagePlan.Prompt)
	if err != nil {
		return nil, err
	}
	data, err := img.Bytes()
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	dateSlug := now.Format("2006-01-02")
	baseName := dateSlug + "-" + loomreport.Slugify(plan.Title)
	hero, err := g.Variants.Save(ctx, data, g.GeneratedDir, baseName)
	if err != nil {
		return nil, err
	}
	g.Logger.Info().Str("hero", hero.HeroWebPath).Int("variants", len(hero.Variants)).Msg("hero image saved")

	fm := loomreport.Frontmatter{
		Title:       plan.Title,
		Description: meta.Description,
		Date:        dateSlug,
		Tags:        ChooseTags(plan, meta),
		Keywords:    meta.Keywords,
		Hero: &loomreport.Hero{
			Image:   hero.HeroWebPath,
			Alt:     meta.HeroAlt,
			Sources: hero.Sources(),
		},
		ImagePrompt:    imagePlan.Prompt,
		NegativePrompt: imagePlan.NegativePrompt,
		Moderation: &loomreport.ModerationStamp{
			Status:    "passed",
			Timestamp: now.Format(time.RFC3339),
		},
	}

	file, err := g.Posts.Save(fm, article)
	if err != nil {
		return nil, err
	}
	g.Logger.Info().Str("file", file).Msg("draft created")

	return &PostStatus{
		Status: "draft-created",
		File:   file,
		Hero:   hero.HeroWebPath,
		Title:  plan.Title,
	}, nil
}

func (g *PostGenerator) ask(ctx context.Context, template string, vars map[string]any, system string, format gemini.Format) (string, error) {
	prompt, err := g.Prompts.Render(template, vars)
	if err != nil {
		return "", err
	}
	return g.Chat.Chat(ctx, gemini.ChatRequest{
		Messages: []gemini.Message{
			{Role: gemini.RoleSystem, Content: system},
			{Role: gemini.RoleUser, Content: prompt},
		},
		Format: format,
	})
}

func (g *PostGenerator) assertSafe(ctx context.Context, text, label string) error {
	_, err := g.Gate.AssertSafe(ctx, text, label)
	return err
}

func (g *PostGenerator) planTopic(ctx context.Context, recent string) (TopicPlan, error) {
	raw, err := g.ask(ctx, prompts.TopicGenerator, map[string]any{"recent_posts": recent}, researchEditor, gemini.FormatJSON)
	if err != nil {
		return TopicPlan{}, err
	}
	plan, err := DecodeTopicPlan(raw)
	if err != nil {
		return TopicPlan{}, err
	}
	if err := g.assertSafe(ctx, plan.Title, "title"); err != nil {
		return TopicPlan{}, err
	}
	if err := g.assertSafe(ctx, plan.Angle, "angle"); err != nil {
		return TopicPlan{}, err
	}
	return plan, nil
}

func (g *PostGenerator) writeArticle(ctx context.Context, plan TopicPlan) (string, error) {
	article, err := g.ask(ctx, prompts.ArticleWriter, map[string]any{"plan": plan}, articleWriter, gemini.FormatText)
	if err != nil {
		return "", err
	}
	if err := g.assertSafe(ctx, article, "article"); err != nil {
		return "", err
	}
	return article, nil
}

func (g *PostGenerator) describe(ctx context.Context, plan TopicPlan, article string) (MetaDescription, error) {
	raw, err := g.ask(ctx, prompts.MetaDescription, map[string]any{
		"title":   plan.Title,
		"excerpt": Excerpt(article, excerptLength),
	}, metaWriter, gemini.FormatJSON)
	if err != nil {
		return MetaDescription{}, err
	}
	meta, err := DecodeMetaDescription(raw)
	if err != nil {
		return MetaDescription{}, err
	}
	if err := g.assertSafe(ctx, meta.Description, "meta description"); err != nil {
		return MetaDescription{}, err
	}
	if meta.HeroAlt != "" {
		if err := g.assertSafe(ctx, meta.HeroAlt, "hero alt text"); err != nil {
			return MetaDescription{}, err
		}
	}
	return meta, nil
}

func (g *PostGenerator) planImage(ctx context.Context, plan TopicPlan) (ImagePlan, error) {
	raw, err := g.ask(ctx, prompts.ImagePrompt, map[string]any{
		"title": plan.Title,
		"angle": plan.Angle,
	}, imageDirector, gemini.FormatJSON)
	if err != nil {
		return ImagePlan{}, err
	}
	imagePlan, err := DecodeImagePlan(raw)
	if err != nil {
		return ImagePlan{}, err
	}
	if err := g.assertSafe(ctx, imagePlan.Prompt, "image prompt"); err != nil {
		return ImagePlan{}, err
	}
	return imagePlan, nil
}
