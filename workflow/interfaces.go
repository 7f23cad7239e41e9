package workflow

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/eringen/loomreport"
	"github.com/eringen/loomreport/digest"
	"github.com/eringen/loomreport/gemini"
	"github.com/eringen/loomreport/imaging"
	"github.com/eringen/loomreport/mailer"
	"github.com/eringen/loomreport/moderation"
)

type Chatter interface {
	Chat(ctx context.Context, req gemini.ChatRequest) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*gemini.Image, error)
}

type Moderator interface {
	AssertSafe(ctx context.Context, text, label string) (*moderation.Result, error)
}

type PromptRenderer interface {
	Render(name string, vars map[string]any) (string, error)
}

type PostStore interface {
	Load() ([]loomreport.Post, error)
	Save(fm loomreport.Frontmatter, content string) (string, error)
}

type VariantSaver interface {
	Save(ctx context.Context, data []byte, outputDir, baseName string) (*imaging.Result, error)
}

type DigestBuilder interface {
	Build(ctx context.Context, ref time.Time) (*digest.Digest, error)
}

type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}
