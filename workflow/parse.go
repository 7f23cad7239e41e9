package workflow

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/eringen/loomreport"
)

// TopicPlan is the research editor's pick for the next article.
type TopicPlan struct {
	Title string   `json:"title"`
	Angle string   `json:"angle"`
	Tags  []string `json:"tags,omitempty"`
}

// MetaDescription is the SEO metadata for a drafted article.
type MetaDescription struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
	HeroAlt     string   `json:"hero_alt,omitempty"`
}

// ImagePlan is the prompt pair sent to the image model.
type ImagePlan struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// decodeObject strictly decodes a model response that must be a single JSON
// object.
func decodeObject(raw, label string, v any) error {
	body := loomreport.StripJSONFence(raw)
	if !strings.HasPrefix(body, "{") {
		return loomreport.Errorf(loomreport.KindMalformedModelOutput, "parse "+label, "expected a JSON object, got %q", truncate(body, 120))
	}
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return loomreport.NewError(loomreport.KindMalformedModelOutput, "parse "+label, err)
	}
	if dec.More() {
		return loomreport.Errorf(loomreport.KindMalformedModelOutput, "parse "+label, "trailing data after JSON object")
	}
	return nil
}

func required(label string, fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return loomreport.Errorf(loomreport.KindMalformedModelOutput, "parse "+label, "missing required field(s): %s", strings.Join(missing, ", "))
}

// DecodeTopicPlan parses the topic generator's response.
func DecodeTopicPlan(raw string) (TopicPlan, error) {
	var p TopicPlan
	if err := decodeObject(raw, "topic plan", &p); err != nil {
		return TopicPlan{}, err
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Angle = strings.TrimSpace(p.Angle)
	if err := required("topic plan", map[string]string{"title": p.Title, "angle": p.Angle}); err != nil {
		return TopicPlan{}, err
	}
	p.Tags = loomreport.FilterEmpty(p.Tags)
	return p, nil
}

// DecodeMetaDescription parses the metadata writer's response.
func DecodeMetaDescription(raw string) (MetaDescription, error) {
	var m MetaDescription
	if err := decodeObject(raw, "meta description", &m); err != nil {
		return MetaDescription{}, err
	}
	m.Description = strings.TrimSpace(m.Description)
	m.HeroAlt = strings.TrimSpace(m.HeroAlt)
	if err := required("meta description", map[string]string{"description": m.Description}); err != nil {
		return MetaDescription{}, err
	}
	m.Keywords = loomreport.FilterEmpty(m.Keywords)
	return m, nil
}

// DecodeImagePlan parses the illustration prompt response.
func DecodeImagePlan(raw string) (ImagePlan, error) {
	var p ImagePlan
	if err := decodeObject(raw, "image prompt", &p); err != nil {
		return ImagePlan{}, err
	}
	p.Prompt = strings.TrimSpace(p.Prompt)
	p.NegativePrompt = strings.TrimSpace(p.NegativePrompt)
	if err := required("image prompt", map[string]string{"prompt": p.Prompt}); err != nil {
		return ImagePlan{}, err
	}
	return p, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return fmt.Sprintf("%s...", string(r[:max]))
}
