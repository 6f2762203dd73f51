// Package curation runs the garden questionnaire and turns the answers into
// canned plant, layout and kit recommendations.
package curation

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/garden.yaml
var dataFiles embed.FS

type Choice struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Questions lists the allowed answer ids per question.
type Questions struct {
	GardenType      []Choice `yaml:"gardenType"`
	Goals           []Choice `yaml:"goals"`
	Vibe            []Choice `yaml:"vibe"`
	PlantTypes      []Choice `yaml:"plantTypes"`
	Size            []Choice `yaml:"size"`
	Sunlight        []Choice `yaml:"sunlight"`
	WaterSource     []Choice `yaml:"waterSource"`
	Climate         []Choice `yaml:"climate"`
	Experience      []Choice `yaml:"experience"`
	PreferredOption []Choice `yaml:"preferredOption"`
}

// Label returns the display label of id, or id itself when unknown.
func Label(choices []Choice, id string) string {
	for _, c := range choices {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}

type Pick struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Difficulty  string          `json:"difficulty,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// HasPrice is false for plants and layouts, which are not sold as a unit.
func (p Pick) HasPrice() bool {
	return p.Price.IsPositive()
}

type rawPick struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Difficulty  string `yaml:"difficulty"`
	Price       string `yaml:"price"`
}

// rule matches when the interest test passes (garden type or any plant
// type, if either is listed) and every other listed constraint holds.
type rule struct {
	GardenTypes      []string  `yaml:"gardenTypes"`
	PlantTypes       []string  `yaml:"plantTypes"`
	Sizes            []string  `yaml:"sizes"`
	Vibes            []string  `yaml:"vibes"`
	Experience       []string  `yaml:"experience"`
	PreferredOptions []string  `yaml:"preferredOptions"`
	Picks            []rawPick `yaml:"picks"`
}

type rawSection struct {
	Rules    []rule    `yaml:"rules"`
	Fallback []rawPick `yaml:"fallback"`
}

type section struct {
	rules    []rule
	picks    [][]Pick
	fallback []Pick
}

type rawGuide struct {
	Questions Questions  `yaml:"questions"`
	Plants    rawSection `yaml:"plants"`
	Layouts   rawSection `yaml:"layouts"`
	Kits      rawSection `yaml:"kits"`
}

// Guide holds the questionnaire and the recommendation tables.
type Guide struct {
	Questions Questions
	plants    section
	layouts   section
	kits      section
}

// DefaultGuide returns the embedded guide and panics on malformed data.
func DefaultGuide() *Guide {
	raw, err := dataFiles.ReadFile("data/garden.yaml")
	if err != nil {
		panic(fmt.Sprintf("curation: read embedded guide: %v", err))
	}
	g, err := ParseGuide(raw)
	if err != nil {
		panic(fmt.Sprintf("curation: %v", err))
	}
	return g
}

func ParseGuide(raw []byte) (*Guide, error) {
	var in rawGuide
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode guide: %w", err)
	}
	g := &Guide{Questions: in.Questions}
	for name, dst := range map[string]struct {
		src rawSection
		out *section
	}{
		"plants":  {in.Plants, &g.plants},
		"layouts": {in.Layouts, &g.layouts},
		"kits":    {in.Kits, &g.kits},
	} {
		sec, err := buildSection(dst.src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if len(sec.fallback) == 0 {
			return nil, fmt.Errorf("%s: fallback is required", name)
		}
		*dst.out = sec
	}
	return g, nil
}

func buildSection(in rawSection) (section, error) {
	out := section{rules: in.Rules, picks: make([][]Pick, len(in.Rules))}
	for i, r := range in.Rules {
		picks, err := convertPicks(r.Picks)
		if err != nil {
			return section{}, err
		}
		out.picks[i] = picks
	}
	fallback, err := convertPicks(in.Fallback)
	if err != nil {
		return section{}, err
	}
	out.fallback = fallback
	return out, nil
}

func convertPicks(in []rawPick) ([]Pick, error) {
	out := make([]Pick, 0, len(in))
	for _, r := range in {
		p := Pick{
			Name:        r.Name,
			Description: r.Description,
			Image:       r.Image,
			Difficulty:  r.Difficulty,
			Price:       decimal.Zero,
		}
		if s := strings.TrimSpace(r.Price); s != "" {
			price, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("pick %s: price %q: %w", r.Name, r.Price, err)
			}
			p.Price = price
		}
		out = append(out, p)
	}
	return out, nil
}

func (r rule) matches(a Answers) bool {
	if len(r.GardenTypes) > 0 || len(r.PlantTypes) > 0 {
		interested := slices.Contains(r.GardenTypes, a.GardenType)
		for _, t := range a.PlantTypes {
			if slices.Contains(r.PlantTypes, t) {
				interested = true
			}
		}
		if !interested {
			return false
		}
	}
	for _, c := range []struct {
		allowed []string
		value   string
	}{
		{r.Sizes, a.Size},
		{r.Vibes, a.Vibe},
		{r.Experience, a.Experience},
		{r.PreferredOptions, a.PreferredOption},
	} {
		if len(c.allowed) > 0 && !slices.Contains(c.allowed, c.value) {
			return false
		}
	}
	return true
}

func (s section) recommend(a Answers) []Pick {
	var out []Pick
	for i, r := range s.rules {
		if r.matches(a) {
			out = append(out, s.picks[i]...)
		}
	}
	if len(out) == 0 {
		return append([]Pick(nil), s.fallback...)
	}
	return out
}

// Plan is the result of one questionnaire submission.
type Plan struct {
	Answers Answers `json:"answers"`
	Plants  []Pick  `json:"plants"`
	Layouts []Pick  `json:"layouts"`
	Kits    []Pick  `json:"kits"`
	Note    string  `json:"note"`
}

// Recommend builds the plan for a. Each section falls back to its default
// picks when no rule matches.
func (g *Guide) Recommend(a Answers) Plan {
	return Plan{
		Answers: a,
		Plants:  g.plants.recommend(a),
		Layouts: g.layouts.recommend(a),
		Kits:    g.kits.recommend(a),
		Note:    careNote(a),
	}
}

func careNote(a Answers) string {
	location := a.Location
	if location == "" {
		location = "your region"
	}
	climate := ""
	switch a.Climate {
	case "hot-dry":
		climate = " hot and dry"
	case "humid-warm":
		climate = " humid and warm"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your location (%s), these plants will need regular watering in the%s climate.", location, climate)
	if a.Sunlight == "low" {
		b.WriteString(" Place them in the brightest spot available as they need adequate sunlight.")
	}
	if a.WaterSource == "yes" {
		b.WriteString(" Having a nearby water source will make maintenance easier.")
	} else {
		b.WriteString(" Consider installing a drip irrigation system since you don't have a nearby water source.")
	}
	return b.String()
}
