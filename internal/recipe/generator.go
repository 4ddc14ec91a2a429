package recipe

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"text/template"
	"time"

	"cravecare/internal/cycle"
	"cravecare/internal/llm"
)

//go:embed generate_prompt.md
var generatePrompt string

var generateTmpl = template.Must(template.New("generate").Parse(generatePrompt))

// GenerateParams carries the context embedded into the generation prompt.
type GenerateParams struct {
	Appliance   string
	Phase       cycle.Phase
	HasPCOS     bool
	PrimaryGoal string
}

type promptData struct {
	ApplianceName string
	PhaseName     string
	PhaseDays     string
	Nutrient      string
	HasPCOS       bool
	PrimaryGoal   string
}

// Generation reports which model produced a recipe and how many attempts the
// chain spent, for the metrics store.
type Generation struct {
	Model    string
	Attempts int
	Latency  time.Duration
}

// Generator synthesizes recipes through the model fallback chain.
type Generator struct {
	chain *llm.Chain
	now   func() time.Time
}

// NewGenerator wires a generator over a chain with an injected clock.
func NewGenerator(chain *llm.Chain, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{chain: chain, now: now}
}

// Generate asks the chain for one recipe. It returns ok=false when the chain
// is exhausted or the response cannot be parsed; the caller falls back to the
// static table rather than surfacing an error.
func (g *Generator) Generate(ctx context.Context, params GenerateParams) (Recipe, Generation, bool) {
	info := cycle.Phases[params.Phase]

	var buf bytes.Buffer
	err := generateTmpl.Execute(&buf, promptData{
		ApplianceName: ApplianceName(params.Appliance),
		PhaseName:     info.Name,
		PhaseDays:     info.Days,
		Nutrient:      info.Nutrient,
		HasPCOS:       params.HasPCOS,
		PrimaryGoal:   params.PrimaryGoal,
	})
	if err != nil {
		return Recipe{}, Generation{}, false
	}

	res, ok := g.chain.Generate(ctx, llm.Request{Prompt: buf.String(), Temperature: 0.7})
	gen := Generation{Model: res.Model, Attempts: res.Attempts, Latency: res.Latency}
	if !ok {
		return Recipe{}, gen, false
	}

	fields, err := llm.DecodeFields(res.Text)
	if err != nil {
		log.Printf("Recipe response from %s not parseable: %v", res.Model, err)
		return Recipe{}, gen, false
	}

	name := fields.String("name", "AI Recipe")
	return Recipe{
		ID:          fmt.Sprintf("gemini-%d", g.now().UnixMilli()),
		Name:        name,
		Appliance:   params.Appliance,
		Phase:       params.Phase,
		Time:        fields.String("time", "15 min"),
		Calories:    fields.Int("calories", 250),
		KeyNutrient: fields.String("keyNutrient", info.Nutrient),
		Ingredients: fields.StringList("ingredients"),
		Steps:       fields.StringList("steps"),
		Emoji:       EmojiFor(name, params.Phase),
	}, gen, true
}
