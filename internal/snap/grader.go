package snap

import (
	"context"
	_ "embed"
	"log"
	"time"

	"cravecare/internal/llm"
)

//go:embed grade_prompt.md
var gradePrompt string

// Grading reports the model and attempt count behind one grade, for the
// metrics store.
type Grading struct {
	Model    string
	Attempts int
	Latency  time.Duration
}

// Grader analyzes dish photos through the model fallback chain.
type Grader struct {
	chain *llm.Chain
}

// NewGrader wires a grader over a chain.
func NewGrader(chain *llm.Chain) *Grader {
	return &Grader{chain: chain}
}

// Grade sends the image through the chain with the fixed grading rubric. It
// returns ok=false when no model produced a parseable response; callers show
// FallbackResult instead of an error.
func (g *Grader) Grade(ctx context.Context, image []byte, mimeType string) (GradeResult, Grading, bool) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	res, ok := g.chain.Generate(ctx, llm.Request{
		Prompt:      gradePrompt,
		Image:       &llm.InlineImage{MIMEType: mimeType, Data: image},
		Temperature: 0.5,
	})
	grading := Grading{Model: res.Model, Attempts: res.Attempts, Latency: res.Latency}
	if !ok {
		return GradeResult{}, grading, false
	}

	fields, err := llm.DecodeFields(res.Text)
	if err != nil {
		log.Printf("Dish grade response from %s not parseable: %v", res.Model, err)
		return GradeResult{}, grading, false
	}

	grade := fields.String("grade", "C")
	if _, known := grades[grade]; !known {
		grade = "C"
	}
	return GradeResult{
		Grade:      grade,
		Protein:    fields.Int("protein", 0),
		Carbs:      fields.Int("carbs", 0),
		Fat:        fields.Int("fat", 0),
		Fiber:      fields.Int("fiber", 0),
		Calories:   fields.Int("calories", 0),
		Verdict:    fields.String("verdict", "Looks like a meal!"),
		UpgradeTip: fields.String("upgradeTip", "Add some veggies or protein to level up."),
	}, grading, true
}
