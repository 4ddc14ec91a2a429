package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cravecare/internal/app"
	"cravecare/internal/config"
	"cravecare/internal/cycle"
	"cravecare/internal/profile"
	"cravecare/internal/recipe"
	"cravecare/internal/snap"
)

func TestFormatRecipeMarkdown(t *testing.T) {
	r := recipe.Recipe{
		Name:        "Golden Milk Oats",
		Emoji:       "🥣",
		Time:        "10 min",
		Calories:    320,
		KeyNutrient: "Iron & Vitamin C",
		Ingredients: []string{"Oats", "Milk"},
		Steps:       []string{"Boil milk", "Add oats"},
		Phase:       cycle.Menstrual,
	}

	out := formatRecipeMarkdown(r)

	if !strings.Contains(out, "🥣 *Golden Milk Oats*") {
		t.Error("Missing recipe header")
	}
	if !strings.Contains(out, "🔥 320 kcal") {
		t.Error("Missing calories")
	}
	if !strings.Contains(out, "• Oats") {
		t.Error("Missing ingredient")
	}
	if !strings.Contains(out, "2. Add oats") {
		t.Error("Missing numbered step")
	}
}

func TestFormatSnapMarkdown(t *testing.T) {
	rec := snap.Record{
		MealType:   snap.Lunch,
		Grade:      "B",
		Protein:    18,
		Carbs:      55,
		Fat:        20,
		Fiber:      5,
		Verdict:    "Pretty solid! 💪",
		UpgradeTip: "Add a side of cucumber.",
		CreatedAt:  time.Now(),
	}

	out := formatSnapMarkdown(rec)

	if !strings.Contains(out, "*Hostel Grade: B*") {
		t.Error("Missing grade header")
	}
	if !strings.Contains(out, "18g protein") {
		t.Error("Missing macros")
	}
	if !strings.Contains(out, "💡 Add a side of cucumber.") {
		t.Error("Missing upgrade tip")
	}
}

func TestFormatBudgetStatus(t *testing.T) {
	t.Run("UnderBudget", func(t *testing.T) {
		out := formatBudgetStatus(200, 50)
		if !strings.Contains(out, "*Today: 50 / 200*") {
			t.Error("Missing totals line")
		}
		if !strings.Contains(out, "25%") {
			t.Error("Missing gauge percentage")
		}
		if !strings.Contains(out, "150 left to spend.") {
			t.Error("Missing remaining amount")
		}
	})

	t.Run("OverBudget", func(t *testing.T) {
		out := formatBudgetStatus(200, 250)
		if !strings.Contains(out, "100%") {
			t.Error("Expected gauge clamped at 100%")
		}
		if !strings.Contains(out, "50 over budget") {
			t.Error("Missing overspend amount")
		}
	})
}

func TestApplianceFor(t *testing.T) {
	owned := &profile.Profile{Appliances: []string{"kettle", "induction"}}
	bare := &profile.Profile{}

	cases := []struct {
		name      string
		p         *profile.Profile
		args      string
		appliance string
		ok        bool
	}{
		{"DefaultsToFirstOwned", owned, "", "kettle", true},
		{"ExplicitOwned", owned, "Induction", "induction", true},
		{"ExplicitNotOwned", owned, "sandwich-maker", "", false},
		{"UnknownAppliance", owned, "microwave", "", false},
		{"NoAppliancesNoArg", bare, "", "", false},
		{"NoAppliancesKnownArg", bare, "fridge", "fridge", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			appliance, ok := applianceFor(c.p, c.args)
			if appliance != c.appliance || ok != c.ok {
				t.Errorf("applianceFor(%v, %q) = (%q, %v), expected (%q, %v)",
					c.p.Appliances, c.args, appliance, ok, c.appliance, c.ok)
			}
		})
	}
}

func TestResolveChatDropsInvalidAccountToken(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath: filepath.Join(dir, "test.db"),
		DataDir:      filepath.Join(dir, "local"),
		JWTSecret:    "test-secret",
	}
	application, err := app.NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer application.Close()

	b := &Bot{
		app:         application,
		cfg:         cfg,
		sessions:    make(map[int64]*chatSession),
		lastRecipes: make(map[int64]recipe.Recipe),
	}

	userID, token, err := application.Auth().SignUp(context.Background(), "maya@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	sess := application.UserSession(userID)
	if err := sess.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	b.replaceSession(7, sess, token)
	got, dropped, err := b.resolveChat(7)
	if err != nil {
		t.Fatalf("resolveChat failed: %v", err)
	}
	if dropped || got != sess {
		t.Error("Expected a valid token to keep the account session")
	}

	// A tampered token fails verification: the account session is lost and
	// the chat falls back to a guest session.
	b.replaceSession(7, sess, token+"x")
	got, dropped, err = b.resolveChat(7)
	if err != nil {
		t.Fatalf("resolveChat failed: %v", err)
	}
	if !dropped {
		t.Error("Expected the drop to be reported")
	}
	if got == sess {
		t.Error("Expected a fresh guest session")
	}
	if sess.State() != app.StateAuth {
		t.Errorf("Expected the lost session in auth state, got %s", sess.State())
	}
}

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in, cmd, args string
	}{
		{"/spend 80 lunch", "/spend", "80 lunch"},
		{"/start", "/start", ""},
		{"/recipe@cravecare_bot kettle", "/recipe", "kettle"},
		{"  /today  ", "/today", ""},
	}
	for _, c := range cases {
		cmd, args := splitCommand(c.in)
		if cmd != c.cmd || args != c.args {
			t.Errorf("splitCommand(%q) = (%q, %q), expected (%q, %q)", c.in, cmd, args, c.cmd, c.args)
		}
	}
}
