package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptTemplatesDefaults(t *testing.T) {
	templates, err := LoadPromptTemplates("")
	if err != nil {
		t.Fatalf("LoadPromptTemplates failed: %v", err)
	}
	if !strings.Contains(templates.EvaluationSystem, "correctness_score") {
		t.Error("default evaluation prompt must describe the JSON schema")
	}
	if templates.QuestionSystem == "" || templates.VisionFrame == "" {
		t.Error("defaults must be populated")
	}
}

func TestLoadPromptTemplatesMissingFile(t *testing.T) {
	templates, err := LoadPromptTemplates("/nonexistent/prompts.yaml")
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if templates.QuestionSystem != DefaultPromptTemplates().QuestionSystem {
		t.Error("missing file must yield defaults")
	}
}

func TestLoadPromptTemplatesPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := "question_system: |\n  Ask only about databases.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	templates, err := LoadPromptTemplates(path)
	if err != nil {
		t.Fatalf("LoadPromptTemplates failed: %v", err)
	}
	if !strings.Contains(templates.QuestionSystem, "databases") {
		t.Errorf("override not applied: %q", templates.QuestionSystem)
	}
	if templates.EvaluationSystem != DefaultPromptTemplates().EvaluationSystem {
		t.Error("unset fields must keep their defaults")
	}
}

func TestLoadPromptTemplatesInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("question_system: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPromptTemplates(path); err == nil {
		t.Fatal("expected parse error")
	}
}
