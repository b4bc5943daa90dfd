package main

import (
	"strings"
	"testing"

	"github.com/openclaw-community/readmeloc/config"
)

const testSwitcher = "[English](README.md) | [中文](README_zh.md)"

func TestPatchDocument(t *testing.T) {
	content := "# Title\n\nBody.\n"

	patched, ok := patchDocument(content, testSwitcher)
	if !ok {
		t.Fatal("patch reported no change on a fresh document")
	}
	if !strings.HasPrefix(patched, testSwitcher+"\n\n") {
		t.Errorf("switcher not prepended:\n%q", patched)
	}
	if !strings.HasSuffix(patched, content) {
		t.Errorf("original content altered:\n%q", patched)
	}
}

func TestPatchDocument_Idempotent(t *testing.T) {
	content := "# Title\n\nBody.\n"

	once, _ := patchDocument(content, testSwitcher)
	twice, ok := patchDocument(once, testSwitcher)
	if ok {
		t.Error("second patch reported a change")
	}
	if twice != once {
		t.Errorf("second patch modified the document:\n%q", twice)
	}
}

func TestBuildRules_MergesConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Headings = map[string]string{"## License": "## 授权"}
	cfg.Categories = map[string]string{"Gaming": "电玩"}
	cfg.Paragraphs = []config.ParagraphRule{
		{Pattern: `^Hello\.$`, Template: "你好。"},
	}

	rs, err := buildRules(cfg)
	if err != nil {
		t.Fatalf("buildRules: %v", err)
	}

	if zh, _ := rs.Heading("## License"); zh != "## 授权" {
		t.Errorf("heading override lost: %q", zh)
	}
	if got := rs.Category("Gaming"); got != "电玩" {
		t.Errorf("category override lost: %q", got)
	}
	if out, ok := rs.ExpandParagraph("Hello."); !ok || out != "你好。" {
		t.Errorf("custom paragraph rule missing: %q, %v", out, ok)
	}
	// Built-in dictionary still present underneath.
	if got := rs.Category("Finance"); got != "金融" {
		t.Errorf("built-in category lost: %q", got)
	}
}

func TestBuildRules_BadParagraphPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Paragraphs = []config.ParagraphRule{{Pattern: "(unclosed", Template: "x"}}

	if _, err := buildRules(cfg); err == nil {
		t.Error("invalid paragraph pattern accepted")
	}
}
