package config

import (
	"testing"
)

func TestLanguageMapDefaults(t *testing.T) {
	got := getEnvAsLanguageMap("JUDGE_LANGUAGE_IDS_UNSET", map[string]int{"cpp": 54})
	if got["cpp"] != 54 {
		t.Fatalf("expected fallback map, got %v", got)
	}
}

func TestLanguageMapParsing(t *testing.T) {
	t.Setenv("JUDGE_LANGUAGE_IDS", "cpp:54, javascript:63,rust:73,java:62")

	got := getEnvAsLanguageMap("JUDGE_LANGUAGE_IDS", nil)
	want := map[string]int{"cpp": 54, "javascript": 63, "rust": 73, "java": 62}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for lang, id := range want {
		if got[lang] != id {
			t.Fatalf("expected %s -> %d, got %d", lang, id, got[lang])
		}
	}
}

func TestLanguageMapIgnoresMalformedPairs(t *testing.T) {
	t.Setenv("JUDGE_LANGUAGE_IDS", "cpp:54,broken,also:bad:pair,python:notanumber")

	got := getEnvAsLanguageMap("JUDGE_LANGUAGE_IDS", nil)
	if len(got) != 1 || got["cpp"] != 54 {
		t.Fatalf("expected only the valid pair, got %v", got)
	}
}
