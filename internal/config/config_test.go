package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
ai:
  endpoint: https://example.openai.azure.com
  deployment: gpt-4o-mini
ingest:
  document_path: ./doc.pdf
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalYAML), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Ingest.ExpiresDays != 7 {
		t.Errorf("expires days = %d, want 7", cfg.Ingest.ExpiresDays)
	}
	if cfg.Ingest.MaxChunkTokens != 100 || cfg.Ingest.ChunkOverlapTokens != 20 {
		t.Errorf("chunking defaults = %d/%d", cfg.Ingest.MaxChunkTokens, cfg.Ingest.ChunkOverlapTokens)
	}
	if cfg.Ingest.PollInterval != 5*time.Second {
		t.Errorf("poll interval = %s", cfg.Ingest.PollInterval)
	}
	if cfg.Ingest.PollTimeout != 10*time.Minute {
		t.Errorf("poll timeout = %s", cfg.Ingest.PollTimeout)
	}
	if cfg.Query.MaxResults != 1 || cfg.Query.Ranker != "auto" || cfg.Query.ScoreThreshold != 0.01 {
		t.Errorf("query defaults = %+v", cfg.Query)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://override.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4.1")
	t.Setenv("UPLOADED_FILE_ID", "file_env")

	cfg, err := LoadConfig(writeConfig(t, minimalYAML), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AI.Endpoint != "https://override.openai.azure.com" {
		t.Errorf("endpoint = %q", cfg.AI.Endpoint)
	}
	if cfg.AI.Deployment != "gpt-4.1" {
		t.Errorf("deployment = %q", cfg.AI.Deployment)
	}
	if cfg.AI.UploadedFileID != "file_env" {
		t.Errorf("uploaded file id = %q", cfg.AI.UploadedFileID)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing endpoint", "ai:\n  deployment: gpt-4o-mini\ningest:\n  document_path: ./d.pdf\n"},
		{"missing deployment", "ai:\n  endpoint: https://x\ningest:\n  document_path: ./d.pdf\n"},
		{"no document and no file id", "ai:\n  endpoint: https://x\n  deployment: m\n"},
		{"overlap too large", minimalYAML + "  max_chunk_tokens: 100\n  chunk_overlap_tokens: 80\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, c.yaml), false); err == nil {
				t.Fatal("want validation error")
			}
		})
	}
}

func TestLoadConfigFileIDInsteadOfDocument(t *testing.T) {
	yaml := "ai:\n  endpoint: https://x\n  deployment: m\n  uploaded_file_id: file_1\n"
	cfg, err := LoadConfig(writeConfig(t, yaml), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried into runtime config")
	}
}
