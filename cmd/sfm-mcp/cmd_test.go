// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary SQLite store configured through a YAML file.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/trans/sfm-mcp/internal/models"
	"github.com/trans/sfm-mcp/internal/storage"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// seedStore creates a SQLite file at path holding a small fixture.
func seedStore(t *testing.T, path string) {
	t.Helper()

	db, err := storage.Open(storage.Options{Driver: "sqlite", DSN: path, AutoMigrate: true}, nil)
	if err != nil {
		t.Fatalf("Failed to open seed store: %v", err)
	}
	defer db.Close()

	err = db.ImportData(context.Background(), &storage.ExportData{
		Products: []*models.Product{
			{PrdCode: "P001", PrdName: "稳健理财ABC一号", TaCode: "TA1", RiskLevel: "R2", Nav: dec("1.0234"), NavDate: 20240102},
			{PrdCode: "P002", PrdName: "ABC成长", TaCode: "TA1", RiskLevel: "R3"},
			{PrdCode: "P003", PrdName: "进取100%收益", TaCode: "TA2", RiskLevel: "R4"},
		},
		Snapshots: []*models.DailySnapshot{
			{PrdCode: "P001", TaCode: "TA1", IssDate: 20240101, Nav: dec("1.02")},
			{PrdCode: "P001", TaCode: "TA1", IssDate: 20240102, Nav: dec("1.0234")},
			{PrdCode: "P002", TaCode: "TA1", IssDate: 20240101, Nav: dec("0.9981")},
		},
	})
	if err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
}

// writeConfig writes a config file pointing at dsn and returns its path.
func writeConfig(t *testing.T, dsn string, autoMigrate bool) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mcpserver.yml")
	body := fmt.Sprintf(`server:
  addr: "127.0.0.1:0"
database:
  driver: sqlite
  dsn: %q
  auto_migrate: %t
logging:
  level: error
  env: prod
`, dsn, autoMigrate)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// setupTestCLI seeds a store and returns a config file that points at it.
func setupTestCLI(t *testing.T, autoMigrate bool) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "sfm.db")
	seedStore(t, dbPath)
	return writeConfig(t, dbPath, autoMigrate)
}

// runCLI executes the root command and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	navCode, navDate, navTa = "", "", ""
	exportOutput, exportCode = "", ""
	migrateFromDriver, migrateFromDSN = "postgres", ""
	migrateDryRun, migrateForce = false, false
	mcpEndpoint = "demo1"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()

	// PersistentPostRunE is skipped when RunE fails.
	if store != nil {
		store.Close()
		store = nil
	}
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "sfm-mcp" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "sfm-mcp")
	}

	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("config flag not registered")
	}
	if flag.Shorthand != "c" {
		t.Errorf("config shorthand = %q, want %q", flag.Shorthand, "c")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "mcp", "products", "nav", "export", "import", "migrate", "version"} {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error: %v", name, err)
			}
			if cmd.Name() != name {
				t.Errorf("Find(%q) = %q", name, cmd.Name())
			}
		})
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
	}{
		{"serve", "addr"},
		{"mcp", "endpoint"},
		{"export", "output"},
		{"export", "code"},
		{"migrate", "from-driver"},
		{"migrate", "from-dsn"},
		{"migrate", "dry-run"},
		{"migrate", "force"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tt.cmd})
			if err != nil {
				t.Fatalf("Find(%q) error: %v", tt.cmd, err)
			}
			if cmd.Flags().Lookup(tt.flag) == nil {
				t.Errorf("%s has no --%s flag", tt.cmd, tt.flag)
			}
		})
	}

	for _, flag := range []string{"code", "date", "ta"} {
		if navListCmd.Flags().Lookup(flag) == nil {
			t.Errorf("nav list has no --%s flag", flag)
		}
	}
}

func TestProductsAliases(t *testing.T) {
	for _, alias := range []string{"product", "p"} {
		cmd, _, err := rootCmd.Find([]string{alias, "list"})
		if err != nil {
			t.Fatalf("Find(%q) error: %v", alias, err)
		}
		if cmd != productsListCmd {
			t.Errorf("alias %q did not resolve to products list", alias)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string no truncation", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world this is long", 10, "hello w..."},
		{"multibyte", "稳健理财ABC一号", 6, "稳健理..."},
		{"empty string", "", 10, ""},
		{"very short maxLen", "hello", 3, "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"稳健", 4, "稳健  "},
		{"", 2, "  "},
	}

	for _, tt := range tests {
		got := padRight(tt.input, tt.length)
		if got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestDecimalOrDash(t *testing.T) {
	if got := decimalOrDash(decimal.NullDecimal{}); got != "-" {
		t.Errorf("decimalOrDash(null) = %q, want %q", got, "-")
	}
	if got := decimalOrDash(dec("1.0234")); got != "1.0234" {
		t.Errorf("decimalOrDash(1.0234) = %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "sfm-mcp dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestProductsCommands(t *testing.T) {
	cfgPath := setupTestCLI(t, false)

	t.Run("list", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "products", "list")
		if err != nil {
			t.Fatalf("products list failed: %v", err)
		}
		for _, want := range []string{"P001", "P002", "P003", "稳健理财ABC一号", "1.0234"} {
			if !strings.Contains(out, want) {
				t.Errorf("products list output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("show", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "products", "show", "P001")
		if err != nil {
			t.Fatalf("products show failed: %v", err)
		}
		if !strings.Contains(out, "R2 (medium-low)") {
			t.Errorf("products show output missing risk label:\n%s", out)
		}
		if !strings.Contains(out, "2024-01-02") {
			t.Errorf("products show output missing NAV date:\n%s", out)
		}
	})

	t.Run("show missing", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "products", "show", "NOPE")
		if err != nil {
			t.Fatalf("products show failed: %v", err)
		}
		if !strings.Contains(out, "No product with code NOPE.") {
			t.Errorf("unexpected output: %q", out)
		}
	})

	t.Run("search", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "products", "search", "ABC")
		if err != nil {
			t.Fatalf("products search failed: %v", err)
		}
		if !strings.Contains(out, "P001") || !strings.Contains(out, "P002") {
			t.Errorf("search output missing matches:\n%s", out)
		}
		if strings.Contains(out, "P003") {
			t.Errorf("search output has unexpected P003:\n%s", out)
		}
	})

	t.Run("search literal percent", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "products", "search", "%")
		if err != nil {
			t.Fatalf("products search failed: %v", err)
		}
		if !strings.Contains(out, "P003") || strings.Contains(out, "P001") {
			t.Errorf("search %% output:\n%s", out)
		}
	})
}

func TestNavCommands(t *testing.T) {
	cfgPath := setupTestCLI(t, false)

	t.Run("list by code", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "nav", "list", "--code", "P001")
		if err != nil {
			t.Fatalf("nav list failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 {
			t.Fatalf("nav list returned %d lines, want 2:\n%s", len(lines), out)
		}
		if !strings.Contains(lines[0], "2024-01-01") || !strings.Contains(lines[1], "2024-01-02") {
			t.Errorf("nav list not ordered by date:\n%s", out)
		}
	})

	t.Run("list by date", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "nav", "list", "--date", "2024-01-01")
		if err != nil {
			t.Fatalf("nav list failed: %v", err)
		}
		if !strings.Contains(out, "P001") || !strings.Contains(out, "P002") {
			t.Errorf("nav list by date output:\n%s", out)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := runCLI(t, "--config", cfgPath, "nav", "list", "--date", "2024/01/01")
		if err == nil {
			t.Fatal("expected error for invalid date")
		}
	})

	t.Run("show", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "nav", "show", "P001", "20240102")
		if err != nil {
			t.Fatalf("nav show failed: %v", err)
		}
		if !strings.Contains(out, "1.0234") {
			t.Errorf("nav show output:\n%s", out)
		}
	})

	t.Run("show missing", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "nav", "show", "P003", "20240101")
		if err != nil {
			t.Fatalf("nav show failed: %v", err)
		}
		if !strings.Contains(out, "No snapshot for P003 on 2024-01-01.") {
			t.Errorf("unexpected output: %q", out)
		}
	})
}

func TestExportCommand(t *testing.T) {
	cfgPath := setupTestCLI(t, false)

	t.Run("json to file", func(t *testing.T) {
		outFile := filepath.Join(t.TempDir(), "export.json")
		if _, err := runCLI(t, "--config", cfgPath, "export", "json", "-o", outFile); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		data, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("read export: %v", err)
		}
		if !strings.Contains(string(data), `"prd_code": "P001"`) {
			t.Errorf("export file missing P001:\n%s", data)
		}
	})

	t.Run("markdown single product", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfgPath, "export", "markdown", "--code", "P002")
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if !strings.Contains(out, "## NAV P002") {
			t.Errorf("markdown output missing P002 section:\n%s", out)
		}
		if strings.Contains(out, "## NAV P001") {
			t.Errorf("markdown output has unexpected P001 section:\n%s", out)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCLI(t, "--config", cfgPath, "export", "csv")
		if err == nil || !strings.Contains(err.Error(), "unknown format") {
			t.Errorf("expected unknown format error, got %v", err)
		}
	})
}

func TestImportCommand(t *testing.T) {
	srcCfg := setupTestCLI(t, false)
	exportFile := filepath.Join(t.TempDir(), "export.json")
	if _, err := runCLI(t, "--config", srcCfg, "export", "json", "-o", exportFile); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	t.Run("read-only store", func(t *testing.T) {
		_, err := runCLI(t, "--config", srcCfg, "import", exportFile)
		if err == nil || !strings.Contains(err.Error(), "read-only") {
			t.Errorf("expected read-only error, got %v", err)
		}
	})

	t.Run("local store", func(t *testing.T) {
		dstCfg := writeConfig(t, filepath.Join(t.TempDir(), "local.db"), true)
		if _, err := runCLI(t, "--config", dstCfg, "import", exportFile); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		out, err := runCLI(t, "--config", dstCfg, "products", "list")
		if err != nil {
			t.Fatalf("products list failed: %v", err)
		}
		if !strings.Contains(out, "P003") {
			t.Errorf("imported store missing P003:\n%s", out)
		}
	})
}

func TestMigrateCommand(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "upstream.db")
	seedStore(t, srcPath)

	t.Run("requires source", func(t *testing.T) {
		dstCfg := writeConfig(t, filepath.Join(t.TempDir(), "local.db"), true)
		_, err := runCLI(t, "--config", dstCfg, "migrate")
		if err == nil || !strings.Contains(err.Error(), "--from-dsn") {
			t.Errorf("expected --from-dsn error, got %v", err)
		}
	})

	t.Run("dry run", func(t *testing.T) {
		dstCfg := writeConfig(t, filepath.Join(t.TempDir(), "local.db"), true)
		out, err := runCLI(t, "--config", dstCfg, "migrate",
			"--from-driver", "sqlite", "--from-dsn", srcPath, "--dry-run")
		if err != nil {
			t.Fatalf("migrate dry run failed: %v", err)
		}
		if !strings.Contains(out, "Would copy 3 products and 3 snapshots") {
			t.Errorf("dry run output: %q", out)
		}
	})

	t.Run("copy then refuse", func(t *testing.T) {
		dstCfg := writeConfig(t, filepath.Join(t.TempDir(), "local.db"), true)
		if _, err := runCLI(t, "--config", dstCfg, "migrate",
			"--from-driver", "sqlite", "--from-dsn", srcPath); err != nil {
			t.Fatalf("migrate failed: %v", err)
		}

		out, err := runCLI(t, "--config", dstCfg, "nav", "list", "--code", "P001")
		if err != nil {
			t.Fatalf("nav list failed: %v", err)
		}
		if !strings.Contains(out, "1.0234") {
			t.Errorf("migrated store missing snapshot:\n%s", out)
		}

		_, err = runCLI(t, "--config", dstCfg, "migrate",
			"--from-driver", "sqlite", "--from-dsn", srcPath)
		if err == nil || !strings.Contains(err.Error(), "not empty") {
			t.Errorf("expected not empty error, got %v", err)
		}
	})
}

func TestMCPUnknownEndpoint(t *testing.T) {
	cfgPath := setupTestCLI(t, false)

	_, err := runCLI(t, "--config", cfgPath, "mcp", "--endpoint", "nope")
	if err == nil || !strings.Contains(err.Error(), "unknown endpoint") {
		t.Errorf("expected unknown endpoint error, got %v", err)
	}
}

func TestBuildRegistry(t *testing.T) {
	db, err := storage.Open(storage.Options{
		Driver:      "sqlite",
		DSN:         filepath.Join(t.TempDir(), "sfm.db"),
		AutoMigrate: true,
	}, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer db.Close()

	registry, err := buildRegistry(db)
	if err != nil {
		t.Fatalf("buildRegistry failed: %v", err)
	}
	names := registry.Names()
	if len(names) != 2 || names[0] != "demo1" || names[1] != "sfm" {
		t.Errorf("registry names = %v, want [demo1 sfm]", names)
	}
}
