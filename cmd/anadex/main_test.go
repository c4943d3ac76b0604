package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newExtractApp() *cli.App {
	return &cli.App{
		Name: "anadex",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "anadex.yaml"},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Action: extractCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   ".",
					},
				},
			},
		},
	}
}

func TestExtractCommand(t *testing.T) {
	t.Run("no input files fails", func(t *testing.T) {
		err := newExtractApp().Run([]string{"anadex", "extract"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "feed file")
	})

	t.Run("writes report for qualifying pairs", func(t *testing.T) {
		feed := strings.Join([]string{
			"MFE|MAD|123|456|GLYC^LAB|20250101",
			"OM1|1|2|GLYC^GLYCEMIE^BIOCHIMIE",
			"MFE|MAD|123|457|ADM^LAB|20250101",
			"OM1|2|3|ADM1^DOSSIER^ADMINISTRATIF",
		}, "\n")

		inDir := t.TempDir()
		outDir := t.TempDir()
		feedPath := filepath.Join(inDir, "feed.hl7")
		require.NoError(t, os.WriteFile(feedPath, []byte(feed), 0600))

		err := newExtractApp().Run([]string{"anadex", "extract", "-o", outDir, feedPath})
		require.NoError(t, err)

		reports, err := filepath.Glob(filepath.Join(outDir, "export_lib_*.txt"))
		require.NoError(t, err)
		require.Len(t, reports, 1)

		content, err := os.ReadFile(reports[0])
		require.NoError(t, err)
		assert.Contains(t, string(content), "RES: GLYC|GLYCEMIE|BIOCHIMIE|LAB")
		// Excluded chapter never reaches the report.
		assert.NotContains(t, string(content), "ADMINISTRATIF")
	})

	t.Run("segments in separate files never pair", func(t *testing.T) {
		// A lone trailing MFE in one feed and a lone leading OM1 in the
		// next belong to different documents; no record may form.
		inDir := t.TempDir()
		outDir := t.TempDir()
		mfeOnly := filepath.Join(inDir, "a.hl7")
		om1Only := filepath.Join(inDir, "b.hl7")
		require.NoError(t, os.WriteFile(mfeOnly, []byte("MFE|1|2|3|X^Y"), 0600))
		require.NoError(t, os.WriteFile(om1Only, []byte("OM1|1|2|P^Q^R"), 0600))

		err := newExtractApp().Run([]string{"anadex", "extract", "-o", outDir, mfeOnly, om1Only})
		require.NoError(t, err)

		reports, err := filepath.Glob(filepath.Join(outDir, "export_lib_*.txt"))
		require.NoError(t, err)
		assert.Empty(t, reports, "no report without qualifying pairs")
	})

	t.Run("unreadable input is skipped, not fatal", func(t *testing.T) {
		outDir := t.TempDir()
		err := newExtractApp().Run([]string{
			"anadex", "extract", "-o", outDir,
			filepath.Join(t.TempDir(), "missing.hl7"),
		})
		// No records found is informational, not an error.
		require.NoError(t, err)
	})
}

func TestSplitCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "anadex",
		Commands: []*cli.Command{
			{
				Name:   "split",
				Action: splitCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
					&cli.IntFlag{Name: "parts", Aliases: []string{"n"}, Required: true},
				},
			},
		},
	}

	t.Run("missing file flag fails", func(t *testing.T) {
		err := app.Run([]string{"anadex", "split", "--parts", "2"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file")
	})

	t.Run("non-positive parts fails", func(t *testing.T) {
		err := app.Run([]string{"anadex", "split", "--file", "x.json", "--parts", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parts")
	})
}

func TestSearchCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "anadex",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "anadex.yaml"},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}},
					&cli.StringFlag{Name: "db"},
					&cli.Float64Flag{Name: "threshold", Value: 0.8},
					&cli.StringFlag{Name: "embedding-host"},
					&cli.StringFlag{Name: "embedding-model"},
				},
			},
		},
	}

	t.Run("missing query fails", func(t *testing.T) {
		err := app.Run([]string{"anadex", "search", "--file", "x.json"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("missing record source fails", func(t *testing.T) {
		err := app.Run([]string{"anadex", "search", "glycemie"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--file or --db")
	})

	t.Run("both record sources fails", func(t *testing.T) {
		err := app.Run([]string{"anadex", "search", "--file", "x.json", "--db", "/tmp/db", "glycemie"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not both")
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
