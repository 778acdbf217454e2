package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/variantplan/internal/app"
	"github.com/specialistvlad/variantplan/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-config", "/test/app",
				"--variants=stagingRelease,productionRelease",
				"--format=hcl",
				"--no-color",
				"--log-level=debug",
				"--log-format=json",
				"--workers=50",
			},
			expectedConfig: &app.Config{
				ConfigPath:  "/test/app",
				Variants:    "stagingRelease,productionRelease",
				Format:      "hcl",
				Color:       false,
				LogLevel:    "debug",
				LogFormat:   "json",
				WorkerCount: 50,
			},
		},
		{
			name: "Shorthand flag and defaults",
			args: []string{"-c", "/short/path"},
			expectedConfig: &app.Config{
				ConfigPath:  "/short/path",
				Variants:    "all",
				Format:      "json",
				Color:       true,
				LogLevel:    "info",
				LogFormat:   "text",
				WorkerCount: 10,
			},
		},
		{
			name: "Positional argument for path",
			args: []string{"--format=TEXT", "/positional/path"},
			expectedConfig: &app.Config{
				ConfigPath:  "/positional/path",
				Variants:    "all",
				Format:      "text",
				Color:       true,
				LogLevel:    "info",
				LogFormat:   "text",
				WorkerCount: 10,
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "Usage:"), "Expected help text to be printed")
			},
		},
		{
			name:       "No path triggers clean exit with usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.True(t, strings.Contains(output, "CONFIG_PATH"), "Expected help text to be printed")
			},
		},
		{
			name:      "Invalid format returns an error",
			args:      []string{"--format=yaml", "/path"},
			expectErr: true,
		},
		{
			name:      "Invalid log level returns an error",
			args:      []string{"--log-level=foo", "/path"},
			expectErr: true,
		},
		{
			name:      "Invalid log format returns an error",
			args:      []string{"--log-format=yaml", "/path"},
			expectErr: true,
		},
		{
			name:      "Zero workers returns an error",
			args:      []string{"--workers=0", "/path"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			appConfig, shouldExit, err := cli.Parse(tc.args, out)

			// --- Assert ---
			if tc.expectErr {
				require.Error(t, err)
				exitErr, isExitError := err.(*cli.ExitError)
				require.True(t, isExitError, "Expected error to be of type ExitError")
				require.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)

			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, appConfig); diff != "" {
					t.Errorf("Config mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
		})
	}
}
