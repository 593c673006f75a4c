package commands

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/internal/testfixture"
)

// workspace lays the fixture lexicons out on disk and returns a config file
// pointing at them.
func workspace(t *testing.T, extra string) (dir, configPath string) {
	t.Helper()

	dir = t.TempDir()

	wnDir := filepath.Join(dir, "wordnet")
	require.NoError(t, os.MkdirAll(wnDir, 0o750))

	wn := testfixture.WordNet()
	for name := range wn {
		data, err := fs.ReadFile(wn, name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(wnDir, name), data, 0o600))
	}

	write(t, filepath.Join(dir, "senticnet.py"), testfixture.SenticNet)
	write(t, filepath.Join(dir, "SentiWordNet_3.0.0.txt"), testfixture.SentiWordNet)

	configPath = filepath.Join(dir, "spreadsent.yaml")
	write(t, configPath, "lexicons:\n"+
		"  senticnet: "+filepath.Join(dir, "senticnet.py")+"\n"+
		"  wordnet_dir: "+wnDir+"\n"+
		"  sentiwordnet: "+filepath.Join(dir, "SentiWordNet_3.0.0.txt")+"\n"+
		"logging:\n  level: error\n"+extra)

	return dir, configPath
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// execute runs one subcommand under a fresh root with the given arguments.
func execute(t *testing.T, newCmd func(*GlobalOptions) *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var global GlobalOptions

	root := &cobra.Command{Use: "spreadsent", SilenceUsage: true, SilenceErrors: true}
	global.Register(root)

	sub := newCmd(&global)
	root.AddCommand(sub)

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{sub.Name()}, args...))

	err := root.Execute()

	return out.String(), err
}
