package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/craftbook/internal/core/api"
	"github.com/solatis/craftbook/internal/logic"
)

const (
	meatJerkyNumeric = "!PID_MEAT_JERKY@Meat dried over a fire pit.@0 0 1 0 1 217 1 100 1 0 2 1440 125 2 4 1 2 0 0 1 3979 1 1 1 0 2 284 542 2 3 1 script"
	plainRecord      = "PID_PLAIN@@@@A 1|B 2&C 3@@OUT 1@exp 5"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

// writeLST writes names at their identifier's line.
func writeLST(t *testing.T, path string, names map[int]string) {
	t.Helper()
	last := 0
	for id := range names {
		last = max(last, id)
	}
	lines := make([]string, last+1)
	for id, name := range names {
		lines[id] = name
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
}

func TestTreeCommand(t *testing.T) {
	out, err := execute(t, "tree", "A 1 | B 2 & C 3")
	require.NoError(t, err)

	first, rest, _ := strings.Cut(out, "\n")
	require.Equal(t, "(A: 1 or B: 2) and C: 3", first)

	var got structpb.Value
	require.NoError(t, protojson.Unmarshal([]byte(rest), &got))
	want := api.TreeValue(logic.ToTree(logic.Single("A", 1).Or("B", 2).And("C", 3)))
	require.Empty(t, cmp.Diff(want, &got, protocmp.Transform()))
}

func TestTreeCommand_InvalidExpression(t *testing.T) {
	_, err := execute(t, "tree", "A 1 &")
	require.ErrorContains(t, err, "invalid expression")
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	recipes := filepath.Join(dir, "recipes.txt")
	require.NoError(t, os.WriteFile(recipes, []byte(meatJerkyNumeric+"\n"+plainRecord+"\n"), 0o644))
	writeLST(t, filepath.Join(dir, "ParamNames.lst"), map[int]string{217: "SK_OUTDOORSMAN"})
	writeLST(t, filepath.Join(dir, "ItemNames.lst"), map[int]string{
		125:  "PID_SPIRIT",
		284:  "PID_MEAT_JERKY",
		542:  "PID_BOTTLE_GLASS",
		1440: "PID_RAD_MEAT",
		3979: "PID_FIREPLACE_TOKEN",
	})

	out, err := execute(t, "render", recipes, "--numeric", "--lst-dir", dir)
	require.NoError(t, err)

	want := "#1 PID_MEAT_JERKY\n" +
		"  craft: SK_OUTDOORSMAN: 100\n" +
		"  ingredients: PID_RAD_MEAT: 4 and PID_SPIRIT: 1\n" +
		"  tools: PID_FIREPLACE_TOKEN: 1\n" +
		"  output: PID_MEAT_JERKY: 3 and PID_BOTTLE_GLASS: 1\n" +
		"  effect: script\n" +
		"#2 PID_PLAIN\n" +
		"  ingredients: (A: 1 or B: 2) and C: 3\n" +
		"  output: OUT: 1\n" +
		"  effect: exp 5\n"
	require.Equal(t, want, out)
}

func TestRenderCommand_UnknownIdentifier(t *testing.T) {
	dir := t.TempDir()
	recipes := filepath.Join(dir, "recipes.txt")
	require.NoError(t, os.WriteFile(recipes, []byte(meatJerkyNumeric+"\n"), 0o644))
	writeLST(t, filepath.Join(dir, "ItemNames.lst"), map[int]string{125: "PID_SPIRIT"})

	_, err := execute(t, "render", recipes, "--numeric", "--lst-dir", dir)
	require.ErrorContains(t, err, "recipe #1")
}

func TestCheckCommand(t *testing.T) {
	recipes := filepath.Join(t.TempDir(), "recipes.txt")
	hidden := "PID_HIDDEN@@SK_LUCK 5@@A 1@@OUT 1@exp 1"
	require.NoError(t, os.WriteFile(recipes, []byte(plainRecord+"\n"+hidden+"\n"), 0o644))

	out, err := execute(t, "check", recipes, "--param", "SK_LUCK=1", "--item", "B=2", "--item", "C=1")
	require.NoError(t, err)
	want := "#1 PID_PLAIN: missing\n" +
		"  ingredients: C: 3\n" +
		"#2 PID_HIDDEN: hidden\n" +
		"  see: SK_LUCK: 5\n" +
		"  ingredients: A: 1\n"
	require.Equal(t, want, out)

	out, err = execute(t, "check", recipes, "--param", "SK_LUCK=1", "--item", "B=2", "--item", "C=3", "--craftable")
	require.NoError(t, err)
	require.Equal(t, "#1 PID_PLAIN: craftable\n", out)
}

func TestCheckCommand_AmountOutOfRange(t *testing.T) {
	recipes := filepath.Join(t.TempDir(), "recipes.txt")
	require.NoError(t, os.WriteFile(recipes, []byte(plainRecord+"\n"), 0o644))

	for _, amount := range []string{"A=-1", "A=4294967296"} {
		t.Run(amount, func(t *testing.T) {
			_, err := execute(t, "check", recipes, "--item", amount)
			require.ErrorContains(t, err, "amount must be between 0 and 4294967295")
		})
	}
}

func TestDictCommands(t *testing.T) {
	dir := t.TempDir()
	url := "sqlite://" + filepath.Join(dir, "dict.db")
	lst := filepath.Join(dir, "ItemNames.lst")
	writeLST(t, lst, map[int]string{284: "PID_MEAT_JERKY"})

	_, err := execute(t, "dict", "import", "item", lst, "--db-url", url)
	require.ErrorContains(t, err, "run 'craftbook migrate' first")

	_, err = execute(t, "migrate", "--db-url", url)
	require.NoError(t, err)

	out, err := execute(t, "dict", "import", "item", lst, "--db-url", url)
	require.NoError(t, err)
	require.Contains(t, out, "imported 1 item names")

	out, err = execute(t, "dict", "lookup", "item", "284", "--db-url", url)
	require.NoError(t, err)
	require.Equal(t, "PID_MEAT_JERKY\n", out)

	out, err = execute(t, "dict", "lookup", "item", "PID_MEAT_JERKY", "--db-url", url)
	require.NoError(t, err)
	require.Equal(t, "284\n", out)
}
