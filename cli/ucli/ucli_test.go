package ucli

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	urfave "github.com/urfave/cli/v2"
	"go.dedis.ch/dela-pool/cli"
)

func TestBuild(t *testing.T) {
	builder := NewBuilder("test", nil)
	app := builder.Build().(*urfave.App)

	app.Writer = io.Discard

	require.Equal(t, "test", app.Name)

	err := app.Run([]string{"test"})
	require.NoError(t, err)
}

func TestBuild_Env(t *testing.T) {
	var value string

	builder := NewBuilder("test-app", func(flags cli.Flags) error {
		value = flags.String("config-dir")
		return nil
	}, cli.StringFlag{Name: "config-dir", Value: "default"})

	app := builder.Build().(*urfave.App)
	require.Equal(t, []string{"TEST_APP_CONFIG_DIR"},
		app.Flags[0].(*urfave.StringFlag).EnvVars)

	require.NoError(t, app.Run([]string{"test-app"}))
	require.Equal(t, "default", value)

	t.Setenv("TEST_APP_CONFIG_DIR", "from-env")

	require.NoError(t, app.Run([]string{"test-app"}))
	require.Equal(t, "from-env", value)

	require.NoError(t, app.Run([]string{"test-app", "--config-dir", "from-flag"}))
	require.Equal(t, "from-flag", value)
}

func TestEnvName(t *testing.T) {
	require.Equal(t, "POOLD", envName("poold"))
	require.Equal(t, "A_B_C1", envName("a-b.c1"))
}

func TestBindEnv(t *testing.T) {
	flags := buildFlags([]cli.Flag{
		cli.StringFlag{}, cli.DurationFlag{}, cli.IntFlag{}, cli.BoolFlag{},
	})

	for _, f := range flags {
		bindEnv(f, "ENV")
	}

	require.Equal(t, []string{"ENV"}, flags[0].(*urfave.StringFlag).EnvVars)
	require.Equal(t, []string{"ENV"}, flags[1].(*urfave.DurationFlag).EnvVars)
	require.Equal(t, []string{"ENV"}, flags[2].(*urfave.IntFlag).EnvVars)
	require.Equal(t, []string{"ENV"}, flags[3].(*urfave.BoolFlag).EnvVars)
}

func TestSetCommand(t *testing.T) {
	builder := NewBuilder("test", nil)

	builder.SetCommand("first")
	builder.SetCommand("second")

	app := builder.Build().(*urfave.App)

	require.Len(t, app.Commands, 3)

	require.Equal(t, "first", app.Commands[0].Name)
	require.Equal(t, "second", app.Commands[1].Name)
	require.Equal(t, "help", app.Commands[2].Name)

}

func TestCommandBuilder(t *testing.T) {
	builder := NewBuilder("test", nil).(*Builder)
	cmd := builder.SetCommand("first")

	fakeAction := func(flags cli.Flags) error {
		return nil
	}

	cmd.SetAction(fakeAction)
	cmd.SetDescription("first action")
	cmd.SetFlags(cli.StringFlag{
		Name:     "arg",
		Usage:    "this is a test arg",
		Required: true,
		Value:    "default",
	})
	cmd.SetFlags(cli.BoolFlag{Name: "other"})

	sub := cmd.SetSubCommand("second")
	require.Equal(t, sub, cmd.SetSubCommand("second"))

	require.Len(t, builder.commands, 1)
	require.Len(t, builder.flags, 0)

	cmd2 := builder.commands[0]
	require.Len(t, cmd2.flags, 2)
	require.Len(t, cmd2.subcommands, 1)
}

func TestBuildFlags(t *testing.T) {
	in := []cli.Flag{
		cli.StringFlag{
			Name:     "name1",
			Usage:    "usage1",
			Required: true,
			Value:    "value1",
		},
		cli.DurationFlag{
			Name:     "name2",
			Usage:    "usage2",
			Required: true,
			Value:    time.Minute,
		},
		cli.IntFlag{
			Name:     "name3",
			Usage:    "usage3",
			Required: true,
			Value:    1,
		},
		cli.BoolFlag{
			Name:     "name4",
			Usage:    "usage4",
			Required: true,
			Value:    true,
		},
	}

	out := buildFlags(in)
	require.Len(t, out, 4)

	require.Equal(t, "name1", out[0].Names()[0])
	require.Equal(t, time.Minute, out[1].(*urfave.DurationFlag).Value)
	require.Equal(t, 1, out[2].(*urfave.IntFlag).Value)
	require.True(t, out[3].(*urfave.BoolFlag).Required)
}

func TestBuildFlags_Panic(t *testing.T) {
	defer func() {
		r := recover()
		require.Equal(t, "flag type '<nil>' not supported", r)
	}()

	buildFlags([]cli.Flag{nil})
}

func TestMakeAction(t *testing.T) {
	res := makeAction(nil)
	require.Nil(t, res)

	isCalled := false
	fakeAction := func(flags cli.Flags) error {
		require.Nil(t, flags)
		isCalled = true
		return nil
	}

	res = makeAction(fakeAction)
	require.NotNil(t, res)

	out := res(nil)
	require.NoError(t, out)
	require.True(t, isCalled)
}
