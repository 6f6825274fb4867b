package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo/options"

	"blueshift/metadata"
	"blueshift/storage"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"ping", "drop"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not found: %v", name, err)
		}
	}
	if f := root.PersistentFlags().Lookup("env-prefix"); f == nil || f.DefValue != "BLUESHIFT" {
		t.Fatalf("unexpected env-prefix flag: %#v", f)
	}
}

func TestDropCommand_RequiresConfirmation(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"drop"})

	err := root.Execute()
	if err == nil || err.Error() != "refusing to drop without --yes" {
		t.Fatalf("expected confirmation error, got %v", err)
	}
}

func TestPingCommand_ConfigError(t *testing.T) {
	t.Setenv("BLUESHIFT_CLI_TEST_MONGO_URI", "")
	root := newRootCommand()
	root.SetArgs([]string{"ping", "--env-prefix", "BLUESHIFT_CLI_TEST"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected config validation error")
	}
}

type deadlineClient struct {
	name     string
	deadline time.Time
	hasDL    bool
}

func (c *deadlineClient) Database(string, ...*options.DatabaseOptions) storage.Database { return nil }
func (c *deadlineClient) DropDatabase(string) error                                  { return nil }

func (c *deadlineClient) DropDatabaseContext(ctx context.Context, name string) error {
	c.name = name
	c.deadline, c.hasDL = ctx.Deadline()
	return nil
}

func TestDropDatabase_AppliesOperationTimeout(t *testing.T) {
	model, err := metadata.NewBuilder().FromDatabase("zooDb").Build()
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	client := &deadlineClient{}
	conn, err := storage.NewConnection(client, model)
	if err != nil {
		t.Fatalf("new connection: %v", err)
	}

	start := time.Now()
	if err := dropDatabase(context.Background(), conn, 3*time.Second); err != nil {
		t.Fatalf("dropDatabase: %v", err)
	}
	if client.name != "zooDb" {
		t.Fatalf("dropped %q, want zooDb", client.name)
	}
	if !client.hasDL {
		t.Fatal("expected the drop context to carry the operation timeout")
	}
	if d := client.deadline.Sub(start); d <= 0 || d > 3*time.Second {
		t.Fatalf("unexpected deadline offset %v", d)
	}

	if err := dropDatabase(context.Background(), conn, 0); err != nil {
		t.Fatalf("dropDatabase: %v", err)
	}
	if client.hasDL {
		t.Fatal("zero timeout should leave the context without deadline")
	}
}
