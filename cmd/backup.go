package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/flowfinance"
	"github.com/etnz/flowfinance/config"
	"github.com/etnz/flowfinance/gcs"
	"github.com/etnz/flowfinance/logger"
	"github.com/google/subcommands"
)

// openBucket connects to the Cloud Storage bucket 'name'.
var openBucket = func(ctx context.Context, cfg config.BackupConfig, name string) (gcs.Bucket, func() error, error) {
	c, err := gcs.NewClient(ctx, cfg.Credentials)
	if err != nil {
		return nil, nil, err
	}
	return c.Bucket(name), c.Close, nil
}

type exportCmd struct {
	output string
	uri    string
	remote bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the whole state to a backup file" }
func (*exportCmd) Usage() string {
	return `flow export [-o <file> | -gcs gs://<bucket>/<object> | -remote]

  Writes a JSON backup of the transactions, templates, balances, goals and
  crypto holding. The default file name is flowfinance_backup_<date>.json.
  Use -o - to write to the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file.")
	f.StringVar(&c.uri, "gcs", "", "Upload to this Cloud Storage object, a trailing / appends the default file name.")
	f.BoolVar(&c.remote, "remote", false, "Upload to the configured backup bucket.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	n := 0
	for _, set := range []bool{c.output != "", c.uri != "", c.remote} {
		if set {
			n++
		}
	}
	if n > 1 {
		return usageError("-o, -gcs and -remote are exclusive")
	}
	if c.uri != "" {
		if _, _, err := gcs.ParseURI(c.uri); err != nil {
			return usageError("%v", err)
		}
	}

	return withEnv(ctx, func(ctx context.Context, e *env) error {
		var buf bytes.Buffer
		if err := flowfinance.ExportBackup(&buf, e.app.Snapshot(), time.Now()); err != nil {
			return err
		}
		name := flowfinance.BackupFileName(e.app.Today())

		uri := c.uri
		if c.remote {
			if e.cfg.Backup.Bucket == "" {
				return errors.New("no backup bucket configured, set backup.bucket")
			}
			uri = "gs://" + e.cfg.Backup.Bucket + "/"
		}
		if uri == "" {
			return writeBackup(c.output, name, buf.Bytes())
		}

		bucket, object, err := gcs.ParseURI(uri)
		if err != nil {
			return err
		}
		if object == "" || strings.HasSuffix(object, "/") {
			object += name
		}
		b, closeBucket, err := openBucket(ctx, e.cfg.Backup, bucket)
		if err != nil {
			return err
		}
		defer closeBucket()
		size, err := gcs.Upload(ctx, b, object, &buf)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Debug().Str("bucket", bucket).Str("object", object).Int64("bytes", size).Msg("backup uploaded")
		fmt.Fprintf(stdout, "Exported to gs://%s/%s\n", bucket, object)
		return nil
	})
}

// writeBackup writes data to the file 'output', stdout for "-", or 'name' if empty.
func writeBackup(output, name string, data []byte) error {
	switch output {
	case "-":
		_, err := stdout.Write(data)
		return err
	case "":
		output = name
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported to %s\n", output)
	return nil
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "restore a backup file" }
func (*importCmd) Usage() string {
	return `flow import <file | gs://<bucket>/<object>>

  Replaces the whole state with the content of a backup. Nothing changes if
  the backup is invalid.
`
}

func (*importCmd) SetFlags(*flag.FlagSet) {}

func (*importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one backup file")
	}
	source := f.Arg(0)
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		data, err := readBackup(ctx, e, source)
		if err != nil {
			return err
		}
		b, err := flowfinance.ImportBackup(bytes.NewReader(data))
		if err != nil {
			return err
		}
		if err := e.app.Replace(ctx, b); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Imported %d transactions and %d goals from %s\n", len(b.Transactions), len(b.Goals), source)
		return nil
	})
}

// readBackup reads a local file or a gs:// object.
func readBackup(ctx context.Context, e *env, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "gs://") {
		return os.ReadFile(source)
	}
	bucket, object, err := gcs.ParseURI(source)
	if err != nil {
		return nil, err
	}
	b, closeBucket, err := openBucket(ctx, e.cfg.Backup, bucket)
	if err != nil {
		return nil, err
	}
	defer closeBucket()
	return gcs.Fetch(ctx, b, object)
}

type resetCmd struct {
	force bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete all the data" }
func (*resetCmd) Usage() string {
	return `flow reset -force

  Deletes every transaction, template, balance, goal and the crypto holding.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Confirm the deletion.")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.force {
		return usageError("reset deletes all the data, confirm with -force")
	}
	return withEnv(ctx, func(ctx context.Context, e *env) error {
		if err := e.app.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "All data deleted")
		return nil
	})
}
