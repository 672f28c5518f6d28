// Command gymctl manages the training store from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"gymnotes/training-tracker/internal/app"
	"gymnotes/training-tracker/internal/config"
	"gymnotes/training-tracker/internal/exporter"
	"gymnotes/training-tracker/internal/service"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
)

const usage = `usage: gymctl <command> [flags]

commands:
  list                          print every training
  import <file>                 import a .xlsx, .csv or JSON file
  export [-format xlsx|json] [-o file]
                                write every training to a file
  publish [-format xlsx|json]   upload an export and print a download link
  hash-password <password>      print a bcrypt hash for auth.password_hash
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string, out io.Writer) error {
	if cmd == "hash-password" {
		if len(args) != 1 {
			return errors.New("hash-password takes exactly one argument")
		}
		hash, err := service.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hash)
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: Could not read .env: %v", err)
	}
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "list":
		return listTrainings(ctx, a, out)
	case "import":
		return importFile(ctx, a, args, out)
	case "export":
		return exportFile(ctx, a, args, out)
	case "publish":
		return publish(ctx, a, args, out)
	}
	return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
}

func listTrainings(ctx context.Context, a *app.App, out io.Writer) error {
	trainings, err := a.Trainings.FetchTrainings(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tEXERCISES")
	for i, row := range exporter.SummaryRows(trainings, a.Config.Export.DateLayout) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", trainings[i].ID, row.Name, row.Date, row.Exercises)
	}
	return tw.Flush()
}

func importFile(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("import takes exactly one file")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := a.Imports.ImportFile(ctx, args[0], f)
	if err != nil {
		return err
	}
	for _, r := range report.Results {
		line := fmt.Sprintf("%3d  %-8s %s", r.Index, r.Status, r.Name)
		if r.Error != "" {
			line += ": " + r.Error
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%d created, %d skipped, %d failed\n", report.Created, report.Skipped, report.Failed)
	return nil
}

func exportFile(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	formatFlag := fs.String("format", "xlsx", "xlsx or json")
	output := fs.String("o", "", "output file (default treinos.<format>)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := service.ParseExportFormat(*formatFlag)
	if err != nil {
		return err
	}
	path := *output
	if path == "" {
		path = format.FileName()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Exports.Export(ctx, format, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func publish(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	formatFlag := fs.String("format", "xlsx", "xlsx or json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := service.ParseExportFormat(*formatFlag)
	if err != nil {
		return err
	}
	published, err := a.Exports.Publish(ctx, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n(expires %s)\n", published.URL, published.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}
